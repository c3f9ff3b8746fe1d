// Package rendering provides domain entities for HTML rendering operations
package rendering

import (
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
)

// Mode selects between the editable preview and the live page.
type Mode string

const (
	ModeDesign    Mode = "design"
	ModePublished Mode = "published"
)

// PageState is the published page lifecycle; no subtree renders before Ready.
type PageState string

const (
	PageInitializing PageState = "initializing"
	PageReady        PageState = "ready"
)

// ActionStatus is the transient status of an api button, row action or form.
type ActionStatus string

const (
	StatusIdle    ActionStatus = "idle"
	StatusLoading ActionStatus = "loading"
	StatusSuccess ActionStatus = "success"
	StatusError   ActionStatus = "error"
)

// Binding is the outcome of one component's data fetch.
type Binding struct {
	Data  any    // decoded JSON body, nil when the body was not JSON
	Raw   []byte // raw response body
	Err   error
	Found bool // false when the component references no known API
}

// RenderContext carries everything a renderer needs for one page.
type RenderContext struct {
	Mode       Mode
	State      PageState
	Page       *content.PageDefinition
	APIs       []content.ApiDefinition
	Pages      []content.PageDefinition
	Params     *ParameterMap
	Path       string // request path the page was matched on
	SessionID  string // page-load session holding the auth token
	SelectedID string // design mode selection

	// Bindings maps component id to its prefetched response.
	Bindings map[string]*Binding

	// StatusWindowMillis is how long action statuses stay visible.
	StatusWindowMillis int64
	TrustEmbedMarkup   bool
}

// BindingFor returns the prefetched response for a component.
func (c *RenderContext) BindingFor(id string) (*Binding, bool) {
	if c == nil || c.Bindings == nil {
		return nil, false
	}
	b, ok := c.Bindings[id]
	return b, ok
}

// IsDesign reports whether the context renders the editable preview.
func (c *RenderContext) IsDesign() bool {
	return c != nil && c.Mode == ModeDesign
}

// RowAction is one per-row action of a table.
type RowAction struct {
	ID           string            `json:"id"`
	Label        string            `json:"label"`
	Variant      string            `json:"variant"`
	Action       string            `json:"action"` // navigate | api
	TargetPageID string            `json:"targetPageId,omitempty"`
	NavParams    map[string]string `json:"navParams,omitempty"`
	ApiID        string            `json:"apiId,omitempty"`
}

const (
	ActionNavigate = "navigate"
	ActionAPI      = "api"
	ActionBack     = "back"
)
