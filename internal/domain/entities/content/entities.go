// Package content defines the application's core content-related domain entities.
package content

import "strings"

// ComponentType is the closed set of component variants a page can hold.
type ComponentType string

const (
	ComponentTable             ComponentType = "table"
	ComponentDetail            ComponentType = "detail"
	ComponentForm              ComponentType = "form"
	ComponentText              ComponentType = "text"
	ComponentButton            ComponentType = "button"
	ComponentImage             ComponentType = "image"
	ComponentPDF               ComponentType = "pdf"
	ComponentIframe            ComponentType = "iframe"
	ComponentContainer         ComponentType = "container"
	ComponentFormContainer     ComponentType = "form_container"
	ComponentLayout2Col        ComponentType = "layout_2col"
	ComponentLayout3Col        ComponentType = "layout_3col"
	ComponentFormText          ComponentType = "form_text"
	ComponentFormPassword      ComponentType = "form_password"
	ComponentFormCheckbox      ComponentType = "form_checkbox"
	ComponentFormMultiCheckbox ComponentType = "form_multi_checkbox"
	ComponentFormRadio         ComponentType = "form_radio"
	ComponentFormSelect        ComponentType = "form_select"
	ComponentFormFile          ComponentType = "form_file"
)

// ComponentTypes lists every variant in palette order.
var ComponentTypes = []ComponentType{
	ComponentTable, ComponentDetail, ComponentForm, ComponentText, ComponentButton,
	ComponentImage, ComponentPDF, ComponentIframe, ComponentContainer,
	ComponentFormContainer, ComponentLayout2Col, ComponentLayout3Col,
	ComponentFormText, ComponentFormPassword, ComponentFormCheckbox,
	ComponentFormMultiCheckbox, ComponentFormRadio, ComponentFormSelect, ComponentFormFile,
}

// Valid reports whether t is one of the known variants.
func (t ComponentType) Valid() bool {
	for _, known := range ComponentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsContainer reports whether nodes of this type may hold children.
func (t ComponentType) IsContainer() bool {
	switch t {
	case ComponentContainer, ComponentFormContainer, ComponentLayout2Col, ComponentLayout3Col:
		return true
	}
	return false
}

// ColumnCount is 2 or 3 for layouts and 0 for everything else.
func (t ComponentType) ColumnCount() int {
	switch t {
	case ComponentLayout2Col:
		return 2
	case ComponentLayout3Col:
		return 3
	}
	return 0
}

// IsFormField reports whether the type is one of the form_* inputs.
func (t ComponentType) IsFormField() bool {
	return strings.HasPrefix(string(t), "form_") && t != ComponentFormContainer
}

// FieldKind is the input kind of a form_* type ("text", "file", ...).
func (t ComponentType) FieldKind() string {
	return strings.TrimPrefix(string(t), "form_")
}

// IsDataBound reports whether the published renderer fetches data for the type.
func (t ComponentType) IsDataBound() bool {
	return t == ComponentTable || t == ComponentDetail
}

// ComponentNode is one node of a page's component tree.
type ComponentNode struct {
	ID       string          `json:"id"`
	Type     ComponentType   `json:"type"`
	Label    string          `json:"label,omitempty"`
	ApiID    string          `json:"apiId,omitempty"`
	Props    map[string]any  `json:"props"`
	Children []ComponentNode `json:"children,omitempty"`
}

// Clone returns a deep copy of the node and its subtree.
func (n ComponentNode) Clone() ComponentNode {
	out := n
	out.Props = cloneProps(n.Props)
	if n.Children != nil {
		out.Children = CloneComponents(n.Children)
	}
	return out
}

// CloneComponents deep-copies a component slice.
func CloneComponents(nodes []ComponentNode) []ComponentNode {
	if nodes == nil {
		return nil
	}
	out := make([]ComponentNode, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}

func cloneProps(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneProps(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// PageDefinition is a routable page.
type PageDefinition struct {
	ID         string          `json:"id"`
	Slug       string          `json:"slug"`
	Name       string          `json:"name"`
	Components []ComponentNode `json:"components"`
}

// IsDynamic reports whether the slug holds at least one capture segment.
func (p PageDefinition) IsDynamic() bool {
	return strings.Contains(p.Slug, ":")
}

// Clone returns a deep copy of the page.
func (p PageDefinition) Clone() PageDefinition {
	out := p
	out.Components = CloneComponents(p.Components)
	if out.Components == nil {
		out.Components = []ComponentNode{}
	}
	return out
}

// HttpMethod is the outbound request method of an API definition.
type HttpMethod string

const (
	MethodGet    HttpMethod = "GET"
	MethodPost   HttpMethod = "POST"
	MethodPut    HttpMethod = "PUT"
	MethodPatch  HttpMethod = "PATCH"
	MethodDelete HttpMethod = "DELETE"
)

// AllowsBody reports whether requests of this method carry a body.
func (m HttpMethod) AllowsBody() bool {
	switch HttpMethod(strings.ToUpper(string(m))) {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

// ApiHeader is one configured request header.
type ApiHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ApiDefinition describes an outbound HTTP endpoint as request templates.
type ApiDefinition struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	URL       string      `json:"url"`
	Method    HttpMethod  `json:"method"`
	Headers   []ApiHeader `json:"headers"`
	Body      string      `json:"body,omitempty"`
	IsAuth    bool        `json:"isAuth,omitempty"`
	TokenPath string      `json:"tokenPath,omitempty"`
}

// SidebarItemType distinguishes sections from links.
type SidebarItemType string

const (
	SidebarSection SidebarItemType = "section"
	SidebarLink    SidebarItemType = "link"
)

// SidebarItem is a navigation entry; sections hold links.
type SidebarItem struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Type     SidebarItemType `json:"type"`
	PageID   string          `json:"pageId,omitempty"`
	Children []SidebarItem   `json:"children,omitempty"`
}

// User is an end-user account; Scopes are sidebar item ids.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     string   `json:"email,omitempty"`
	Scopes    []string `json:"scopes"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// HasScope reports whether the user may see the sidebar item id.
func (u User) HasScope(id string) bool {
	for _, s := range u.Scopes {
		if s == id {
			return true
		}
	}
	return false
}

// Theme is the published UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings holds app-wide presentation settings.
type Settings struct {
	Theme    Theme  `json:"theme"`
	AppTitle string `json:"appTitle"`
	AppIcon  string `json:"appIcon,omitempty"`
}

// Document is the whole persisted application state.
type Document struct {
	APIs     []ApiDefinition  `json:"apis"`
	Pages    []PageDefinition `json:"pages"`
	Sidebar  []SidebarItem    `json:"sidebar"`
	Users    []User           `json:"users"`
	Settings Settings         `json:"settings"`
}

const (
	DefaultAppTitle = "Admini"
	DefaultUserID   = "default-admin"
)

// NewDocument returns the state used when nothing has been persisted yet.
func NewDocument() *Document {
	return &Document{
		APIs:    []ApiDefinition{},
		Pages:   []PageDefinition{},
		Sidebar: []SidebarItem{},
		Users:   []User{},
		Settings: Settings{
			Theme:    ThemeLight,
			AppTitle: DefaultAppTitle,
		},
	}
}

// DefaultUser is seeded when a document has no users.
func DefaultUser() User {
	return User{
		ID:       DefaultUserID,
		Username: "admin",
		Password: "password",
		Email:    "admin@example.com",
		Scopes:   []string{},
	}
}

// Normalize fills nil collections and empty settings so the document always
// serializes with every key present.
func (d *Document) Normalize() {
	if d.APIs == nil {
		d.APIs = []ApiDefinition{}
	}
	if d.Pages == nil {
		d.Pages = []PageDefinition{}
	}
	for i := range d.Pages {
		if d.Pages[i].Components == nil {
			d.Pages[i].Components = []ComponentNode{}
		}
	}
	if d.Sidebar == nil {
		d.Sidebar = []SidebarItem{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Settings.Theme == "" {
		d.Settings.Theme = ThemeLight
	}
	if d.Settings.AppTitle == "" {
		d.Settings.AppTitle = DefaultAppTitle
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Settings: d.Settings}
	out.APIs = make([]ApiDefinition, len(d.APIs))
	for i, api := range d.APIs {
		api.Headers = append([]ApiHeader(nil), api.Headers...)
		out.APIs[i] = api
	}
	out.Pages = make([]PageDefinition, len(d.Pages))
	for i, p := range d.Pages {
		out.Pages[i] = p.Clone()
	}
	out.Sidebar = cloneSidebar(d.Sidebar)
	out.Users = make([]User, len(d.Users))
	for i, u := range d.Users {
		u.Scopes = append([]string{}, u.Scopes...)
		out.Users[i] = u
	}
	return out
}

func cloneSidebar(items []SidebarItem) []SidebarItem {
	out := make([]SidebarItem, len(items))
	for i, item := range items {
		if item.Children != nil {
			item.Children = cloneSidebar(item.Children)
		}
		out[i] = item
	}
	return out
}

// FindAPI returns the API with the given id.
func (d *Document) FindAPI(id string) (*ApiDefinition, bool) {
	return FindAPI(d.APIs, id)
}

// FindPage returns the page with the given id.
func (d *Document) FindPage(id string) (*PageDefinition, bool) {
	for i := range d.Pages {
		if d.Pages[i].ID == id {
			return &d.Pages[i], true
		}
	}
	return nil, false
}

// FindUser returns the user with the given id.
func (d *Document) FindUser(id string) (*User, bool) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// FindAPI looks up an API definition by id in a catalog.
func FindAPI(apis []ApiDefinition, id string) (*ApiDefinition, bool) {
	if id == "" {
		return nil, false
	}
	for i := range apis {
		if apis[i].ID == id {
			return &apis[i], true
		}
	}
	return nil, false
}

// AuthAPI returns the first API flagged isAuth.
func AuthAPI(apis []ApiDefinition) (*ApiDefinition, bool) {
	for i := range apis {
		if apis[i].IsAuth {
			return &apis[i], true
		}
	}
	return nil, false
}
