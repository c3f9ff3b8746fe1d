package templates

import (
	"encoding/json"
	"net/url"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

// Form keys carried by every action request next to the field values.
const (
	ValPath    = "_path"
	ValSession = "_session"
	ValRow     = "_row"
)

const (
	actionsPrefix   = "/app/actions"
	fragmentsPrefix = "/app/fragments"
	editorPrefix    = "/admin/editor"

	// StatusResetURL answers with nothing, clearing an expired status.
	StatusResetURL = actionsPrefix + "/status"

	// RefreshEvent reloads data-bound components; the status reset fires it
	// when called with RefreshQuery set.
	RefreshEvent = "admini:refresh"
	RefreshQuery = "refresh"
)

// ButtonActionURL is the endpoint of an api button.
func ButtonActionURL(pageID, componentID string) string {
	return actionsPrefix + "/button/" + url.PathEscape(pageID) + "/" + url.PathEscape(componentID)
}

// RowActionURL is the endpoint of an api row action.
func RowActionURL(pageID, componentID, actionID string) string {
	return actionsPrefix + "/row/" + url.PathEscape(pageID) + "/" + url.PathEscape(componentID) + "/" + url.PathEscape(actionID)
}

// FormActionURL is the submission endpoint of a form or form_container.
func FormActionURL(pageID, componentID string) string {
	return actionsPrefix + "/form/" + url.PathEscape(pageID) + "/" + url.PathEscape(componentID)
}

// FragmentURL re-renders one data-bound component.
func FragmentURL(pageID, componentID string) string {
	return fragmentsPrefix + "/" + url.PathEscape(pageID) + "/" + url.PathEscape(componentID)
}

// PropertiesURL loads the properties panel for a component.
func PropertiesURL(pageID, componentID string) string {
	return editorPrefix + "/" + url.PathEscape(pageID) + "/properties/" + url.PathEscape(componentID)
}

// EditorURL is the editor page of a page definition.
func EditorURL(pageID string) string {
	return editorPrefix + "/" + url.PathEscape(pageID)
}

// CanvasURL re-renders the editor canvas.
func CanvasURL(pageID string) string {
	return EditorURL(pageID) + "/canvas"
}

// ComponentsURL inserts a palette component.
func ComponentsURL(pageID string) string {
	return EditorURL(pageID) + "/components"
}

// ComponentURL patches (POST) or deletes (DELETE) a component.
func ComponentURL(pageID, componentID string) string {
	return ComponentsURL(pageID) + "/" + url.PathEscape(componentID)
}

// MoveComponentURL reparents a component.
func MoveComponentURL(pageID, componentID string) string {
	return ComponentURL(pageID, componentID) + "/move"
}

// EditorSocketURL is the live reload websocket of an editor page.
func EditorSocketURL(pageID string) string {
	return EditorURL(pageID) + "/ws"
}

// StatusTargetID is the DOM id that receives a component's action status.
func StatusTargetID(componentID string) string {
	return "status-" + componentID
}

// actionVals encodes the hx-vals payload that lets the action endpoint
// re-match the route and reuse the page session.
func actionVals(ctx *rendering.RenderContext, extra map[string]string) string {
	vals := map[string]string{
		ValPath:    ctx.Path,
		ValSession: ctx.SessionID,
	}
	for k, v := range extra {
		vals[k] = v
	}
	encoded, err := json.Marshal(vals)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func pageID(ctx *rendering.RenderContext) string {
	if ctx == nil || ctx.Page == nil {
		return ""
	}
	return ctx.Page.ID
}
