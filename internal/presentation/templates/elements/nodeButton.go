package templates

import (
	"html/template"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

// nodeButtonTmpl holds one snippet per button action. Using html/template
// escapes labels and rejects unsafe hrefs.
var nodeButtonTmpl = template.Must(template.New("nodeButton").Parse(
	`{{define "navigate"}}<a href="{{.Href}}" class="{{.Class}} inline-block">{{.Label}}</a>{{end}}` +
		`{{define "back"}}<button type="button" class="{{.Class}}" onclick="history.back()">{{.Label}}</button>{{end}}` +
		`{{define "api"}}<span class="inline-flex items-center"><button type="button" class="{{.Class}}" hx-post="{{.URL}}" hx-vals="{{.Vals}}" hx-target="#{{.Target}}" hx-swap="innerHTML" hx-disabled-elt="this"><span class="admini-label">{{.Label}}</span><span class="htmx-indicator">Loading...</span></button><span id="{{.Target}}"></span></span>{{end}}` +
		`{{define "inert"}}<button type="button" class="{{.Class}}">{{.Label}}</button>{{end}}`,
))

type nodeButtonData struct {
	Href   string
	URL    string
	Vals   string
	Target string
	Class  string
	Label  string
}

// NodeButtonRenderer renders button components
type NodeButtonRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewNodeButtonRenderer creates a new node button renderer
func NewNodeButtonRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *NodeButtonRenderer {
	return &NodeButtonRenderer{
		ctx:          ctx,
		nodeRenderer: nodeRenderer,
	}
}

// ButtonAction is the configured action, navigate when unset.
func ButtonAction(node content.ComponentNode) string {
	return services.PropStringDefault(node.Props, "action", rendering.ActionNavigate)
}

// Render renders the button for its action: a link for navigate, history
// back, or an htmx post answered by a self-clearing status.
func (nbr *NodeButtonRenderer) Render(node content.ComponentNode) string {
	data := nodeButtonData{
		Class: ButtonVariantClasses(services.PropStringDefault(node.Props, "variant", "primary")),
		Label: labelOr(node, "Button"),
	}

	switch ButtonAction(node) {
	case rendering.ActionBack:
		return execute(nodeButtonTmpl, "back", data)
	case rendering.ActionAPI:
		if _, ok := content.FindAPI(nbr.ctx.APIs, node.ApiID); !ok || nbr.ctx.Mode != rendering.ModePublished {
			return execute(nodeButtonTmpl, "inert", data)
		}
		data.URL = ButtonActionURL(pageID(nbr.ctx), node.ID)
		data.Vals = actionVals(nbr.ctx, nil)
		data.Target = StatusTargetID(node.ID)
		return execute(nodeButtonTmpl, "api", data)
	default:
		href, ok := services.ResolveNavigation(nbr.ctx.Pages,
			services.PropString(node.Props, "targetPageId"),
			services.PropStringMap(node.Props, "navParams"),
			nbr.ctx.Params)
		if !ok {
			return execute(nodeButtonTmpl, "inert", data)
		}
		data.Href = href
		return execute(nodeButtonTmpl, "navigate", data)
	}
}
