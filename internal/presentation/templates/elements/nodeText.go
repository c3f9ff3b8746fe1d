package templates

import (
	"html/template"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

// nodeTextTmpl escapes text content and image attributes.
var nodeTextTmpl = template.Must(template.New("nodeText").Parse(
	`{{define "text"}}<div class="prose max-w-none my-4">{{.}}</div>{{end}}` +
		`{{define "img"}}<img src="{{.Src}}" alt="{{.Alt}}" class="max-w-full h-auto rounded-lg my-4">{{end}}`,
))

// NodeTextRenderer renders text and image components
type NodeTextRenderer struct {
	ctx *rendering.RenderContext
}

// NewNodeTextRenderer creates a new node text renderer
func NewNodeTextRenderer(ctx *rendering.RenderContext) *NodeTextRenderer {
	return &NodeTextRenderer{ctx: ctx}
}

// Render renders props.content as plain text.
func (ntr *NodeTextRenderer) Render(node content.ComponentNode) string {
	return execute(nodeTextTmpl, "text", services.PropString(node.Props, "content"))
}

// RenderImage renders props.src with the label as alt text.
func (ntr *NodeTextRenderer) RenderImage(node content.ComponentNode) string {
	return execute(nodeTextTmpl, "img", struct{ Src, Alt string }{
		Src: services.PropString(node.Props, "src"),
		Alt: node.Label,
	})
}
