package templates

import (
	"strconv"
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

// LayoutRenderer renders the structural components
type LayoutRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewLayoutRenderer creates a new layout renderer
func NewLayoutRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *LayoutRenderer {
	return &LayoutRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// Render renders a container or an N-column grid. Grid cells flow in
// order, so child i lands in column i mod N.
func (lr *LayoutRenderer) Render(node content.ComponentNode) string {
	var html strings.Builder
	if columns := node.Type.ColumnCount(); columns > 0 {
		html.WriteString(`<div class="grid grid-cols-1 md:grid-cols-` + strconv.Itoa(columns) + ` gap-6 my-4">`)
	} else {
		html.WriteString(`<div class="p-4 border rounded-lg my-4">`)
	}
	html.WriteString(lr.nodeRenderer.RenderChildren(node.Children))
	html.WriteString(`</div>`)
	return html.String()
}
