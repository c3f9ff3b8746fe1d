// Package templates assembles component trees into page HTML
package templates

import (
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"

	elements "github.com/AtRiskMedia/admini-go/internal/presentation/templates/elements"
)

// NodeRendererImpl dispatches each component to its element renderer
type NodeRendererImpl struct {
	ctx  *rendering.RenderContext
	form *services.FormAggregator
}

// NewNodeRenderer creates a new node renderer with context
func NewNodeRenderer(ctx *rendering.RenderContext) *NodeRendererImpl {
	return &NodeRendererImpl{ctx: ctx}
}

// RenderTree renders a component forest with a fresh renderer.
func RenderTree(ctx *rendering.RenderContext, nodes []content.ComponentNode) string {
	return NewNodeRenderer(ctx).RenderChildren(nodes)
}

// RenderNode renders one component. In design mode every node is wrapped
// in its selectable preview instead.
func (nr *NodeRendererImpl) RenderNode(node content.ComponentNode) string {
	if !node.Type.Valid() {
		return elements.NewEmptyNodeRenderer(nr.ctx).Render(node)
	}
	if nr.ctx.IsDesign() {
		return elements.NewDesignRenderer(nr.ctx, nr).Render(node)
	}

	switch node.Type {
	case content.ComponentTable:
		return elements.NewTableRenderer(nr.ctx, nr).Render(node)
	case content.ComponentDetail:
		return elements.NewDetailRenderer(nr.ctx, nr).Render(node)
	case content.ComponentForm:
		return elements.NewFormRenderer(nr.ctx, nr).Render(node)
	case content.ComponentFormContainer:
		return elements.NewFormContainerRenderer(nr.ctx, nr).Render(node)
	case content.ComponentText:
		return elements.NewNodeTextRenderer(nr.ctx).Render(node)
	case content.ComponentImage:
		return elements.NewNodeTextRenderer(nr.ctx).RenderImage(node)
	case content.ComponentButton:
		return elements.NewNodeButtonRenderer(nr.ctx, nr).Render(node)
	case content.ComponentPDF:
		return elements.NewEmbedRenderer(nr.ctx, nr).RenderPDF(node)
	case content.ComponentIframe:
		return elements.NewEmbedRenderer(nr.ctx, nr).RenderIframe(node)
	case content.ComponentContainer, content.ComponentLayout2Col, content.ComponentLayout3Col:
		return elements.NewLayoutRenderer(nr.ctx, nr).Render(node)
	}

	if node.Type.IsFormField() {
		return elements.NewFormFieldRenderer(nr.ctx, nr).Render(node)
	}
	return elements.NewEmptyNodeRenderer(nr.ctx).Render(node)
}

// RenderChildren renders nodes in order.
func (nr *NodeRendererImpl) RenderChildren(nodes []content.ComponentNode) string {
	var html strings.Builder
	for _, node := range nodes {
		html.WriteString(nr.RenderNode(node))
	}
	return html.String()
}

// Form is the aggregator of the enclosing form container, if any.
func (nr *NodeRendererImpl) Form() *services.FormAggregator {
	return nr.form
}

// WithForm scopes descendants to form.
func (nr *NodeRendererImpl) WithForm(form *services.FormAggregator) elements.NodeRenderer {
	return &NodeRendererImpl{ctx: nr.ctx, form: form}
}
