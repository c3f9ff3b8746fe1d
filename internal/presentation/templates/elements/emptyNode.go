package templates

import (
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

// EmptyNodeRenderer renders nodes of unknown type
type EmptyNodeRenderer struct {
	ctx *rendering.RenderContext
}

// NewEmptyNodeRenderer creates a new empty node renderer
func NewEmptyNodeRenderer(ctx *rendering.RenderContext) *EmptyNodeRenderer {
	return &EmptyNodeRenderer{ctx: ctx}
}

// Render returns an empty div carrying the component id.
func (enr *EmptyNodeRenderer) Render(node content.ComponentNode) string {
	if node.ID == "" || strings.ContainsAny(node.ID, `"<>&'`) {
		return RenderEmpty()
	}
	return `<div data-component-id="` + node.ID + `"></div>`
}

// RenderEmpty is a static method for quick empty node rendering
func RenderEmpty() string {
	return `<div></div>`
}
