// Package templates provides per-component HTML renderers
package templates

import (
	"bytes"
	"html/template"
	"log"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

// NodeRenderer interface for child node rendering
type NodeRenderer interface {
	RenderNode(node content.ComponentNode) string
	RenderChildren(nodes []content.ComponentNode) string

	// Form is the aggregator of the enclosing form_container, or nil.
	Form() *services.FormAggregator
	// WithForm returns a renderer whose descendants register into form.
	WithForm(form *services.FormAggregator) NodeRenderer
}

// execute runs a named snippet of a pre-parsed template set.
func execute(tmpl *template.Template, name string, data any) string {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("ERROR: Failed to execute %s template: %v", name, err)
		return `<!-- error rendering ` + name + ` -->`
	}
	return buf.String()
}

// labelOr is the node's label, or def when it has none.
func labelOr(node content.ComponentNode, def string) string {
	if node.Label != "" {
		return node.Label
	}
	return def
}
