package templates

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

var detailTmpl = template.Must(template.New("detail").Parse(
	`{{define "open"}}<div class="` + cardClasses + `"><div class="` + cardHeaderClasses + `"><h3 class="` + cardTitleClasses + `">{{.}}</h3></div><div class="px-6 py-4">{{end}}` +
		`{{define "term"}}<dt class="text-sm font-medium text-gray-500 capitalize">{{.}}</dt>{{end}}` +
		`{{define "value"}}<dd class="mt-1 text-sm text-gray-900">{{.}}</dd>{{end}}` +
		`{{define "item"}}<li>{{.}}</li>{{end}}` +
		`{{define "field"}}<div class="sm:col-span-1"><dt class="text-sm font-medium text-gray-500 capitalize">{{.Key}}</dt><dd class="mt-1 text-sm text-gray-900">{{.Value}}</dd></div>{{end}}`,
))

// DetailRenderer renders one record, or one value of it
type DetailRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewDetailRenderer creates a new detail renderer
func NewDetailRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *DetailRenderer {
	return &DetailRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// Render renders the detail view from its prefetched binding.
func (dr *DetailRenderer) Render(node content.ComponentNode) string {
	binding, placeholder := bindingOf(dr.ctx, node, LoadingDetailText)
	if binding == nil {
		return refreshable(dr.ctx, node, placeholder)
	}

	var html strings.Builder
	html.WriteString(execute(detailTmpl, "open", labelOr(node, "Details")))
	if services.PropString(node.Props, "displayMode") == "single" {
		html.WriteString(dr.renderSingle(node, binding.Data))
	} else {
		html.WriteString(dr.renderFields(binding))
	}
	html.WriteString(`</div></div>`)
	return refreshable(dr.ctx, node, html.String())
}

func (dr *DetailRenderer) renderSingle(node content.ComponentNode, data any) string {
	path := services.PropString(node.Props, "jsonPath")
	term := path
	if term == "" {
		term = "Value"
	}

	var html strings.Builder
	html.WriteString(`<div>`)
	html.WriteString(execute(detailTmpl, "term", term))

	// Without a path there is no single value to show.
	var value any
	if path != "" {
		value, _ = services.ExtractJSONPath(data, path)
	}
	items, isList := value.([]any)
	if !isList {
		html.WriteString(execute(detailTmpl, "value", services.FormatValue(value)))
		html.WriteString(`</div>`)
		return html.String()
	}

	itemPath := services.PropString(node.Props, "listItemPath")
	html.WriteString(`<dd class="mt-1 text-sm text-gray-900"><ul class="list-disc list-inside space-y-1">`)
	for _, item := range items {
		display := item
		if itemPath != "" {
			display, _ = services.ExtractJSONPath(item, itemPath)
		}
		html.WriteString(execute(detailTmpl, "item", services.FormatValue(display)))
	}
	html.WriteString(`</ul></dd></div>`)
	return html.String()
}

func (dr *DetailRenderer) renderFields(binding *rendering.Binding) string {
	var fields []services.Field
	if record, ok := services.DecodeRecord(binding.Raw); ok {
		fields = services.RecordFields(record)
	} else if list, ok := binding.Data.([]any); ok {
		for i, v := range list {
			fields = append(fields, services.Field{Key: strconv.Itoa(i), Value: v})
		}
	}

	var html strings.Builder
	html.WriteString(`<dl class="grid grid-cols-1 gap-x-4 gap-y-6 sm:grid-cols-2">`)
	for _, field := range fields {
		html.WriteString(execute(detailTmpl, "field", struct{ Key, Value string }{field.Key, services.FormatValue(field.Value)}))
	}
	html.WriteString(`</dl>`)
	return html.String()
}
