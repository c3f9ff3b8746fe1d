package templates

import (
	"html/template"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

const (
	NoAPIText         = "No API connected"
	LoadingDataText   = "Loading data..."
	LoadingDetailText = "Loading details..."
	NoDataText        = "No data found"
)

var messageTmpl = template.Must(template.New("message").Parse(
	`{{define "warning"}}<div class="p-4 bg-yellow-50 text-yellow-700 rounded">{{.}}</div>{{end}}` +
		`{{define "muted"}}<div class="p-8 text-center text-gray-500">{{.}}</div>{{end}}` +
		`{{define "error"}}<div class="p-4 bg-red-50 text-red-700 rounded">Error: {{.}}</div>{{end}}` +
		`{{define "refreshable"}}<div id="component-{{.ID}}"{{if .URL}} hx-get="{{.URL}}" hx-vals="{{.Vals}}" hx-trigger="` + RefreshEvent + ` from:body" hx-swap="outerHTML" hx-sync="this:replace"{{end}}>{{.Body}}</div>{{end}}`,
))

type refreshableData struct {
	ID   string
	URL  string
	Vals string
	Body template.HTML
}

// bindingOf resolves the prefetched response of a data-bound node. When
// the node has nothing to show yet, placeholder holds the message markup.
func bindingOf(ctx *rendering.RenderContext, node content.ComponentNode, loadingText string) (binding *rendering.Binding, placeholder string) {
	b, ok := ctx.BindingFor(node.ID)
	if !ok {
		if _, known := content.FindAPI(ctx.APIs, node.ApiID); !known {
			return nil, execute(messageTmpl, "warning", NoAPIText)
		}
		return nil, execute(messageTmpl, "muted", loadingText)
	}
	if !b.Found {
		return nil, execute(messageTmpl, "warning", NoAPIText)
	}
	if b.Err != nil {
		return nil, execute(messageTmpl, "error", b.Err.Error())
	}
	return b, ""
}

// refreshable wraps a data-bound component so a refresh event re-renders
// it through the fragment endpoint; hx-sync drops superseded responses.
func refreshable(ctx *rendering.RenderContext, node content.ComponentNode, body string) string {
	data := refreshableData{ID: node.ID, Body: template.HTML(body)}
	if ctx.Page != nil && ctx.Mode == rendering.ModePublished {
		data.URL = FragmentURL(ctx.Page.ID, node.ID)
		data.Vals = actionVals(ctx, nil)
	}
	return execute(messageTmpl, "refreshable", data)
}
