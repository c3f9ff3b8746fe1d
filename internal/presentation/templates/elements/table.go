package templates

import (
	"encoding/json"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

var tableTmpl = template.Must(template.New("table").Parse(
	`{{define "open"}}<div class="` + cardClasses + `"><div class="` + cardHeaderClasses + `"><h3 class="` + cardTitleClasses + `">{{.}}</h3></div><div class="overflow-x-auto"><table class="min-w-full divide-y divide-gray-200">{{end}}` +
		`{{define "th"}}<th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">{{.}}</th>{{end}}` +
		`{{define "td"}}<td class="px-6 py-4 whitespace-nowrap text-sm text-gray-500">{{.}}</td>{{end}}` +
		`{{define "navAction"}}<a href="{{.Href}}" class="{{.Class}}">{{.Label}}</a>{{end}}` +
		`{{define "apiAction"}}<button type="button" class="{{.Class}}" hx-post="{{.URL}}" hx-vals="{{.Vals}}" hx-target="#{{.Target}}" hx-swap="innerHTML" hx-disabled-elt="this">{{.Label}}</button>{{end}}` +
		`{{define "status"}}<span id="{{.}}"></span>{{end}}`,
))

type rowActionData struct {
	Href   string
	URL    string
	Vals   string
	Target string
	Class  string
	Label  string
}

// TableRenderer renders a data table with optional per-row actions
type TableRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewTableRenderer creates a new table renderer
func NewTableRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *TableRenderer {
	return &TableRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// Render renders the table from its prefetched binding.
func (tr *TableRenderer) Render(node content.ComponentNode) string {
	binding, placeholder := bindingOf(tr.ctx, node, LoadingDataText)
	if binding == nil {
		return refreshable(tr.ctx, node, placeholder)
	}
	rows := services.CoerceRecords(binding.Raw)
	if len(rows) == 0 {
		return refreshable(tr.ctx, node, execute(messageTmpl, "muted", NoDataText))
	}
	return refreshable(tr.ctx, node, tr.renderTable(node, rows))
}

// Columns are the first row's keys in document order minus hiddenColumns.
func Columns(node content.ComponentNode, rows []*services.Record) []string {
	if len(rows) == 0 {
		return nil
	}
	hidden := services.PropList(node.Props, "hiddenColumns")
	var columns []string
	for _, key := range services.RecordKeys(rows[0]) {
		if !slices.Contains(hidden, key) {
			columns = append(columns, key)
		}
	}
	return columns
}

func (tr *TableRenderer) renderTable(node content.ComponentNode, rows []*services.Record) string {
	columns := Columns(node, rows)
	actions := services.RowActions(node.Props)

	var html strings.Builder
	html.WriteString(execute(tableTmpl, "open", labelOr(node, "Data Table")))

	html.WriteString(`<thead class="bg-gray-50"><tr>`)
	for _, col := range columns {
		html.WriteString(execute(tableTmpl, "th", col))
	}
	if len(actions) > 0 {
		html.WriteString(`<th class="px-6 py-3 text-right text-xs font-medium text-gray-500 uppercase tracking-wider">Actions</th>`)
	}
	html.WriteString(`</tr></thead><tbody class="bg-white divide-y divide-gray-200">`)

	for i, row := range rows {
		html.WriteString(`<tr>`)
		for _, col := range columns {
			value, _ := row.Get(col)
			html.WriteString(execute(tableTmpl, "td", services.FormatValue(value)))
		}
		if len(actions) > 0 {
			html.WriteString(`<td class="px-6 py-4 whitespace-nowrap text-right text-sm font-medium space-x-2">`)
			html.WriteString(tr.renderRowActions(node, actions, row, i))
			html.WriteString(`</td>`)
		}
		html.WriteString(`</tr>`)
	}

	html.WriteString(`</tbody></table></div></div>`)
	return html.String()
}

func (tr *TableRenderer) renderRowActions(node content.ComponentNode, actions []rendering.RowAction, row *services.Record, index int) string {
	var html strings.Builder
	statusID := fmt.Sprintf("%s-r%d", StatusTargetID(node.ID), index)
	hasAPI := false

	for _, action := range actions {
		data := rowActionData{Class: RowActionClasses(action.Variant), Label: action.Label}
		switch action.Action {
		case rendering.ActionAPI:
			encoded, err := json.Marshal(row)
			if err != nil {
				encoded = []byte("{}")
			}
			data.URL = RowActionURL(pageID(tr.ctx), node.ID, action.ID)
			data.Vals = actionVals(tr.ctx, map[string]string{ValRow: string(encoded)})
			data.Target = statusID
			html.WriteString(execute(tableTmpl, "apiAction", data))
			hasAPI = true
		default:
			href, ok := services.ResolveNavigation(tr.ctx.Pages, action.TargetPageID, action.NavParams, services.RowParams(tr.ctx.Params, row))
			if !ok {
				href = "#"
			}
			data.Href = href
			html.WriteString(execute(tableTmpl, "navAction", data))
		}
	}
	if hasAPI {
		html.WriteString(execute(tableTmpl, "status", statusID))
	}
	return html.String()
}
