package templates

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

const (
	// PropertiesTarget is the DOM id of the editor's properties panel.
	PropertiesTarget = "properties-panel"

	DropComponentsText = "Drop components here"
	DropFieldsText     = "Drop fields here"
)

var designTmpl = template.Must(template.New("design").Parse(
	`{{define "wrapper"}}<div data-component-id="{{.ID}}" data-component-type="{{.Type}}" class="p-3 border rounded-lg cursor-pointer relative group transition-all mb-2 bg-white hover:border-blue-300 {{if .Selected}}border-blue-600 ring-2 ring-blue-100{{else}}border-gray-200{{end}}" hx-get="{{.URL}}" hx-target="#` + PropertiesTarget + `" hx-trigger="click consume" hx-swap="innerHTML">` +
		`<div class="absolute top-2 right-2 opacity-0 group-hover:opacity-100 bg-gray-100 px-2 py-1 rounded text-xs text-gray-500 z-10 pointer-events-none">{{.Badge}}</div><div>{{.Body}}</div></div>{{end}}` +
		`{{define "column"}}<div data-drop-parent="{{.ID}}" data-drop-column="{{.Column}}" class="min-h-[100px] rounded border-2 border-dashed p-2 border-gray-200 bg-white" hx-get="{{.URL}}" hx-target="#` + PropertiesTarget + `" hx-trigger="click consume" hx-swap="innerHTML">{{.Body}}</div>{{end}}` +
		`{{define "placeholder"}}<div class="h-32 bg-gray-50 rounded border border-gray-100 flex items-center justify-center text-gray-400">{{.}}</div>{{end}}` +
		`{{define "hint"}}<div class="flex items-center justify-center h-20 text-gray-400 text-sm">{{.}}</div>{{end}}` +
		`{{define "text"}}<p class="text-gray-800">{{.}}</p>{{end}}` +
		`{{define "other"}}<div class="text-gray-500 italic">{{.}}</div>{{end}}` +
		`{{define "fieldLabel"}}<label class="block text-xs font-medium text-gray-700 mb-1">{{.}}</label>{{end}}` +
		`{{define "fieldBox"}}<div class="h-8 border rounded bg-white flex items-center px-2 text-gray-400">{{.}}</div>{{end}}` +
		`{{define "button"}}<span class="{{.Class}} inline-block">{{.Label}}</span>{{end}}`,
))

type designWrapperData struct {
	ID       string
	Type     string
	Selected bool
	URL      string
	Badge    string
	Body     template.HTML
}

type designColumnData struct {
	ID     string
	Column int
	URL    string
	Body   template.HTML
}

// DesignRenderer renders the editable preview of a component: a selectable
// wrapper around a static preview. Nothing here touches the network.
type DesignRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewDesignRenderer creates a new design-mode renderer
func NewDesignRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *DesignRenderer {
	return &DesignRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// Render renders the wrapper and preview of node.
func (dr *DesignRenderer) Render(node content.ComponentNode) string {
	badge := node.Label
	if badge == "" {
		badge = string(node.Type)
	}
	return execute(designTmpl, "wrapper", designWrapperData{
		ID:       node.ID,
		Type:     string(node.Type),
		Selected: dr.ctx.SelectedID != "" && dr.ctx.SelectedID == node.ID,
		URL:      PropertiesURL(pageID(dr.ctx), node.ID),
		Badge:    badge,
		Body:     template.HTML(dr.preview(node)),
	})
}

func (dr *DesignRenderer) preview(node content.ComponentNode) string {
	switch {
	case node.Type == content.ComponentTable:
		return execute(designTmpl, "placeholder", "Table Placeholder")
	case node.Type == content.ComponentDetail:
		return execute(designTmpl, "placeholder", "Detail Placeholder")
	case node.Type == content.ComponentPDF:
		return execute(designTmpl, "placeholder", "PDF Viewer Placeholder")
	case node.Type == content.ComponentIframe:
		return execute(designTmpl, "placeholder", "Iframe Placeholder")
	case node.Type == content.ComponentForm:
		return `<div class="space-y-2"><div class="h-8 bg-gray-50 rounded w-full"></div><div class="h-8 bg-gray-50 rounded w-2/3"></div><div class="h-8 bg-blue-100 rounded w-24 mt-2"></div></div>`
	case node.Type == content.ComponentText:
		return execute(designTmpl, "text", services.PropStringDefault(node.Props, "content", "Text content..."))
	case node.Type == content.ComponentImage:
		if services.PropString(node.Props, "src") == "" {
			return execute(designTmpl, "placeholder", "Image Placeholder")
		}
		return NewNodeTextRenderer(dr.ctx).RenderImage(node)
	case node.Type == content.ComponentButton:
		return execute(designTmpl, "button", struct{ Class, Label string }{
			Class: ButtonVariantClasses(services.PropStringDefault(node.Props, "variant", "primary")),
			Label: labelOr(node, "Button"),
		})
	case node.Type.ColumnCount() > 0:
		return dr.columns(node)
	case node.Type.IsContainer():
		return dr.container(node)
	case node.Type.IsFormField():
		return dr.field(node)
	default:
		return execute(designTmpl, "other", node.Label)
	}
}

func (dr *DesignRenderer) container(node content.ComponentNode) string {
	var html strings.Builder
	html.WriteString(`<div class="min-h-[100px] p-2 border border-dashed border-gray-200 rounded bg-gray-50/50">`)
	if len(node.Children) == 0 {
		html.WriteString(execute(designTmpl, "hint", DropFieldsText))
	} else {
		html.WriteString(dr.nodeRenderer.RenderChildren(node.Children))
	}
	html.WriteString(`</div>`)
	return html.String()
}

// columns distributes children by i mod N; each column is a click target
// that selects the layout with that column as the insert position.
func (dr *DesignRenderer) columns(node content.ComponentNode) string {
	n := node.Type.ColumnCount()
	var html strings.Builder
	html.WriteString(`<div class="grid grid-cols-` + strconv.Itoa(n) + ` gap-4 p-4 border border-dashed border-gray-300 rounded bg-gray-50">`)
	for col := 0; col < n; col++ {
		children := services.ColumnChildren(node, col)
		var body string
		if len(children) == 0 {
			body = execute(designTmpl, "hint", DropComponentsText)
		} else {
			body = `<div class="space-y-2">` + dr.nodeRenderer.RenderChildren(children) + `</div>`
		}
		html.WriteString(execute(designTmpl, "column", designColumnData{
			ID:     node.ID,
			Column: col,
			URL:    PropertiesURL(pageID(dr.ctx), node.ID) + "?column=" + strconv.Itoa(col),
			Body:   template.HTML(body),
		}))
	}
	html.WriteString(`</div>`)
	return html.String()
}

func (dr *DesignRenderer) field(node content.ComponentNode) string {
	label := node.Label
	if label == "" {
		label = services.PropStringDefault(node.Props, "name", "Field")
	}
	var html strings.Builder
	html.WriteString(`<div class="pointer-events-none">`)
	html.WriteString(execute(designTmpl, "fieldLabel", label))
	switch node.Type {
	case content.ComponentFormPassword:
		html.WriteString(execute(designTmpl, "fieldBox", "••••••••"))
	case content.ComponentFormCheckbox:
		html.WriteString(`<div class="h-4 w-4 border rounded bg-white"></div>`)
	case content.ComponentFormMultiCheckbox:
		html.WriteString(`<div class="space-y-1"><div class="flex items-center"><div class="h-3 w-3 border rounded mr-2"></div><div class="h-3 w-16 bg-gray-100 rounded"></div></div><div class="flex items-center"><div class="h-3 w-3 border rounded mr-2"></div><div class="h-3 w-16 bg-gray-100 rounded"></div></div></div>`)
	case content.ComponentFormRadio:
		html.WriteString(`<div class="space-y-1"><div class="flex items-center"><div class="h-3 w-3 rounded-full border mr-2"></div><div class="h-3 w-16 bg-gray-100 rounded"></div></div><div class="flex items-center"><div class="h-3 w-3 rounded-full border mr-2"></div><div class="h-3 w-16 bg-gray-100 rounded"></div></div></div>`)
	case content.ComponentFormSelect:
		html.WriteString(execute(designTmpl, "fieldBox", "Select..."))
	case content.ComponentFormFile:
		html.WriteString(execute(designTmpl, "fieldBox", "Choose file..."))
	default:
		html.WriteString(`<div class="h-8 border rounded bg-white"></div>`)
	}
	html.WriteString(`</div>`)
	return html.String()
}
