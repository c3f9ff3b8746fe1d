package templates

import (
	"html/template"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

var fieldTmpl = template.Must(template.New("field").Parse(
	`{{define "label"}}<label class="block text-sm font-medium text-gray-700 mb-1">{{.Label}}{{if .Required}}<span class="text-red-500 ml-1">*</span>{{end}}</label>{{end}}` +
		`{{define "input"}}<input type="{{.Type}}" name="{{.Name}}" value="{{.Value}}"{{if .Required}} required{{end}} class="` + inputClasses + `">{{end}}` +
		`{{define "file"}}<input type="file" name="{{.Name}}"{{if .Required}} required{{end}} class="` + inputClasses + `">{{end}}` +
		`{{define "checkbox"}}<input type="checkbox" name="{{.Name}}" value="true"{{if .Checked}} checked{{end}}{{if .Required}} required{{end}} class="` + checkClasses + `">{{end}}` +
		`{{define "option"}}<div class="flex items-center"><input type="{{.Type}}" name="{{.Name}}" value="{{.Value}}"{{if .Checked}} checked{{end}}{{if .Required}} required{{end}} class="{{.Class}}"><label class="ml-2 block text-sm text-gray-900">{{.Value}}</label></div>{{end}}` +
		`{{define "select"}}<select name="{{.Name}}"{{if .Required}} required{{end}} class="` + inputClasses + `"><option value="">Select...</option>{{range .Options}}<option value="{{.Value}}"{{if .Checked}} selected{{end}}>{{.Value}}</option>{{end}}</select>{{end}}`,
))

type fieldData struct {
	Type     string
	Name     string
	Label    string
	Value    string
	Class    string
	Checked  bool
	Required bool
	Options  []fieldData
}

// FormFieldRenderer renders the form_* inputs of a form_container
type FormFieldRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewFormFieldRenderer creates a new form field renderer
func NewFormFieldRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *FormFieldRenderer {
	return &FormFieldRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// Render renders the field with its current value from the enclosing
// form's aggregator, falling back to its own default.
func (fr *FormFieldRenderer) Render(node content.ComponentNode) string {
	name := services.FieldName(node)
	value := fr.currentValue(node, name)
	required := services.PropBool(node.Props, "required")

	var html strings.Builder
	html.WriteString(`<div class="mb-4">`)
	html.WriteString(execute(fieldTmpl, "label", fieldData{Label: labelOr(node, name), Required: required}))

	base := fieldData{Name: name, Required: required}
	switch node.Type {
	case content.ComponentFormText, content.ComponentFormPassword:
		base.Type = node.Type.FieldKind()
		base.Value = services.FormatValue(value)
		html.WriteString(execute(fieldTmpl, "input", base))
	case content.ComponentFormCheckbox:
		base.Checked = cast.ToBool(value)
		html.WriteString(execute(fieldTmpl, "checkbox", base))
	case content.ComponentFormMultiCheckbox:
		selected := cast.ToStringSlice(value)
		html.WriteString(`<div class="space-y-2">`)
		for _, opt := range services.PropList(node.Props, "options") {
			html.WriteString(execute(fieldTmpl, "option", fieldData{
				Type: "checkbox", Name: name, Value: opt, Class: checkClasses,
				Checked: slices.Contains(selected, opt),
			}))
		}
		html.WriteString(`</div>`)
	case content.ComponentFormRadio:
		current := services.FormatValue(value)
		html.WriteString(`<div class="space-y-2">`)
		for _, opt := range services.PropList(node.Props, "options") {
			html.WriteString(execute(fieldTmpl, "option", fieldData{
				Type: "radio", Name: name, Value: opt, Required: required,
				Class: "h-4 w-4 text-blue-600 focus:ring-blue-500 border-gray-300", Checked: current == opt,
			}))
		}
		html.WriteString(`</div>`)
	case content.ComponentFormSelect:
		current := services.FormatValue(value)
		for _, opt := range services.PropList(node.Props, "options") {
			base.Options = append(base.Options, fieldData{Value: opt, Checked: current == opt})
		}
		html.WriteString(execute(fieldTmpl, "select", base))
	case content.ComponentFormFile:
		html.WriteString(execute(fieldTmpl, "file", base))
	}

	html.WriteString(`</div>`)
	return html.String()
}

func (fr *FormFieldRenderer) currentValue(node content.ComponentNode, name string) any {
	if form := fr.nodeRenderer.Form(); form != nil {
		if v, ok := form.Value(name); ok {
			return v
		}
	}
	var apiData any
	if b, ok := fr.ctx.BindingFor(node.ID); ok && b.Err == nil {
		apiData = b.Data
	}
	return services.FieldDefault(node, apiData)
}
