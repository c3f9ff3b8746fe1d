package templates

import (
	"html/template"
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

const (
	NoFieldsText      = "No fields detected from API body template."
	ConnectSubmitText = "Connect an API to enable submission"
)

var formTmpl = template.Must(template.New("form").Parse(
	`{{define "open"}}<div class="bg-white shadow-sm rounded-lg p-6 border border-gray-200"><h3 class="text-lg font-medium text-gray-900 mb-4">{{.Label}}</h3><div id="{{.Target}}"></div>` +
		`<form class="space-y-4"{{if .URL}} hx-post="{{.URL}}" hx-vals="{{.Vals}}" hx-target="#{{.Target}}" hx-swap="innerHTML" hx-encoding="multipart/form-data" hx-disabled-elt="find button[type=submit]"{{end}}>{{end}}` +
		`{{define "submit"}}<button type="submit" class="` + submitClasses + `"><span class="admini-label">Submit</span><span class="htmx-indicator">Submitting...</span></button>{{end}}` +
		`{{define "close"}}</form></div>{{end}}` +
		`{{define "fieldset"}}<fieldset class="border border-gray-200 rounded-md p-4 space-y-4"><legend class="px-1 text-sm font-medium text-gray-700">{{.}}</legend>{{end}}` +
		`{{define "legacyLabel"}}<label class="block text-sm font-medium text-gray-700 mb-1 capitalize">{{.}}</label>{{end}}` +
		`{{define "empty"}}<div class="text-gray-500 text-sm">{{.}}</div>{{end}}` +
		`{{define "connect"}}<div class="text-yellow-600 text-sm mt-4">{{.}}</div>{{end}}`,
))

type formOpenData struct {
	Label  string
	Target string
	URL    string
	Vals   string
}

func formOpen(ctx *rendering.RenderContext, node content.ComponentNode, label string, submittable bool) string {
	data := formOpenData{Label: label, Target: StatusTargetID(node.ID)}
	if submittable && ctx.Mode == rendering.ModePublished {
		data.URL = FormActionURL(pageID(ctx), node.ID)
		data.Vals = actionVals(ctx, nil)
	}
	return execute(formTmpl, "open", data)
}

// FormRenderer renders a plain form whose fields come from customFields or
// the API body template
type FormRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewFormRenderer creates a new form renderer
func NewFormRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *FormRenderer {
	return &FormRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// Render renders the form.
func (fr *FormRenderer) Render(node content.ComponentNode) string {
	api, ok := content.FindAPI(fr.ctx.APIs, node.ApiID)
	if !ok {
		return execute(messageTmpl, "warning", NoAPIText)
	}
	fields := services.LegacyFormFields(node, api)

	var html strings.Builder
	html.WriteString(formOpen(fr.ctx, node, labelOr(node, "Form"), true))
	if len(fields) == 0 {
		html.WriteString(execute(formTmpl, "empty", NoFieldsText))
	}
	for _, field := range fields {
		html.WriteString(`<div>`)
		html.WriteString(execute(formTmpl, "legacyLabel", field.Name))
		html.WriteString(renderLegacyInput(field))
		html.WriteString(`</div>`)
	}
	html.WriteString(execute(formTmpl, "submit", nil))
	html.WriteString(execute(formTmpl, "close", nil))
	return html.String()
}

func renderLegacyInput(field services.LegacyField) string {
	base := fieldData{Name: field.Name}
	switch field.Type {
	case "checkbox":
		return execute(fieldTmpl, "checkbox", base)
	case "radio":
		var html strings.Builder
		html.WriteString(`<div class="space-y-2">`)
		for _, opt := range field.Options {
			html.WriteString(execute(fieldTmpl, "option", fieldData{
				Type: "radio", Name: field.Name, Value: opt,
				Class: "h-4 w-4 text-blue-600 focus:ring-blue-500 border-gray-300",
			}))
		}
		html.WriteString(`</div>`)
		return html.String()
	case "select":
		for _, opt := range field.Options {
			base.Options = append(base.Options, fieldData{Value: opt})
		}
		return execute(fieldTmpl, "select", base)
	case "file":
		return execute(fieldTmpl, "file", base)
	default:
		base.Type = "text"
		return execute(fieldTmpl, "input", base)
	}
}

// FormContainerRenderer renders a form_container and owns the aggregator
// its descendant fields register into
type FormContainerRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewFormContainerRenderer creates a new form container renderer
func NewFormContainerRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *FormContainerRenderer {
	return &FormContainerRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// Render renders the container, its fields and the submit control. Inside
// another form_container it renders as a fieldset of the enclosing form.
func (fcr *FormContainerRenderer) Render(node content.ComponentNode) string {
	form := services.NewContainerAggregator(node, fieldDefaults(fcr.ctx, node))
	if fcr.nodeRenderer.Form() != nil {
		return fcr.renderFieldset(node, form)
	}
	_, hasAPI := content.FindAPI(fcr.ctx.APIs, node.ApiID)

	var html strings.Builder
	html.WriteString(formOpen(fcr.ctx, node, labelOr(node, "Form Container"), hasAPI))
	html.WriteString(fcr.nodeRenderer.WithForm(form).RenderChildren(node.Children))
	if hasAPI {
		html.WriteString(execute(formTmpl, "submit", nil))
	} else {
		html.WriteString(execute(formTmpl, "connect", ConnectSubmitText))
	}
	html.WriteString(execute(formTmpl, "close", nil))
	return html.String()
}

// renderFieldset has no submit control of its own; nested forms are not
// valid HTML.
func (fcr *FormContainerRenderer) renderFieldset(node content.ComponentNode, form *services.FormAggregator) string {
	var html strings.Builder
	html.WriteString(execute(formTmpl, "fieldset", labelOr(node, "Form Container")))
	html.WriteString(fcr.nodeRenderer.WithForm(form).RenderChildren(node.Children))
	html.WriteString(`</fieldset>`)
	return html.String()
}

// fieldDefaults collects the prefetched API responses of fields that take
// their default from an API.
func fieldDefaults(ctx *rendering.RenderContext, container content.ComponentNode) map[string]any {
	defaults := map[string]any{}
	for _, field := range services.ContainerFields(container) {
		if !services.UsesAPIDefault(field) {
			continue
		}
		if b, ok := ctx.BindingFor(field.ID); ok && b.Err == nil {
			defaults[field.ID] = b.Data
		}
	}
	return defaults
}
