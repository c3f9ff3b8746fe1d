package templates

import (
	"html/template"
	"strconv"

	"golang.org/x/text/language"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/presentation/i18n"

	elements "github.com/AtRiskMedia/admini-go/internal/presentation/templates/elements"
)

const (
	PropertiesTarget    = elements.PropertiesTarget
	CanvasTarget        = "canvas"
	InsertTarget        = "insert-target"
	CanvasReloadEvent   = "admini:reload"
	EmptyCanvasText     = "Add components from the palette"
	NoSelectionText     = "Select a component to edit its properties"
	PageRootLabel       = "Page root"
	AdminLogoutAction   = "/api/auth/admin/logout"
	AdminPagesAction    = "/admin/pages"
	AdminSettingsPath   = "/admin/settings"
	AdminLanguageAction = "/admin/language"
	adminDashboardPath  = "/admin"
)

var editorFuncs = template.FuncMap{
	"editorURL":     elements.EditorURL,
	"componentURL":  elements.ComponentURL,
	"moveURL":       elements.MoveComponentURL,
	"componentsURL": elements.ComponentsURL,
	"slugHref": func(slug string) string {
		return "/" + services.NormalizePath(slug)
	},
	"typeVals": func(t content.ComponentType) string {
		return `{"type":"` + string(t) + `"}`
	},
	"count": func(v any) int {
		switch list := v.(type) {
		case []content.ComponentNode:
			return services.CountComponents(list)
		case []content.User:
			return len(list)
		}
		return 0
	},
}

var editorTmpl = template.Must(template.New("editor").Funcs(editorFuncs).Parse(
	`{{define "head"}}<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>{{.}}</title>` +
		`<script src="` + tailwindScript + `"></script><script src="` + htmxScript + `"></script><style>` + shellCSS + `</style></head>{{end}}` +
		`{{define "topbar"}}<header class="flex items-center justify-between px-6 py-3 bg-white border-b border-gray-200"><a href="` + adminDashboardPath + `" class="text-lg font-semibold text-gray-900">{{.}}</a>` +
		`<form method="post" action="` + AdminLogoutAction + `"><button type="submit" class="text-sm text-gray-600 hover:text-gray-900">Sign out</button></form></header>{{end}}` +

		`{{define "dashboard"}}{{template "head" .Title}}<body class="bg-gray-50 min-h-screen">{{template "topbar" .Title}}<div class="max-w-5xl mx-auto p-8 space-y-8">` +
		`{{if .Error}}<div class="p-3 rounded bg-red-50 text-red-700 text-sm">{{.Error}}</div>{{end}}` +
		`<section class="bg-white rounded-lg border border-gray-200 p-6"><h2 class="text-lg font-semibold text-gray-900 mb-4">Pages</h2>` +
		`{{if not .Pages}}<p class="text-gray-500 text-sm mb-4">No pages yet</p>{{else}}<table class="min-w-full divide-y divide-gray-200 mb-6"><thead><tr><th class="px-4 py-2 text-left text-xs font-medium text-gray-500 uppercase">Name</th><th class="px-4 py-2 text-left text-xs font-medium text-gray-500 uppercase">Slug</th><th class="px-4 py-2 text-left text-xs font-medium text-gray-500 uppercase">Components</th><th></th></tr></thead><tbody class="divide-y divide-gray-100">` +
		`{{range .Pages}}<tr><td class="px-4 py-2 text-sm text-gray-900">{{.Name}}</td><td class="px-4 py-2 text-sm text-gray-500 font-mono">/{{.Slug}}</td><td class="px-4 py-2 text-sm text-gray-500">{{count .Components}}</td>` +
		`<td class="px-4 py-2 text-right text-sm space-x-3"><a href="{{editorURL .ID}}" class="text-blue-600 hover:underline">Edit</a>{{if not .IsDynamic}}<a href="{{slugHref .Slug}}" class="text-gray-600 hover:underline">View</a>{{end}}` +
		`<form method="post" action="` + AdminPagesAction + `/{{.ID}}/delete" class="inline" onsubmit="return confirm('Delete this page?')"><button type="submit" class="text-red-600 hover:underline">Delete</button></form></td></tr>{{end}}</tbody></table>{{end}}` +
		`<form method="post" action="` + AdminPagesAction + `" class="flex gap-3 items-end"><div><label class="block text-sm font-medium text-gray-700 mb-1">Name</label><input name="name" required class="` + formInputClasses + `"></div>` +
		`<div><label class="block text-sm font-medium text-gray-700 mb-1">Slug</label><input name="slug" placeholder="orders/:id" class="` + formInputClasses + `"></div>` +
		`<button type="submit" class="px-4 py-2 rounded-md bg-blue-600 text-white hover:bg-blue-700">New page</button></form></section>` +
		`<section class="bg-white rounded-lg border border-gray-200 p-6"><h2 class="text-lg font-semibold text-gray-900 mb-4">APIs</h2>{{if not .APIs}}<p class="text-gray-500 text-sm">No APIs configured</p>{{else}}<ul class="divide-y divide-gray-100">{{range .APIs}}<li class="py-2 text-sm"><span class="font-mono text-xs px-2 py-0.5 rounded bg-gray-100 mr-2">{{.Method}}</span>{{.Name}} <span class="text-gray-400">{{.URL}}</span>{{if .IsAuth}} <span class="text-xs text-blue-600">auth</span>{{end}}</li>{{end}}</ul>{{end}}</section>` +
		`<section class="bg-white rounded-lg border border-gray-200 p-6"><h2 class="text-lg font-semibold text-gray-900 mb-4">Settings</h2><p class="text-sm text-gray-500 mb-4">{{count .Users}} users</p>` +
		`<form method="post" action="` + AdminSettingsPath + `" enctype="multipart/form-data" class="space-y-4"><div><label class="block text-sm font-medium text-gray-700 mb-1">App title</label><input name="appTitle" value="{{.Settings.AppTitle}}" class="` + formInputClasses + `"></div>` +
		`<div><label class="block text-sm font-medium text-gray-700 mb-1">Theme</label><select name="theme" class="` + formInputClasses + `"><option value="light"{{if eq (print .Settings.Theme) "light"}} selected{{end}}>Light</option><option value="dark"{{if eq (print .Settings.Theme) "dark"}} selected{{end}}>Dark</option></select></div>` +
		`<div><label class="block text-sm font-medium text-gray-700 mb-1">App icon</label>{{if .Settings.AppIcon}}<img src="{{.Settings.AppIcon}}" alt="" class="h-10 w-10 rounded mb-2">{{end}}<input type="file" name="icon" accept="image/*" class="block text-sm"></div>` +
		`<button type="submit" class="px-4 py-2 rounded-md bg-blue-600 text-white hover:bg-blue-700">Save settings</button></form></section></div></body></html>{{end}}` +

		`{{define "editor"}}{{template "head" .Title}}<body class="bg-gray-100 min-h-screen">{{template "topbar" .AppTitle}}` +
		`<div class="flex items-center justify-between px-6 py-2 bg-white border-b border-gray-200 text-sm"><span class="font-medium text-gray-900">{{.Page.Name}} <span class="text-gray-400 font-mono">/{{.Page.Slug}}</span></span><div class="flex items-center gap-4">{{if not .Page.IsDynamic}}<a href="{{slugHref .Page.Slug}}" target="_blank" class="text-blue-600 hover:underline">{{.ViewPage}}</a>{{end}}` +
		`<form method="post" action="` + AdminLanguageAction + `" class="flex items-center space-x-2 text-gray-600"><label for="lang" class="sr-only">{{.LanguageLabel}}</label><input type="hidden" name="next" value="{{editorURL .Page.ID}}"><select id="lang" name="lang" onchange="this.form.submit()" class="bg-transparent border-none focus:ring-0 cursor-pointer text-sm font-medium">{{range .Languages}}<option value="{{.Code}}"{{if eq .Code $.Lang}} selected{{end}}>{{.Name}}</option>{{end}}</select></form></div></div>` +
		`<div class="flex h-[calc(100vh-6rem)]"><aside class="w-56 shrink-0 bg-white border-r border-gray-200 p-4 overflow-y-auto"><h2 class="text-xs font-semibold uppercase text-gray-500 mb-2">{{.ComponentsHeading}}</h2>` +
		`{{template "insertTarget" .Insert}}<div class="grid grid-cols-1 gap-1 mt-2">{{range .Palette}}<button type="button" class="text-left px-3 py-1.5 rounded text-sm text-gray-700 hover:bg-gray-100" hx-post="{{componentsURL $.Page.ID}}" hx-vals="{{typeVals .Type}}" hx-include="#` + InsertTarget + `" hx-target="#` + CanvasTarget + `" hx-swap="innerHTML">{{.Label}}</button>{{end}}</div></aside>` +
		`<main class="flex-1 overflow-y-auto p-6"><div id="` + CanvasTarget + `" hx-get="{{.CanvasURL}}" hx-trigger="` + CanvasReloadEvent + `" hx-swap="innerHTML" class="max-w-4xl mx-auto">{{.Canvas}}</div></main>` +
		`<aside id="` + PropertiesTarget + `" class="w-80 shrink-0 bg-white border-l border-gray-200 p-4 overflow-y-auto">{{.Properties}}</aside></div>` +
		`<script>(function(){var p=location.protocol==='https:'?'wss://':'ws://';var s=new WebSocket(p+location.host+{{.SocketURL}});s.onmessage=function(){htmx.trigger('#` + CanvasTarget + `','` + CanvasReloadEvent + `')};})();</script></body></html>{{end}}` +

		`{{define "insertTarget"}}<div id="` + InsertTarget + `" class="text-xs text-gray-500"{{if .OOB}} hx-swap-oob="true"{{end}}><input type="hidden" name="parentId" value="{{.ParentID}}"><input type="hidden" name="column" value="{{.Column}}">Insert into: <span class="font-medium text-gray-700">{{.Label}}</span></div>{{end}}` +
		`{{define "emptyCanvas"}}<div class="p-12 border-2 border-dashed border-gray-300 rounded-lg text-center text-gray-400">` + EmptyCanvasText + `</div>{{end}}` +
		`{{define "noSelection"}}<p class="text-sm text-gray-400">` + NoSelectionText + `</p>{{end}}` +
		`{{define "oob"}}<div id="{{.ID}}" hx-swap-oob="innerHTML">{{.Body}}</div>{{end}}` +

		`{{define "properties"}}<div class="space-y-6"><div><h2 class="text-sm font-semibold text-gray-900">{{.Node.Type}}</h2><p class="text-xs text-gray-400 font-mono">{{.Node.ID}}</p></div>` +
		`{{if .Error}}<div class="p-2 rounded bg-red-50 text-red-700 text-xs">{{.Error}}</div>{{end}}` +
		`<form hx-post="{{componentURL .PageID .Node.ID}}" hx-target="#` + CanvasTarget + `" hx-swap="innerHTML" class="space-y-3">` +
		`<div><label class="block text-xs font-medium text-gray-700 mb-1">Label</label><input name="label" value="{{.Node.Label}}" class="` + formInputClasses + ` text-sm"></div>` +
		`<div><label class="block text-xs font-medium text-gray-700 mb-1">API</label><select name="apiId" class="` + formInputClasses + ` text-sm"><option value="">None</option>{{range .APIs}}<option value="{{.ID}}"{{if eq .ID $.Node.ApiID}} selected{{end}}>{{.Name}}</option>{{end}}</select></div>` +
		`<div><label class="block text-xs font-medium text-gray-700 mb-1">Props (JSON)</label><textarea name="props" rows="10" class="` + formInputClasses + ` font-mono text-xs">{{.PropsJSON}}</textarea></div>` +
		`<button type="submit" class="w-full px-3 py-2 rounded-md bg-blue-600 text-white text-sm hover:bg-blue-700">Apply</button></form>` +
		`<form hx-post="{{moveURL .PageID .Node.ID}}" hx-target="#` + CanvasTarget + `" hx-swap="innerHTML" class="space-y-3 border-t border-gray-100 pt-4"><h3 class="text-xs font-semibold uppercase text-gray-500">Move</h3>` +
		`<select name="parentId" class="` + formInputClasses + ` text-sm"><option value="">` + PageRootLabel + `</option>{{range .Parents}}<option value="{{.ID}}"{{if eq .ID $.ParentID}} selected{{end}}>{{.Label}}</option>{{end}}</select>` +
		`<input name="column" type="number" min="0" max="2" placeholder="Column (layouts)" class="` + formInputClasses + ` text-sm">` +
		`<button type="submit" class="w-full px-3 py-2 rounded-md border border-gray-300 text-sm text-gray-700 hover:bg-gray-50">Move</button></form>` +
		`<button type="button" hx-delete="{{componentURL .PageID .Node.ID}}" hx-target="#` + CanvasTarget + `" hx-swap="innerHTML" hx-confirm="Delete this component?" class="w-full px-3 py-2 rounded-md bg-red-600 text-white text-sm hover:bg-red-700">Delete</button></div>{{end}}`,
))

// InsertTargetData is the palette's current insert position.
type InsertTargetData struct {
	ParentID string
	Column   string
	Label    string
	OOB      bool
}

// ParentOption is a container a component may be moved into.
type ParentOption struct {
	ID    string
	Label string
}

// DashboardData feeds the admin dashboard.
type DashboardData struct {
	Settings content.Settings
	Pages    []content.PageDefinition
	APIs     []content.ApiDefinition
	Users    []content.User
	Error    string
}

// EditorData feeds the editor frame of one page.
type EditorData struct {
	Settings content.Settings
	Page     content.PageDefinition
	Canvas   string
	Lang     language.Tag
}

// PaletteEntry is one insertable component of the editor palette.
type PaletteEntry struct {
	Type  content.ComponentType
	Label string
}

// Palette lists every component type with its label in lang.
func Palette(lang language.Tag) []PaletteEntry {
	p := i18n.NewPrinter(lang)
	entries := make([]PaletteEntry, 0, len(content.ComponentTypes))
	for _, kind := range content.ComponentTypes {
		entries = append(entries, PaletteEntry{Type: kind, Label: i18n.PaletteLabel(p, kind)})
	}
	return entries
}

// PropertiesData feeds the properties panel of one component.
type PropertiesData struct {
	PageID    string
	Node      content.ComponentNode
	APIs      []content.ApiDefinition
	Parents   []ParentOption
	ParentID  string
	PropsJSON string
	Error     string
}

// RenderDashboard renders the admin landing page.
func RenderDashboard(data DashboardData) string {
	return executeNamed(editorTmpl, "dashboard", struct {
		DashboardData
		Title string
	}{DashboardData: data, Title: appTitleOf(data.Settings) + " Admin"})
}

// RenderEditor renders the editor frame around an initial canvas.
func RenderEditor(data EditorData) string {
	appTitle := appTitleOf(data.Settings) + " Admin"
	p := i18n.NewPrinter(data.Lang)
	lang := i18n.Resolve(data.Lang.String(), "")
	return executeNamed(editorTmpl, "editor", struct {
		Title             string
		AppTitle          string
		Page              content.PageDefinition
		Palette           []PaletteEntry
		ComponentsHeading string
		ViewPage          string
		LanguageLabel     string
		Languages         []i18n.Language
		Lang              string
		Insert            InsertTargetData
		CanvasURL         string
		SocketURL         string
		Canvas            template.HTML
		Properties        template.HTML
	}{
		Title:             data.Page.Name + " | " + appTitle,
		AppTitle:          appTitle,
		Page:              data.Page,
		Palette:           Palette(data.Lang),
		ComponentsHeading: i18n.Text(p, i18n.KeyComponents),
		ViewPage:          i18n.Text(p, i18n.KeyViewPage),
		LanguageLabel:     i18n.Text(p, i18n.KeyLanguage),
		Languages:         i18n.Languages,
		Lang:              lang.String(),
		Insert:            InsertTargetData{Label: PageRootLabel},
		CanvasURL:         elements.CanvasURL(data.Page.ID),
		SocketURL:         elements.EditorSocketURL(data.Page.ID),
		Canvas:            template.HTML(data.Canvas),
		Properties:        template.HTML(RenderNoSelection()),
	})
}

// RenderCanvas renders the design tree of the context's page.
func RenderCanvas(ctx *rendering.RenderContext) string {
	if ctx.Page == nil || len(ctx.Page.Components) == 0 {
		return executeNamed(editorTmpl, "emptyCanvas", nil)
	}
	return `<div class="space-y-2">` + RenderTree(ctx, ctx.Page.Components) + `</div>`
}

// RenderProperties renders the properties panel.
func RenderProperties(data PropertiesData) string {
	return executeNamed(editorTmpl, "properties", data)
}

// RenderNoSelection is the properties panel without a selection.
func RenderNoSelection() string {
	return executeNamed(editorTmpl, "noSelection", nil)
}

// RenderInsertTarget renders the hidden palette inputs.
func RenderInsertTarget(data InsertTargetData) string {
	return executeNamed(editorTmpl, "insertTarget", data)
}

// RenderOOB wraps body for an out-of-band innerHTML swap into id.
func RenderOOB(id, body string) string {
	return executeNamed(editorTmpl, "oob", struct {
		ID   string
		Body template.HTML
	}{ID: id, Body: template.HTML(body)})
}

// InsertTargetFor is the insert position selecting node implies: inside it
// when it is a container (at column, when given), else the page root.
func InsertTargetFor(node content.ComponentNode, column int) InsertTargetData {
	if !node.Type.IsContainer() {
		return InsertTargetData{Label: PageRootLabel, OOB: true}
	}
	data := InsertTargetData{ParentID: node.ID, Label: labelOrType(node), OOB: true}
	if column >= 0 && column < node.Type.ColumnCount() {
		data.Column = strconv.Itoa(column)
		data.Label += " (column " + strconv.Itoa(column+1) + ")"
	}
	return data
}

// ParentOptions lists the containers of tree that node may move into,
// leaving out node and its own descendants.
func ParentOptions(tree []content.ComponentNode, nodeID string) []ParentOption {
	options := []ParentOption{}
	var collect func([]content.ComponentNode)
	collect = func(nodes []content.ComponentNode) {
		for _, n := range nodes {
			if n.ID == nodeID {
				continue
			}
			if n.Type.IsContainer() {
				options = append(options, ParentOption{ID: n.ID, Label: labelOrType(n)})
			}
			collect(n.Children)
		}
	}
	collect(tree)
	return options
}

func labelOrType(node content.ComponentNode) string {
	if node.Label != "" {
		return node.Label
	}
	return string(node.Type)
}
