package templates

import (
	"bytes"
	"html/template"
	"log"
	"net/url"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

const (
	// ContentURLPrefix serves the ready state of a published page.
	ContentURLPrefix = "/app/content"

	InitializingText  = "Initializing application..."
	NoSectionsText    = "No accessible sections"
	NotFoundText      = "Page not found"
	HomeText          = "Select a page from the sidebar"
	PageContentTarget = "page-content"

	htmxScript     = "https://unpkg.com/htmx.org@1.9.12"
	tailwindScript = "https://cdn.tailwindcss.com"
)

var pageTemplates = template.Must(template.New("page").Funcs(template.FuncMap{
	"linkData": func(classes ThemeClasses, entry services.NavEntry) linkData {
		return linkData{Classes: classes, Entry: entry}
	},
}).Parse(
	`{{define "shell"}}<!DOCTYPE html><html lang="en"{{if .Dark}} class="dark"{{end}}><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">` +
		`<title>{{.Title}}</title>{{if .Icon}}<link rel="icon" href="{{.Icon}}">{{end}}` +
		`<script src="` + tailwindScript + `"></script><script src="` + htmxScript + `"></script><style>{{.CSS}}</style></head>` +
		`<body class="{{.Classes.Body}}"><div class="flex min-h-screen">{{.Sidebar}}<main class="{{.Classes.Main}}">{{.Main}}</main></div></body></html>{{end}}` +
		`{{define "sidebar"}}<aside class="{{.Classes.Sidebar}}"><a href="/" class="flex items-center gap-2 mb-6">{{if .Icon}}<img src="{{.Icon}}" alt="" class="h-8 w-8 rounded">{{end}}<span class="{{.Classes.SidebarTitle}}">{{.AppTitle}}</span></a><nav>` +
		`{{if not .Entries}}<p class="{{.Classes.EmptySections}}">` + NoSectionsText + `</p>{{end}}` +
		`{{range .Entries}}{{if .Section}}<div class="{{$.Classes.SectionLabel}}">{{.Label}}</div>{{range .Children}}{{template "link" (linkData $.Classes .)}}{{end}}{{else}}{{template "link" (linkData $.Classes .)}}{{end}}{{end}}` +
		`</nav><form method="post" action="/api/auth/logout" class="mt-8"><button type="submit" class="{{.Classes.Link}} w-full text-left">Sign out</button></form></aside>{{end}}` +
		`{{define "link"}}<a href="{{.Entry.Href}}" class="{{if .Entry.Active}}{{.Classes.ActiveLink}}{{else}}{{.Classes.Link}}{{end}}">{{.Entry.Label}}</a>{{end}}` +
		`{{define "loading"}}<div id="` + PageContentTarget + `" hx-get="{{.URL}}" hx-trigger="load" hx-swap="innerHTML"><div class="flex items-center justify-center h-64 text-gray-500">` + InitializingText + `</div></div>{{end}}` +
		`{{define "ready"}}<h1 class="text-3xl font-bold text-gray-900 dark:text-white mb-8">{{.Name}}</h1><div class="space-y-6">{{.Body}}</div>{{end}}` +
		`{{define "notFound"}}<div class="text-center py-24"><h1 class="text-4xl font-bold text-gray-900 dark:text-white mb-4">404</h1><p class="text-gray-500">{{.}}</p><a href="/" class="inline-block mt-6 text-blue-600 hover:underline">Go home</a></div>{{end}}` +
		`{{define "home"}}<div class="flex items-center justify-center h-64 text-gray-400">{{.}}</div>{{end}}`,
))

type linkData struct {
	Classes ThemeClasses
	Entry   services.NavEntry
}

type sidebarData struct {
	Classes  ThemeClasses
	AppTitle string
	Icon     string
	Entries  []services.NavEntry
}

type shellData struct {
	Dark    bool
	Title   string
	Icon    string
	CSS     template.CSS
	Classes ThemeClasses
	Sidebar template.HTML
	Main    template.HTML
}

// ShellRenderer renders the published application frame
type ShellRenderer struct {
	settings content.Settings
	entries  []services.NavEntry
}

// NewShellRenderer creates a shell for settings with the resolved sidebar.
func NewShellRenderer(settings content.Settings, entries []services.NavEntry) *ShellRenderer {
	return &ShellRenderer{settings: settings, entries: entries}
}

// Render wraps main in the full document.
func (sr *ShellRenderer) Render(title, main string) string {
	classes := GetThemeClasses(sr.settings.Theme)
	appTitle := appTitleOf(sr.settings)
	if title == "" {
		title = appTitle
	} else {
		title = title + " | " + appTitle
	}
	sidebar := executePage("sidebar", sidebarData{
		Classes:  classes,
		AppTitle: appTitle,
		Icon:     sr.settings.AppIcon,
		Entries:  sr.entries,
	})
	return executePage("shell", shellData{
		Dark:    sr.settings.Theme == content.ThemeDark,
		Title:   title,
		Icon:    sr.settings.AppIcon,
		CSS:     template.CSS(shellCSS),
		Classes: classes,
		Sidebar: template.HTML(sidebar),
		Main:    template.HTML(main),
	})
}

// ContentURL is the endpoint rendering the ready state for path.
func ContentURL(path string) string {
	return ContentURLPrefix + "?path=" + url.QueryEscape("/"+services.NormalizePath(path))
}

// RenderPageContent renders the main area for the context's state. While
// initializing only the loader shows; it requests the ready state.
func RenderPageContent(ctx *rendering.RenderContext) string {
	if ctx.Page == nil {
		return RenderNotFound()
	}
	if ctx.State != rendering.PageReady {
		return executePage("loading", struct{ URL string }{URL: ContentURL(ctx.Path)})
	}
	return executePage("ready", struct {
		Name string
		Body template.HTML
	}{
		Name: ctx.Page.Name,
		Body: template.HTML(RenderTree(ctx, ctx.Page.Components)),
	})
}

// RenderNotFound renders the 404 main area.
func RenderNotFound() string {
	return executePage("notFound", NotFoundText)
}

// RenderHome renders the empty home main area.
func RenderHome() string {
	return executePage("home", HomeText)
}

func executePage(name string, data any) string {
	return executeNamed(pageTemplates, name, data)
}

func executeNamed(tmpl *template.Template, name string, data any) string {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("ERROR: Failed to execute page template '%s': %v", name, err)
		return "<!-- template error -->"
	}
	return buf.String()
}
