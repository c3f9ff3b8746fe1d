package templates

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/admini-go/internal/domain/services"
)

const (
	NoPDFText       = "No PDF URL configured"
	IframeHelpText  = "Configure iframe URL or code in properties panel"
	defaultEmbedCSS = "600px"
)

var embedTmpl = template.Must(template.New("embed").Parse(
	`{{define "pdf"}}<div class="bg-white rounded-lg shadow-sm border border-gray-200 overflow-hidden">{{if .Label}}<div class="` + cardHeaderClasses + `"><h3 class="` + cardTitleClasses + `">{{.Label}}</h3></div>{{end}}<div class="p-4"><iframe src="{{.URL}}" class="w-full border border-gray-300 rounded" style="height: {{.Height}}" title="{{.Title}}"></iframe></div></div>{{end}}` +
		`{{define "noPdf"}}<div class="p-8 bg-yellow-50 border border-yellow-200 rounded-lg text-center"><p class="text-yellow-700">{{.}}</p></div>{{end}}` +
		`{{define "iframe"}}<div class="my-4 rounded-lg overflow-hidden border border-gray-200"><iframe src="{{.URL}}" style="width: 100%; height: {{.Height}}" class="border-0" title="{{.Title}}" allowfullscreen></iframe></div>{{end}}` +
		`{{define "code"}}<div class="my-4 rounded-lg overflow-hidden border border-gray-200">{{.}}</div>{{end}}` +
		`{{define "noIframe"}}<div class="my-4 p-8 bg-gray-50 rounded-lg border border-gray-200 text-center text-gray-400"><p>{{.}}</p></div>{{end}}`,
))

type embedData struct {
	Label  string
	Title  string
	URL    string
	Height string
}

var (
	embedPolicyOnce sync.Once
	embedPolicy     *bluemonday.Policy
)

// EmbedPolicy allows the markup embed snippets are made of: frames, media
// and basic formatting. Scripts and event handlers are stripped.
func EmbedPolicy() *bluemonday.Policy {
	embedPolicyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("iframe", "video", "audio", "source", "embed", "object")
		p.AllowAttrs("src", "width", "height", "title", "frameborder", "allow", "allowfullscreen", "loading", "referrerpolicy").
			OnElements("iframe", "embed")
		p.AllowAttrs("src", "type").OnElements("source")
		p.AllowAttrs("data", "type", "width", "height").OnElements("object")
		p.AllowAttrs("controls", "width", "height", "poster", "src").OnElements("video", "audio")
		p.AllowURLSchemes("https", "http")
		embedPolicy = p
	})
	return embedPolicy
}

// EmbedRenderer renders pdf and iframe components
type EmbedRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
}

// NewEmbedRenderer creates a new embed renderer
func NewEmbedRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer) *EmbedRenderer {
	return &EmbedRenderer{ctx: ctx, nodeRenderer: nodeRenderer}
}

// RenderPDF renders a pdf viewer frame.
func (er *EmbedRenderer) RenderPDF(node content.ComponentNode) string {
	url := services.PropString(node.Props, "url")
	if url == "" {
		return execute(embedTmpl, "noPdf", NoPDFText)
	}
	return execute(embedTmpl, "pdf", embedData{
		Label:  node.Label,
		Title:  labelOr(node, "PDF Viewer"),
		URL:    url,
		Height: services.PropStringDefault(node.Props, "height", defaultEmbedCSS),
	})
}

// RenderIframe renders the embed code, else a frame for url.
func (er *EmbedRenderer) RenderIframe(node content.ComponentNode) string {
	if code := strings.TrimSpace(services.PropString(node.Props, "iframeCode")); code != "" {
		if !er.ctx.TrustEmbedMarkup {
			code = EmbedPolicy().Sanitize(code)
		}
		return execute(embedTmpl, "code", template.HTML(code))
	}
	if url := services.PropString(node.Props, "url"); url != "" {
		return execute(embedTmpl, "iframe", embedData{
			Title:  labelOr(node, "Embedded content"),
			URL:    url,
			Height: services.PropStringDefault(node.Props, "height", defaultEmbedCSS),
		})
	}
	return execute(embedTmpl, "noIframe", IframeHelpText)
}
