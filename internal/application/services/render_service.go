package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/admini-go/internal/presentation/templates"
)

// RenderConfig carries the presentation settings of published pages.
type RenderConfig struct {
	StatusWindow     time.Duration
	TrustEmbedMarkup bool
}

// RenderService turns the current document into page, fragment and editor
// HTML.
type RenderService struct {
	documents *DocumentService
	bindings  *BindingService
	sessions  *SessionService
	auth      *AuthService
	config    RenderConfig
	logger    *logging.ChanneledLogger
	metrics   *metrics.Registry
}

// NewRenderService creates a new render service
func NewRenderService(documents *DocumentService, bindings *BindingService, sessions *SessionService, auth *AuthService, config RenderConfig, logger *logging.ChanneledLogger) *RenderService {
	return &RenderService{
		documents: documents,
		bindings:  bindings,
		sessions:  sessions,
		auth:      auth,
		config:    config,
		logger:    logger,
		metrics:   metrics.Get(),
	}
}

// PageResult is a rendered published page.
type PageResult struct {
	HTML  string
	Found bool
}

func (r *RenderService) newContext(doc *content.Document, mode rendering.Mode) *rendering.RenderContext {
	return &rendering.RenderContext{
		Mode:               mode,
		State:              rendering.PageInitializing,
		APIs:               doc.APIs,
		Pages:              doc.Pages,
		Params:             rendering.NewParameterMap(),
		StatusWindowMillis: r.config.StatusWindow.Milliseconds(),
		TrustEmbedMarkup:   r.config.TrustEmbedMarkup,
	}
}

// RenderShell renders the full document for path in the initializing
// state: sidebar and loader only. Nothing is fetched.
func (r *RenderService) RenderShell(path, userToken string) PageResult {
	doc := r.documents.Document()
	user := r.auth.UserFromToken(doc, userToken)
	shell := templates.NewShellRenderer(doc.Settings, domainsvc.ResolveSidebar(doc.Sidebar, doc.Pages, user, path))

	match, ok := domainsvc.MatchRoute(doc.Pages, path)
	if !ok && domainsvc.NormalizePath(path) == "" {
		return PageResult{HTML: shell.Render("", templates.RenderHome()), Found: true}
	}
	if !ok {
		r.metrics.RouteMisses.Inc()
		r.logger.Render().Debug("No page matches path", "path", path)
		return PageResult{HTML: shell.Render("Not found", templates.RenderNotFound()), Found: false}
	}

	ctx := r.newContext(doc, rendering.ModePublished)
	ctx.Page = match.Page
	ctx.Params = match.Params
	ctx.Path = path
	return PageResult{HTML: shell.Render(match.Page.Name, templates.RenderPageContent(ctx)), Found: true}
}

// RenderContent renders the ready state of the page matching path: the
// auth token is acquired first, then every data-bound component is
// prefetched before the tree renders.
func (r *RenderService) RenderContent(ctx context.Context, path string) PageResult {
	start := time.Now()
	doc := r.documents.Document()

	match, ok := domainsvc.MatchRoute(doc.Pages, path)
	if !ok {
		r.metrics.RouteMisses.Inc()
		return PageResult{HTML: templates.RenderNotFound(), Found: false}
	}

	sessionID, token := r.sessions.Start(ctx, doc.APIs, match.Params)

	rc := r.newContext(doc, rendering.ModePublished)
	rc.Page = match.Page
	rc.Params = match.Params
	rc.Path = path
	rc.SessionID = sessionID
	rc.Bindings = r.bindings.Prefetch(ctx, match.Page.Components, doc.APIs, match.Params, token)
	rc.State = rendering.PageReady

	html := templates.RenderPageContent(rc)
	r.observe(rendering.ModePublished, start)
	r.logger.Render().Info("Page rendered", "pageId", match.Page.ID, "path", path, "bindings", len(rc.Bindings), "duration", time.Since(start))
	return PageResult{HTML: html, Found: true}
}

// RenderFragment re-renders one data-bound component of a published page
// with fresh data, reusing the page session's token.
func (r *RenderService) RenderFragment(ctx context.Context, pageID, componentID, path, sessionID string) (string, error) {
	doc := r.documents.Document()
	page, ok := doc.FindPage(pageID)
	if !ok {
		return "", fmt.Errorf("failed to render fragment of page %s: %w", pageID, ErrPageNotFound)
	}
	node, ok := domainsvc.FindComponent(page.Components, componentID)
	if !ok {
		return "", fmt.Errorf("failed to render fragment %s: %w", componentID, domainsvc.ErrComponentNotFound)
	}

	params := routeParams(doc.Pages, page, path)
	token := r.sessions.Token(ctx, sessionID, doc.APIs, params)
	tree := []content.ComponentNode{node}

	rc := r.newContext(doc, rendering.ModePublished)
	rc.Page = page
	rc.Params = params
	rc.Path = path
	rc.SessionID = sessionID
	rc.Bindings = r.bindings.Prefetch(ctx, tree, doc.APIs, params, token)
	rc.State = rendering.PageReady
	return templates.RenderTree(rc, tree), nil
}

func (r *RenderService) designContext(pageID, selectedID string) (*rendering.RenderContext, error) {
	doc := r.documents.Document()
	page, ok := doc.FindPage(pageID)
	if !ok {
		return nil, fmt.Errorf("failed to open page %s: %w", pageID, ErrPageNotFound)
	}
	rc := r.newContext(doc, rendering.ModeDesign)
	rc.State = rendering.PageReady
	rc.Page = page
	rc.SelectedID = selectedID
	return rc, nil
}

// RenderEditor renders the editor frame of a page with palette labels in
// lang.
func (r *RenderService) RenderEditor(pageID string, lang language.Tag) (string, error) {
	start := time.Now()
	rc, err := r.designContext(pageID, "")
	if err != nil {
		return "", err
	}
	html := templates.RenderEditor(templates.EditorData{
		Settings: r.documents.Document().Settings,
		Page:     *rc.Page,
		Canvas:   templates.RenderCanvas(rc),
		Lang:     lang,
	})
	r.observe(rendering.ModeDesign, start)
	return html, nil
}

// RenderDesign renders the canvas of a page with selectedID highlighted.
func (r *RenderService) RenderDesign(pageID, selectedID string) (string, error) {
	start := time.Now()
	rc, err := r.designContext(pageID, selectedID)
	if err != nil {
		return "", err
	}
	html := templates.RenderCanvas(rc)
	r.observe(rendering.ModeDesign, start)
	return html, nil
}

// RenderProperties renders the properties panel of a component together
// with out-of-band updates: the canvas with the component selected and the
// palette insert target. column selects a layout column, or -1.
func (r *RenderService) RenderProperties(pageID, componentID string, column int, errMsg string) (string, error) {
	rc, err := r.designContext(pageID, componentID)
	if err != nil {
		return "", err
	}
	node, ok := domainsvc.FindComponent(rc.Page.Components, componentID)
	if !ok {
		return "", fmt.Errorf("failed to open properties of %s: %w", componentID, domainsvc.ErrComponentNotFound)
	}
	return propertiesPanel(rc, node, errMsg) +
		templates.RenderOOB(templates.CanvasTarget, templates.RenderCanvas(rc)) +
		templates.RenderInsertTarget(templates.InsertTargetFor(node, column)), nil
}

// RenderCanvasUpdate answers an editor command: the canvas, plus the
// properties panel of selectedID out of band, or an empty panel when
// selectedID no longer exists.
func (r *RenderService) RenderCanvasUpdate(pageID, selectedID string) (string, error) {
	rc, err := r.designContext(pageID, selectedID)
	if err != nil {
		return "", err
	}
	canvas := templates.RenderCanvas(rc)
	if node, ok := domainsvc.FindComponent(rc.Page.Components, selectedID); ok && selectedID != "" {
		return canvas +
			templates.RenderOOB(templates.PropertiesTarget, propertiesPanel(rc, node, "")) +
			templates.RenderInsertTarget(templates.InsertTargetFor(node, -1)), nil
	}
	return canvas +
		templates.RenderOOB(templates.PropertiesTarget, templates.RenderNoSelection()) +
		templates.RenderInsertTarget(templates.InsertTargetData{Label: templates.PageRootLabel, OOB: true}), nil
}

func propertiesPanel(rc *rendering.RenderContext, node content.ComponentNode, errMsg string) string {
	props, err := json.MarshalIndent(node.Props, "", "  ")
	if err != nil || node.Props == nil {
		props = []byte("{}")
	}
	parentID := ""
	domainsvc.WalkComponents(rc.Page.Components, func(n *content.ComponentNode, parent *content.ComponentNode) bool {
		if n.ID != node.ID {
			return true
		}
		if parent != nil {
			parentID = parent.ID
		}
		return false
	})
	return templates.RenderProperties(templates.PropertiesData{
		PageID:    rc.Page.ID,
		Node:      node,
		APIs:      rc.APIs,
		Parents:   templates.ParentOptions(rc.Page.Components, node.ID),
		ParentID:  parentID,
		PropsJSON: string(props),
		Error:     errMsg,
	})
}

// RenderDashboard renders the admin dashboard.
func (r *RenderService) RenderDashboard(errMsg string) string {
	doc := r.documents.Document()
	return templates.RenderDashboard(templates.DashboardData{
		Settings: doc.Settings,
		Pages:    doc.Pages,
		APIs:     doc.APIs,
		Users:    doc.Users,
		Error:    errMsg,
	})
}

// RenderLogin renders the user or admin sign in page.
func (r *RenderService) RenderLogin(admin bool, username, errMsg string) string {
	settings := r.documents.Document().Settings
	if admin {
		return templates.RenderAdminLogin(settings, username, errMsg)
	}
	return templates.RenderUserLogin(settings, username, errMsg)
}

func (r *RenderService) observe(mode rendering.Mode, start time.Time) {
	r.metrics.PageRenders.WithLabelValues(string(mode)).Inc()
	r.metrics.RenderDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
}
