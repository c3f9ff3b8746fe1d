package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/admini-go/internal/presentation/i18n"
	"github.com/AtRiskMedia/admini-go/internal/presentation/templates"
	elements "github.com/AtRiskMedia/admini-go/internal/presentation/templates/elements"
)

var errPropsNotObject = errors.New("props must be a JSON object")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// EditorHandlers serves the admin dashboard and the page editor.
type EditorHandlers struct {
	documentService *services.DocumentService
	renderService   *services.RenderService
	mediaService    *services.MediaService
	broadcaster     *messaging.EditorBroadcaster
	maxUploadBytes  int64
	logger          *logging.ChanneledLogger
}

// NewEditorHandlers creates editor handlers with injected dependencies
func NewEditorHandlers(documentService *services.DocumentService, renderService *services.RenderService, mediaService *services.MediaService, broadcaster *messaging.EditorBroadcaster, maxUploadBytes int64, logger *logging.ChanneledLogger) *EditorHandlers {
	return &EditorHandlers{
		documentService: documentService,
		renderService:   renderService,
		mediaService:    mediaService,
		broadcaster:     broadcaster,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// GetDashboard handles GET /admin
func (h *EditorHandlers) GetDashboard(c *gin.Context) {
	respondHTML(c, http.StatusOK, h.renderService.RenderDashboard(""))
}

// PostPage handles POST /admin/pages - create a page and open it
func (h *EditorHandlers) PostPage(c *gin.Context) {
	start := time.Now()
	h.logger.Editor().Debug("Received create page request", "method", c.Request.Method, "path", c.Request.URL.Path)

	cmd := &services.SavePageCommand{Page: content.PageDefinition{
		Name:       strings.TrimSpace(c.PostForm("name")),
		Slug:       c.PostForm("slug"),
		Components: []content.ComponentNode{},
	}}
	if err := h.documentService.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Editor().Warn("Create page failed", "error", err)
		respondHTML(c, statusFor(err), h.renderService.RenderDashboard(err.Error()))
		return
	}

	h.logger.Editor().Info("Create page request completed", "pageId", cmd.Page.ID, "duration", time.Since(start))
	c.Redirect(http.StatusSeeOther, elements.EditorURL(cmd.Page.ID))
}

// PostDeletePage handles POST /admin/pages/:id/delete
func (h *EditorHandlers) PostDeletePage(c *gin.Context) {
	h.logger.Editor().Debug("Received delete page request", "method", c.Request.Method, "path", c.Request.URL.Path)

	if err := h.documentService.Execute(c.Request.Context(), services.DeletePageCommand{ID: c.Param("id")}); err != nil {
		h.logger.Editor().Warn("Delete page failed", "pageId", c.Param("id"), "error", err)
		respondHTML(c, statusFor(err), h.renderService.RenderDashboard(err.Error()))
		return
	}
	c.Redirect(http.StatusSeeOther, middleware.AdminHomePath)
}

// PostSettings handles POST /admin/settings - multipart with an optional
// icon file.
func (h *EditorHandlers) PostSettings(c *gin.Context) {
	start := time.Now()
	h.logger.Editor().Debug("Received settings request", "method", c.Request.Method, "path", c.Request.URL.Path)

	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respondHTML(c, http.StatusBadRequest, h.renderService.RenderDashboard("Invalid upload: "+err.Error()))
		return
	}
	settings := content.Settings{
		AppTitle: strings.TrimSpace(c.PostForm("appTitle")),
		Theme:    content.Theme(c.PostForm("theme")),
	}
	if header, err := c.FormFile("icon"); err == nil && header.Filename != "" {
		f, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(c, err)
			return
		}
		settings.AppIcon = services.DataURL(header.Header.Get("Content-Type"), raw)
	}

	if err := h.mediaService.SaveSettings(c.Request.Context(), settings); err != nil {
		h.logger.Editor().Warn("Settings update failed", "error", err)
		respondHTML(c, statusFor(err), h.renderService.RenderDashboard(err.Error()))
		return
	}

	h.logger.Editor().Info("Settings request completed", "duration", time.Since(start))
	c.Redirect(http.StatusSeeOther, middleware.AdminHomePath)
}

// PostLanguage handles POST /admin/language - the editor's language switcher
func (h *EditorHandlers) PostLanguage(c *gin.Context) {
	h.logger.Editor().Debug("Received language request", "method", c.Request.Method, "lang", c.PostForm("lang"))

	tag, ok := i18n.Parse(c.PostForm("lang"))
	if !ok {
		respondHTML(c, http.StatusBadRequest, h.renderService.RenderDashboard("Unsupported language"))
		return
	}
	i18n.SetLanguage(c, tag)

	next := c.PostForm("next")
	if !strings.HasPrefix(next, middleware.AdminHomePath) || strings.HasPrefix(next, "//") {
		next = middleware.AdminHomePath
	}
	c.Redirect(http.StatusSeeOther, next)
}

// GetEditor handles GET /admin/editor/:pageId
func (h *EditorHandlers) GetEditor(c *gin.Context) {
	start := time.Now()
	pageID := c.Param("pageId")
	h.logger.Editor().Debug("Received editor request", "method", c.Request.Method, "pageId", pageID)

	html, err := h.renderService.RenderEditor(pageID, i18n.FromContext(c))
	if err != nil {
		respondHTML(c, statusFor(err), templates.RenderNotFound())
		return
	}

	h.logger.Editor().Info("Editor request completed", "pageId", pageID, "duration", time.Since(start))
	respondHTML(c, http.StatusOK, html)
}

// GetCanvas handles GET /admin/editor/:pageId/canvas
func (h *EditorHandlers) GetCanvas(c *gin.Context) {
	html, err := h.renderService.RenderDesign(c.Param("pageId"), c.Query("selected"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondHTML(c, http.StatusOK, html)
}

// GetProperties handles GET /admin/editor/:pageId/properties/:componentId
func (h *EditorHandlers) GetProperties(c *gin.Context) {
	pageID, componentID := c.Param("pageId"), c.Param("componentId")
	h.logger.Editor().Debug("Received properties request", "pageId", pageID, "componentId", componentID)

	html, err := h.renderService.RenderProperties(pageID, componentID, parseColumn(c.Query("column")), "")
	if err != nil {
		respondError(c, err)
		return
	}
	respondHTML(c, http.StatusOK, html)
}

// PostComponent handles POST /admin/editor/:pageId/components - insert a
// palette component under the current insert target.
func (h *EditorHandlers) PostComponent(c *gin.Context) {
	start := time.Now()
	pageID := c.Param("pageId")
	h.logger.Editor().Debug("Received insert component request", "pageId", pageID, "type", c.PostForm("type"))

	cmd := &services.InsertComponentCommand{
		PageID:   pageID,
		ParentID: c.PostForm("parentId"),
		Type:     content.ComponentType(c.PostForm("type")),
		Column:   parseColumn(c.PostForm("column")),
	}
	if err := h.documentService.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Editor().Warn("Insert component failed", "pageId", pageID, "error", err)
		respondError(c, err)
		return
	}

	h.logger.Editor().Info("Insert component request completed", "componentId", cmd.Node.ID, "duration", time.Since(start))
	h.canvasUpdate(c, pageID, cmd.Node.ID)
}

// PostComponentPatch handles POST /admin/editor/:pageId/components/:componentId
func (h *EditorHandlers) PostComponentPatch(c *gin.Context) {
	start := time.Now()
	pageID, componentID := c.Param("pageId"), c.Param("componentId")
	h.logger.Editor().Debug("Received update component request", "pageId", pageID, "componentId", componentID)

	label := c.PostForm("label")
	apiID := c.PostForm("apiId")
	props, err := parseProps(c.PostForm("props"))
	if err != nil {
		h.propertiesError(c, pageID, componentID, err)
		return
	}

	cmd := services.UpdateComponentCommand{
		PageID:      pageID,
		ComponentID: componentID,
		Patch:       domainsvc.ComponentPatch{Label: &label, ApiID: &apiID, Props: props},
	}
	if err := h.documentService.Execute(c.Request.Context(), cmd); err != nil {
		h.propertiesError(c, pageID, componentID, err)
		return
	}

	h.logger.Editor().Info("Update component request completed", "componentId", componentID, "duration", time.Since(start))
	h.canvasUpdate(c, pageID, componentID)
}

// DeleteComponent handles DELETE /admin/editor/:pageId/components/:componentId
func (h *EditorHandlers) DeleteComponent(c *gin.Context) {
	pageID, componentID := c.Param("pageId"), c.Param("componentId")
	h.logger.Editor().Debug("Received delete component request", "pageId", pageID, "componentId", componentID)

	if err := h.documentService.Execute(c.Request.Context(), services.DeleteComponentCommand{PageID: pageID, ComponentID: componentID}); err != nil {
		respondError(c, err)
		return
	}
	h.canvasUpdate(c, pageID, "")
}

// PostMoveComponent handles POST /admin/editor/:pageId/components/:componentId/move
func (h *EditorHandlers) PostMoveComponent(c *gin.Context) {
	pageID, componentID := c.Param("pageId"), c.Param("componentId")
	h.logger.Editor().Debug("Received move component request", "pageId", pageID, "componentId", componentID)

	cmd := services.MoveComponentCommand{
		PageID:      pageID,
		ComponentID: componentID,
		ParentID:    c.PostForm("parentId"),
		Column:      parseColumn(c.PostForm("column")),
	}
	if err := h.documentService.Execute(c.Request.Context(), cmd); err != nil {
		h.propertiesError(c, pageID, componentID, err)
		return
	}
	h.canvasUpdate(c, pageID, componentID)
}

// GetSocket handles GET /admin/editor/:pageId/ws - live reload events
func (h *EditorHandlers) GetSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Editor().Warn("Websocket upgrade failed", "error", err)
		return
	}
	h.broadcaster.Serve(conn, c.Param("pageId"))
}

func (h *EditorHandlers) canvasUpdate(c *gin.Context, pageID, selectedID string) {
	html, err := h.renderService.RenderCanvasUpdate(pageID, selectedID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondHTML(c, http.StatusOK, html)
}

// propertiesError re-renders the properties panel with the failure shown,
// retargeting the swap away from the canvas.
func (h *EditorHandlers) propertiesError(c *gin.Context, pageID, componentID string, cause error) {
	h.logger.Editor().Warn("Component command failed", "pageId", pageID, "componentId", componentID, "error", cause)
	html, err := h.renderService.RenderProperties(pageID, componentID, -1, cause.Error())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("HX-Retarget", "#"+templates.PropertiesTarget)
	respondHTML(c, http.StatusOK, html)
}

// parseColumn reads a layout column; empty or invalid input appends.
func parseColumn(raw string) int {
	column, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return -1
	}
	return column
}

func parseProps(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(raw), &props); err != nil || props == nil {
		return nil, errPropsNotObject
	}
	return props, nil
}
