package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/middleware"
	elements "github.com/AtRiskMedia/admini-go/internal/presentation/templates/elements"
)

// PageHandlers serves published pages and their fragments.
type PageHandlers struct {
	renderService *services.RenderService
	logger        *logging.ChanneledLogger
}

// NewPageHandlers creates page handlers with injected dependencies
func NewPageHandlers(renderService *services.RenderService, logger *logging.ChanneledLogger) *PageHandlers {
	return &PageHandlers{
		renderService: renderService,
		logger:        logger,
	}
}

// GetPage handles GET on any unrouted path - the page shell in its
// initializing state. Content loads through GetContent.
func (h *PageHandlers) GetPage(c *gin.Context) {
	start := time.Now()
	h.logger.Render().Debug("Received page request", "method", c.Request.Method, "path", c.Request.URL.Path)

	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	userToken, _ := c.Cookie(middleware.UserCookie)
	result := h.renderService.RenderShell(c.Request.URL.Path, userToken)
	status := http.StatusOK
	if !result.Found {
		status = http.StatusNotFound
	}

	h.logger.Render().Info("Page shell request completed", "path", c.Request.URL.Path, "status", status, "duration", time.Since(start))
	respondHTML(c, status, result.HTML)
}

// GetContent handles GET /app/content?path= - the ready page body with all
// bound data fetched.
func (h *PageHandlers) GetContent(c *gin.Context) {
	start := time.Now()
	path := c.Query("path")
	h.logger.Render().Debug("Received page content request", "method", c.Request.Method, "path", path)

	result := h.renderService.RenderContent(c.Request.Context(), path)
	status := http.StatusOK
	if !result.Found {
		status = http.StatusNotFound
	}

	h.logger.Render().Info("Page content request completed", "path", path, "status", status, "duration", time.Since(start))
	respondHTML(c, status, result.HTML)
}

// GetFragment handles GET /app/fragments/:pageId/:componentId - one
// data-bound component re-rendered with fresh data.
func (h *PageHandlers) GetFragment(c *gin.Context) {
	start := time.Now()
	pageID := c.Param("pageId")
	componentID := c.Param("componentId")
	h.logger.Render().Debug("Received fragment request", "method", c.Request.Method, "pageId", pageID, "componentId", componentID)

	html, err := h.renderService.RenderFragment(c.Request.Context(), pageID, componentID, c.Query(elements.ValPath), c.Query(elements.ValSession))
	if err != nil {
		h.logger.Render().Warn("Fragment render failed", "pageId", pageID, "componentId", componentID, "error", err)
		respondError(c, err)
		return
	}

	h.logger.Render().Info("Fragment request completed", "componentId", componentID, "duration", time.Since(start))
	respondHTML(c, http.StatusOK, html)
}

// GetStatusReset handles GET /app/actions/status - clears an expired action
// status, asking bound components to refresh when requested.
func (h *PageHandlers) GetStatusReset(c *gin.Context) {
	if c.Query(elements.RefreshQuery) != "" {
		c.Header("HX-Trigger", elements.RefreshEvent)
	}
	respondHTML(c, http.StatusOK, "")
}
