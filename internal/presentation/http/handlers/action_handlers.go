package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	elements "github.com/AtRiskMedia/admini-go/internal/presentation/templates/elements"
)

// ActionHandlers runs api buttons, row actions and form submissions.
type ActionHandlers struct {
	actionService  *services.ActionService
	maxUploadBytes int64
	logger         *logging.ChanneledLogger
}

// NewActionHandlers creates action handlers with injected dependencies
func NewActionHandlers(actionService *services.ActionService, maxUploadBytes int64, logger *logging.ChanneledLogger) *ActionHandlers {
	return &ActionHandlers{
		actionService:  actionService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// PostButton handles POST /app/actions/button/:pageId/:componentId
func (h *ActionHandlers) PostButton(c *gin.Context) {
	start := time.Now()
	h.logger.Outbound().Debug("Received button action request", "method", c.Request.Method, "path", c.Request.URL.Path)

	sub, err := h.parseSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.actionService.Button(c.Request.Context(), actionRequest(c, sub))
	h.respond(c, "Button action", result, err, start)
}

// PostRow handles POST /app/actions/row/:pageId/:componentId/:actionId
func (h *ActionHandlers) PostRow(c *gin.Context) {
	start := time.Now()
	h.logger.Outbound().Debug("Received row action request", "method", c.Request.Method, "path", c.Request.URL.Path)

	sub, err := h.parseSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.actionService.Row(c.Request.Context(), actionRequest(c, sub))
	h.respond(c, "Row action", result, err, start)
}

// PostForm handles POST /app/actions/form/:pageId/:componentId
func (h *ActionHandlers) PostForm(c *gin.Context) {
	start := time.Now()
	h.logger.Outbound().Debug("Received form submission request", "method", c.Request.Method, "path", c.Request.URL.Path)

	sub, err := h.parseSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.actionService.Form(c.Request.Context(), actionRequest(c, sub), sub)
	h.respond(c, "Form submission", result, err, start)
}

func (h *ActionHandlers) respond(c *gin.Context, name string, result *services.ActionResult, err error, start time.Time) {
	if err != nil {
		h.logger.Outbound().Warn(name+" rejected", "path", c.Request.URL.Path, "error", err)
		respondError(c, err)
		return
	}
	if result.Refresh {
		c.Header("HX-Trigger", elements.RefreshEvent)
	}
	h.logger.Outbound().Info(name+" completed", "success", result.Success, "duration", time.Since(start))
	respondHTML(c, http.StatusOK, result.HTML)
}

// parseSubmission reads an urlencoded or multipart body.
func (h *ActionHandlers) parseSubmission(c *gin.Context) (services.Submission, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return services.Submission{}, fmt.Errorf("invalid multipart body: %w", err)
		}
		form := c.Request.MultipartForm
		return services.Submission{Values: form.Value, Files: form.File}, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return services.Submission{}, fmt.Errorf("invalid form body: %w", err)
	}
	return services.Submission{Values: c.Request.PostForm}, nil
}

func actionRequest(c *gin.Context, sub services.Submission) services.ActionRequest {
	return services.ActionRequest{
		PageID:      c.Param("pageId"),
		ComponentID: c.Param("componentId"),
		ActionID:    c.Param("actionId"),
		Path:        sub.Values.Get(elements.ValPath),
		SessionID:   sub.Values.Get(elements.ValSession),
		Row:         sub.Values.Get(elements.ValRow),
	}
}
