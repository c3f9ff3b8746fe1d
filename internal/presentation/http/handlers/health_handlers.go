package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
)

// HealthHandlers answers liveness probes.
type HealthHandlers struct {
	documentService *services.DocumentService
}

// NewHealthHandlers creates health handlers
func NewHealthHandlers(documentService *services.DocumentService) *HealthHandlers {
	return &HealthHandlers{documentService: documentService}
}

// GetHealth handles GET /healthz
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"revision": h.documentService.Revision(),
	})
}
