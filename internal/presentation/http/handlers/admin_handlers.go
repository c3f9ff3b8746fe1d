package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

// AdminHandlers exposes the document over JSON for administrators.
type AdminHandlers struct {
	documentService *services.DocumentService
	mediaService    *services.MediaService
	logger          *logging.ChanneledLogger
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(documentService *services.DocumentService, mediaService *services.MediaService, logger *logging.ChanneledLogger) *AdminHandlers {
	return &AdminHandlers{
		documentService: documentService,
		mediaService:    mediaService,
		logger:          logger,
	}
}

// execute runs cmd and answers with body, or with the mapped error.
func (h *AdminHandlers) execute(c *gin.Context, cmd services.Command, status int, body func() any) {
	start := time.Now()
	h.logger.Content().Debug("Received admin command request", "method", c.Request.Method, "path", c.Request.URL.Path, "command", cmd.Name())

	if err := h.documentService.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Content().Warn("Admin command failed", "command", cmd.Name(), "error", err)
		respondError(c, err)
		return
	}

	h.logger.Content().Info("Admin command completed", "command", cmd.Name(), "duration", time.Since(start))
	if body == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(status, body())
}

func (h *AdminHandlers) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.logger.Content().Error("Admin request JSON binding failed", "path", c.Request.URL.Path, "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return false
	}
	return true
}

// GetStorage handles GET /api/storage - the whole document
func (h *AdminHandlers) GetStorage(c *gin.Context) {
	c.JSON(http.StatusOK, h.documentService.Document())
}

// PostStorage handles POST /api/storage - overwrite the whole document
func (h *AdminHandlers) PostStorage(c *gin.Context) {
	doc := content.NewDocument()
	if !h.bind(c, doc) {
		return
	}
	doc.Normalize()
	h.execute(c, services.ReplaceDocumentCommand{Document: doc}, http.StatusOK, func() any {
		return gin.H{"success": true}
	})
}

// GetAPIs handles GET /api/admin/apis
func (h *AdminHandlers) GetAPIs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"apis": h.documentService.Document().APIs})
}

// SaveAPI handles POST /api/admin/apis and PUT /api/admin/apis/:id
func (h *AdminHandlers) SaveAPI(c *gin.Context) {
	var api content.ApiDefinition
	if !h.bind(c, &api) {
		return
	}
	if id := c.Param("id"); id != "" {
		if _, ok := content.FindAPI(h.documentService.Document().APIs, id); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrAPINotFound.Error()})
			return
		}
		api.ID = id
	}
	cmd := &services.SaveAPICommand{API: api}
	h.execute(c, cmd, saveStatus(c), func() any { return cmd.API })
}

// DeleteAPI handles DELETE /api/admin/apis/:id
func (h *AdminHandlers) DeleteAPI(c *gin.Context) {
	h.execute(c, services.DeleteAPICommand{ID: c.Param("id")}, http.StatusNoContent, nil)
}

// GetPages handles GET /api/admin/pages
func (h *AdminHandlers) GetPages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pages": h.documentService.Document().Pages})
}

// GetPage handles GET /api/admin/pages/:id
func (h *AdminHandlers) GetPage(c *gin.Context) {
	page, ok := h.documentService.Document().FindPage(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrPageNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// SavePage handles POST /api/admin/pages and PUT /api/admin/pages/:id
func (h *AdminHandlers) SavePage(c *gin.Context) {
	var page content.PageDefinition
	if !h.bind(c, &page) {
		return
	}
	if id := c.Param("id"); id != "" {
		if _, ok := h.documentService.Document().FindPage(id); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrPageNotFound.Error()})
			return
		}
		page.ID = id
	}
	cmd := &services.SavePageCommand{Page: page}
	h.execute(c, cmd, saveStatus(c), func() any { return cmd.Page })
}

// DeletePage handles DELETE /api/admin/pages/:id
func (h *AdminHandlers) DeletePage(c *gin.Context) {
	h.execute(c, services.DeletePageCommand{ID: c.Param("id")}, http.StatusNoContent, nil)
}

// GetSidebar handles GET /api/admin/sidebar
func (h *AdminHandlers) GetSidebar(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sidebar": h.documentService.Document().Sidebar})
}

// PutSidebar handles PUT /api/admin/sidebar
func (h *AdminHandlers) PutSidebar(c *gin.Context) {
	var req struct {
		Sidebar []content.SidebarItem `json:"sidebar"`
	}
	if !h.bind(c, &req) {
		return
	}
	h.execute(c, services.SaveSidebarCommand{Items: req.Sidebar}, http.StatusOK, func() any {
		return gin.H{"sidebar": h.documentService.Document().Sidebar}
	})
}

// GetSettings handles GET /api/admin/settings
func (h *AdminHandlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.documentService.Document().Settings)
}

// PutSettings handles PUT /api/admin/settings. appIcon may be a data URL,
// which is stored as a resized WebP.
func (h *AdminHandlers) PutSettings(c *gin.Context) {
	start := time.Now()
	h.logger.Content().Debug("Received settings request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var settings content.Settings
	if !h.bind(c, &settings) {
		return
	}
	if err := h.mediaService.SaveSettings(c.Request.Context(), settings); err != nil {
		h.logger.Content().Warn("Settings update failed", "error", err)
		respondError(c, err)
		return
	}

	h.logger.Content().Info("Settings request completed", "duration", time.Since(start))
	c.JSON(http.StatusOK, h.documentService.Document().Settings)
}

// GetUsers handles GET /api/admin/users. Password hashes are never returned.
func (h *AdminHandlers) GetUsers(c *gin.Context) {
	users := h.documentService.Document().Users
	out := make([]content.User, len(users))
	for i, u := range users {
		out[i] = withoutPassword(u)
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// SaveUser handles POST /api/admin/users and PUT /api/admin/users/:id
func (h *AdminHandlers) SaveUser(c *gin.Context) {
	var user content.User
	if !h.bind(c, &user) {
		return
	}
	if id := c.Param("id"); id != "" {
		user.ID = id
	}
	cmd := &services.SaveUserCommand{User: user}
	h.execute(c, cmd, saveStatus(c), func() any { return withoutPassword(cmd.User) })
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *AdminHandlers) DeleteUser(c *gin.Context) {
	h.execute(c, services.DeleteUserCommand{ID: c.Param("id")}, http.StatusNoContent, nil)
}

type insertRequest struct {
	ParentID string                `json:"parentId"`
	Type     content.ComponentType `json:"type"`
	Column   *int                  `json:"column"`
}

// InsertComponent handles POST /api/admin/pages/:id/components
func (h *AdminHandlers) InsertComponent(c *gin.Context) {
	var req insertRequest
	if !h.bind(c, &req) {
		return
	}
	cmd := &services.InsertComponentCommand{
		PageID:   c.Param("id"),
		ParentID: req.ParentID,
		Type:     req.Type,
		Column:   columnOrAppend(req.Column),
	}
	h.execute(c, cmd, http.StatusCreated, func() any { return cmd.Node })
}

// UpdateComponent handles PUT /api/admin/pages/:id/components/:componentId
func (h *AdminHandlers) UpdateComponent(c *gin.Context) {
	var patch domainsvc.ComponentPatch
	if !h.bind(c, &patch) {
		return
	}
	pageID, componentID := c.Param("id"), c.Param("componentId")
	cmd := services.UpdateComponentCommand{PageID: pageID, ComponentID: componentID, Patch: patch}
	h.execute(c, cmd, http.StatusOK, func() any {
		page, ok := h.documentService.Document().FindPage(pageID)
		if !ok {
			return gin.H{}
		}
		node, _ := domainsvc.FindComponent(page.Components, componentID)
		return node
	})
}

// DeleteComponent handles DELETE /api/admin/pages/:id/components/:componentId
func (h *AdminHandlers) DeleteComponent(c *gin.Context) {
	cmd := services.DeleteComponentCommand{PageID: c.Param("id"), ComponentID: c.Param("componentId")}
	h.execute(c, cmd, http.StatusNoContent, nil)
}

// MoveComponent handles POST /api/admin/pages/:id/components/:componentId/move
func (h *AdminHandlers) MoveComponent(c *gin.Context) {
	var req struct {
		ParentID string `json:"parentId"`
		Column   *int   `json:"column"`
	}
	if !h.bind(c, &req) {
		return
	}
	cmd := services.MoveComponentCommand{
		PageID:      c.Param("id"),
		ComponentID: c.Param("componentId"),
		ParentID:    req.ParentID,
		Column:      columnOrAppend(req.Column),
	}
	h.execute(c, cmd, http.StatusOK, func() any {
		page, ok := h.documentService.Document().FindPage(cmd.PageID)
		if !ok {
			return []content.ComponentNode{}
		}
		return page.Components
	})
}

func saveStatus(c *gin.Context) int {
	if c.Request.Method == http.MethodPost {
		return http.StatusCreated
	}
	return http.StatusOK
}

func columnOrAppend(column *int) int {
	if column == nil {
		return -1
	}
	return *column
}

func withoutPassword(u content.User) content.User {
	u.Password = ""
	return u
}
