package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/middleware"
)

// CookieConfig controls the session cookies set on login.
type CookieConfig struct {
	MaxAge int
	Secure bool
}

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService     *services.AuthService
	documentService *services.DocumentService
	renderService   *services.RenderService
	cookies         CookieConfig
	logger          *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, documentService *services.DocumentService, renderService *services.RenderService, cookies CookieConfig, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		authService:     authService,
		documentService: documentService,
		renderService:   renderService,
		cookies:         cookies,
		logger:          logger,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// GetUserLogin handles GET /login
func (h *AuthHandlers) GetUserLogin(c *gin.Context) {
	respondHTML(c, http.StatusOK, h.renderService.RenderLogin(false, "", ""))
}

// GetAdminLogin handles GET /admin/login
func (h *AuthHandlers) GetAdminLogin(c *gin.Context) {
	respondHTML(c, http.StatusOK, h.renderService.RenderLogin(true, "", ""))
}

// PostUserLogin handles POST /api/auth/login - end-user authentication
func (h *AuthHandlers) PostUserLogin(c *gin.Context) {
	start := time.Now()
	h.logger.Auth().Debug("Received user login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	req, ok := h.bindLogin(c)
	if !ok {
		return
	}
	result := h.authService.AuthenticateUser(h.documentService.Document(), req.Username, req.Password)
	h.finishLogin(c, false, req, result, start)
}

// PostAdminLogin handles POST /api/auth/admin/login - administrator authentication
func (h *AuthHandlers) PostAdminLogin(c *gin.Context) {
	start := time.Now()
	h.logger.Auth().Debug("Received admin login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	req, ok := h.bindLogin(c)
	if !ok {
		return
	}
	result := h.authService.AuthenticateAdmin(req.Username, req.Password)
	h.finishLogin(c, true, req, result, start)
}

// PostUserLogout handles POST /api/auth/logout
func (h *AuthHandlers) PostUserLogout(c *gin.Context) {
	h.logger.Auth().Debug("Received user logout request", "method", c.Request.Method, "path", c.Request.URL.Path)
	h.clearCookie(c, middleware.UserCookie)
	h.logger.Auth().Info("User logout completed")
	h.finishLogout(c, middleware.UserLoginPath)
}

// PostAdminLogout handles POST /api/auth/admin/logout
func (h *AuthHandlers) PostAdminLogout(c *gin.Context) {
	h.logger.Auth().Debug("Received admin logout request", "method", c.Request.Method, "path", c.Request.URL.Path)
	h.clearCookie(c, middleware.AdminCookie)
	h.logger.Auth().Info("Admin logout completed")
	h.finishLogout(c, middleware.AdminLoginPath)
}

func (h *AuthHandlers) bindLogin(c *gin.Context) (loginRequest, bool) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Auth().Error("Login request binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	return req, true
}

func (h *AuthHandlers) finishLogin(c *gin.Context, admin bool, req loginRequest, result *services.AuthResult, start time.Time) {
	wantsJSON := isJSON(c)
	if !result.Success {
		h.logger.Auth().Warn("Login attempt failed", "admin", admin, "error", result.Error, "duration", time.Since(start))
		if wantsJSON {
			c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
			return
		}
		respondHTML(c, http.StatusUnauthorized, h.renderService.RenderLogin(admin, req.Username, result.Error))
		return
	}

	cookie, next := middleware.UserCookie, "/"
	if admin {
		cookie, next = middleware.AdminCookie, middleware.AdminHomePath
	}
	c.SetCookie(cookie, result.Token, h.cookies.MaxAge, "/", "", h.cookies.Secure, true)

	h.logger.Auth().Info("Login completed", "admin", admin, "duration", time.Since(start))
	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"success": true, "role": result.Role})
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *AuthHandlers) clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", h.cookies.Secure, true)
}

func (h *AuthHandlers) finishLogout(c *gin.Context, next string) {
	if isJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

func isJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}
