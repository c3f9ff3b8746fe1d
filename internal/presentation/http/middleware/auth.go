// Package middleware provides HTTP middleware for route gating and CORS.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Session cookie names.
const (
	AdminCookie = "admin-token"
	UserCookie  = "auth-token"
)

const (
	UserLoginPath  = "/login"
	AdminHomePath  = "/admin"
	AdminLoginPath = "/admin/login"
)

// publicPrefixes never require a session.
var publicPrefixes = []string{"/api/auth/", "/media/"}

var publicPaths = map[string]bool{
	UserLoginPath: true,
	"/healthz":    true,
	"/metrics":    true,
}

// TokenValidator reports whether an admin token is a live session.
type TokenValidator interface {
	ValidateAdminToken(token string) bool
}

// IsPublicPath reports whether path is reachable without any session.
func IsPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAdminPath(path string) bool {
	return path == AdminHomePath || strings.HasPrefix(path, AdminHomePath+"/")
}

// RouteGate redirects browsers between login pages and the app based on
// cookie presence. Token validity is checked by the handlers behind it.
func RouteGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		hasUser := hasCookie(c, UserCookie)
		hasAdmin := hasCookie(c, AdminCookie)

		switch {
		case path == AdminLoginPath:
			if hasAdmin {
				redirect(c, AdminHomePath)
				return
			}
		case isAdminPath(path):
			if !hasAdmin {
				redirect(c, AdminLoginPath)
				return
			}
		case path == UserLoginPath:
			if hasUser {
				redirect(c, "/")
				return
			}
		case strings.HasPrefix(path, "/api/"):
			// JSON callers get 401 from AdminOnly instead of a redirect.
		case !IsPublicPath(path):
			if !hasUser {
				redirect(c, UserLoginPath)
				return
			}
		}
		c.Next()
	}
}

// AdminOnly rejects requests without a valid admin-token.
func AdminOnly(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookie)
		if err != nil || !validator.ValidateAdminToken(token) {
			// Drop a stale cookie so the login page does not bounce back here.
			c.SetCookie(AdminCookie, "", -1, "/", "", false, true)
			if isAdminPath(c.Request.URL.Path) && c.Request.Method == http.MethodGet && c.GetHeader("HX-Request") == "" {
				redirect(c, AdminLoginPath)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin session required"})
			return
		}
		c.Next()
	}
}

func hasCookie(c *gin.Context, name string) bool {
	value, err := c.Cookie(name)
	return err == nil && value != ""
}

func redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusFound, to)
	c.Abort()
}
