// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/admini-go/internal/application/services"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/media"
)

const htmlContentType = "text/html; charset=utf-8"

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPageNotFound),
		errors.Is(err, services.ErrAPINotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, domainsvc.ErrComponentNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCommand),
		errors.Is(err, services.ErrUsernameInUse),
		errors.Is(err, services.ErrUnknownTheme),
		errors.Is(err, services.ErrNotSubmittable),
		errors.Is(err, domainsvc.ErrNotContainer),
		errors.Is(err, domainsvc.ErrInvalidColumn),
		errors.Is(err, domainsvc.ErrInvalidMove),
		errors.Is(err, media.ErrEmptyImage),
		errors.Is(err, media.ErrUnsupportedImage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func respondHTML(c *gin.Context, status int, html string) {
	c.Data(status, htmlContentType, []byte(html))
}
