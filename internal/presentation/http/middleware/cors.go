package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// htmxRequestHeaders are sent by htmx on every request it issues.
var htmxRequestHeaders = []string{
	"HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger", "HX-Trigger-Name", "HX-Boosted",
}

// htmxResponseHeaders drive client-side swaps and must be readable
// cross-origin.
var htmxResponseHeaders = []string{"HX-Trigger", "HX-Retarget", "HX-Redirect"}

// CORSMiddleware lets the configured origins call the app with cookies.
// With no origins every cross-origin request is refused.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     append([]string{"Origin", "Content-Type", "Accept", "Cache-Control"}, htmxRequestHeaders...),
		ExposeHeaders:    append([]string{"Content-Type"}, htmxResponseHeaders...),
		AllowCredentials: true,
	}
	if len(origins) == 0 {
		config.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(config)
}
