package i18n

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// CookieName holds the language picked in the switcher.
	CookieName = "admini_lang"

	contextKey = "admini.lang"
	cookieAge  = 365 * 24 * time.Hour
)

// Middleware resolves the request language from the switcher cookie, then
// Accept-Language.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		chosen, _ := c.Cookie(CookieName)
		c.Set(contextKey, Resolve(chosen, c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// FromContext returns the language resolved by Middleware.
func FromContext(c *gin.Context) language.Tag {
	if v, ok := c.Get(contextKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return DefaultLang
}

// SetLanguage stores the switcher choice.
func SetLanguage(c *gin.Context, tag language.Tag) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, tag.String(), int(cookieAge.Seconds()), "/", "", false, true)
}
