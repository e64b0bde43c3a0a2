package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	themeCookie = "theme"
	themeMaxAge = 365 * 24 * 60 * 60

	ThemeLight = "light"
	ThemeDark  = "dark"
)

func (h *Handler) theme(c *gin.Context) string {
	if value, _ := c.Cookie(themeCookie); value == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (h *Handler) HandleToggleTheme(c *gin.Context) {
	next := ThemeDark
	if h.theme(c) == ThemeDark {
		next = ThemeLight
	}
	c.SetCookie(themeCookie, next, themeMaxAge, "/", "", h.secureCookies, false)

	c.Redirect(http.StatusSeeOther, backPath(c))
}

// backPath is the local path the request came from, or home.
func backPath(c *gin.Context) string {
	referer := c.Request.Referer()
	if referer == "" {
		return homePath
	}
	host := c.Request.Host
	for _, scheme := range []string{"http://", "https://"} {
		referer = strings.TrimPrefix(referer, scheme+host)
	}
	if !strings.HasPrefix(referer, "/") || strings.HasPrefix(referer, "//") {
		return homePath
	}
	return referer
}
