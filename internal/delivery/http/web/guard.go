package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
)

const (
	homePath  = "/"
	loginPath = "/login"
	authPath  = "/auth"
)

type guardAction int

const (
	guardAllow guardAction = iota
	guardToLogin
	guardToHome
)

func decide(path string, hasSession bool) guardAction {
	switch {
	case path == authPath || strings.HasPrefix(path, authPath+"/"):
		return guardAllow
	case !hasSession && path != loginPath:
		return guardToLogin
	case hasSession && path == loginPath:
		return guardToHome
	default:
		return guardAllow
	}
}

// HandleGuard redirects anonymous visitors to the login page and signed
// in users away from it. A failed lookup counts as no session.
func (h *Handler) HandleGuard(c *gin.Context) {
	id, err := h.sessions.Resolve(c)
	hasSession := err == nil
	if hasSession {
		session.Store(c, id)
	}

	switch decide(c.Request.URL.Path, hasSession) {
	case guardToLogin:
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	case guardToHome:
		c.Redirect(http.StatusFound, homePath)
		c.Abort()
	default:
		c.Next()
	}
}
