package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
)

// HandleAuthMiddleware accepts a bearer token or the access token
// cookie and falls back to the refresh token cookie once.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	id, err := h.sessions.Resolve(c)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("path", c.Request.URL.Path).
			Msg("unauthorized request")
		abort(c, newUnauthorizedError(errUnauthorized.Error()))
		return
	}

	session.Store(c, id)
	c.Next()
}
