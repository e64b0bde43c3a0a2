package web

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/dashboard"
)

const (
	flashCookie = "flash"
	flashMaxAge = 60
)

// setFlash keeps notices across a redirect.
func (h *Handler) setFlash(c *gin.Context, notices ...dashboard.Notice) {
	if len(notices) == 0 {
		return
	}
	data, err := json.Marshal(notices)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to marshal flash")
		return
	}
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(data),
		flashMaxAge, "/", "", h.secureCookies, true)
}

// popFlash returns and clears the pending notices.
func (h *Handler) popFlash(c *gin.Context) []dashboard.Notice {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", h.secureCookies, true)

	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("dropped malformed flash")
		return nil
	}
	var notices []dashboard.Notice
	if err = json.Unmarshal(data, &notices); err != nil {
		h.logger.Debug().
			Err(err).
			Msg("dropped malformed flash")
		return nil
	}
	return notices
}
