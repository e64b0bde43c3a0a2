package web

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskmaster/internal/delivery/http/session"
)

// HandleEvents streams the user's task events as server-sent events.
func (h *Handler) HandleEvents(c *gin.Context) {
	id, ok := session.FromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if h.broker == nil {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}

	ch, cancel := h.broker.Subscribe(id.UserID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.logger.Debug().
		Str("user_id", id.UserID).
		Int("streams", h.broker.SubscriberCount(id.UserID)).
		Msg("opened event stream")
	c.Stream(func(io.Writer) bool {
		select {
		case event, open := <-ch:
			if !open {
				h.logger.Debug().
					Str("user_id", id.UserID).
					Msg("event bus closed, ending stream")
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
