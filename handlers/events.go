package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
)

// Events streams change signals as server-sent events named after the
// topic, e.g. authStateChange or cartChange
func (h *Handler) Events(c *gin.Context) {
	events, unsubscribe := h.Hub.SubscribeChan(16)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent(ev.Topic.EventName(), ev)
			return true
		}
	})
}
