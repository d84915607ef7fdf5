package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout bounds request processing by deadline-wrapping the request context.
// Handlers see the deadline through the store calls; a timed-out webhook
// returns 500 so the gateway redelivers instead of losing the event behind a
// false acknowledgment.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
