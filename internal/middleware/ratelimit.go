package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/metrics"
	"tg-miniapp-backend/internal/services"
)

// Counter increments a fixed-window counter and returns the new value.
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per user per window for scope. A nil counter or a counter
// error lets the request through.
func RateLimit(counter Counter, scope string, limit int, window time.Duration, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.GetString(KeyUserID))
		n, err := counter.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			log.WithError(err).WithField("scope", scope).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if n > int64(limit) {
			metrics.IncRateLimited(scope)
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abort(c, http.StatusTooManyRequests, services.ErrRateLimited)
			return
		}
		c.Next()
	}
}
