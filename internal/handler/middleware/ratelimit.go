package middleware

import (
	"log/slog"
	"net/http"

	"exoterior-booking/internal/handler/httperr"
	"exoterior-booking/internal/infra/ratelimit"
	"exoterior-booking/internal/pkg/errs"
	"exoterior-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

var errRateLimited = errs.New("rate limit exceeded")

// RateLimit keys by client IP and fails open when the limiter backend errors.
func RateLimit(limiter ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rate limiter unavailable, allowing request",
				"client_ip", c.ClientIP(),
				"error", err.Error())
			c.Next()
			return
		}
		if !allowed {
			m.ObserveRateLimited()
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Too many requests")
			return
		}
		c.Next()
	}
}
