package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/propfi-txbuilder/internal/api/shared/errors"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
	"github.com/feral-file/propfi-txbuilder/internal/metrics"
	"github.com/feral-file/propfi-txbuilder/internal/ratelimit"
)

// RateLimit returns a gin middleware that throttles each client IP.
// A nil limiter disables throttling.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		allowed, retryAfter := limiter.Allow(clientIP)
		if allowed {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRateLimited(path, limiter.Size())

		logger.WarnCtx(c.Request.Context(), "Rate limit exceeded",
			zap.String("client_ip", clientIP),
			zap.String("path", path),
			zap.Duration("retry_after", retryAfter))

		seconds := int(retryAfter.Seconds())
		c.Header("Retry-After", strconv.Itoa(seconds))
		apiErr := apierrors.NewRateLimitedError("retry after " + strconv.Itoa(seconds) + "s")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	}
}
