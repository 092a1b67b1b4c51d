package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

// RateLimitMiddleware limits requests per verified subject. Limiter errors
// let the request through.
func RateLimitMiddleware(limiter ports.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), identity.Subject)
		if err != nil {
			zap.L().Warn("rate limit check failed", zap.String("owner_id", identity.Subject), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abortWithError(c, apierrors.CreateErrorWithData(
				http.StatusTooManyRequests,
				apierrors.MsgRateLimited,
				GetLang(c),
				map[string]any{"RetryAfter": retryAfter},
			))
			return
		}

		c.Next()
	}
}
