package middleware

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"anoa.com/freelancehub/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
)

// RateLimit throttles a route group per client IP. Redis failures let the request through.
func RateLimit(limiter *ratelimiter.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := limiter.Allow(c.Request.Context(), scope, c.ClientIP())
		if err == nil {
			c.Next()
			return
		}

		var rateErr *ratelimiter.RateLimitError
		if errors.As(err, &rateErr) {
			seconds := int(math.Ceil(rateErr.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rateErr.Message, "status": "rate_limited"})
			return
		}

		log.Printf("rate limiter unavailable: %v", err)
		c.Next()
	}
}
