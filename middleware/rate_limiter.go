package middleware

import (
	"imobil/services/ratelimit"
	"imobil/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errTooManyRequests = utils.NewError(utils.KindRateLimited, "rate_limited", "Rate limit exceeded. Try again later.")

// RateLimitMiddleware limits requests per client IP. A limiter backend failure
// lets the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("ip", ip), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			utils.RespondError(c, errTooManyRequests)
			return
		}
		c.Next()
	}
}
