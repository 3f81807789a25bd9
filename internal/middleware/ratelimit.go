package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// LoginRateLimiter limits login attempts per client IP over a fixed window.
// A nil client disables limiting entirely. Redis faults fail open: rate
// limiting protects the password hasher from brute force, it is not part of
// the authorization decision.
func LoginRateLimiter(client *redis.Client, window time.Duration, limit int, log *logrus.Logger) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:login:%s", c.ClientIP())
		ctx := c.Request.Context()

		// INCR and EXPIRE run in one pipeline so the counter can never be
		// left without an expiry: ExpireNX only sets the TTL when the key
		// has none, and it is retried on every attempt.
		pipe := client.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many login attempts. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
