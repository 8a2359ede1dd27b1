package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/coupondrop/coupondrop/internal/api/response"
)

// IPRateLimit bounds requests per client IP with a token bucket. This is an
// abuse guard in front of the domain-level one-claim-per-hour window, not a
// replacement for it.
func IPRateLimit(perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst <= 0 {
		burst = perMinute
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limit := rate.Limit(float64(perMinute) / 60.0)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(limit, burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			response.Fail(c, 429, response.ErrRateLimited, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
