package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiters stores one token bucket per client IP. Operator terminals
// and machine firmware report from distinct addresses, so per-IP buckets
// keep one noisy client from starving the rest.
type clientLimiters struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

func newClientLimiters(r rate.Limit, b int) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.RLock()
	limiter, exists := cl.limiters[ip]
	cl.mu.RUnlock()
	if exists {
		return limiter
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if limiter, exists = cl.limiters[ip]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(cl.r, cl.b)
	cl.limiters[ip] = limiter
	return limiter
}

// RateLimiter is a middleware for per-client rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiters := newClientLimiters(r, b)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
