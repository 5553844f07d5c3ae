// Package middleware holds the gin middleware shared by every route:
// CORS, login throttling, request logging and panic recovery.
package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients 超过该数量时整体清空，防止内存无限增长。
const maxTrackedClients = 10000

// LoginRateLimiter throttles login attempts per client IP with a token bucket.
type LoginRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   *slog.Logger
}

// NewLoginRateLimiter creates a limiter allowing rps requests per second with
// the given burst. A non-positive rps disables throttling.
func NewLoginRateLimiter(rps float64, burst int, logger *slog.Logger) *LoginRateLimiter {
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		logger:   logger,
	}
}

func (l *LoginRateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}
	if len(l.limiters) >= maxTrackedClients {
		l.limiters = make(map[string]*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[key] = limiter
	return limiter
}

// Allow reports whether a request from ip may proceed now.
func (l *LoginRateLimiter) Allow(ip string) bool {
	if l.rate <= 0 {
		return true
	}
	return l.get(ip).Allow()
}

// Middleware answers 429 once a client has spent its burst.
func (l *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			l.logger.Warn("login rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many login attempts. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
