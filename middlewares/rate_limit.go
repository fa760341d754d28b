package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	every   time.Duration
	burst   int
	message string

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewRateLimiter(every time.Duration, burst int, message string) *RateLimiter {
	return &RateLimiter{
		every:    every,
		burst:    burst,
		message:  message,
		visitors: make(map[string]*visitor),
	}
}

// General API traffic: one request per second on average, bursts of 100.
func NewAPIRateLimiter() *RateLimiter {
	return NewRateLimiter(time.Second, 100, "Too many requests. Please slow down.")
}

// Login, signup and password reset: one request every 10 seconds, bursts of 10.
func NewAuthRateLimiter() *RateLimiter {
	return NewRateLimiter(10*time.Second, 10, "Too many authentication attempts. Please wait and try again.")
}

func (l *RateLimiter) getVisitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(l.every), l.burst)
		l.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup forgets visitors idle for longer than maxIdle and returns how many were dropped.
func (l *RateLimiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(l.visitors, ip)
			dropped++
		}
	}
	return dropped
}

// Middleware applies the per-IP limit.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.getVisitor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": l.message,
			})
			return
		}
		c.Next()
	}
}
