package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

type visitors struct {
	mu   sync.Mutex
	seen map[string]*visitor
	cfg  RateLimiterConfig
}

func (v *visitors) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	vis, exists := v.seen[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(v.cfg.RequestsPerSecond), v.cfg.Burst)
		v.seen[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	vis.lastSeen = time.Now()
	return vis.limiter
}

// cleanup drops idle visitors until ctx is done
func (v *visitors) cleanup(ctx context.Context) {
	ticker := time.NewTicker(v.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v.mu.Lock()
		for ip, vis := range v.seen {
			if time.Since(vis.lastSeen) > v.cfg.TTL {
				delete(v.seen, ip)
			}
		}
		v.mu.Unlock()
	}
}

func (v *visitors) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.seen)
}

// RateLimiterMiddleware limits requests per client IP. Every call gets its own
// visitor table, which is swept until ctx is done.
func RateLimiterMiddleware(ctx context.Context, config RateLimiterConfig) gin.HandlerFunc {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}

	v := &visitors{
		seen: make(map[string]*visitor),
		cfg:  config,
	}
	go v.cleanup(ctx)

	return func(c *gin.Context) {
		limiter := v.get(c.ClientIP())

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
