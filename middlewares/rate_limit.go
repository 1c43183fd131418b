package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client IP may stay silent before its bucket
// is forgotten.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP and sweeps idle ones.
type ipLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newIPLimiter(perSecond float64, idle time.Duration, now func() time.Time) *ipLimiter {
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return &ipLimiter{
		limit:     rate.Limit(perSecond),
		burst:     burst,
		idle:      idle,
		now:       now,
		entries:   make(map[string]*limiterEntry),
		lastSweep: now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for key, e := range l.entries {
			if now.Sub(e.lastSeen) >= l.idle {
				delete(l.entries, key)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *ipLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

// RateLimit allows perSecond requests per client IP with a burst of twice that.
func RateLimit(perSecond float64) gin.HandlerFunc {
	return newIPLimiter(perSecond, limiterIdleTTL, time.Now).handler()
}
