package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

type window struct {
	count int
	end   time.Time
}

// RateLimiter is a fixed-window request counter keyed by client IP.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	entries   map[string]*window
	nextPurge time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, w time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  w,
		entries: make(map[string]*window),
		now:     time.Now,
	}
}

// allow counts one hit for key and reports whether it is within the limit,
// plus the end of the current window.
func (l *RateLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextPurge) {
		l.purge(now)
		l.nextPurge = now.Add(purgeInterval)
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.end) {
		e = &window{end: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.end
}

// purge drops expired windows so IPs that never return do not accumulate.
func (l *RateLimiter) purge(now time.Time) {
	purged := 0
	for k, e := range l.entries {
		if now.After(e.end) {
			delete(l.entries, k)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter purged")
	}
}

// Middleware rejects requests over the limit with 429 and Retry-After.
// A non-positive limit disables the limiter.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		ok, end := l.allow(c.ClientIP())
		if !ok {
			wait := int(time.Until(end).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(wait))
			AbortWithError(c, &apierror.Error{Code: apierror.CodeRateLimited, Message: "too many requests, try again shortly"})
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(20, time.Minute).Middleware()
}
