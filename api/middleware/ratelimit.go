package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/use-agent/bingdict/config"
	"github.com/use-agent/bingdict/models"
)

// limiterKey is the gin context key holding the caller's token bucket.
const limiterKey = "bingdict.limiter"

const (
	idleLimiterTTL = time.Hour
	sweepInterval  = 5 * time.Minute
)

// lookupLimiter keeps one token bucket per caller. One token is one
// dictionary lookup. Idle buckets are swept lazily while serving requests.
type lookupLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLookupLimiter(cfg config.RateLimitConfig) *lookupLimiter {
	return &lookupLimiter{
		buckets:   make(map[string]*bucket),
		limit:     rate.Limit(cfg.RequestsPerSecond),
		burst:     cfg.Burst,
		lastSweep: time.Now(),
	}
}

func (l *lookupLimiter) get(identity string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= sweepInterval {
		for id, b := range l.buckets {
			if now.Sub(b.lastSeen) >= idleLimiterTTL {
				delete(l.buckets, id)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[identity]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[identity] = b
	}
	b.lastSeen = now
	return b.limiter
}

// RateLimit returns per-caller lookup rate limiting. Callers are identified
// by the Auth identity, or by client IP when auth is off.
//
// The middleware charges one lookup per request. Handlers that perform more
// lookups charge the rest with Charge.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	l := newLookupLimiter(cfg)

	return func(c *gin.Context) {
		identity := c.GetString(identityKey)
		if identity == "" {
			identity = "ip:" + c.ClientIP()
		}

		lim := l.get(identity, time.Now())
		c.Set(limiterKey, lim)
		if !lim.Allow() {
			AbortRateLimited(c, "rate limit exceeded, please slow down")
			return
		}
		c.Next()
	}
}

// Charge takes n more lookups from the caller's bucket. It reports false
// when the bucket cannot cover them, including when n exceeds the burst.
// Without RateLimit in the chain it always succeeds.
func Charge(c *gin.Context, n int) bool {
	if n <= 0 {
		return true
	}
	v, ok := c.Get(limiterKey)
	if !ok {
		return true
	}
	return v.(*rate.Limiter).AllowN(time.Now(), n)
}

// AbortRateLimited stops the request with 429.
func AbortRateLimited(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody(&models.ErrorDetail{
		Code:    models.ErrCodeRateLimited,
		Message: msg,
	}))
}

// ChargeBatch charges a batch of n lookups, one of which the middleware
// already took, and aborts with 429 if the caller cannot afford it.
func ChargeBatch(c *gin.Context, n int) bool {
	if Charge(c, n-1) {
		return true
	}
	AbortRateLimited(c, fmt.Sprintf("batch of %d lookups exceeds the rate limit", n))
	return false
}
