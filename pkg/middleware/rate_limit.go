package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/issuetracker/pkg/metrics"
	"golang.org/x/time/rate"
)

// clientKey identifies the caller for rate limiting.
func clientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// defaultIdleTTL is how long a client's bucket may sit unused before it is dropped.
const defaultIdleTTL = 10 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// MemoryLimiter is an in-process token bucket per client. Buckets idle for
// longer than the idle TTL are swept, so memory tracks active clients only.
type MemoryLimiter struct {
	rps       float64
	burst     int
	idleTTL   time.Duration
	buckets   sync.Map // map[string]*bucket
	lastSweep atomic.Int64
	now       func() time.Time
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	ttl := defaultIdleTTL
	// never drop a bucket before it has refilled
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}
	m := &MemoryLimiter{rps: rps, burst: burst, idleTTL: ttl, now: time.Now}
	m.lastSweep.Store(m.now().UnixNano())
	return m
}

// get returns (and lazily creates) the bucket for key.
func (m *MemoryLimiter) get(key string, now time.Time) *rate.Limiter {
	v, ok := m.buckets.Load(key)
	if !ok {
		v, _ = m.buckets.LoadOrStore(key, &bucket{lim: rate.NewLimiter(rate.Limit(m.rps), m.burst)})
	}
	b := v.(*bucket)
	b.lastSeen.Store(now.UnixNano())
	return b.lim
}

// maybeSweep drops idle buckets at most once per idle TTL.
func (m *MemoryLimiter) maybeSweep(now time.Time) {
	last := m.lastSweep.Load()
	if now.UnixNano()-last < int64(m.idleTTL) || !m.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-m.idleTTL).UnixNano()
	m.buckets.Range(func(k, v any) bool {
		if v.(*bucket).lastSeen.Load() < cutoff {
			m.buckets.Delete(k)
		}
		return true
	})
}

func (m *MemoryLimiter) size() int {
	n := 0
	m.buckets.Range(func(any, any) bool { n++; return true })
	return n
}

// Middleware rejects requests over the limit with 429.
func (m *MemoryLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := m.now()
		m.maybeSweep(now)
		if !m.get(clientKey(c), now).AllowN(now, 1) {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}

// RateLimitMiddleware is shorthand for NewMemoryLimiter(rps, burst).Middleware().
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return NewMemoryLimiter(rps, burst).Middleware()
}
