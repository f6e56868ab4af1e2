package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/issuetracker/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, http.StatusOK, serve(r, "GET", "/ok").Code)
	require.Equal(t, http.StatusOK, serve(r, "GET", "/ok").Code)
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/limited").Code)
	w := serve(r, "GET", "/limited")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))

	// one token refills after 0.5s
	time.Sleep(600 * time.Millisecond)
	require.Equal(t, http.StatusOK, serve(r, "GET", "/limited").Code)
}

func TestMemoryLimiter_SeparatesClients(t *testing.T) {
	r := gin.New()
	r.Use(NewMemoryLimiter(0.5, 1).Middleware())
	r.GET("/u", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := func(ip string) int {
		w := httptest.NewRecorder()
		rq := httptest.NewRequest("GET", "/u", nil)
		rq.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, rq)
		return w.Code
	}
	require.Equal(t, http.StatusOK, req("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, req("10.0.0.1"))
	require.Equal(t, http.StatusOK, req("10.0.0.2"))
}

func TestMemoryLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	m := NewMemoryLimiter(1, 1)
	m.now = func() time.Time { return clock }
	m.lastSweep.Store(clock.UnixNano())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/u", func(c *gin.Context) { c.Status(http.StatusOK) })
	from := func(ip string) int {
		w := httptest.NewRecorder()
		rq := httptest.NewRequest("GET", "/u", nil)
		rq.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, rq)
		return w.Code
	}

	for i := 1; i <= 50; i++ {
		require.Equal(t, http.StatusOK, from(fmt.Sprintf("10.0.1.%d", i)))
	}
	require.Equal(t, 50, m.size())

	clock = clock.Add(defaultIdleTTL / 2)
	require.Equal(t, http.StatusOK, from("10.0.2.1"))
	require.Equal(t, 51, m.size())

	clock = clock.Add(defaultIdleTTL/2 + time.Second)
	require.Equal(t, http.StatusOK, from("10.0.2.2"))
	require.Equal(t, 2, m.size())
}

func TestNewMemoryLimiter_IdleTTLCoversRefill(t *testing.T) {
	require.Equal(t, defaultIdleTTL, NewMemoryLimiter(10, 20).idleTTL)
	require.Equal(t, 20*time.Minute, NewMemoryLimiter(1, 1200).idleTTL)
}
