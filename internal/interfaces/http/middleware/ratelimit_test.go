package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, rps float64, burst int) (*RateLimiter, *stepClock) {
	t.Helper()
	limiter := NewRateLimiter(rps, burst, time.Minute)
	t.Cleanup(limiter.Close)
	clock := &stepClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	limiter.now = clock.Now
	return limiter, clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows the burst then blocks", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, 3)

		for i := 0; i < 3; i++ {
			ok, _ := limiter.Allow("client1")
			assert.True(t, ok, "request %d should be allowed", i+1)
		}

		ok, retryAfter := limiter.Allow("client1")
		assert.False(t, ok)
		assert.Equal(t, time.Second, retryAfter)
	})

	t.Run("separate buckets per key", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, 1)

		ok, _ := limiter.Allow("clientA")
		assert.True(t, ok)
		ok, _ = limiter.Allow("clientA")
		assert.False(t, ok)

		ok, _ = limiter.Allow("clientB")
		assert.True(t, ok)
	})

	t.Run("refills over time", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 2, 2)

		limiter.Allow("client3")
		limiter.Allow("client3")
		ok, _ := limiter.Allow("client3")
		require.False(t, ok)

		clock.Advance(500 * time.Millisecond)

		ok, _ = limiter.Allow("client3")
		assert.True(t, ok)
	})

	t.Run("rejected requests do not consume tokens", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 1, 1)
		limiter.Allow("client4")
		for i := 0; i < 5; i++ {
			limiter.Allow("client4")
		}

		clock.Advance(time.Second)

		ok, _ := limiter.Allow("client4")
		assert.True(t, ok)
	})

	t.Run("remaining", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, 5)

		assert.Equal(t, 5, limiter.Remaining("newclient"))
		limiter.Allow("newclient")
		limiter.Allow("newclient")
		assert.Equal(t, 3, limiter.Remaining("newclient"))
	})

	t.Run("idle keys are dropped", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 1, 1)
		limiter.Allow("old")

		clock.Advance(2 * time.Minute)
		limiter.cleanup()

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.NotContains(t, limiter.visitors, "old")
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, 100)
		var wg sync.WaitGroup
		var allowed atomic.Int32

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := limiter.Allow("concurrent"); ok {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(100), allowed.Load())
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, 2)
	router := gin.New()
	router.Use(RequestID(), RateLimit(limiter))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
}

func TestKeyByClient(t *testing.T) {
	router := gin.New()
	router.GET("/anon", func(c *gin.Context) {
		c.String(http.StatusOK, KeyByClient(c))
	})
	router.GET("/client", func(c *gin.Context) {
		c.Set(ClientIDKey, "abc")
		c.String(http.StatusOK, KeyByClient(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/anon", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "ip:10.0.0.1", serve(router, req).Body.String())
	assert.Equal(t, "client:abc", serve(router, httptest.NewRequest(http.MethodGet, "/client", nil)).Body.String())
}
