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

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newClockedLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, window)
	rl.now = clock.now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiter_Window(t *testing.T) {
	rl, clock := newClockedLimiter(t, 3, time.Minute)

	assert.Equal(t, 3, rl.Remaining("10.0.0.1"))
	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("10.0.0.1"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 0, rl.Remaining("10.0.0.1"))

	assert.True(t, rl.Allow("10.0.0.2"), "keys have separate budgets")

	clock.advance(59 * time.Second)
	assert.False(t, rl.Allow("10.0.0.1"))

	clock.advance(time.Second)
	assert.Equal(t, 3, rl.Remaining("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 2, rl.Remaining("10.0.0.1"))
}

func TestRateLimiter_ConcurrentAttempts(t *testing.T) {
	rl, _ := newClockedLimiter(t, 40, time.Minute)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(40), allowed.Load())
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestLoginRateLimit(t *testing.T) {
	rl, clock := newClockedLimiter(t, 2, 30*time.Second)

	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/v1/auth/login", LoginRateLimit(rl), func(c *gin.Context) {
		c.Status(http.StatusUnauthorized)
	})

	attempt := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := attempt("192.0.2.10")
	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusUnauthorized, attempt("192.0.2.10").Code)

	blocked := attempt("192.0.2.10")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "30", blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.NotEmpty(t, blocked.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, attempt("192.0.2.11").Code, "other clients keep their budget")

	clock.advance(30 * time.Second)
	assert.Equal(t, http.StatusUnauthorized, attempt("192.0.2.10").Code)
}
