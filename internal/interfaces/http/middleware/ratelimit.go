package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RateLimiter counts attempts per key in fixed windows. It only guards the
// admin sign-in; the storefront is served from the page cache instead.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*attemptWindow
	limit   int
	window  time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

type attemptWindow struct {
	used    int
	started time.Time
}

// NewRateLimiter allows limit attempts per key per window. Call Stop to end
// the background sweep of expired windows.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*attemptWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.sweep(2 * window)
	return rl
}

// Stop ends the background sweep
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.windows {
				if now.Sub(w.started) >= rl.window {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow records an attempt for key and reports whether it fits the window
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w := rl.current(key)
	if w.used >= rl.limit {
		return false
	}
	w.used++
	return true
}

// Remaining returns the attempts left for key in its current window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || rl.now().Sub(w.started) >= rl.window {
		return rl.limit
	}
	return rl.limit - w.used
}

// current returns the live window of key, opening a new one when the old
// one expired. Callers hold mu.
func (rl *RateLimiter) current(key string) *attemptWindow {
	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.started) >= rl.window {
		w = &attemptWindow{started: now}
		rl.windows[key] = w
	}
	return w
}

// LoginRateLimit throttles sign-in attempts per client IP
func LoginRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "login:" + c.ClientIP()

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited, "Too many login attempts. Please try again later.", GetRequestID(c),
			))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
