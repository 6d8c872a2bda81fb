package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter keeps a sliding window of request times per client address.
// Idle clients are dropped by a sweep that runs once per window.
type RateLimiter struct {
	mu         sync.Mutex
	hits       map[string][]time.Time
	maxRequest int
	window     time.Duration
	now        func() time.Time
	stop       chan struct{}
	once       sync.Once
}

func NewRateLimiter(maxRequest int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:       make(map[string][]time.Time),
		maxRequest: maxRequest,
		window:     window,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if maxRequest > 0 && window > 0 {
		go rl.startSweep(window)
	}
	return rl
}

// Stop ends the background sweep
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Len reports how many clients currently hold hits
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.hits)
}

// take records a hit for key and reports whether it fits in the window
// together with the number of requests still available.
func (rl *RateLimiter) take(key string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	hits := rl.trim(key, now)

	reset := now.Add(rl.window)
	if len(hits) > 0 {
		reset = hits[0].Add(rl.window)
	}
	if len(hits) >= rl.maxRequest {
		return false, 0, reset
	}
	rl.hits[key] = append(hits, now)
	return true, rl.maxRequest - len(hits) - 1, reset
}

// trim drops hits of key older than the window. Caller holds mu.
func (rl *RateLimiter) trim(key string, now time.Time) []time.Time {
	hits := rl.hits[key]
	i := 0
	for i < len(hits) && now.Sub(hits[i]) > rl.window {
		i++
	}
	if i == len(hits) {
		delete(rl.hits, key)
		return nil
	}
	rl.hits[key] = hits[i:]
	return hits[i:]
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key := range rl.hits {
		rl.trim(key, now)
	}
}

func (rl *RateLimiter) startSweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// Middleware rejects clients over the limit with TOO_MANY_REQUESTS
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.maxRequest <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		ok, remaining, reset := rl.take(ip)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !ok {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", rl.maxRequest),
				zap.Duration("window", rl.window),
			)
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(apperrors.ToHTTPStatus(apperrors.ErrTooManyRequests),
				constants.BuildErrorResponse(apperrors.CodeTooManyRequests, apperrors.ErrTooManyRequests.Message, nil))
			return
		}
		c.Next()
	}
}

// RateLimit builds a limiter and returns its middleware
func RateLimit(maxRequest int, window time.Duration) gin.HandlerFunc {
	return NewRateLimiter(maxRequest, window).Middleware()
}
