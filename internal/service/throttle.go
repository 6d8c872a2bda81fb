package service

import (
	"context"
	"time"
)

// Counter increments a key that expires ttl after its first increment
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// WindowThrottle allows limit events per key within a fixed window
type WindowThrottle struct {
	counter Counter
	prefix  string
	limit   int
	window  time.Duration
}

func NewWindowThrottle(counter Counter, prefix string, limit int, window time.Duration) *WindowThrottle {
	return &WindowThrottle{counter: counter, prefix: prefix, limit: limit, window: window}
}

func (t *WindowThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t == nil || t.counter == nil || t.limit <= 0 {
		return true, nil
	}
	n, err := t.counter.IncrWithTTL(ctx, t.prefix+key, t.window)
	if err != nil {
		return false, err
	}
	return n <= int64(t.limit), nil
}
