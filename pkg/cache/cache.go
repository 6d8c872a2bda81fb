// Package cache holds process-local expiring counters, used in place of redis
// when a single instance runs without it.
package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	count      int64
	expiration int64
}

type Counter struct {
	items map[string]item
	mu    sync.Mutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewCounter starts a counter whose expired windows are swept every gcInterval
func NewCounter(gcInterval time.Duration) *Counter {
	c := &Counter{
		items: make(map[string]item),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if gcInterval > 0 {
		go c.startGC(gcInterval)
	}
	return c
}

// IncrWithTTL increments key within its window. The first increment opens a window
// of ttl; later increments keep the original expiry.
func (c *Counter) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	it, found := c.items[key]
	if !found || now > it.expiration {
		it = item{expiration: now + ttl.Nanoseconds()}
	}
	it.count++
	c.items[key] = it
	return it.count, nil
}

func (c *Counter) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Counter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Counter) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Counter) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for k, v := range c.items {
		if now > v.expiration {
			delete(c.items, k)
		}
	}
}

func (c *Counter) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}
