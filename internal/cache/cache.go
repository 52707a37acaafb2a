// Package cache is a concurrency-safe, time-bounded store for search
// response payloads.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/zipsearch/internal/model"
)

// Entry is one cached payload with its expiry.
type Entry struct {
	Payload   model.SearchPayload
	ExpiresAt time.Time
}

// Cache maps query keys to payloads. Expired entries are treated as absent
// and removed on access; an optional sweeper removes them in the background.
// Entry count stays bounded by the distinct query tuples actually requested,
// so there is no size cap.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time // injectable for testing
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// WithNow sets the clock used for expiry checks.
func (c *Cache) WithNow(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the payload for key, or false if absent or expired. An expired
// entry is deleted before returning.
func (c *Cache) Get(key string) (model.SearchPayload, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return model.SearchPayload{}, false
	}

	if !c.now().Before(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Put may have refreshed the entry.
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.ExpiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return model.SearchPayload{}, false
	}

	return entry.Payload, true
}

// Put stores payload under key for ttl. Concurrent writers for the same key
// race benignly; last write wins.
func (c *Cache) Put(key string, payload model.SearchPayload, ttl time.Duration) {
	expires := c.now().Add(ttl)
	c.mu.Lock()
	c.entries[key] = Entry{Payload: payload, ExpiresAt: expires}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper launches a goroutine that evicts expired entries every
// interval until ctx is done.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := c.sweep()
				if removed > 0 {
					zap.L().Debug("cache: swept expired entries", zap.Int("removed", removed))
				}
			}
		}
	}()
}

func (c *Cache) sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
