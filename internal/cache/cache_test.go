package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zipsearch/internal/model"
)

func payload(city string) model.SearchPayload {
	return model.SearchPayload{
		Results: []model.Business{{Name: "Biz", Rating: 4.0, ReviewCount: 1}},
		Center:  model.LatLng{Lat: 1, Lng: 2},
		City:    city,
		State:   "CA",
	}
}

func TestPutGet(t *testing.T) {
	c := New()
	c.Put("94103:10:5", payload("San Francisco"), time.Minute)

	got, ok := c.Get("94103:10:5")
	require.True(t, ok)
	assert.Equal(t, "San Francisco", got.City)
	require.Len(t, got.Results, 1)
}

func TestGet_Missing(t *testing.T) {
	c := New()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestGet_DistinctKeys(t *testing.T) {
	c := New()
	c.Put("94103:10:5", payload("A"), time.Minute)
	c.Put("94103:25:5", payload("B"), time.Minute)

	got, ok := c.Get("94103:25:5")
	require.True(t, ok)
	assert.Equal(t, "B", got.City)
	assert.Equal(t, 2, c.Len())
}

func TestGet_ExpiredEntryIsMissAndEvicted(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	var mu sync.Mutex
	c := New().WithNow(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})

	c.Put("k", payload("X"), 600*time.Second)

	// One second past expiry must be a miss.
	mu.Lock()
	now = base.Add(601 * time.Second)
	mu.Unlock()

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestGet_ExactExpiryIsMiss(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	var mu sync.Mutex
	c := New().WithNow(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})

	c.Put("k", payload("X"), time.Minute)

	mu.Lock()
	now = base.Add(time.Minute) // now == expiresAt
	mu.Unlock()

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	var mu sync.Mutex
	c := New().WithNow(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})

	c.Put("old", payload("A"), time.Second)
	c.Put("fresh", payload("B"), time.Hour)

	mu.Lock()
	now = base.Add(time.Minute)
	mu.Unlock()

	removed := c.sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestStartSweeper_StopsOnContextDone(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	c.StartSweeper(ctx, time.Millisecond)
	cancel()
	// No assertion beyond not leaking or panicking; give the goroutine a tick.
	time.Sleep(5 * time.Millisecond)
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("shared", payload("X"), time.Minute)
				c.Get("shared")
			}
		}()
	}
	wg.Wait()

	_, ok := c.Get("shared")
	assert.True(t, ok)
}
