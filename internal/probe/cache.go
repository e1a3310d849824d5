package probe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MinSweepInterval bounds how often the background sweeper may run.
const MinSweepInterval = 5 * time.Minute

type cacheEntry struct {
	result   Result
	storedAt time.Time
}

// Cache memoizes probe results by normalized URL for a fixed TTL.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates a cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for rawURL. Expired entries are reported
// as absent and left for Sweep to purge.
func (c *Cache) Get(rawURL string) (Result, bool) {
	key := NormalizeURL(rawURL)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.expired(entry, c.now()) {
		return Result{}, false
	}
	return entry.result, true
}

// Put stores r under the normalized form of rawURL.
func (c *Cache) Put(rawURL string, r Result) {
	key := NormalizeURL(rawURL)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: r, storedAt: c.now()}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes every entry that is expired at now and returns how many
// were removed.
func (c *Cache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
// Intervals below MinSweepInterval are raised to it.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval < MinSweepInterval {
		interval = MinSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := c.Sweep(now); removed > 0 {
					logger.Debug("swept expired probe cache entries", "removed", removed)
				}
			}
		}
	}()
}

func (c *Cache) expired(e cacheEntry, now time.Time) bool {
	return now.Sub(e.storedAt) >= c.ttl
}
