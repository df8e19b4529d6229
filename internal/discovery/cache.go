package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/contact-finder/internal/domains"
	"github.com/jonathan/contact-finder/internal/types"
)

// DefaultCacheTTL is how long a successful result is served from cache.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores response envelopes between requests.
type Cache interface {
	// Get returns the cached result for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) (*types.ContactResult, bool, error)
	Set(ctx context.Context, key string, result *types.ContactResult, ttl time.Duration) error
}

// CacheKey builds the cache key for a request. The domain and result budget are part
// of the key so a cached answer is only reused for an identical question.
func CacheKey(company, domain string, intent types.RoleIntent, maxResults int) string {
	return fmt.Sprintf("contacts:v1:%s:%s:%s:%d",
		domains.CleanCompanyName(company), domains.NormalizeDomain(domain), intent, maxResults)
}

type memoryEntry struct {
	result    *types.ContactResult
	expiresAt time.Time
}

// MemoryCache is a process-local Cache with per-entry expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (*types.ContactResult, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.result.Clone(), true, nil
}

// Set implements Cache. A non-positive ttl uses DefaultCacheTTL.
func (c *MemoryCache) Set(_ context.Context, key string, result *types.ContactResult, ttl time.Duration) error {
	if result == nil {
		return fmt.Errorf("cannot cache nil result")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{result: result.Clone(), expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
