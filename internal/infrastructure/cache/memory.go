package cache

import (
	"context"
	"sync"
	"time"

	"github.com/frigomagique/pricing-engine/internal/domain"
)

const cleanupInterval = 10 * time.Minute

type memoryEntry struct {
	quote      domain.PriceQuote
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory price cache with TTL support.
// Government-sourced entries are stored alongside entries from other sources
// for the same key; Get with a source preference only sees the matching one.
type MemoryCache struct {
	data  map[string]map[domain.PriceSource]memoryEntry
	ttl   time.Duration
	mutex sync.RWMutex
}

// NewMemoryCache creates an in-memory price cache. Entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]map[domain.PriceSource]memoryEntry),
		ttl:  ttl,
	}
	go c.cleanupExpired()
	return c
}

// Get returns the cached quote for the key. With a preferred source, only a
// quote from that source qualifies. Without one, a government entry wins over
// any other source for the same key.
func (c *MemoryCache) Get(ctx context.Context, key string, preferred domain.PriceSource) (*domain.PriceQuote, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entries, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	now := time.Now()

	if preferred != "" {
		entry, ok := entries[preferred]
		if !ok || now.After(entry.expiration) {
			return nil, domain.ErrCacheMiss
		}
		quote := entry.quote
		return &quote, nil
	}

	if entry, ok := entries[domain.SourceGovernment]; ok && now.Before(entry.expiration) {
		quote := entry.quote
		return &quote, nil
	}
	for _, entry := range entries {
		if now.Before(entry.expiration) {
			quote := entry.quote
			return &quote, nil
		}
	}
	return nil, domain.ErrCacheMiss
}

// Upsert inserts the quote or refreshes the existing entry's timestamp.
func (c *MemoryCache) Upsert(ctx context.Context, key string, quote domain.PriceQuote) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	quote.CachedAt = time.Now()
	entries, ok := c.data[key]
	if !ok {
		entries = make(map[domain.PriceSource]memoryEntry)
		c.data[key] = entries
	}
	entries[quote.Source] = memoryEntry{
		quote:      quote,
		expiration: time.Now().Add(c.ttl),
	}
	return nil
}

// Size returns the number of cached keys, for monitoring.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes every entry.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]map[domain.PriceSource]memoryEntry)
}

func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, entries := range c.data {
			for source, entry := range entries {
				if now.After(entry.expiration) {
					delete(entries, source)
				}
			}
			if len(entries) == 0 {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
