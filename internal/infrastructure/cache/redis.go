package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/frigomagique/pricing-engine/internal/domain"
)

// Key prefixes. Government quotes live under their own prefix so the
// priority read is a single GET rather than a scan.
const (
	redisKeyPrefix    = "price:"
	redisGovKeyPrefix = "price:gov:"
)

// RedisCache is a redis-backed price cache shared across application
// instances. Stale reads are acceptable; it is a best-effort accelerator.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached quote for the key, honoring the source preference
// and the government-over-anything priority.
func (c *RedisCache) Get(ctx context.Context, key string, preferred domain.PriceSource) (*domain.PriceQuote, error) {
	if preferred == domain.SourceGovernment {
		return c.get(ctx, redisGovKeyPrefix+key)
	}
	if preferred != "" {
		quote, err := c.get(ctx, redisKeyPrefix+key)
		if err != nil {
			return nil, err
		}
		if quote.Source != preferred {
			return nil, domain.ErrCacheMiss
		}
		return quote, nil
	}

	if quote, err := c.get(ctx, redisGovKeyPrefix+key); err == nil {
		return quote, nil
	}
	return c.get(ctx, redisKeyPrefix+key)
}

// Upsert stores the quote under the source-appropriate key with a fresh TTL.
func (c *RedisCache) Upsert(ctx context.Context, key string, quote domain.PriceQuote) error {
	quote.CachedAt = time.Now()
	payload, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshalling quote: %w", err)
	}

	storageKey := redisKeyPrefix + key
	if quote.Source == domain.SourceGovernment {
		storageKey = redisGovKeyPrefix + key
	}
	if err := c.client.Set(ctx, storageKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) get(ctx context.Context, storageKey string) (*domain.PriceQuote, error) {
	data, err := c.client.Get(ctx, storageKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var quote domain.PriceQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		// Corrupt entry: treat as a miss rather than failing resolution.
		return nil, domain.ErrCacheMiss
	}
	return &quote, nil
}
