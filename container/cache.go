package container

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

// CacheConfig sizes the cache of a Cacheable container.
type CacheConfig struct {
	// MaxEntries bounds the number of cached values.
	MaxEntries int64 `yaml:"max_entries" toml:"max_entries" validate:"gt=0"`
	// TTL expires cached values; zero keeps them until evicted.
	TTL time.Duration `yaml:"ttl" toml:"ttl" validate:"gte=0"`
}

// DefaultCacheConfig returns a cache holding up to 10k values without expiry.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{MaxEntries: 10_000}
}

// Cacheable serves values from a ristretto cache and forwards only misses
// to the wrapped container. Concurrent identical miss sets share one call.
// Misses are not cached.
type Cacheable struct {
	delegate Container
	cache    *ristretto.Cache[string, any]
	ttl      time.Duration
	flight   singleflight.Group
	opts     options
}

// NewCacheable wraps delegate. Close releases the cache.
func NewCacheable(delegate Container, cfg CacheConfig, opts ...Option) (*Cacheable, error) {
	if err := Validator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("cache for %q: %w", delegate.Namespace(), err)
	}

	// every entry costs 1, so MaxCost counts entries
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        cfg.MaxEntries * 10,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cache for %q: %w", delegate.Namespace(), err)
	}

	return &Cacheable{
		delegate: delegate,
		cache:    cache,
		ttl:      cfg.TTL,
		opts:     newOptions(opts),
	}, nil
}

// Namespace implements Container.
func (c *Cacheable) Namespace() string { return c.delegate.Namespace() }

// Get implements Container.
func (c *Cacheable) Get(ctx context.Context, keys []any) (map[any]any, error) {
	out := make(map[any]any, len(keys))

	var (
		misses    []any
		missNames []string
	)

	for _, k := range keys {
		if !isComparable(k) {
			continue
		}

		name := cacheKey(k)
		if v, ok := c.cache.Get(name); ok {
			out[k] = v

			continue
		}

		misses = append(misses, k)
		missNames = append(missNames, name)
	}

	if len(misses) == 0 {
		return out, nil
	}

	sort.Strings(missNames)

	loaded, err, shared := c.flight.Do(strings.Join(missNames, "\x00"), func() (any, error) {
		return c.delegate.Get(ctx, misses)
	})
	if err != nil {
		return nil, err
	}

	values := loaded.(map[any]any)
	for _, k := range misses {
		v, ok := values[k]
		if !ok {
			continue
		}

		out[k] = v
		c.cache.SetWithTTL(cacheKey(k), v, 1, c.ttl)
	}

	c.cache.Wait()
	c.opts.log.V(1).Info("cache lookup", "namespace", c.Namespace(),
		"keys", len(keys), "misses", len(misses), "shared", shared)

	return out, nil
}

// Clear drops every cached value.
func (c *Cacheable) Clear() {
	c.cache.Clear()
}

// Close releases the cache. The container must not be used afterwards.
func (c *Cacheable) Close() error {
	c.cache.Close()

	return nil
}

// cacheKey keeps keys of different types apart: int 1 and string "1" differ.
func cacheKey(k any) string {
	return fmt.Sprintf("%T:%v", k, k)
}
