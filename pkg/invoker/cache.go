package invoker

import (
	"context"
	"errors"
	"math"

	"github.com/maypok86/otter"
	"github.com/zeebo/xxh3"

	"github.com/yaklabco/phpast/internal/logging"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

// DefaultCacheBytes is the default cost budget of a Cache.
const DefaultCacheBytes = 64 << 20

// ErrCacheCapacity is returned for a non-positive cache budget.
var ErrCacheCapacity = errors.New("cache capacity must be positive")

// Cache memoizes parser results by source content.
// Results are shared between callers and must not be modified.
type Cache struct {
	next  xhpast.Invoker
	cache otter.Cache[xxh3.Uint128, xhpast.ExecResult]
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

// NewCache wraps next with a cache bounded to roughly maxBytes of parser output.
func NewCache(next xhpast.Invoker, maxBytes int) (*Cache, error) {
	if maxBytes <= 0 {
		return nil, ErrCacheCapacity
	}

	cache, err := otter.MustBuilder[xxh3.Uint128, xhpast.ExecResult](maxBytes).
		CollectStats().
		Cost(func(_ xxh3.Uint128, res xhpast.ExecResult) uint32 {
			return resultCost(res)
		}).
		Build()
	if err != nil {
		return nil, err
	}

	return &Cache{next: next, cache: cache}, nil
}

var _ xhpast.Invoker = (*Cache)(nil)

// Invoke returns a cached result for identical source, or runs next.
// Errors from next are never cached.
func (c *Cache) Invoke(ctx context.Context, source []byte) (xhpast.ExecResult, error) {
	key := xxh3.Hash128(source)

	if res, ok := c.cache.Get(key); ok {
		logging.FromContext(ctx).Debug("parser cache hit", logging.FieldBytes, len(source))
		return res, nil
	}

	res, err := c.next.Invoke(ctx, source)
	if err != nil {
		return res, err
	}

	c.cache.Set(key, res)
	return res, nil
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() CacheStats {
	stats := c.cache.Stats()
	return CacheStats{
		Hits:   stats.Hits(),
		Misses: stats.Misses(),
		Size:   c.cache.Size(),
	}
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.cache.Close()
}

func resultCost(res xhpast.ExecResult) uint32 {
	cost := len(res.Stdout) + len(res.Stderr) + 1
	if cost > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(cost)
}
