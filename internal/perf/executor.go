package perf

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/metrics"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
)

var queryLogOut = os.Stderr

// Cached runs the cache-or-compute path for one operation. On a hit the
// decoded cached value is returned and fn never runs. On a miss fn is
// invoked, its result stored under key with ttl. Every invocation records
// one latency sample under operation, hit or miss. An error from fn
// propagates to the caller unchanged and nothing is cached.
//
// There is no single-flight guard: two concurrent misses for the same key
// both invoke fn and the second Set wins.
func Cached[T any](ctx context.Context, c *Collector, cache *querycache.Store, key, operation string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	if raw, ok := cache.Get(key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			c.RecordCacheHit()
			metrics.CacheHitsTotal.Inc()
			c.RecordResponseTime(operation, time.Since(start))
			return v, nil
		}
		// Undecodable entry: drop it and recompute.
		cache.Delete(key)
	}

	c.RecordCacheMiss()
	metrics.CacheMissesTotal.Inc()

	v, err := fn(ctx)
	elapsed := time.Since(start)
	c.RecordResponseTime(operation, elapsed)

	if err != nil {
		logger.QueryLog(queryLogOut, logger.FromContext(ctx), operation, elapsed, err.Error())
		var zero T
		return zero, err
	}

	if raw, encErr := json.Marshal(v); encErr == nil {
		cache.Set(key, raw, ttl)
	}
	return v, nil
}
