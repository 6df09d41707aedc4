// Package perf provides the request-serving performance layer: a latency
// sample collector with a percentile report, and the cache-or-compute
// execution wrapper the listing, batch, dashboard, and search paths run
// through.
package perf

import (
	"sort"
	"sync"
	"time"
)

// Collector accumulates per-operation latency samples and cache counters
// for the process lifetime. Construct one per server and inject it; there
// is no package-level instance.
type Collector struct {
	mu      sync.Mutex
	samples map[string][]float64 // milliseconds, append-only
	queries int64
	hits    int64
	misses  int64
}

func NewCollector() *Collector {
	return &Collector{samples: make(map[string][]float64)}
}

// RecordResponseTime appends one latency sample for the operation.
func (c *Collector) RecordResponseTime(operation string, d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples[operation] = append(c.samples[operation], ms)
}

// RecordQuery counts one store query.
func (c *Collector) RecordQuery() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries++
}

// RecordCacheHit counts one cache hit.
func (c *Collector) RecordCacheHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits++
}

// RecordCacheMiss counts one cache miss.
func (c *Collector) RecordCacheMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.misses++
}

// OperationStats summarizes the latency samples for one operation.
type OperationStats struct {
	Count int     `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// Report is a read-only snapshot of the collector plus the current cache
// size. It never alters collector state.
type Report struct {
	Operations   map[string]OperationStats `json:"operations"`
	CacheHits    int64                     `json:"cache_hits"`
	CacheMisses  int64                     `json:"cache_misses"`
	CacheHitRate float64                   `json:"cache_hit_rate"`
	CacheSize    int                       `json:"cache_size"`
	Queries      int64                     `json:"queries"`
}

// Report builds the performance snapshot. cacheSize is the current entry
// count of the query cache. Hit rate is hits/(hits+misses), 0 when there
// has been no traffic.
func (c *Collector) Report(cacheSize int) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	ops := make(map[string]OperationStats, len(c.samples))
	for op, samples := range c.samples {
		ops[op] = summarize(samples)
	}

	hitRate := 0.0
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Report{
		Operations:   ops,
		CacheHits:    c.hits,
		CacheMisses:  c.misses,
		CacheHitRate: hitRate,
		CacheSize:    cacheSize,
		Queries:      c.queries,
	}
}

func summarize(samples []float64) OperationStats {
	n := len(samples)
	if n == 0 {
		return OperationStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return OperationStats{
		Count: n,
		AvgMs: sum / float64(n),
		MinMs: sorted[0],
		MaxMs: sorted[n-1],
		P50Ms: sorted[percentileIndex(n, 0.5)],
		P95Ms: sorted[percentileIndex(n, 0.95)],
	}
}

// percentileIndex is floor(n*p), clamped into [0, n-1].
func percentileIndex(n int, p float64) int {
	idx := int(float64(n) * p)
	if idx >= n {
		idx = n - 1
	}
	return idx
}
