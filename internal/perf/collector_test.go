package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorReportEmpty(t *testing.T) {
	c := NewCollector()

	report := c.Report(0)

	assert.Empty(t, report.Operations)
	assert.Equal(t, 0.0, report.CacheHitRate, "no traffic reports rate 0, not NaN")
	assert.Equal(t, int64(0), report.Queries)
}

func TestCollectorResponseTimes(t *testing.T) {
	c := NewCollector()
	for i := 1; i <= 100; i++ {
		c.RecordResponseTime("jobs:list", time.Duration(i)*time.Millisecond)
	}

	report := c.Report(0)
	stats, ok := report.Operations["jobs:list"]
	if !ok {
		t.Fatal("expected stats for jobs:list")
	}

	assert.Equal(t, 100, stats.Count)
	assert.InDelta(t, 1.0, stats.MinMs, 0.01)
	assert.InDelta(t, 100.0, stats.MaxMs, 0.01)
	assert.InDelta(t, 50.5, stats.AvgMs, 0.01)
	// floor(100*0.5)=50 -> 51ms sample; floor(100*0.95)=95 -> 96ms sample
	assert.InDelta(t, 51.0, stats.P50Ms, 0.01)
	assert.InDelta(t, 96.0, stats.P95Ms, 0.01)
}

func TestCollectorSingleSamplePercentiles(t *testing.T) {
	c := NewCollector()
	c.RecordResponseTime("op", 5*time.Millisecond)

	stats := c.Report(0).Operations["op"]
	assert.Equal(t, 1, stats.Count)
	assert.InDelta(t, 5.0, stats.P50Ms, 0.01)
	assert.InDelta(t, 5.0, stats.P95Ms, 0.01)
}

func TestCollectorHitRate(t *testing.T) {
	c := NewCollector()
	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheHit()
	c.RecordCacheMiss()

	report := c.Report(7)
	assert.Equal(t, int64(3), report.CacheHits)
	assert.Equal(t, int64(1), report.CacheMisses)
	assert.InDelta(t, 0.75, report.CacheHitRate, 0.001)
	assert.Equal(t, 7, report.CacheSize)
}

func TestCollectorQueryCounter(t *testing.T) {
	c := NewCollector()
	c.RecordQuery()
	c.RecordQuery()

	assert.Equal(t, int64(2), c.Report(0).Queries)
}
