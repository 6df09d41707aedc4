package perf

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
)

func TestCachedMissThenHit(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()
	cache := querycache.New(time.Minute)

	calls := 0
	fn := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	got, err := Cached(ctx, c, cache, "k", "op", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)

	// Second call serves from cache; fn is not invoked again.
	got, err = Cached(ctx, c, cache, "k", "op", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)

	report := c.Report(cache.Len())
	assert.Equal(t, int64(1), report.CacheHits)
	assert.Equal(t, int64(1), report.CacheMisses)
	// One timed sample per invocation, hit and miss alike.
	assert.Equal(t, 2, report.Operations["op"].Count)
}

func TestCachedUndecodableEntrySparesSiblings(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()
	cache := querycache.New(time.Minute)

	// One key is a prefix of the other; dropping the corrupt entry must not
	// take the healthy sibling with it.
	cache.Set("jobs:list:type=", json.RawMessage(`{not json`), time.Minute)
	cache.Set("jobs:list:type=open", json.RawMessage(`7`), time.Minute)

	got, err := Cached(ctx, c, cache, "jobs:list:type=", "op", time.Minute, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	sibling, ok := cache.Get("jobs:list:type=open")
	require.True(t, ok, "sibling entry must survive the corrupt-entry eviction")
	assert.Equal(t, "7", string(sibling))
}

func TestCachedErrorPropagatesUncached(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()
	cache := querycache.New(time.Minute)

	wantErr := errors.New("store query failed")
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return 0, wantErr
	}

	_, err := Cached(ctx, c, cache, "k", "op", time.Minute, fn)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, cache.Len(), "failed compute must not be cached")

	// Next call recomputes — the error was never stored.
	_, err = Cached(ctx, c, cache, "k", "op", time.Minute, fn)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, calls)
}

func TestCachedExpiredEntryRecomputes(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()
	cache := querycache.New(time.Minute)

	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	got, err := Cached(ctx, c, cache, "k", "op", 10*time.Millisecond, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	time.Sleep(20 * time.Millisecond)

	got, err = Cached(ctx, c, cache, "k", "op", 10*time.Millisecond, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, got, "expired entry must be recomputed")
}
