package querycache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreDeleteExactKeyOnly(t *testing.T) {
	s := New(time.Minute)

	s.Set("search:q=go:type=", json.RawMessage(`1`), 0)
	s.Set("search:q=go:type=jobs", json.RawMessage(`2`), 0)

	s.Delete("search:q=go:type=")

	_, ok := s.Get("search:q=go:type=")
	assert.False(t, ok)
	_, ok = s.Get("search:q=go:type=jobs")
	assert.True(t, ok, "Delete must not match keys by substring")
}

func TestStoreSetGet(t *testing.T) {
	s := New(time.Minute)

	s.Set("jobs:list:status=open", json.RawMessage(`{"n":1}`), 0)

	got, ok := s.Get("jobs:list:status=open")
	assert.True(t, ok)
	assert.JSONEq(t, `{"n":1}`, string(got))

	_, ok = s.Get("jobs:list:status=closed")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	s := New(time.Minute)

	s.Set("k", json.RawMessage(`1`), 20*time.Millisecond)

	_, ok := s.Get("k")
	assert.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	_, ok = s.Get("k")
	assert.False(t, ok, "expired entry must never be returned")
	assert.Equal(t, 0, s.Len(), "expired entry is evicted on access")
}

func TestStoreInvalidatePattern(t *testing.T) {
	s := New(time.Minute)
	s.Set("jobs:list:status=open", json.RawMessage(`1`), 0)
	s.Set("jobs:batch:ids=a,b", json.RawMessage(`2`), 0)
	s.Set("candidates:list", json.RawMessage(`3`), 0)

	removed := s.InvalidatePattern("jobs")
	assert.Equal(t, 2, removed)

	_, ok := s.Get("jobs:list:status=open")
	assert.False(t, ok)
	_, ok = s.Get("jobs:batch:ids=a,b")
	assert.False(t, ok)

	// Non-matching keys untouched
	got, ok := s.Get("candidates:list")
	assert.True(t, ok)
	assert.Equal(t, json.RawMessage(`3`), got)
}

func TestStoreInvalidateEmptyPatternMatchesAll(t *testing.T) {
	s := New(time.Minute)
	s.Set("a", json.RawMessage(`1`), 0)
	s.Set("b", json.RawMessage(`2`), 0)

	removed := s.InvalidatePattern("")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, s.Len())
}

func TestStoreClear(t *testing.T) {
	s := New(time.Minute)
	s.Set("a", json.RawMessage(`1`), 0)
	s.Set("b", json.RawMessage(`2`), 0)

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStoreCleanupSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(time.Minute)
	s.Set("short", json.RawMessage(`1`), 10*time.Millisecond)
	s.Set("long", json.RawMessage(`2`), time.Minute)
	s.StartCleanup(ctx, 20*time.Millisecond)

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("long")
	assert.True(t, ok)
}

func TestKeyOrderIndependent(t *testing.T) {
	k1 := Key("jobs:list", map[string]string{"status": "open", "clientId": "c1", "limit": "20"})
	k2 := Key("jobs:list", map[string]string{"limit": "20", "clientId": "c1", "status": "open"})
	assert.Equal(t, k1, k2)
}

func TestKeyDistinguishesParams(t *testing.T) {
	k1 := Key("jobs:list", map[string]string{"status": "open"})
	k2 := Key("jobs:list", map[string]string{"status": "closed"})
	assert.NotEqual(t, k1, k2)

	assert.Equal(t, "jobs:list", Key("jobs:list", nil))
	assert.Equal(t, "jobs:list", Key("jobs:list", map[string]string{}))
}

func TestKeyContainsOperationPrefix(t *testing.T) {
	k := Key("jobs:list", map[string]string{"status": "open"})
	assert.Contains(t, k, "jobs")
}
