// Package querycache provides the TTL response cache sitting between the
// REST handlers and the relational store. Entries are JSON-encoded query
// results keyed by operation + parameters; writes invalidate by key
// substring.
package querycache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/metrics"
)

type entry struct {
	value json.RawMessage
	expAt time.Time
}

// Store holds cached query results with per-entry TTL. Thread-safe.
type Store struct {
	defaultTTL time.Duration
	mu         sync.Mutex
	entries    map[string]*entry
}

// New returns a store whose Set uses defaultTTL when no TTL is given.
func New(defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Store{
		defaultTTL: defaultTTL,
		entries:    make(map[string]*entry),
	}
}

// Get returns the cached value for key, or false when the key is absent or
// expired. Expired entries are evicted on access.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. ttl <= 0 means the store's default TTL.
func (s *Store) Set(key string, value json.RawMessage, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{value: value, expAt: time.Now().Add(ttl)}
}

// Delete removes the entry stored under exactly key, if any. Unlike
// InvalidatePattern it never touches keys that merely contain key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidatePattern removes every entry whose key contains substring and
// returns how many were removed. An empty substring matches every key.
func (s *Store) InvalidatePattern(substring string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k := range s.entries {
		if strings.Contains(k, substring) {
			delete(s.entries, k)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheInvalidationsTotal.Add(float64(removed))
	}
	return removed
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}

// Len returns the number of entries, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartCleanup sweeps expired entries every interval until ctx is done.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if now.After(e.expAt) {
			delete(s.entries, k)
		}
	}
}
