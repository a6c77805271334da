// Package cache is the per-category result cache. Entries are immutable
// snapshots replaced wholesale on refresh; stale entries are deliberately
// kept around so the service can fall back to them when the upstream is
// down.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// Entry is one cached snapshot for a (category, limit) key.
type Entry[T any] struct {
	Data      T
	FetchedAt time.Time
	// Total is the provider-reported number of available articles at
	// fetch time, when known.
	Total int
}

// Store is a mutex-guarded snapshot map. Freshness is the caller's call
// (TTLs vary per category), which is why Get returns expired entries too.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
	now     func() time.Time
}

func New[T any]() *Store[T] {
	return &Store[T]{
		entries: make(map[string]Entry[T]),
		now:     time.Now,
	}
}

// Key builds the canonical cache key for a category/limit pair.
func Key(category string, limit int) string {
	return fmt.Sprintf("%s_%d", category, limit)
}

// Get returns the entry for key whether fresh or stale.
func (s *Store[T]) Get(key string) (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Put replaces the snapshot for key and returns the stored entry.
func (s *Store[T]) Put(key string, data T, total int) Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := Entry[T]{Data: data, FetchedAt: s.now(), Total: total}
	s.entries[key] = e
	return e
}

// Fresh reports whether the entry is still within ttl.
func (s *Store[T]) Fresh(e Entry[T], ttl time.Duration) bool {
	return s.now().Sub(e.FetchedAt) < ttl
}

// Len returns the number of cached keys.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset drops every entry. Intended for tests and operational resets.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry[T])
}
