// Package cache provides the in-memory expiring key-value store shared by the
// tool dispatcher and the assistant session history, plus deterministic cache
// key derivation.
//
// The store is the only mutable shared state in the process. All mutation is
// whole-entry replace-or-delete under a single RWMutex, so callers need no
// further locking discipline.
package cache

import (
	"sync"
	"time"
)

// entry is a stored value with an optional expiry.
// A zero expiresAt means the entry never expires.
type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Stats reports diagnostic counters for the store.
type Stats struct {
	TotalKeys   int `json:"total_keys"`
	ExpiredKeys int `json:"expired_keys"`
}

// Store is an in-memory key-value store with per-entry TTL.
// Expired entries are logically absent: Get never returns one, and evicts it
// lazily as a side effect. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Get returns the value stored under key. An entry whose expiry is in the
// past is treated as absent and deleted.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// replaced the entry with a fresh one.
		if cur, still := s.entries[key]; still && cur.expired(time.Now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set inserts or overwrites the value under key. A ttl <= 0 means the entry
// never expires.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Delete removes the entry under key. No-op if the key is absent.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// ClearAll empties the store. Called at process start and shutdown.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Stats returns diagnostic counters. It is read-only: expired entries are
// counted, not evicted.
func (s *Store) Stats() Stats {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{TotalKeys: len(s.entries)}
	for _, e := range s.entries {
		if e.expired(now) {
			st.ExpiredKeys++
		}
	}
	return st
}
