// internal/storage/result/memory.go
package result

import (
	"sync"
	"time"

	"github.com/scrylabs/scry/internal/core"
)

// Store is an in-memory TTL cache of recent analysis results. It is a
// boundary cache: the scoring core never reads it, the service layer
// checks it before doing provider work. Cached results are shared
// pointers; AnalysisResult is immutable once built.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type entry struct {
	result   *core.AnalysisResult
	storedAt time.Time
}

// New creates a store. A zero or negative ttl disables caching;
// capacity <= 0 means unbounded.
func New(ttl time.Duration, capacity int) *Store {
	return &Store{
		entries:  make(map[string]entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the cached result for key if it is still fresh. Stale
// entries are removed on access.
func (s *Store) Get(key string) (*core.AnalysisResult, bool) {
	if s.ttl <= 0 {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.now().Sub(e.storedAt) > s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; a fresher Put may have raced in.
		if cur, ok := s.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.result, true
}

// Put stores a result, evicting the oldest entries when over capacity.
func (s *Store) Put(key string, result *core.AnalysisResult) {
	if s.ttl <= 0 || result == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{result: result, storedAt: s.now()}

	for s.capacity > 0 && len(s.entries) > s.capacity {
		var oldestKey string
		var oldest time.Time
		for k, e := range s.entries {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey = k
				oldest = e.storedAt
			}
		}
		delete(s.entries, oldestKey)
	}
}

// Len reports the number of cached entries, fresh or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
