// Package cache provides a small in-process cache with TTL expiry and LRU
// eviction. The entry synchronizer uses it to avoid refetching the full
// ledger on every read.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Store is a bounded TTL cache. The zero value is not usable; construct with
// New.
type Store[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	index    map[string]*list.Element
	recency  *list.List

	// now is swapped in tests to exercise expiry without sleeping.
	now func() time.Time
}

type record[V any] struct {
	key      string
	value    V
	deadline time.Time
}

// New builds a cache holding at most capacity entries, each living for ttl.
func New[V any](capacity int, ttl time.Duration) *Store[V] {
	return &Store[V]{
		capacity: capacity,
		ttl:      ttl,
		index:    make(map[string]*list.Element),
		recency:  list.New(),
		now:      time.Now,
	}
}

// Get returns the cached value for key. Expired entries are dropped on read.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	elem, ok := s.index[key]
	if !ok {
		return zero, false
	}
	rec := elem.Value.(*record[V])
	if s.now().After(rec.deadline) {
		s.evict(elem)
		return zero, false
	}
	s.recency.MoveToFront(elem)
	return rec.value, true
}

// Put stores value under key, replacing any previous entry and resetting its
// lifetime. The least recently used entry is evicted when the cache is full.
func (s *Store[V]) Put(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &record[V]{key: key, value: value, deadline: s.now().Add(s.ttl)}
	if elem, ok := s.index[key]; ok {
		elem.Value = rec
		s.recency.MoveToFront(elem)
		return
	}

	s.index[key] = s.recency.PushFront(rec)
	if s.recency.Len() > s.capacity {
		if oldest := s.recency.Back(); oldest != nil {
			s.evict(oldest)
		}
	}
}

// Invalidate drops a single key.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.index[key]; ok {
		s.evict(elem)
	}
}

// Flush drops every entry. Called after any mutation so stale reads cannot
// outlive a write.
func (s *Store[V]) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]*list.Element)
	s.recency.Init()
}

// Len reports the number of entries currently held, expired or not.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// PurgeExpired removes entries past their deadline and reports how many went.
func (s *Store[V]) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for elem := s.recency.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*record[V]).deadline) {
			s.evict(elem)
			purged++
		}
		elem = next
	}
	return purged
}

func (s *Store[V]) evict(elem *list.Element) {
	delete(s.index, elem.Value.(*record[V]).key)
	s.recency.Remove(elem)
}
