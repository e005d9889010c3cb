package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// DefaultMaxEntries bounds a MemoryStore unless WithMaxEntries says otherwise.
const DefaultMaxEntries = 300

// MemoryStore is a process-local Store holding at most maxEntries items.
// When full, expired entries are swept first and then the entry closest to
// expiry is evicted.
type MemoryStore struct {
	mu         sync.Mutex
	items      map[string]entry
	maxEntries int
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]entry), maxEntries: DefaultMaxEntries, now: time.Now}
}

// WithMaxEntries changes the entry limit. n < 1 keeps the default.
func (s *MemoryStore) WithMaxEntries(n int) *MemoryStore {
	if n > 0 {
		s.maxEntries = n
	}
	return s
}

// Len returns the number of entries held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// WithClock replaces the time source, for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.items, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		s.evictIfNeeded()
	}
	s.items[key] = entry{value: append([]byte(nil), value...), expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]entry)
	return nil
}

// evictIfNeeded makes room for one more entry. Caller holds s.mu.
func (s *MemoryStore) evictIfNeeded() {
	if len(s.items) < s.maxEntries {
		return
	}

	now := s.now()
	for k, e := range s.items {
		if !now.Before(e.expires) {
			delete(s.items, k)
		}
	}

	for len(s.items) >= s.maxEntries {
		var (
			oldest       string
			oldestExpiry time.Time
			found        bool
		)
		for k, e := range s.items {
			if !found || e.expires.Before(oldestExpiry) {
				oldest, oldestExpiry, found = k, e.expires, true
			}
		}
		delete(s.items, oldest)
	}
}
