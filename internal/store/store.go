// internal/store/store.go
//
// Bounded in-memory session store.
//
// Characteristics:
//   - Sessions keyed by ID in an LRU cache (hashicorp/golang-lru); the least
//     recently used session is evicted once the size limit is reached.
//   - Evicted or deleted sessions have their tick driver stopped.
//   - Concurrency-safe; state is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// ErrNotFound is returned by Get for unknown or evicted sessions.
var ErrNotFound = errors.New("session not found")

// Store defines session persistence.
type Store interface {
	// Save persists or refreshes a session.
	Save(ctx context.Context, s *Session) error
	// Get retrieves a session by ID, ErrNotFound if missing.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session and stops its ticker.
	Delete(ctx context.Context, id string) error
	// Range calls fn for every session until fn returns false.
	Range(ctx context.Context, fn func(s *Session) bool)
	// Len reports the number of stored sessions.
	Len() int
}

type lruStore struct {
	cache *lru.Cache
}

var _ Store = (*lruStore)(nil)

// NewLRUStore constructs a Store holding at most size sessions.
func NewLRUStore(size int) (Store, error) {
	c, err := lru.NewWithEvict(size, func(_, value interface{}) {
		if s, ok := value.(*Session); ok {
			s.StopTicker()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("store: new lru cache: %w", err)
	}
	return &lruStore{cache: c}, nil
}

func (m *lruStore) Save(ctx context.Context, s *Session) error {
	m.cache.Add(s.ID, s)
	return nil
}

func (m *lruStore) Get(ctx context.Context, id string) (*Session, error) {
	if v, ok := m.cache.Get(id); ok {
		return v.(*Session), nil
	}
	return nil, ErrNotFound
}

func (m *lruStore) Delete(ctx context.Context, id string) error {
	if !m.cache.Remove(id) {
		return ErrNotFound
	}
	return nil
}

func (m *lruStore) Range(ctx context.Context, fn func(s *Session) bool) {
	for _, k := range m.cache.Keys() {
		if ctx.Err() != nil {
			return
		}
		v, ok := m.cache.Peek(k)
		if !ok {
			continue
		}
		if !fn(v.(*Session)) {
			return
		}
	}
}

func (m *lruStore) Len() int { return m.cache.Len() }
