package storage

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authdash/internal/common"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps values in a map. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	maxAge time.Duration
	now    func() time.Time
	items  map[string]memoryEntry
}

// NewMemoryStore returns an empty store whose entries live for the session
// cookie max age.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		maxAge: common.SessionCookieMaxAge,
		now:    time.Now,
		items:  make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[name]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.items, name)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = memoryEntry{value: value, expiresAt: s.now().Add(s.maxAge)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, name)
	return nil
}

// Len reports the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
