package sessions

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pavelanni/scanner/internal/quiz"
)

type entry struct {
	data    []byte
	expires time.Time
}

// MemoryStore is an in-process Repository. Snapshots are stored encoded so
// callers never share maps with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMemoryStore returns a store whose entries expire ttl after their last save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return newMemoryStoreWithClock(ttl, time.Now)
}

func newMemoryStoreWithClock(ttl time.Duration, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Load implements Repository.
func (s *MemoryStore) Load(_ context.Context, id string) (quiz.State, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || (s.ttl > 0 && s.now().After(e.expires)) {
		return quiz.State{}, ErrNotFound
	}
	var st quiz.State
	if err := json.Unmarshal(e.data, &st); err != nil {
		return quiz.State{}, err
	}
	return st, nil
}

// Save implements Repository.
func (s *MemoryStore) Save(_ context.Context, id string, st quiz.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry{data: data, expires: s.now().Add(s.ttl)}
	return nil
}

// Delete implements Repository.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
