package api

import (
	"sync"

	"github.com/drmarkreuter/physiCCs/internal/engine"
)

// StateStore holds the latest published snapshot. The loop goroutine
// publishes after each tick; HTTP handlers read concurrently.
type StateStore struct {
	mu   sync.RWMutex
	snap engine.Snapshot
	ok   bool
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

// Publish replaces the stored snapshot.
func (s *StateStore) Publish(snap engine.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.ok = true
	s.mu.Unlock()
}

// Latest returns the stored snapshot and whether one has been
// published yet.
func (s *StateStore) Latest() (engine.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.ok
}
