package session

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"clinicsetup/domain/core"
)

// Store keeps the aggregates of all live wizard sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Aggregate
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Aggregate)}
}

// Create starts a new session with a random identifier.
func (s *Store) Create() *Aggregate {
	a := NewAggregate(uuid.NewString())

	s.mu.Lock()
	s.sessions[a.ID()] = a
	s.mu.Unlock()
	return a
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return a, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// IDs lists the live session ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
