package memory

import (
	"context"
	"sync"

	"github.com/avoronkov/personabot/domain"
)

// Store is an in-memory UserStore for tests and local runs. Documents are
// stored as deep copies so saved state is a snapshot, like a real store.
type Store struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
}

func NewStore() *Store {
	return &Store{
		users: make(map[int64]*domain.User),
	}
}

func (s *Store) LoadUser(_ context.Context, userID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Store) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = user.Clone()
	return nil
}

// AppendTurn mirrors the incremental push of the document store: a plain
// append, unbounded on the storage side. The history cap is enforced in
// memory and reconciled by the next full SaveUser.
func (s *Store) AppendTurn(_ context.Context, userID int64, personaIndex int, t domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if personaIndex < 0 || personaIndex >= len(user.Personas) {
		return domain.ErrUserNotFound
	}
	persona := user.Personas[personaIndex]
	persona.History = append(persona.History, t)
	return nil
}

// Snapshot returns a copy of the stored document, for tests.
func (s *Store) Snapshot(userID int64) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, false
	}
	return user.Clone(), true
}
