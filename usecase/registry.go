package usecase

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/utils/log"
)

// SessionRegistry is the in-memory session cache over the persistence port.
// It is constructed once at process start and owned by the orchestrator;
// access is keyed by user id and synchronized at the map level only, so no
// lock is ever held across a store or backend call.
type SessionRegistry struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
	store domain.UserStore
}

func NewSessionRegistry(store domain.UserStore) *SessionRegistry {
	return &SessionRegistry{
		users: make(map[int64]*domain.User),
		store: store,
	}
}

// GetOrCreate returns the cached user, loading it from the store on a miss.
// When the store has no document a fresh default user is created and
// persisted before it is returned. A failing load is logged and answered
// with a fresh default user rather than blocking the conversation.
func (r *SessionRegistry) GetOrCreate(ctx context.Context, userID int64) *domain.User {
	r.mu.RLock()
	user, ok := r.users[userID]
	r.mu.RUnlock()
	if ok {
		return user
	}

	user, err := r.store.LoadUser(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		log.WithCtx(ctx).Info("creating new user", zap.Int64("user_id", userID))
		user = domain.NewUser(userID)
		if err := r.store.SaveUser(ctx, user); err != nil {
			log.WithCtx(ctx).Error("failed to persist new user", zap.Int64("user_id", userID), zap.Error(err))
		}
	case err != nil:
		log.WithCtx(ctx).Error("failed to load user, falling back to defaults", zap.Int64("user_id", userID), zap.Error(err))
		user = domain.NewUser(userID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.users[userID]; ok {
		// Another event won the race; its state is authoritative.
		return cached
	}
	r.users[userID] = user
	return user
}

// Put replaces the cached entry for the user.
func (r *SessionRegistry) Put(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

// Peek returns the cached user without touching the store. It exists for the
// read-only ops surface.
func (r *SessionRegistry) Peek(userID int64) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	return user, ok
}
