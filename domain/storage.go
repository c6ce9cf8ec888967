package domain

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by UserStore.LoadUser when no document exists
// for the given id.
var ErrUserNotFound = errors.New("user not found")

// UserStore persists user documents. SaveUser is an idempotent upsert keyed
// by the user id; AppendTurn is the incremental write path for chat turns.
// Transient session fields are not stored.
type UserStore interface {
	LoadUser(ctx context.Context, userID int64) (*User, error)
	SaveUser(ctx context.Context, user *User) error
	AppendTurn(ctx context.Context, userID int64, personaIndex int, t Turn) error
}
