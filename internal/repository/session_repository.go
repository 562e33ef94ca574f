package repository

import (
	model "auction-house/internal/models"
	"context"
	"fmt"
)

// SessionRepo persists the single current-user record
type SessionRepo struct {
	store Store
}

// NewSessionRepo creates a session repository backed by store
func NewSessionRepo(store Store) *SessionRepo {
	return &SessionRepo{store: store}
}

// Current returns the persisted session, if any
func (r *SessionRepo) Current(ctx context.Context) (model.Session, bool, error) {
	var session *model.Session
	if _, err := r.store.Load(ctx, KeyCurrentUser, &session); err != nil {
		return model.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.Email == "" {
		return model.Session{}, false, nil
	}
	return *session, true, nil
}

// Set replaces the persisted session
func (r *SessionRepo) Set(ctx context.Context, session model.Session) error {
	if err := r.store.Save(ctx, KeyCurrentUser, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the persisted session
func (r *SessionRepo) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
