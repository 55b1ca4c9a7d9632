package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ukydev/luxedrive/internal/models"
)

// SaveSession replaces the current session.
func (r *Repository) SaveSession(ctx context.Context, session models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyAuth, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Set(ctx, KeyAuth, data)
}

// FindSession returns the current session, or nil when nobody is signed in.
func (r *Repository) FindSession(ctx context.Context) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Get(ctx, KeyAuth)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyAuth, err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyAuth, err)
	}
	return &session, nil
}

// DeleteSession clears the current session.
func (r *Repository) DeleteSession(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, KeyAuth)
}
