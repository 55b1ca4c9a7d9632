package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukydev/luxedrive/internal/models"
)

// NormalizeEmail is the form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ListUsers returns every user in stored order.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return ReadCollection[models.User](ctx, r.store, KeyUsers)
}

// FindUserByID finds a user by their ID
func (r *Repository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := ReadCollection[models.User](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	if user := findUser(users, id); user != nil {
		return user, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}

// FindUserByEmail finds a user by their email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := ReadCollection[models.User](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	for _, user := range users {
		if NormalizeEmail(user.Email) == email {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
}

// InsertUser adds a new user. The email must not belong to any existing user.
// An ID and creation time are assigned when missing.
func (r *Repository) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	if user.Email == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	if !models.IsValidRole(user.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, user.Role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := ReadCollection[models.User](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	for _, existing := range users {
		if NormalizeEmail(existing.Email) == user.Email {
			return nil, fmt.Errorf("%s: %w", user.Email, models.ErrDuplicateEmail)
		}
	}

	if user.ID == "" {
		user.ID = r.newID("u")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now()
	}
	users = append(users, user)

	if err := WriteCollection(ctx, r.store, KeyUsers, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleBlock flips the blocked flag of a user. Admins can never be blocked.
func (r *Repository) ToggleBlock(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := ReadCollection[models.User](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if users[idx].Role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin users cannot be blocked", models.ErrPolicyViolation)
	}

	users[idx].IsBlocked = !users[idx].IsBlocked
	if err := WriteCollection(ctx, r.store, KeyUsers, users); err != nil {
		return nil, err
	}
	user := users[idx]
	return &user, nil
}

func findUser(users []models.User, id string) *models.User {
	for _, user := range users {
		if user.ID == id {
			return &user
		}
	}
	return nil
}
