package models

import (
	"time"
)

// Role represents user roles in the system
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a customer or administrator account
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Role         Role      `bson:"role" json:"role"`
	Phone        string    `bson:"phone" json:"phone"`
	IsBlocked    bool      `bson:"is_blocked" json:"isBlocked"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"passwordHash,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// Public returns a copy of the user that is safe to hand to clients.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
}

// Session is the single "who is currently signed in" marker.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Exp    int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// HasPermission checks if a user has permission for a specific action
func (u *User) HasPermission(action string) bool {
	if u.IsBlocked {
		return false
	}
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return action == "view_cars" || action == "create_booking" ||
			action == "view_own_bookings"
	default:
		return false
	}
}
