package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the signed-in account. PasswordHash never leaves the auth and repo
// layers.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is an authenticated session issued by the auth service.
// TokenID is the revocable identifier embedded in Token.
type Session struct {
	Token     string    `json:"token"`
	TokenID   string    `json:"-"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthEventKind distinguishes auth state transitions.
type AuthEventKind string

const (
	AuthSignedIn  AuthEventKind = "signed_in"
	AuthSignedOut AuthEventKind = "signed_out"
)

// AuthEvent is pushed to auth-state subscribers.
// Session is nil for AuthSignedOut; UserID is always set.
type AuthEvent struct {
	Kind    AuthEventKind
	UserID  uuid.UUID
	Session *Session
}
