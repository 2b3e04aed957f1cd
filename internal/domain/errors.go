package domain

import "errors"

// ErrNotFound is returned when the requested trip or record does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by the service layer when form input fails
// validation (e.g. missing required field, end date before start date).
// It never reaches the store. Handlers should map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrAuth is returned when the identity provider rejects a sign-up, sign-in
// or session token. The text after "auth error: " is safe to show to users.
var ErrAuth = errors.New("auth error")

// ErrUnauthenticated is returned by store operations that require a signed-in
// user when there is none.
var ErrUnauthenticated = errors.New("not signed in")

// ErrStore wraps any failure of the backing record store: network failure,
// constraint violation, permission denial. The store never retries.
var ErrStore = errors.New("store error")

// ErrConflict is returned by repos when a unique constraint is violated
// (e.g. an email that is already registered).
var ErrConflict = errors.New("conflict")
