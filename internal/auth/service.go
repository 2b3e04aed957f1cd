// Package auth is the identity provider of the planner: account creation,
// password sign-in, signed session tokens, revocation and auth-state push
// notifications.
//
// Tokens are HS256 JWTs. Every token carries a random token id (jti) that is
// recorded in a SessionStore; a token is only accepted while its id is
// present there, so SignOut revokes immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/repo"
)

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 6

// User-facing rejection messages.
const (
	msgInvalidEmail    = "Unable to validate email address: invalid format"
	msgWeakPassword    = "Password should be at least 6 characters"
	msgAlreadyExists   = "User already registered"
	msgBadCredentials  = "Invalid login credentials"
	msgInvalidSession  = "Invalid or expired session"
	msgMissingName     = "Name is required"
	msgMissingPassword = "Password is required"
)

// Service implements sign-up, sign-in, session lookup and sign-out.
// It is safe for concurrent use.
type Service struct {
	users    repo.UserRepo
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
	log      *slog.Logger

	mu      sync.Mutex
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(domain.AuthEvent)
}

// Option configures a Service.
type Option func(*Service)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for auth events.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService constructs a Service. ttl is the lifetime of issued sessions.
func NewService(users repo.UserRepo, sessions SessionStore, secret string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// rejection builds an ErrAuth whose trailing text is the user-facing message.
func rejection(op, msg string) error {
	return fmt.Errorf("%s: %w: %s", op, domain.ErrAuth, msg)
}

// SignUp creates an account and signs it in.
// Malformed emails, short passwords and already registered emails are
// rejected with domain.ErrAuth.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (domain.Session, error) {
	const op = "auth.Service.SignUp"

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return domain.Session{}, rejection(op, msgMissingName)
	}
	if !validEmail(email) {
		return domain.Session{}, rejection(op, msgInvalidEmail)
	}
	if len(password) < MinPasswordLength {
		return domain.Session{}, rejection(op, msgWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: hash: %w", op, err)
	}

	user, err := s.users.Create(ctx, domain.User{Name: name, Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Session{}, rejection(op, msgAlreadyExists)
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.issue(ctx, user)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.InfoContext(ctx, "user signed up", "user_id", user.ID)
	s.notify(domain.AuthEvent{Kind: domain.AuthSignedIn, UserID: user.ID, Session: &sess})
	return sess, nil
}

// SignIn checks the password and issues a new session.
// Unknown emails and wrong passwords produce the same rejection.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	const op = "auth.Service.SignIn"

	if password == "" {
		return domain.Session{}, rejection(op, msgMissingPassword)
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, rejection(op, msgBadCredentials)
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, rejection(op, msgBadCredentials)
	}

	sess, err := s.issue(ctx, user)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.InfoContext(ctx, "user signed in", "user_id", user.ID)
	s.notify(domain.AuthEvent{Kind: domain.AuthSignedIn, UserID: user.ID, Session: &sess})
	return sess, nil
}

// GetSession resolves a token to its live session.
// Expired, tampered or revoked tokens are rejected with domain.ErrAuth.
func (s *Service) GetSession(ctx context.Context, token string) (domain.Session, error) {
	const op = "auth.Service.GetSession"

	c, err := s.parse(token)
	if err != nil {
		s.log.DebugContext(ctx, "session token rejected", "error", err)
		return domain.Session{}, rejection(op, msgInvalidSession)
	}

	owner, err := s.sessions.Lookup(ctx, c.ID)
	if err != nil {
		if errors.Is(err, ErrSessionUnknown) {
			return domain.Session{}, rejection(op, msgInvalidSession)
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if owner.String() != c.UserID {
		return domain.Session{}, rejection(op, msgInvalidSession)
	}

	user, err := s.users.GetByID(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, rejection(op, msgInvalidSession)
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Session{
		Token:     token,
		TokenID:   c.ID,
		User:      user,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session behind token and notifies subscribers.
// Signing out an already revoked session is not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	const op = "auth.Service.SignOut"

	c, err := s.parse(token)
	if err != nil {
		return rejection(op, msgInvalidSession)
	}
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return rejection(op, msgInvalidSession)
	}

	if err := s.sessions.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.InfoContext(ctx, "user signed out", "user_id", userID)
	s.notify(domain.AuthEvent{Kind: domain.AuthSignedOut, UserID: userID})
	return nil
}

// OnAuthStateChange registers fn to be called after every sign-in, sign-up
// and sign-out. Callbacks run synchronously on the goroutine that caused the
// change, in subscription order. The returned func unsubscribes; calling it
// more than once is harmless.
func (s *Service) OnAuthStateChange(fn func(domain.AuthEvent)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// notify calls every subscriber outside the lock so callbacks may
// subscribe, unsubscribe or call back into the service.
func (s *Service) notify(ev domain.AuthEvent) {
	s.mu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}

func (s *Service) issue(ctx context.Context, user domain.User) (domain.Session, error) {
	jti := uuid.NewString()
	expires := s.now().Add(s.ttl)

	token, err := s.sign(user, jti, expires)
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Save(ctx, jti, user.ID, s.ttl); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return domain.Session{Token: token, TokenID: jti, User: user, ExpiresAt: expires}, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// ParseAddress accepts "Name <a@b>"; only bare addresses are allowed.
	return addr.Address == email
}
