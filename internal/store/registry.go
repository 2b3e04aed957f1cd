package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/repo"
)

// ErrRegistryClosed is returned by Open after Shutdown.
var ErrRegistryClosed = errors.New("store registry closed")

// Registry keeps one live Store per signed-in user. Stores are created and
// initialised on first use and torn down when their user signs out.
type Registry struct {
	backend repo.Backend
	auth    Authenticator
	log     *slog.Logger
	opts    []Option

	mu          sync.Mutex
	stores      map[uuid.UUID]*registryEntry
	closed      bool
	unsubscribe func()
}

type registryEntry struct {
	store *Store
	ready chan struct{}
	err   error
}

// NewRegistry returns an empty Registry. opts are applied to every Store it
// creates.
func NewRegistry(backend repo.Backend, auth Authenticator, log *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		backend: backend,
		auth:    auth,
		log:     log,
		opts:    append([]Option{WithLogger(log)}, opts...),
		stores:  make(map[uuid.UUID]*registryEntry),
	}
	r.unsubscribe = auth.OnAuthStateChange(func(ev domain.AuthEvent) {
		if ev.Kind == domain.AuthSignedOut {
			r.Close(ev.UserID)
		}
	})
	return r
}

// Open returns the Store of the session's user, creating and initialising it
// if needed. Concurrent first calls for the same user share one Init.
func (r *Registry) Open(ctx context.Context, sess domain.Session) (*Store, error) {
	userID := sess.User.ID

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, fmt.Errorf("store.Registry.Open: %w", ErrRegistryClosed)
	}
	e, ok := r.stores[userID]
	if !ok {
		e = &registryEntry{store: New(r.backend, r.auth, r.opts...), ready: make(chan struct{})}
		r.stores[userID] = e
	}
	r.mu.Unlock()

	if !ok {
		e.err = e.store.Init(ctx, sess.Token)
		if e.err != nil {
			r.mu.Lock()
			if r.stores[userID] == e {
				delete(r.stores, userID)
			}
			r.mu.Unlock()
			e.store.Teardown()
		} else {
			r.log.DebugContext(ctx, "store opened", "user_id", userID)
		}
		close(e.ready)
	}

	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, fmt.Errorf("store.Registry.Open: %w", ctx.Err())
	}
	if e.err != nil {
		return nil, fmt.Errorf("store.Registry.Open: %w", e.err)
	}
	return e.store, nil
}

// SignUp creates an account through a fresh Store and keeps that Store as
// the new user's.
func (r *Registry) SignUp(ctx context.Context, name, email, password string) (domain.Session, error) {
	st := New(r.backend, r.auth, r.opts...)
	if err := st.Init(ctx, ""); err != nil {
		st.Teardown()
		return domain.Session{}, fmt.Errorf("store.Registry.SignUp: %w", err)
	}
	sess, err := st.SignUp(ctx, name, email, password)
	if err != nil {
		st.Teardown()
		return domain.Session{}, fmt.Errorf("store.Registry.SignUp: %w", err)
	}

	ready := make(chan struct{})
	close(ready)

	r.mu.Lock()
	_, exists := r.stores[sess.User.ID]
	keep := !r.closed && !exists
	if keep {
		r.stores[sess.User.ID] = &registryEntry{store: st, ready: ready}
	}
	r.mu.Unlock()

	if !keep {
		st.Teardown()
	}
	return sess, nil
}

// Close tears down the Store of userID, if any.
func (r *Registry) Close(userID uuid.UUID) {
	r.mu.Lock()
	e, ok := r.stores[userID]
	delete(r.stores, userID)
	r.mu.Unlock()

	if ok {
		e.store.Teardown()
		r.log.Debug("store closed", "user_id", userID)
	}
}

// Len reports how many Stores are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Shutdown tears down every Store and stops following auth events.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	entries := r.stores
	r.stores = make(map[uuid.UUID]*registryEntry)
	r.closed = true
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	for _, e := range entries {
		e.store.Teardown()
	}
}
