// Package store holds the in-memory trip state of one signed-in user and keeps
// it in step with the backing repos.
//
// A Store owns the current user, the user's trips (each with destinations,
// activities and its note) and a selected-trip cache. Every mutation goes to
// the backend first; memory is only touched after the backend accepted it, so
// a failed write leaves the Store exactly as it was.
//
// I/O never runs under the Store's lock. Each operation records the epoch
// before it starts; the epoch is bumped whenever the user changes, and
// results that come back under an older epoch are discarded.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/repo"
)

// Authenticator is the slice of the identity provider the Store needs.
// *auth.Service satisfies it.
type Authenticator interface {
	SignUp(ctx context.Context, name, email, password string) (domain.Session, error)
	GetSession(ctx context.Context, token string) (domain.Session, error)
	OnAuthStateChange(fn func(domain.AuthEvent)) (unsubscribe func())
}

const (
	defaultFanout = 8

	// adoptLoadTimeout bounds the trip load triggered by a sign-in event,
	// which has no request context of its own.
	adoptLoadTimeout = 15 * time.Second
)

// NewTrip is the input of AddTrip.
type NewTrip struct {
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Destination string
}

// NewDestination is the input of AddDestination.
type NewDestination struct {
	City      string
	Notes     string
	Latitude  *float64
	Longitude *float64
}

// NewActivity is the input of AddActivity.
type NewActivity struct {
	Title     string
	Time      string
	Notes     string
	DayNumber int
}

// Store is safe for concurrent use.
type Store struct {
	backend repo.Backend
	auth    Authenticator
	log     *slog.Logger
	fanout  int

	mu          sync.RWMutex
	user        *domain.User
	trips       []domain.Trip
	selectedID  uuid.UUID
	selected    *domain.Trip
	epoch       uint64
	unsubscribe func()
	closed      bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithFanout caps the number of trips whose children LoadTrips fetches
// concurrently.
func WithFanout(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.fanout = n
		}
	}
}

// New returns a signed-out Store with an empty trip collection.
// Call Init before use and Teardown when done.
func New(backend repo.Backend, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		auth:    auth,
		log:     slog.Default(),
		fanout:  defaultFanout,
		trips:   []domain.Trip{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init restores the session behind token (if any), subscribes to auth-state
// changes and loads the user's trips. Calling Init again never subscribes a
// second time. An empty token starts the Store signed out.
func (s *Store) Init(ctx context.Context, token string) error {
	var restoreErr error
	if token != "" {
		sess, err := s.auth.GetSession(ctx, token)
		if err != nil {
			restoreErr = fmt.Errorf("store.Store.Init: %w", err)
		} else {
			s.setUser(sess.User)
		}
	}

	s.mu.Lock()
	if s.unsubscribe == nil && !s.closed {
		s.unsubscribe = s.auth.OnAuthStateChange(s.handleAuthEvent)
	}
	s.mu.Unlock()

	if restoreErr != nil {
		return restoreErr
	}
	if _, ok := s.User(); !ok {
		return nil
	}
	if err := s.LoadTrips(ctx); err != nil {
		return fmt.Errorf("store.Store.Init: %w", err)
	}
	return nil
}

// Teardown unsubscribes from auth-state changes. It is idempotent; the Store
// ignores auth events afterwards.
func (s *Store) Teardown() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.closed = true
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// SignUp creates an account through the identity provider and makes it the
// Store's user. Rejections are returned with their message intact.
func (s *Store) SignUp(ctx context.Context, name, email, password string) (domain.Session, error) {
	sess, err := s.auth.SignUp(ctx, name, email, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("store.Store.SignUp: %w", err)
	}
	s.setUser(sess.User)
	return sess, nil
}

// AddTrip persists a new trip for the current user and reloads the
// collection. Without a user it fails with domain.ErrUnauthenticated.
func (s *Store) AddTrip(ctx context.Context, in NewTrip) (domain.Trip, error) {
	user, epoch, ok := s.currentUser()
	if !ok {
		return domain.Trip{}, fmt.Errorf("store.Store.AddTrip: %w", domain.ErrUnauthenticated)
	}

	created, err := s.backend.Trips.Create(ctx, domain.Trip{
		UserID:      user.ID,
		Name:        in.Name,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Destination: in.Destination,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("store.Store.AddTrip: %w: %w", domain.ErrStore, err)
	}

	if err := s.load(ctx, user.ID, epoch); err != nil {
		// The trip exists in the backend; keep memory consistent with it.
		s.log.WarnContext(ctx, "reload after add trip failed", "trip_id", created.ID, "error", err)
		s.apply(epoch, "add trip", func() {
			s.trips = append(slices.Clone(s.trips), created)
		})
	}

	if t, ok := s.Trip(created.ID); ok {
		return t, nil
	}
	return created.Clone(), nil
}

// SelectTrip makes tripID the selected trip. An unknown id clears the
// selection. No I/O.
func (s *Store) SelectTrip(tripID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = tripID
	s.refreshSelectedLocked()
}

// AddDestination persists a destination and appends it to its trip.
func (s *Store) AddDestination(ctx context.Context, tripID uuid.UUID, in NewDestination) (domain.Destination, error) {
	epoch, err := s.requireTrip(tripID)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("store.Store.AddDestination: %w", err)
	}

	d, err := s.backend.Destinations.Create(ctx, domain.Destination{
		TripID:    tripID,
		City:      in.City,
		Notes:     in.Notes,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	})
	if err != nil {
		return domain.Destination{}, fmt.Errorf("store.Store.AddDestination: %w: %w", domain.ErrStore, err)
	}

	s.updateTrip(epoch, tripID, "add destination", func(t *domain.Trip) {
		t.Destinations = append(t.Destinations, d)
	})
	return d, nil
}

// AddActivity persists an activity and appends it to its trip. The day
// number is stored as given; range checks belong to the caller.
func (s *Store) AddActivity(ctx context.Context, tripID uuid.UUID, in NewActivity) (domain.Activity, error) {
	epoch, err := s.requireTrip(tripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("store.Store.AddActivity: %w", err)
	}

	a, err := s.backend.Activities.Create(ctx, domain.Activity{
		TripID:    tripID,
		Title:     in.Title,
		Time:      in.Time,
		Notes:     in.Notes,
		DayNumber: in.DayNumber,
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("store.Store.AddActivity: %w: %w", domain.ErrStore, err)
	}

	s.updateTrip(epoch, tripID, "add activity", func(t *domain.Trip) {
		t.Activities = append(t.Activities, a)
	})
	return a, nil
}

// UpdateTripNotes overwrites the note of a trip.
func (s *Store) UpdateTripNotes(ctx context.Context, tripID uuid.UUID, content string) error {
	epoch, err := s.requireTrip(tripID)
	if err != nil {
		return fmt.Errorf("store.Store.UpdateTripNotes: %w", err)
	}

	n, err := s.backend.Notes.Upsert(ctx, tripID, content)
	if err != nil {
		return fmt.Errorf("store.Store.UpdateTripNotes: %w: %w", domain.ErrStore, err)
	}

	s.updateTrip(epoch, tripID, "update notes", func(t *domain.Trip) {
		t.Notes = n.Content
	})
	return nil
}

// LoadTrips replaces the collection with the user's trips as stored in the
// backend, children included. On failure the collection is left untouched.
func (s *Store) LoadTrips(ctx context.Context) error {
	user, epoch, ok := s.currentUser()
	if !ok {
		return fmt.Errorf("store.Store.LoadTrips: %w", domain.ErrUnauthenticated)
	}
	if err := s.load(ctx, user.ID, epoch); err != nil {
		return fmt.Errorf("store.Store.LoadTrips: %w", err)
	}
	return nil
}

// ---- readers ---------------------------------------------------------------

// User returns the signed-in user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Trips returns a deep copy of the collection in load order.
func (s *Store) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Trip, len(s.trips))
	for i, t := range s.trips {
		out[i] = t.Clone()
	}
	return out
}

// Trip returns a copy of one trip.
func (s *Store) Trip(id uuid.UUID) (domain.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Trip{}, false
	}
	return s.trips[i].Clone(), true
}

// SelectedTrip returns a copy of the selected trip.
func (s *Store) SelectedTrip() (domain.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return domain.Trip{}, false
	}
	return s.selected.Clone(), true
}

// ---- internals -------------------------------------------------------------

func (s *Store) currentUser() (domain.User, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, s.epoch, false
	}
	return *s.user, s.epoch, true
}

// setUser switches the Store to u. Switching to a different user clears the
// collection and bumps the epoch; the same user is a no-op.
func (s *Store) setUser(u domain.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user.ID == u.ID {
		return false
	}
	s.user = &u
	s.resetLocked()
	return true
}

func (s *Store) resetLocked() {
	s.trips = []domain.Trip{}
	s.selectedID = uuid.Nil
	s.selected = nil
	s.epoch++
}

// requireTrip returns the current epoch if tripID is in the collection.
func (s *Store) requireTrip(tripID uuid.UUID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.indexLocked(tripID) < 0 {
		return 0, fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
	}
	return s.epoch, nil
}

func (s *Store) indexLocked(id uuid.UUID) int {
	return slices.IndexFunc(s.trips, func(t domain.Trip) bool { return t.ID == id })
}

// refreshSelectedLocked re-derives the selected-trip cache from the
// collection. Every mutator calls it after replacing s.trips.
func (s *Store) refreshSelectedLocked() {
	s.selected = nil
	if s.selectedID == uuid.Nil {
		return
	}
	i := s.indexLocked(s.selectedID)
	if i < 0 {
		s.selectedID = uuid.Nil
		return
	}
	t := s.trips[i]
	s.selected = &t
}

// apply runs fn under the write lock unless the epoch moved on.
func (s *Store) apply(epoch uint64, op string, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug("discarding stale result", "op", op, "epoch", epoch, "current_epoch", s.epoch)
		return false
	}
	fn()
	s.refreshSelectedLocked()
	return true
}

// updateTrip replaces one trip with a modified copy. The old slice is never
// written to, so clones handed out earlier stay valid.
func (s *Store) updateTrip(epoch uint64, tripID uuid.UUID, op string, mutate func(*domain.Trip)) {
	s.apply(epoch, op, func() {
		i := s.indexLocked(tripID)
		if i < 0 {
			return
		}
		next := slices.Clone(s.trips)
		t := next[i].Clone()
		mutate(&t)
		next[i] = t
		s.trips = next
	})
}

func (s *Store) load(ctx context.Context, userID uuid.UUID, epoch uint64) error {
	trips, err := s.fetch(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	s.apply(epoch, "load trips", func() {
		s.trips = trips
	})
	return nil
}

// fetch reads the user's trips and then, concurrently per trip, their
// destinations, activities and note. Results keep the trip order.
func (s *Store) fetch(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.backend.Trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i := range trips {
		g.Go(func() error {
			t := &trips[i]

			dests, err := s.backend.Destinations.ListByTrip(gctx, t.ID)
			if err != nil {
				return fmt.Errorf("trip %s destinations: %w", t.ID, err)
			}
			acts, err := s.backend.Activities.ListByTrip(gctx, t.ID)
			if err != nil {
				return fmt.Errorf("trip %s activities: %w", t.ID, err)
			}
			note, err := s.backend.Notes.Get(gctx, t.ID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				t.Notes = ""
			case err != nil:
				return fmt.Errorf("trip %s note: %w", t.ID, err)
			default:
				t.Notes = note.Content
			}

			t.Destinations = dests
			t.Activities = acts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trips, nil
}

// handleAuthEvent follows the identity provider. Signing out the Store's
// user clears it; a sign-in is adopted only while the Store is signed out.
func (s *Store) handleAuthEvent(ev domain.AuthEvent) {
	switch ev.Kind {
	case domain.AuthSignedOut:
		s.mu.Lock()
		if s.user != nil && s.user.ID == ev.UserID {
			s.user = nil
			s.resetLocked()
			s.log.Info("store cleared after sign-out", "user_id", ev.UserID)
		}
		s.mu.Unlock()

	case domain.AuthSignedIn:
		if ev.Session == nil {
			return
		}
		s.mu.Lock()
		adopt := !s.closed && s.user == nil
		if adopt {
			u := ev.Session.User
			s.user = &u
			s.resetLocked()
		}
		s.mu.Unlock()
		if !adopt {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), adoptLoadTimeout)
		defer cancel()
		if err := s.LoadTrips(ctx); err != nil {
			s.log.Warn("load trips after sign-in failed", "user_id", ev.UserID, "error", err)
		}
	}
}
