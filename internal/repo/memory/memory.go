// Package memory provides in-process implementations of the repo interfaces.
// They back the demo mode and most unit tests; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/repo"
)

// NewBackend returns a repo.Backend whose repos share nothing but the process.
func NewBackend() repo.Backend {
	return repo.Backend{
		Users:        NewUserRepo(),
		Trips:        NewTripRepo(),
		Destinations: NewDestinationRepo(),
		Activities:   NewActivityRepo(),
		Notes:        NewNoteRepo(),
	}
}

// ---- users -----------------------------------------------------------------

// UserRepo is an in-memory repo.UserRepo. Emails are stored lower-cased.
type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

// NewUserRepo returns an empty UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]domain.User)}
}

// Create stores u under a new id. A taken email returns domain.ErrConflict.
func (r *UserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = strings.ToLower(u.Email)
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.User{}, fmt.Errorf("memory.UserRepo.Create: %w", domain.ErrConflict)
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	r.users[u.ID] = u
	return u, nil
}

// GetByEmail looks a user up case-insensitively.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("memory.UserRepo.GetByEmail: %w", domain.ErrNotFound)
}

// GetByID returns domain.ErrNotFound for an unknown id.
func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("memory.UserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return u, nil
}

// ---- trips -----------------------------------------------------------------

// TripRepo is an in-memory repo.TripRepo keeping trips in insertion order.
type TripRepo struct {
	mu    sync.RWMutex
	trips []domain.Trip
}

// NewTripRepo returns an empty TripRepo.
func NewTripRepo() *TripRepo {
	return &TripRepo{}
}

// Create stores t with a new id and empty children.
func (r *TripRepo) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	t.Destinations = []domain.Destination{}
	t.Activities = []domain.Activity{}
	t.Notes = ""
	t.Itinerary = nil
	r.trips = append(r.trips, t)
	return t.Clone(), nil
}

// ListByUser returns copies of the user's trips in creation order.
func (r *TripRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Trip{}
	for _, t := range r.trips {
		if t.UserID == userID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// ---- destinations ----------------------------------------------------------

// DestinationRepo is an in-memory repo.DestinationRepo.
type DestinationRepo struct {
	mu    sync.RWMutex
	items []domain.Destination
}

// NewDestinationRepo returns an empty DestinationRepo.
func NewDestinationRepo() *DestinationRepo {
	return &DestinationRepo{}
}

// Create stores d under a new id.
func (r *DestinationRepo) Create(_ context.Context, d domain.Destination) (domain.Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = uuid.New()
	d.CreatedAt = time.Now().UTC()
	r.items = append(r.items, d)
	return d, nil
}

// ListByTrip returns the trip's destinations in insertion order.
func (r *DestinationRepo) ListByTrip(_ context.Context, tripID uuid.UUID) ([]domain.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Destination{}
	for _, d := range r.items {
		if d.TripID == tripID {
			out = append(out, d)
		}
	}
	return out, nil
}

// ---- activities ------------------------------------------------------------

// ActivityRepo is an in-memory repo.ActivityRepo.
type ActivityRepo struct {
	mu    sync.RWMutex
	items []domain.Activity
}

// NewActivityRepo returns an empty ActivityRepo.
func NewActivityRepo() *ActivityRepo {
	return &ActivityRepo{}
}

// Create stores a under a new id.
func (r *ActivityRepo) Create(_ context.Context, a domain.Activity) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	r.items = append(r.items, a)
	return a, nil
}

// ListByTrip returns the trip's activities in insertion order.
func (r *ActivityRepo) ListByTrip(_ context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Activity{}
	for _, a := range r.items {
		if a.TripID == tripID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---- notes -----------------------------------------------------------------

// NoteRepo is an in-memory repo.NoteRepo holding one note per trip.
type NoteRepo struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]domain.Note
}

// NewNoteRepo returns an empty NoteRepo.
func NewNoteRepo() *NoteRepo {
	return &NoteRepo{notes: make(map[uuid.UUID]domain.Note)}
}

// Upsert replaces the trip's note.
func (r *NoteRepo) Upsert(_ context.Context, tripID uuid.UUID, content string) (domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := domain.Note{TripID: tripID, Content: content, UpdatedAt: time.Now().UTC()}
	r.notes[tripID] = n
	return n, nil
}

// Get returns domain.ErrNotFound when the trip has no note yet.
func (r *NoteRepo) Get(_ context.Context, tripID uuid.UUID) (domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[tripID]
	if !ok {
		return domain.Note{}, fmt.Errorf("memory.NoteRepo.Get: %w", domain.ErrNotFound)
	}
	return n, nil
}

// compile-time checks
var (
	_ repo.UserRepo        = (*UserRepo)(nil)
	_ repo.TripRepo        = (*TripRepo)(nil)
	_ repo.DestinationRepo = (*DestinationRepo)(nil)
	_ repo.ActivityRepo    = (*ActivityRepo)(nil)
	_ repo.NoteRepo        = (*NoteRepo)(nil)
)
