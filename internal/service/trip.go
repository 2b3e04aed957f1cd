// Package service validates user input before it reaches the trip store.
// Services enforce the form rules of the planner (required fields, date
// order, day ranges); they never talk to a database directly. Validation
// failures wrap domain.ErrValidation and carry a user-facing message.
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/itinerary"
	"github.com/travelnest/planner/internal/store"
)

// MaxTripDays is the longest trip, in days, Create accepts.
const MaxTripDays = 365

// MaxNoteLength is the longest note, in characters, SaveNotes accepts.
const MaxNoteLength = 10000

// Planner is the trip state of one user. *store.Store satisfies it.
// Defining the interface here lets service tests inject a mock store.
type Planner interface {
	AddTrip(ctx context.Context, in store.NewTrip) (domain.Trip, error)
	AddDestination(ctx context.Context, tripID uuid.UUID, in store.NewDestination) (domain.Destination, error)
	AddActivity(ctx context.Context, tripID uuid.UUID, in store.NewActivity) (domain.Activity, error)
	UpdateTripNotes(ctx context.Context, tripID uuid.UUID, content string) error
	Trip(id uuid.UUID) (domain.Trip, bool)
}

// TripService validates trip edits for one user's Planner.
// It is cheap to construct; handlers build one per request.
type TripService struct {
	planner Planner
}

// NewTripService constructs a TripService on top of p.
func NewTripService(p Planner) *TripService {
	return &TripService{planner: p}
}

// Create validates and adds a new trip.
// Returns domain.ErrValidation if a field is missing or the end date is
// before the start date. A same-day trip is valid.
func (s *TripService) Create(ctx context.Context, in store.NewTrip) (domain.Trip, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Destination = strings.TrimSpace(in.Destination)
	if err := validateTrip(in); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	result, err := s.planner.AddTrip(ctx, in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// AddDestination validates and adds a destination to a trip.
func (s *TripService) AddDestination(ctx context.Context, tripID uuid.UUID, in store.NewDestination) (domain.Destination, error) {
	in.City = strings.TrimSpace(in.City)
	if err := validateDestination(in); err != nil {
		return domain.Destination{}, fmt.Errorf("service.TripService.AddDestination: %w", err)
	}
	result, err := s.planner.AddDestination(ctx, tripID, in)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("service.TripService.AddDestination: %w", err)
	}
	return result, nil
}

// AddActivity validates and adds an activity. The day number must fall
// inside the trip: 1 through its day count.
// Returns domain.ErrNotFound if the trip is unknown.
func (s *TripService) AddActivity(ctx context.Context, tripID uuid.UUID, in store.NewActivity) (domain.Activity, error) {
	trip, ok := s.planner.Trip(tripID)
	if !ok {
		return domain.Activity{}, fmt.Errorf("service.TripService.AddActivity: trip %s: %w", tripID, domain.ErrNotFound)
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Time = strings.TrimSpace(in.Time)
	if err := validateActivity(in, itinerary.DayCount(trip)); err != nil {
		return domain.Activity{}, fmt.Errorf("service.TripService.AddActivity: %w", err)
	}
	result, err := s.planner.AddActivity(ctx, tripID, in)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.TripService.AddActivity: %w", err)
	}
	return result, nil
}

// SaveNotes overwrites the note of a trip. Empty content clears it.
func (s *TripService) SaveNotes(ctx context.Context, tripID uuid.UUID, content string) error {
	if utf8.RuneCountInString(content) > MaxNoteLength {
		return fmt.Errorf("service.TripService.SaveNotes: %w: Notes must be at most %d characters", domain.ErrValidation, MaxNoteLength)
	}
	if err := s.planner.UpdateTripNotes(ctx, tripID, content); err != nil {
		return fmt.Errorf("service.TripService.SaveNotes: %w", err)
	}
	return nil
}

// validateTrip enforces the new-trip form rules.
func validateTrip(in store.NewTrip) error {
	if in.Name == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: All fields are required", domain.ErrValidation)
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: End date must be after start date", domain.ErrValidation)
	}
	if itinerary.DayCount(domain.Trip{StartDate: in.StartDate, EndDate: in.EndDate}) > MaxTripDays {
		return fmt.Errorf("%w: Trip cannot be longer than %d days", domain.ErrValidation, MaxTripDays)
	}
	return nil
}

func validateDestination(in store.NewDestination) error {
	if in.City == "" {
		return fmt.Errorf("%w: City name is required", domain.ErrValidation)
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return fmt.Errorf("%w: Latitude must be between -90 and 90", domain.ErrValidation)
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return fmt.Errorf("%w: Longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}

func validateActivity(in store.NewActivity, dayCount int) error {
	if in.Title == "" {
		return fmt.Errorf("%w: Activity name is required", domain.ErrValidation)
	}
	if in.Time == "" {
		return fmt.Errorf("%w: Time is required", domain.ErrValidation)
	}
	if in.DayNumber < 1 || in.DayNumber > dayCount {
		return fmt.Errorf("%w: Day number must be between 1 and %d", domain.ErrValidation, dayCount)
	}
	return nil
}
