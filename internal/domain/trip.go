// Package domain contains the core data types for the travel planner.
// This package has no dependencies on other internal packages and is imported
// by every layer (repo, store, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level planning unit owned by a user.
// Destinations, Activities and Notes belong to the trip and have no lifecycle
// of their own.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Destination is the optional display city chosen when the trip was created.
	Destination string `json:"destination,omitempty"`

	Destinations []Destination `json:"destinations"`
	Activities   []Activity    `json:"activities"`
	Notes        string        `json:"notes"`

	// Itinerary, when non-nil, is a precomputed day schedule that takes
	// precedence over anything derived from Activities.
	Itinerary []ItineraryDay `json:"itinerary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Destination is a place attached to a trip, independent of day scheduling.
type Destination struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	City      string    `json:"city"`
	Notes     string    `json:"notes,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity is a scheduled item on a given day of a trip.
// Time is kept as the free-form string the user typed ("09:00 AM", "14:00");
// it is only ever compared lexically.
type Activity struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Title     string    `json:"title"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes,omitempty"`
	DayNumber int       `json:"day_number"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is the single current free-text note of a trip.
type Note struct {
	TripID    uuid.UUID `json:"trip_id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItineraryDay is one bucket of the day-keyed itinerary.
// Activities is never nil so an empty day serialises as [].
// Suggested marks days filled from a city template rather than from the
// trip's own activities.
type ItineraryDay struct {
	Label      string     `json:"label"`
	DayNumber  int        `json:"day_number"`
	Activities []Activity `json:"activities"`
	Suggested  bool       `json:"suggested,omitempty"`
}

// Clone returns a deep copy of the trip. The store hands out clones so that
// callers can never mutate its collection.
func (t Trip) Clone() Trip {
	c := t
	c.Destinations = cloneDestinations(t.Destinations)
	c.Activities = append([]Activity{}, t.Activities...)
	if t.Itinerary != nil {
		c.Itinerary = make([]ItineraryDay, len(t.Itinerary))
		for i, d := range t.Itinerary {
			d.Activities = append([]Activity{}, d.Activities...)
			c.Itinerary[i] = d
		}
	}
	return c
}

func cloneDestinations(in []Destination) []Destination {
	out := make([]Destination, len(in))
	for i, d := range in {
		if d.Latitude != nil {
			lat := *d.Latitude
			d.Latitude = &lat
		}
		if d.Longitude != nil {
			lng := *d.Longitude
			d.Longitude = &lng
		}
		out[i] = d
	}
	return out
}
