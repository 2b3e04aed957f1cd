package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/itinerary"
	"github.com/travelnest/planner/internal/mapview"
)

// ---- requests --------------------------------------------------------------

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createTripRequest uses pointer dates so a missing date reaches the service
// as a zero time and is reported as a missing field.
type createTripRequest struct {
	Name        string              `json:"name"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	Destination string              `json:"destination"`
}

type addDestinationRequest struct {
	City      string   `json:"city"`
	Notes     string   `json:"notes"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type addActivityRequest struct {
	Title string `json:"title"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

type notesRequest struct {
	Content string `json:"content"`
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.New("request body too large")
		}
		return errors.New("malformed request body")
	}
	return nil
}

func dateOrZero(d *openapi_types.Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

// ---- responses -------------------------------------------------------------

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func sessionToResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      userResponse{ID: s.User.ID, Name: s.User.Name, Email: s.User.Email},
	}
}

// tripSummary is the trip as listed on the dashboard.
type tripSummary struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	StartDate        openapi_types.Date `json:"start_date"`
	EndDate          openapi_types.Date `json:"end_date"`
	Destination      string             `json:"destination,omitempty"`
	City             string             `json:"city"`
	Image            string             `json:"image"`
	DayCount         int                `json:"day_count"`
	DestinationCount int                `json:"destination_count"`
	ActivityCount    int                `json:"activity_count"`
	CreatedAt        time.Time          `json:"created_at"`
}

func tripToSummary(t domain.Trip) tripSummary {
	city := itinerary.CityName(t)
	return tripSummary{
		ID:               t.ID,
		Name:             t.Name,
		StartDate:        openapi_types.Date{Time: t.StartDate},
		EndDate:          openapi_types.Date{Time: t.EndDate},
		Destination:      t.Destination,
		City:             city,
		Image:            itinerary.CityImage(city),
		DayCount:         itinerary.DayCount(t),
		DestinationCount: len(t.Destinations),
		ActivityCount:    len(t.Activities),
		CreatedAt:        t.CreatedAt,
	}
}

type activityResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Time      string    `json:"time"`
	Notes     string    `json:"notes,omitempty"`
	DayNumber int       `json:"day_number"`
	Image     string    `json:"image"`
	MapsURL   string    `json:"maps_url"`
}

func activitiesToResponse(acts []domain.Activity, city string) []activityResponse {
	out := make([]activityResponse, len(acts))
	for i, a := range acts {
		out[i] = activityResponse{
			ID:        a.ID,
			Title:     a.Title,
			Time:      a.Time,
			Notes:     a.Notes,
			DayNumber: a.DayNumber,
			Image:     itinerary.ActivityImage(a.Title),
			MapsURL:   mapview.SearchURL(a.Title, city),
		}
	}
	return out
}

type dayResponse struct {
	Label      string             `json:"label"`
	DayNumber  int                `json:"day_number"`
	Date       openapi_types.Date `json:"date"`
	Suggested  bool               `json:"suggested,omitempty"`
	Activities []activityResponse `json:"activities"`
}

func dayToResponse(t domain.Trip, day domain.ItineraryDay, city string) dayResponse {
	return dayResponse{
		Label:      day.Label,
		DayNumber:  day.DayNumber,
		Date:       openapi_types.Date{Time: t.StartDate.AddDate(0, 0, day.DayNumber-1)},
		Suggested:  day.Suggested,
		Activities: activitiesToResponse(day.Activities, city),
	}
}

// tripOverview is the full trip page: summary, itinerary, destinations, notes.
type tripOverview struct {
	tripSummary
	Destinations []domain.Destination `json:"destinations"`
	Notes        string               `json:"notes"`
	Itinerary    []dayResponse        `json:"itinerary"`
}

func tripToOverview(t domain.Trip) tripOverview {
	sum := tripToSummary(t)
	days := itinerary.Build(t)
	out := tripOverview{
		tripSummary:  sum,
		Destinations: t.Destinations,
		Notes:        t.Notes,
		Itinerary:    make([]dayResponse, len(days)),
	}
	if out.Destinations == nil {
		out.Destinations = []domain.Destination{}
	}
	for i, d := range days {
		out.Itinerary[i] = dayToResponse(t, d, sum.City)
	}
	return out
}

type notesResponse struct {
	TripID  uuid.UUID `json:"trip_id"`
	Content string    `json:"content"`
}

type plansResponse struct {
	City  string           `json:"city"`
	Plans []itinerary.Plan `json:"plans"`
}
