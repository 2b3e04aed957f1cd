package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/itinerary"
	"github.com/travelnest/planner/internal/service"
	"github.com/travelnest/planner/internal/store"
)

// GetDay handles GET /trips/{tripID}/days/{dayNumber}.
// A trip with its own activities shows that day's schedule sorted by time;
// otherwise the day comes from the itinerary, suggestions included.
func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.tripFromPath(w, r, false)
	if !ok {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "day not found")
		return
	}
	day, ok := dayView(trip, n)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "day not found")
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(trip, day, itinerary.CityName(trip)))
}

// dayView returns bucket n of the trip's itinerary. A precomputed itinerary
// may hold fewer days than the date range, so n is checked against the
// buckets actually built.
func dayView(trip domain.Trip, n int) (domain.ItineraryDay, bool) {
	days := itinerary.Build(trip)
	if n < 1 || n > len(days) {
		return domain.ItineraryDay{}, false
	}
	day := days[n-1]
	if trip.Itinerary == nil && len(trip.Activities) > 0 {
		day.Activities = itinerary.DaySchedule(trip, n)
	}
	return day, true
}

// AddActivity handles POST /trips/{tripID}/days/{dayNumber}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "day not found")
		return
	}
	var body addActivityRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}
	st := s.userStore(w, r)
	if st == nil {
		return
	}

	act, err := service.NewTripService(st).AddActivity(r.Context(), tripID, store.NewActivity{
		Title:     body.Title,
		Time:      body.Time,
		Notes:     body.Notes,
		DayNumber: n,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	trip, _ := st.Trip(tripID)
	writeJSON(w, http.StatusCreated, activitiesToResponse([]domain.Activity{act}, itinerary.CityName(trip))[0])
}
