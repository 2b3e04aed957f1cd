package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/itinerary"
	"github.com/travelnest/planner/internal/mapview"
	"github.com/travelnest/planner/internal/service"
	"github.com/travelnest/planner/internal/store"
)

// ListTrips handles GET /trips.
// ?refresh=true reloads the collection from the backing store first.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	st := s.userStore(w, r)
	if st == nil {
		return
	}
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		if err := st.LoadTrips(r.Context()); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	trips := st.Trips()
	data := make([]tripSummary, len(trips))
	for i, t := range trips {
		data[i] = tripToSummary(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}
	st := s.userStore(w, r)
	if st == nil {
		return
	}

	created, err := service.NewTripService(st).Create(r.Context(), store.NewTrip{
		Name:        body.Name,
		StartDate:   dateOrZero(body.StartDate),
		EndDate:     dateOrZero(body.EndDate),
		Destination: body.Destination,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToOverview(created))
}

// GetTripOverview handles GET /trips/{tripID}. Opening a trip selects it.
func (s *Server) GetTripOverview(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.tripFromPath(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tripToOverview(trip))
}

// GetMap handles GET /trips/{tripID}/map.
func (s *Server) GetMap(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.tripFromPath(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mapview.Sketch(trip.Destinations))
}

// GetPlans handles GET /trips/{tripID}/plans.
func (s *Server) GetPlans(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.tripFromPath(w, r, false)
	if !ok {
		return
	}
	city := itinerary.CityName(trip)
	writeJSON(w, http.StatusOK, plansResponse{City: city, Plans: itinerary.Plans(city)})
}

// AddDestination handles POST /trips/{tripID}/destinations.
func (s *Server) AddDestination(w http.ResponseWriter, r *http.Request) {
	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}
	var body addDestinationRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}
	st := s.userStore(w, r)
	if st == nil {
		return
	}

	dest, err := service.NewTripService(st).AddDestination(r.Context(), tripID, store.NewDestination{
		City:      body.City,
		Notes:     body.Notes,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dest)
}

// GetNotes handles GET /trips/{tripID}/notes.
func (s *Server) GetNotes(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.tripFromPath(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, notesResponse{TripID: trip.ID, Content: trip.Notes})
}

// PutNotes handles PUT /trips/{tripID}/notes. The body replaces the note.
func (s *Server) PutNotes(w http.ResponseWriter, r *http.Request) {
	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}
	var body notesRequest
	if err := decodeBody(r, &body); err != nil {
		requestError(w, err.Error())
		return
	}
	st := s.userStore(w, r)
	if st == nil {
		return
	}

	if err := service.NewTripService(st).SaveNotes(r.Context(), tripID, body.Content); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notesResponse{TripID: tripID, Content: body.Content})
}

// ---- path helpers ----------------------------------------------------------

// parseTripID reads {tripID}; a malformed id is reported as a missing trip.
func parseTripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "trip not found")
		return uuid.Nil, false
	}
	return id, true
}

// tripFromPath resolves {tripID} against the user's store. With sel set the
// trip also becomes the store's selected trip.
func (s *Server) tripFromPath(w http.ResponseWriter, r *http.Request, sel bool) (domain.Trip, bool) {
	id, ok := parseTripID(w, r)
	if !ok {
		return domain.Trip{}, false
	}
	st := s.userStore(w, r)
	if st == nil {
		return domain.Trip{}, false
	}

	var (
		trip  domain.Trip
		found bool
	)
	if sel {
		st.SelectTrip(id)
		trip, found = st.SelectedTrip()
	} else {
		trip, found = st.Trip(id)
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "trip not found")
		return domain.Trip{}, false
	}
	return trip, true
}
