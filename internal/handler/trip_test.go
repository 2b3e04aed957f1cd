package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_returnsOverviewWithSuggestedItinerary(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")

	rec := api.do(http.MethodPost, "/trips", token, map[string]string{
		"name": "Spring in Paris", "start_date": "2025-04-01", "end_date": "2025-04-05", "destination": "Paris",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[overviewBody](t, rec)
	assert.Equal(t, "Spring in Paris", body.Name)
	assert.Equal(t, "2025-04-01", body.StartDate)
	assert.Equal(t, "2025-04-05", body.EndDate)
	assert.Equal(t, "Paris", body.City)
	assert.Equal(t, 5, body.DayCount)
	assert.Empty(t, body.Destinations)
	require.Len(t, body.Itinerary, 5)
	for i, d := range body.Itinerary {
		assert.Equal(t, i+1, d.DayNumber)
		assert.True(t, d.Suggested)
		assert.NotEmpty(t, d.Activities, "day %d", i+1)
	}
	assert.Equal(t, "Day 1", body.Itinerary[0].Label)
	assert.Equal(t, "2025-04-03", body.Itinerary[2].Date)
	assert.Equal(t, "Eiffel Tower", body.Itinerary[0].Activities[0].Title)
}

func TestCreateTrip_validation_returns422(t *testing.T) {
	cases := []struct {
		name string
		body any
		want string
	}{
		{"missing end date", map[string]string{"name": "X", "start_date": "2025-04-01"}, "All fields are required"},
		{"blank name", map[string]string{"name": "  ", "start_date": "2025-04-01", "end_date": "2025-04-02"}, "All fields are required"},
		{"end before start", map[string]string{"name": "X", "start_date": "2025-04-05", "end_date": "2025-04-01"}, "End date must be after start date"},
		{"longer than a year", map[string]string{"name": "X", "start_date": "2025-01-01", "end_date": "2026-01-01"}, "Trip cannot be longer than 365 days"},
		{"bad date format", `{"name":"X","start_date":"04/01/2025","end_date":"2025-04-02"}`, "malformed request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newAPI(t)
			token := api.signUp("ada@example.com")

			rec := api.do(http.MethodPost, "/trips", token, tc.body)

			assert.Equal(t, tc.want, requireError(t, rec, http.StatusUnprocessableEntity, "validation_error"))
		})
	}
}

func TestCreateTrip_sameDayTrip_isValid(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")

	rec := api.do(http.MethodPost, "/trips", token, map[string]string{
		"name": "Day trip", "start_date": "2025-04-01", "end_date": "2025-04-01",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[overviewBody](t, rec).DayCount)
}

func TestCreateTrip_storeFailure_returns502AndLeavesListUnchanged(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")
	api.trips.err = errBackendDown

	rec := api.do(http.MethodPost, "/trips", token, map[string]string{
		"name": "X", "start_date": "2025-04-01", "end_date": "2025-04-02",
	})
	requireError(t, rec, http.StatusBadGateway, "store_error")

	rec = api.do(http.MethodGet, "/trips", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[struct {
		Data []overviewBody `json:"data"`
	}](t, rec).Data)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_onlyOwnTripsInCreationOrder(t *testing.T) {
	api := newAPI(t)
	ada := api.signUp("ada@example.com")
	bob := api.signUp("bob@example.com")

	api.createParisTrip(ada)
	rec := api.do(http.MethodPost, "/trips", ada, map[string]string{
		"name": "Tokyo lights", "start_date": "2025-06-01", "end_date": "2025-06-03", "destination": "Tokyo",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	api.do(http.MethodPost, "/trips", bob, map[string]string{
		"name": "Bob's trip", "start_date": "2025-06-01", "end_date": "2025-06-03",
	})

	for _, path := range []string{"/trips", "/trips?refresh=true"} {
		rec = api.do(http.MethodGet, path, ada, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		list := decode[struct {
			Data []overviewBody `json:"data"`
		}](t, rec).Data
		require.Len(t, list, 2, path)
		assert.Equal(t, "Spring in Paris", list[0].Name)
		assert.Equal(t, "Tokyo lights", list[1].Name)
		assert.Equal(t, 3, list[1].DayCount)
	}
}

// ---- GET /trips/{tripID} ---------------------------------------------------

func TestGetTripOverview_unknownOrMalformedID_returns404(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		rec := api.do(http.MethodGet, "/trips/"+id, token, nil)
		requireError(t, rec, http.StatusNotFound, "not_found")
	}
}

func TestGetTripOverview_otherUsersTrip_returns404(t *testing.T) {
	api := newAPI(t)
	ada := api.signUp("ada@example.com")
	bob := api.signUp("bob@example.com")
	id := api.createParisTrip(ada)

	rec := api.do(http.MethodGet, "/trips/"+id, bob, nil)

	requireError(t, rec, http.StatusNotFound, "not_found")
}

// ---- destinations and map ---------------------------------------------------

func TestAddDestination_appearsOnOverviewAndMap(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")
	id := api.createParisTrip(token)

	for _, city := range []string{"Louvre", "Montmartre"} {
		rec := api.do(http.MethodPost, "/trips/"+id+"/destinations", token, map[string]any{"city": city, "latitude": 48.86})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodGet, "/trips/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[overviewBody](t, rec).Destinations, 2)

	rec = api.do(http.MethodGet, "/trips/"+id+"/map", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[struct {
		ViewBox float64 `json:"view_box"`
		Path    string  `json:"path"`
		Markers []struct {
			Index int    `json:"index"`
			City  string `json:"city"`
		} `json:"markers"`
	}](t, rec)
	assert.Equal(t, 400.0, m.ViewBox)
	require.Len(t, m.Markers, 2)
	assert.Equal(t, "Louvre", m.Markers[0].City)
	assert.Equal(t, 2, m.Markers[1].Index)
	assert.True(t, strings.HasPrefix(m.Path, "M "), m.Path)
	assert.True(t, strings.HasSuffix(m.Path, " Z"), m.Path)
}

func TestAddDestination_validation(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")
	id := api.createParisTrip(token)

	rec := api.do(http.MethodPost, "/trips/"+id+"/destinations", token, map[string]any{"city": ""})
	assert.Equal(t, "City name is required", requireError(t, rec, http.StatusUnprocessableEntity, "validation_error"))

	rec = api.do(http.MethodPost, "/trips/"+id+"/destinations", token, map[string]any{"city": "Nice", "latitude": 91})
	assert.Equal(t, "Latitude must be between -90 and 90", requireError(t, rec, http.StatusUnprocessableEntity, "validation_error"))
}

func TestAddDestination_unknownTrip_returns404(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")

	rec := api.do(http.MethodPost, "/trips/"+uuid.NewString()+"/destinations", token, map[string]any{"city": "Nice"})

	requireError(t, rec, http.StatusNotFound, "not_found")
}

// ---- notes -----------------------------------------------------------------

func TestNotes_putOverwritesAndGetReadsBack(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")
	id := api.createParisTrip(token)

	for _, content := range []string{"pack adapters", "pack adapters and a scarf"} {
		rec := api.do(http.MethodPut, "/trips/"+id+"/notes", token, map[string]string{"content": content})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodGet, "/trips/"+id+"/notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pack adapters and a scarf", decode[struct {
		Content string `json:"content"`
	}](t, rec).Content)

	rec = api.do(http.MethodGet, "/trips/"+id, token, nil)
	assert.Equal(t, "pack adapters and a scarf", decode[overviewBody](t, rec).Notes)
}

func TestNotes_tooLong_returns422(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")
	id := api.createParisTrip(token)

	rec := api.do(http.MethodPut, "/trips/"+id+"/notes", token, map[string]string{"content": strings.Repeat("x", 10001)})

	requireError(t, rec, http.StatusUnprocessableEntity, "validation_error")
}

// ---- plans -----------------------------------------------------------------

func TestGetPlans_personalisedWithCity(t *testing.T) {
	api := newAPI(t)
	token := api.signUp("ada@example.com")
	id := api.createParisTrip(token)

	rec := api.do(http.MethodGet, "/trips/"+id+"/plans", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		City  string `json:"city"`
		Plans []struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"plans"`
	}](t, rec)
	assert.Equal(t, "Paris", body.City)
	require.Len(t, body.Plans, 3)
	assert.Equal(t, "Budget", body.Plans[0].Type)
	assert.Contains(t, body.Plans[1].Name, "Paris")
}
