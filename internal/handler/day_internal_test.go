package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelnest/planner/internal/domain"
)

func TestDayView_precomputedItineraryShorterThanTrip(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	trip := domain.Trip{
		Name:      "Paris",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 4), // five days
		Itinerary: []domain.ItineraryDay{
			{Label: "Day 1", DayNumber: 1, Activities: []domain.Activity{{Title: "Arrive", Time: "10:00", DayNumber: 1}}},
			{Label: "Day 2", DayNumber: 2, Activities: []domain.Activity{}},
		},
	}

	day, ok := dayView(trip, 1)
	require.True(t, ok)
	assert.Equal(t, "Arrive", day.Activities[0].Title)

	for _, n := range []int{0, 3, 5} {
		_, ok := dayView(trip, n)
		assert.False(t, ok, "day %d", n)
	}
}

func TestDayView_ownActivitiesSortedByTime(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	trip := domain.Trip{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Activities: []domain.Activity{
			{Title: "Dinner", Time: "19:00", DayNumber: 2},
			{Title: "Breakfast", Time: "08:00", DayNumber: 2},
		},
	}

	day, ok := dayView(trip, 2)

	require.True(t, ok)
	require.Len(t, day.Activities, 2)
	assert.Equal(t, "Breakfast", day.Activities[0].Title)
	assert.False(t, day.Suggested)
}
