// Package itinerary turns a trip into the day-by-day view shown to users.
// Everything here is pure: no I/O, no clocks, deterministic output.
package itinerary

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/travelnest/planner/internal/domain"
)

const secondsPerDay = 24 * 60 * 60

// mockNamespace scopes the name-based ids of template activities.
var mockNamespace = uuid.MustParse("6f1c2a4e-3b7d-5e8f-9a0b-1c2d3e4f5a6b")

// DayCount returns ceil((end - start) / 1 day) + 1, never less than 1.
// The span is taken from Unix seconds, not time.Duration, which saturates
// at roughly 292 years.
func DayCount(t domain.Trip) int {
	secs := t.EndDate.Unix() - t.StartDate.Unix()
	if secs < 0 {
		return 1
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 {
		days++
	}
	return int(days) + 1
}

// Label returns the display label of a day bucket.
func Label(dayNumber int) string {
	return fmt.Sprintf("Day %d", dayNumber)
}

// MockID is the stable id of a template activity: a name-based UUID of
// "mock-<day>-<title>".
func MockID(dayNumber int, title string) uuid.UUID {
	return uuid.NewSHA1(mockNamespace, []byte(fmt.Sprintf("mock-%d-%s", dayNumber, title)))
}

// Build returns the trip's itinerary, one bucket per day, Day 1 first.
//
// A precomputed trip.Itinerary wins outright. Otherwise real activities are
// bucketed by day number in insertion order; activities outside
// [1, DayCount] land in no bucket. A trip without activities gets the
// template of its city, repeated across the trip's days.
func Build(t domain.Trip) []domain.ItineraryDay {
	if t.Itinerary != nil {
		return t.Clone().Itinerary
	}

	n := DayCount(t)
	if len(t.Activities) == 0 {
		return fromTemplate(TemplateFor(CityName(t)), n)
	}

	days := make([]domain.ItineraryDay, n)
	for i := range days {
		days[i] = domain.ItineraryDay{Label: Label(i + 1), DayNumber: i + 1, Activities: []domain.Activity{}}
	}
	for _, a := range t.Activities {
		if a.DayNumber < 1 || a.DayNumber > n {
			continue
		}
		days[a.DayNumber-1].Activities = append(days[a.DayNumber-1].Activities, a)
	}
	return days
}

func fromTemplate(tpl Template, n int) []domain.ItineraryDay {
	days := make([]domain.ItineraryDay, n)
	for i := range days {
		dayNumber := i + 1
		src := tpl.Days[i%len(tpl.Days)]
		acts := make([]domain.Activity, len(src))
		for j, item := range src {
			acts[j] = domain.Activity{
				ID:        MockID(dayNumber, item.Title),
				Title:     item.Title,
				Time:      item.Time,
				Notes:     item.Notes,
				DayNumber: dayNumber,
			}
		}
		days[i] = domain.ItineraryDay{Label: Label(dayNumber), DayNumber: dayNumber, Activities: acts, Suggested: true}
	}
	return days
}

// CityName is the city a trip is displayed under: its Destination, else
// its first destination's city, else its name.
func CityName(t domain.Trip) string {
	if t.Destination != "" {
		return t.Destination
	}
	if len(t.Destinations) > 0 && t.Destinations[0].City != "" {
		return t.Destinations[0].City
	}
	return t.Name
}

// DaySchedule returns the trip's own activities for one day, ordered by
// their time string. Ties keep insertion order.
func DaySchedule(t domain.Trip, dayNumber int) []domain.Activity {
	out := []domain.Activity{}
	for _, a := range t.Activities {
		if a.DayNumber == dayNumber {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Activity) int {
		return strings.Compare(a.Time, b.Time)
	})
	return out
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
