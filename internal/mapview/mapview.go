// Package mapview lays a trip's destinations out on a schematic map.
// The layout is a circle, not geography: destination i of n sits at angle
// 2*pi*i/n around the centre of a square view box.
package mapview

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/travelnest/planner/internal/domain"
)

// Layout constants, in view box units.
const (
	ViewBox = 400.0
	CenterX = 200.0
	CenterY = 200.0
	Radius  = 120.0
)

// Marker is one destination placed on the sketch.
type Marker struct {
	DestinationID uuid.UUID `json:"destination_id"`
	Index         int       `json:"index"` // 1-based, as listed to users
	City          string    `json:"city"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
}

// Map is the full sketch of a trip.
type Map struct {
	ViewBox float64  `json:"view_box"`
	Markers []Marker `json:"markers"`
	// Path is an SVG path joining the markers in order and closing the loop.
	// Empty when there are fewer than two markers.
	Path string `json:"path,omitempty"`
}

// Sketch places destinations evenly around the circle in the order given.
func Sketch(dests []domain.Destination) Map {
	m := Map{ViewBox: ViewBox, Markers: make([]Marker, len(dests))}
	total := max(len(dests), 1)
	for i, d := range dests {
		angle := float64(i) / float64(total) * 2 * math.Pi
		m.Markers[i] = Marker{
			DestinationID: d.ID,
			Index:         i + 1,
			City:          d.City,
			X:             CenterX + math.Cos(angle)*Radius,
			Y:             CenterY + math.Sin(angle)*Radius,
		}
	}
	if len(dests) > 1 {
		m.Path = path(m.Markers)
	}
	return m
}

func path(markers []Marker) string {
	var b strings.Builder
	for i, mk := range markers {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(coord(mk.X))
		b.WriteByte(' ')
		b.WriteString(coord(mk.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

// coord formats with at most two decimals so paths stay short and stable.
func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// SearchURL returns a Google Maps search link for a place in a city.
func SearchURL(place, city string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(place+", "+city)
}
