// Package handler - export.go implements GET /export.
// Returns all trips and activities of the signed-in user as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/service"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_start_date", "trip_end_date",
	"destination", "day_number", "activity_time", "activity_title",
	"activity_notes",
}

// exportRow is the JSON shape of one export row. Activity fields are
// omitted for trips without activities.
type exportRow struct {
	TripID        uuid.UUID          `json:"trip_id"`
	TripName      string             `json:"trip_name"`
	TripStartDate openapi_types.Date `json:"trip_start_date"`
	TripEndDate   openapi_types.Date `json:"trip_end_date"`
	Destination   *string            `json:"destination,omitempty"`
	DayNumber     *int               `json:"day_number,omitempty"`
	ActivityTime  *string            `json:"activity_time,omitempty"`
	ActivityTitle *string            `json:"activity_title,omitempty"`
	ActivityNotes *string            `json:"activity_notes,omitempty"`
}

// GetExport implements GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	st := s.userStore(w, r)
	if st == nil {
		return
	}
	rows := service.ExportRows(st.Trips())

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, buildJSONRows(rows))
	case "csv":
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	default:
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "format must be json or csv")
	}
}

// buildJSONRows converts domain rows to the typed JSON response.
func buildJSONRows(rows []domain.ExportRow) []exportRow {
	out := make([]exportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToJSON(r))
	}
	return out
}

// buildCSV encodes domain rows as CSV.
func buildCSV(rows []domain.ExportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(domainRowToCSVRecord(r))
	}
	w.Flush()
	return buf.Bytes()
}

// domainRowToJSON maps a domain.ExportRow to exportRow.
// Fields that are empty become nil pointers (omitempty in JSON).
func domainRowToJSON(r domain.ExportRow) exportRow {
	tripID, _ := uuid.Parse(r.TripID)
	row := exportRow{
		TripID:        tripID,
		TripName:      r.TripName,
		TripStartDate: parseExportDate(r.TripStartDate),
		TripEndDate:   parseExportDate(r.TripEndDate),
	}
	if r.Destination != "" {
		row.Destination = &r.Destination
	}
	if r.DayNumber > 0 {
		row.DayNumber = &r.DayNumber
	}
	if r.ActivityTime != "" {
		row.ActivityTime = &r.ActivityTime
	}
	if r.ActivityTitle != "" {
		row.ActivityTitle = &r.ActivityTitle
	}
	if r.ActivityNotes != "" {
		row.ActivityNotes = &r.ActivityNotes
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A zero day number (no activity) is encoded as an empty string.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	day := ""
	if r.DayNumber > 0 {
		day = strconv.Itoa(r.DayNumber)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripStartDate,
		r.TripEndDate,
		r.Destination,
		day,
		r.ActivityTime,
		r.ActivityTitle,
		r.ActivityNotes,
	}
}

// parseExportDate parses a "2006-01-02" string into an openapi_types.Date.
// Export rows are produced by the service, so malformed input yields the
// zero date rather than failing the whole export.
func parseExportDate(s string) openapi_types.Date {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return openapi_types.Date{}
	}
	return openapi_types.Date{Time: t}
}
