package service

import (
	"github.com/travelnest/planner/internal/domain"
)

const exportDateLayout = "2006-01-02"

// ExportRows flattens trips into one row per activity, in trip order and
// then activity insertion order. Trips with no activities contribute one row
// with empty activity fields. Always returns a non-nil slice.
func ExportRows(trips []domain.Trip) []domain.ExportRow {
	rows := []domain.ExportRow{}
	for _, t := range trips {
		base := domain.ExportRow{
			TripID:        t.ID.String(),
			TripName:      t.Name,
			TripStartDate: t.StartDate.Format(exportDateLayout),
			TripEndDate:   t.EndDate.Format(exportDateLayout),
			Destination:   t.Destination,
		}
		if len(t.Activities) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, a := range t.Activities {
			row := base
			row.DayNumber = a.DayNumber
			row.ActivityTime = a.Time
			row.ActivityTitle = a.Title
			row.ActivityNotes = a.Notes
			rows = append(rows, row)
		}
	}
	return rows
}
