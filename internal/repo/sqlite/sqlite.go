// Package sqlite implements the repo interfaces on a single SQLite file using
// the pure-Go modernc.org/sqlite driver. It is the zero-infrastructure
// persistent mode: no server, schema applied on open.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/repo"
)

const dateLayout = "2006-01-02"

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    start_date  TEXT NOT NULL,
    end_date    TEXT NOT NULL,
    destination TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS destinations (
    id         TEXT PRIMARY KEY,
    trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    notes      TEXT NOT NULL DEFAULT '',
    latitude   REAL,
    longitude  REAL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
    id         TEXT PRIMARY KEY,
    trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    day_number INTEGER NOT NULL,
    title      TEXT NOT NULL,
    time       TEXT NOT NULL DEFAULT '',
    notes      TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_notes (
    trip_id    TEXT PRIMARY KEY REFERENCES trips(id) ON DELETE CASCADE,
    content    TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id);
CREATE INDEX IF NOT EXISTS idx_destinations_trip_id ON destinations(trip_id);
CREATE INDEX IF NOT EXISTS idx_activities_trip_id ON activities(trip_id);
`

// Open opens or creates the SQLite database at path and initializes the schema.
// Pass ":memory:" for a throwaway database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite serialises writers anyway, and ":memory:"
	// databases are per-connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// NewBackend wires every SQLite repo to db.
func NewBackend(db *sql.DB) repo.Backend {
	return repo.Backend{
		Users:        &userRepo{db: db},
		Trips:        &tripRepo{db: db},
		Destinations: &destinationRepo{db: db},
		Activities:   &activityRepo{db: db},
		Notes:        &noteRepo{db: db},
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// ---- users -----------------------------------------------------------------

type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = uuid.New()
	u.Email = strings.ToLower(u.Email)
	created := now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, u.PasswordHash, created)
	if err != nil {
		if isConstraint(err) {
			return domain.User{}, fmt.Errorf("sqlite.UserRepo.Create: %w", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("sqlite.UserRepo.Create: %w", err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`,
		strings.ToLower(email))
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("sqlite.UserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`,
		id.String())
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("sqlite.UserRepo.GetByID: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u       domain.User
		id      string
		created string
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = parsed
	u.CreatedAt = parseTime(created)
	return u, nil
}

// ---- trips -----------------------------------------------------------------

type tripRepo struct {
	db *sql.DB
}

func (r *tripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	t.ID = uuid.New()
	created := now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trips (id, user_id, name, start_date, end_date, destination, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID.String(), t.Name,
		t.StartDate.Format(dateLayout), t.EndDate.Format(dateLayout),
		t.Destination, created)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("sqlite.TripRepo.Create: %w", err)
	}

	t.CreatedAt = parseTime(created)
	t.Destinations = []domain.Destination{}
	t.Activities = []domain.Activity{}
	t.Notes = ""
	t.Itinerary = nil
	return t, nil
}

func (r *tripRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, start_date, end_date, destination, created_at
		FROM trips
		WHERE user_id = ?
		ORDER BY rowid`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlite.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		var (
			t                      domain.Trip
			id, uid, start, end, c string
		)
		if err := rows.Scan(&id, &uid, &t.Name, &start, &end, &t.Destination, &c); err != nil {
			return nil, fmt.Errorf("sqlite.TripRepo.ListByUser: scan: %w", err)
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlite.TripRepo.ListByUser: id: %w", err)
		}
		if t.UserID, err = uuid.Parse(uid); err != nil {
			return nil, fmt.Errorf("sqlite.TripRepo.ListByUser: user_id: %w", err)
		}
		if t.StartDate, err = time.Parse(dateLayout, start); err != nil {
			return nil, fmt.Errorf("sqlite.TripRepo.ListByUser: start_date: %w", err)
		}
		if t.EndDate, err = time.Parse(dateLayout, end); err != nil {
			return nil, fmt.Errorf("sqlite.TripRepo.ListByUser: end_date: %w", err)
		}
		t.CreatedAt = parseTime(c)
		t.Destinations = []domain.Destination{}
		t.Activities = []domain.Activity{}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.TripRepo.ListByUser: rows: %w", err)
	}
	return trips, nil
}

// ---- destinations ----------------------------------------------------------

type destinationRepo struct {
	db *sql.DB
}

func (r *destinationRepo) Create(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	d.ID = uuid.New()
	created := now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO destinations (id, trip_id, name, notes, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID.String(), d.TripID.String(), d.City, d.Notes,
		nullFloat(d.Latitude), nullFloat(d.Longitude), created)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("sqlite.DestinationRepo.Create: %w", err)
	}
	d.CreatedAt = parseTime(created)
	return d, nil
}

func (r *destinationRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Destination, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trip_id, name, notes, latitude, longitude, created_at
		FROM destinations
		WHERE trip_id = ?
		ORDER BY rowid`, tripID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlite.DestinationRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	out := []domain.Destination{}
	for rows.Next() {
		var (
			d          domain.Destination
			id, tid, c string
			lat, lng   sql.NullFloat64
		)
		if err := rows.Scan(&id, &tid, &d.City, &d.Notes, &lat, &lng, &c); err != nil {
			return nil, fmt.Errorf("sqlite.DestinationRepo.ListByTrip: scan: %w", err)
		}
		if d.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlite.DestinationRepo.ListByTrip: id: %w", err)
		}
		if d.TripID, err = uuid.Parse(tid); err != nil {
			return nil, fmt.Errorf("sqlite.DestinationRepo.ListByTrip: trip_id: %w", err)
		}
		if lat.Valid {
			v := lat.Float64
			d.Latitude = &v
		}
		if lng.Valid {
			v := lng.Float64
			d.Longitude = &v
		}
		d.CreatedAt = parseTime(c)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.DestinationRepo.ListByTrip: rows: %w", err)
	}
	return out, nil
}

// ---- activities ------------------------------------------------------------

type activityRepo struct {
	db *sql.DB
}

func (r *activityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	a.ID = uuid.New()
	created := now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (id, trip_id, day_number, title, time, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.TripID.String(), a.DayNumber, a.Title, a.Time, a.Notes, created)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("sqlite.ActivityRepo.Create: %w", err)
	}
	a.CreatedAt = parseTime(created)
	return a, nil
}

func (r *activityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trip_id, day_number, title, time, notes, created_at
		FROM activities
		WHERE trip_id = ?
		ORDER BY rowid`, tripID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlite.ActivityRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	out := []domain.Activity{}
	for rows.Next() {
		var (
			a          domain.Activity
			id, tid, c string
		)
		if err := rows.Scan(&id, &tid, &a.DayNumber, &a.Title, &a.Time, &a.Notes, &c); err != nil {
			return nil, fmt.Errorf("sqlite.ActivityRepo.ListByTrip: scan: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlite.ActivityRepo.ListByTrip: id: %w", err)
		}
		if a.TripID, err = uuid.Parse(tid); err != nil {
			return nil, fmt.Errorf("sqlite.ActivityRepo.ListByTrip: trip_id: %w", err)
		}
		a.CreatedAt = parseTime(c)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.ActivityRepo.ListByTrip: rows: %w", err)
	}
	return out, nil
}

// ---- notes -----------------------------------------------------------------

type noteRepo struct {
	db *sql.DB
}

func (r *noteRepo) Upsert(ctx context.Context, tripID uuid.UUID, content string) (domain.Note, error) {
	updated := now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trip_notes (trip_id, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (trip_id) DO UPDATE
		SET content = excluded.content, updated_at = excluded.updated_at`,
		tripID.String(), content, updated)
	if err != nil {
		return domain.Note{}, fmt.Errorf("sqlite.NoteRepo.Upsert: %w", err)
	}
	return domain.Note{TripID: tripID, Content: content, UpdatedAt: parseTime(updated)}, nil
}

func (r *noteRepo) Get(ctx context.Context, tripID uuid.UUID) (domain.Note, error) {
	var content, updated string
	err := r.db.QueryRowContext(ctx,
		`SELECT content, updated_at FROM trip_notes WHERE trip_id = ?`, tripID.String()).
		Scan(&content, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Note{}, fmt.Errorf("sqlite.NoteRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.Note{}, fmt.Errorf("sqlite.NoteRepo.Get: %w", err)
	}
	return domain.Note{TripID: tripID, Content: content, UpdatedAt: parseTime(updated)}, nil
}

// ---- helpers ---------------------------------------------------------------

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// isConstraint reports whether err is a SQLite constraint violation.
// Extended codes (e.g. SQLITE_CONSTRAINT_UNIQUE) share the primary code in
// their low byte.
func isConstraint(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
