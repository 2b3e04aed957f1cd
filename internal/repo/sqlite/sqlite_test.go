package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelnest/planner/internal/repo"
	"github.com/travelnest/planner/internal/repo/repotest"
	"github.com/travelnest/planner/internal/repo/sqlite"
)

func TestBackend(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repo.Backend {
		db, err := sqlite.Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return sqlite.NewBackend(db)
	})
}

func TestOpen_IsIdempotentOnExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	b := sqlite.NewBackend(db)
	u, err := b.Users.Create(context.Background(), repotest.UserFixture())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not fail on CREATE TABLE and must keep the data.
	db, err = sqlite.Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := sqlite.NewBackend(db).Users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestTripRepo_ForeignKeyEnforced(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	// No such user: the insert must fail rather than orphan a trip.
	_, err = sqlite.NewBackend(db).Trips.Create(context.Background(), repotest.TripFixture([16]byte{9}))
	require.Error(t, err)
}

func TestListByTrip_CorruptIDIsAnError(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	b := sqlite.NewBackend(db)

	u, err := b.Users.Create(ctx, repotest.UserFixture())
	require.NoError(t, err)
	tr, err := b.Trips.Create(ctx, repotest.TripFixture(u.ID))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO destinations (id, trip_id, name, created_at)
		VALUES ('not-a-uuid', ?, 'Louvre', '2025-04-01T00:00:00Z')`, tr.ID.String())
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO activities (id, trip_id, day_number, title, created_at)
		VALUES ('not-a-uuid', ?, 1, 'Louvre', '2025-04-01T00:00:00Z')`, tr.ID.String())
	require.NoError(t, err)

	_, err = b.Destinations.ListByTrip(ctx, tr.ID)
	assert.ErrorContains(t, err, "sqlite.DestinationRepo.ListByTrip: id")

	_, err = b.Activities.ListByTrip(ctx, tr.ID)
	assert.ErrorContains(t, err, "sqlite.ActivityRepo.ListByTrip: id")
}
