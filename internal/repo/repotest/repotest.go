// Package repotest holds a behavioural test suite that every repo.Backend
// implementation must pass. The postgres, sqlite and memory packages each run
// it against their own backend.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/repo"
)

// Run executes the suite. newBackend is called once per subtest and must
// return an empty, isolated backend.
func Run(t *testing.T, newBackend func(t *testing.T) repo.Backend) {
	t.Run("UserCreateAndGet", func(t *testing.T) { testUserCreateAndGet(t, newBackend(t)) })
	t.Run("UserDuplicateEmail", func(t *testing.T) { testUserDuplicateEmail(t, newBackend(t)) })
	t.Run("UserNotFound", func(t *testing.T) { testUserNotFound(t, newBackend(t)) })
	t.Run("TripCreate", func(t *testing.T) { testTripCreate(t, newBackend(t)) })
	t.Run("TripListByUser", func(t *testing.T) { testTripListByUser(t, newBackend(t)) })
	t.Run("DestinationOrder", func(t *testing.T) { testDestinationOrder(t, newBackend(t)) })
	t.Run("ActivityOrder", func(t *testing.T) { testActivityOrder(t, newBackend(t)) })
	t.Run("NoteUpsert", func(t *testing.T) { testNoteUpsert(t, newBackend(t)) })
	t.Run("NoteNotFound", func(t *testing.T) { testNoteNotFound(t, newBackend(t)) })
}

// UserFixture returns a user with a unique email.
func UserFixture() domain.User {
	return domain.User{
		Name:         "Ada Traveller",
		Email:        "ada+" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "$2a$10$notarealhashbutlongenoughtolookright",
	}
}

// TripFixture returns a five-day Paris trip owned by userID.
func TripFixture(userID uuid.UUID) domain.Trip {
	return domain.Trip{
		UserID:      userID,
		Name:        "Spring in Paris",
		StartDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
		Destination: "Paris",
	}
}

func mustUser(t *testing.T, b repo.Backend) domain.User {
	t.Helper()
	u, err := b.Users.Create(context.Background(), UserFixture())
	require.NoError(t, err)
	return u
}

func mustTrip(t *testing.T, b repo.Backend, userID uuid.UUID) domain.Trip {
	t.Helper()
	tr, err := b.Trips.Create(context.Background(), TripFixture(userID))
	require.NoError(t, err)
	return tr
}

// ---- users -----------------------------------------------------------------

func testUserCreateAndGet(t *testing.T, b repo.Backend) {
	ctx := context.Background()
	in := UserFixture()
	in.Email = "Mixed.Case+" + uuid.NewString()[:8] + "@Example.com"

	created, err := b.Users.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := b.Users.GetByEmail(ctx, in.Email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, in.PasswordHash, byEmail.PasswordHash)

	byID, err := b.Users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)
	assert.Equal(t, "Ada Traveller", byID.Name)
}

func testUserDuplicateEmail(t *testing.T, b repo.Backend) {
	ctx := context.Background()
	u := UserFixture()
	_, err := b.Users.Create(ctx, u)
	require.NoError(t, err)

	_, err = b.Users.Create(ctx, u)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func testUserNotFound(t *testing.T, b repo.Backend) {
	ctx := context.Background()

	_, err := b.Users.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = b.Users.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- trips -----------------------------------------------------------------

func testTripCreate(t *testing.T, b repo.Backend) {
	u := mustUser(t, b)
	in := TripFixture(u.ID)

	got, err := b.Trips.Create(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, "Paris", got.Destination)
	assert.True(t, got.StartDate.Equal(in.StartDate), "StartDate mismatch")
	assert.True(t, got.EndDate.Equal(in.EndDate), "EndDate mismatch")
	assert.NotNil(t, got.Destinations)
	assert.Empty(t, got.Destinations)
	assert.NotNil(t, got.Activities)
	assert.Empty(t, got.Activities)
	assert.Empty(t, got.Notes)
}

func testTripListByUser(t *testing.T, b repo.Backend) {
	ctx := context.Background()
	alice := mustUser(t, b)
	bob := mustUser(t, b)

	names := []string{"First", "Second", "Third"}
	for _, n := range names {
		tr := TripFixture(alice.ID)
		tr.Name = n
		_, err := b.Trips.Create(ctx, tr)
		require.NoError(t, err)
	}
	_ = mustTrip(t, b, bob.ID)

	got, err := b.Trips.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, tr := range got {
		assert.Equal(t, names[i], tr.Name, "trips must come back in insertion order")
		assert.Equal(t, alice.ID, tr.UserID)
	}

	none, err := b.Trips.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// ---- destinations ----------------------------------------------------------

func testDestinationOrder(t *testing.T, b repo.Backend) {
	ctx := context.Background()
	u := mustUser(t, b)
	tr := mustTrip(t, b, u.ID)
	other := mustTrip(t, b, u.ID)

	lat, lng := 48.8566, 2.3522
	first, err := b.Destinations.Create(ctx, domain.Destination{
		TripID: tr.ID, City: "Paris", Notes: "arrive by train", Latitude: &lat, Longitude: &lng,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)

	_, err = b.Destinations.Create(ctx, domain.Destination{TripID: tr.ID, City: "Lyon"})
	require.NoError(t, err)
	_, err = b.Destinations.Create(ctx, domain.Destination{TripID: other.ID, City: "Nice"})
	require.NoError(t, err)

	got, err := b.Destinations.ListByTrip(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Paris", got[0].City)
	assert.Equal(t, "arrive by train", got[0].Notes)
	require.NotNil(t, got[0].Latitude)
	assert.InDelta(t, lat, *got[0].Latitude, 1e-9)
	require.NotNil(t, got[0].Longitude)
	assert.InDelta(t, lng, *got[0].Longitude, 1e-9)
	assert.Equal(t, "Lyon", got[1].City)
	assert.Nil(t, got[1].Latitude)
	assert.Nil(t, got[1].Longitude)
}

// ---- activities ------------------------------------------------------------

func testActivityOrder(t *testing.T, b repo.Backend) {
	ctx := context.Background()
	u := mustUser(t, b)
	tr := mustTrip(t, b, u.ID)

	in := []domain.Activity{
		{TripID: tr.ID, DayNumber: 2, Title: "Louvre", Time: "10:00 AM"},
		{TripID: tr.ID, DayNumber: 1, Title: "Eiffel Tower", Time: "09:00 AM", Notes: "book ahead"},
		{TripID: tr.ID, DayNumber: 2, Title: "Seine cruise", Time: "08:00 PM"},
	}
	for _, a := range in {
		created, err := b.Activities.Create(ctx, a)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
	}

	got, err := b.Activities.ListByTrip(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range in {
		assert.Equal(t, in[i].Title, got[i].Title)
		assert.Equal(t, in[i].DayNumber, got[i].DayNumber)
		assert.Equal(t, in[i].Time, got[i].Time)
		assert.Equal(t, tr.ID, got[i].TripID)
	}
	assert.Equal(t, "book ahead", got[1].Notes)
}

// ---- notes -----------------------------------------------------------------

func testNoteUpsert(t *testing.T, b repo.Backend) {
	ctx := context.Background()
	u := mustUser(t, b)
	tr := mustTrip(t, b, u.ID)

	first, err := b.Notes.Upsert(ctx, tr.ID, "pack adapters")
	require.NoError(t, err)
	assert.Equal(t, "pack adapters", first.Content)

	_, err = b.Notes.Upsert(ctx, tr.ID, "pack adapters and a raincoat")
	require.NoError(t, err)

	got, err := b.Notes.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.TripID)
	assert.Equal(t, "pack adapters and a raincoat", got.Content)
	assert.False(t, got.UpdatedAt.IsZero())
}

func testNoteNotFound(t *testing.T, b repo.Backend) {
	u := mustUser(t, b)
	tr := mustTrip(t, b, u.ID)

	_, err := b.Notes.Get(context.Background(), tr.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
