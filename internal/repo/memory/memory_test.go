package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelnest/planner/internal/repo"
	"github.com/travelnest/planner/internal/repo/memory"
	"github.com/travelnest/planner/internal/repo/repotest"
)

func TestBackend(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repo.Backend {
		return memory.NewBackend()
	})
}

func TestTripRepo_ListReturnsCopies(t *testing.T) {
	r := memory.NewTripRepo()
	ctx := context.Background()
	in := repotest.TripFixture([16]byte{1})

	_, err := r.Create(ctx, in)
	require.NoError(t, err)

	first, err := r.ListByUser(ctx, in.UserID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	first[0].Name = "mutated"

	second, err := r.ListByUser(ctx, in.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Spring in Paris", second[0].Name)
}
