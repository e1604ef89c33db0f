package repositories_test

import (
	"context"
	"github.com/homecrimes/caseroom/internal/progress"
	"github.com/homecrimes/caseroom/internal/repositories"
	"github.com/homecrimes/caseroom/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

// Compile-time check that snapshots can be persisted in the database.
var _ progress.Snapshots = (*repositories.ProgressRepository)(nil)

func TestPlayerRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := repositories.NewPlayerRepository(db, testhelpers.NewLogger(io.Discard))

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repositories.ErrNotFound)
	require.ErrorIs(t, repo.Touch(ctx, "missing"), repositories.ErrNotFound)

	before := time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, "player-1", "los-hijos-acantilado", "cs_1"))
	require.NoError(t, repo.Create(ctx, "player-2", "los-hijos-acantilado", "cs_1"))
	require.Error(t, repo.Create(ctx, "player-1", "demo", "demo-session"), "ids are unique")

	p, err := repo.Get(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, "los-hijos-acantilado", p.ProductSlug)
	assert.Equal(t, "cs_1", p.CheckoutSession)
	assert.True(t, p.Created.After(before))
	require.NoError(t, repo.Touch(ctx, "player-1"))

	n, err := repo.CountRedemptions(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestProductRepository_CaseSlug(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewProductRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))
	tests := []struct {
		productSlug string
		want        string
	}{
		{productSlug: "demo", want: "demo"},
		{productSlug: "los-hijos-acantilado", want: "los-hijos-acantilado"},
		{productSlug: "caso-nuevo", want: "caso-nuevo"},
	}
	for _, tt := range tests {
		got, err := repo.CaseSlug(ctx, tt.productSlug)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestProgressRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	players := repositories.NewPlayerRepository(db, logger)
	repo := repositories.NewProgressRepository(db, logger)
	require.NoError(t, players.Create(ctx, "player-1", "demo", "demo-session"))

	blob, err := repo.Load(ctx, "player-1", "los-hijos-acantilado-v1")
	require.NoError(t, err)
	require.Nil(t, blob, "absent snapshot")

	require.NoError(t, repo.Save(ctx, "player-1", "los-hijos-acantilado-v1", []byte(`{"a":1}`)))
	require.NoError(t, repo.Save(ctx, "player-1", "los-hijos-acantilado-v1", []byte(`{"a":2}`)))
	require.NoError(t, repo.Save(ctx, "player-1", "los-hijos-acantilado-v2", []byte(`{}`)))

	blob, err = repo.Load(ctx, "player-1", "los-hijos-acantilado-v1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(blob))

	blob, err = repo.Load(ctx, "player-1", "los-hijos-acantilado-v2")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(blob), "versions are stored apart")

	require.Error(t, repo.Save(ctx, "unknown-player", "k", []byte(`{}`)), "snapshots belong to players")
}

func TestProgressRepository_service(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	require.NoError(t, repositories.NewPlayerRepository(db, logger).Create(ctx, "player-1", "demo", "demo-session"))
	service := progress.NewService(repositories.NewProgressRepository(db, logger), logger, "player-1",
		"los-hijos-acantilado")

	saved := service.Update(ctx, "v1", func(p progress.Progress) progress.Progress {
		return progress.CycleEventStatus(p, "amelia", true)
	})
	loaded := service.Load(ctx, "v1")
	assert.Equal(t, saved, loaded)
	assert.Equal(t, progress.EventReviewed, loaded.ReviewedEvents["amelia"])

	assert.Equal(t, progress.Empty("v2"), service.Load(ctx, "v2"), "a new case version starts from scratch")
}

func TestTheoryReviewRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	require.NoError(t, repositories.NewPlayerRepository(db, logger).Create(ctx, "player-1", "demo", "demo-session"))
	repo := repositories.NewTheoryReviewRepository(db, logger)

	_, err := repo.Get(ctx, "player-1", "t1")
	require.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Save(ctx, "player-1", "t1", "Buena conexión."))
	require.NoError(t, repo.Save(ctx, "player-1", "t1", "Revisa la cronología."))
	require.NoError(t, repo.Save(ctx, "player-1", "t2", "Falta evidencia."))

	review, err := repo.Get(ctx, "player-1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Revisa la cronología.", review)

	all, err := repo.All(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"t1": "Revisa la cronología.", "t2": "Falta evidencia."}, all)
}
