package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lifesim/internal/engine"
)

func TestCreateLife_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	life := Life{
		ID:           "life-1",
		Seed:         1<<63 + 5,
		Name:         "Ada",
		CreatedAtSeq: 1,
		Config:       engine.LifeConfig{Name: "Ada", Age: 18, Money: 500, Seed: 1<<63 + 5, LifeID: "life-1"},
	}

	require.NoError(t, s.CreateLife(ctx, life))

	got, err := s.GetLife(ctx, "life-1")
	require.NoError(t, err)
	assert.Equal(t, life, got)
}

func TestCreateLife_UpsertKeepsIdentity(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLife(ctx, Life{ID: "life-1", Seed: 7, Name: "Ada", CreatedAtSeq: 1}))
	require.NoError(t, s.CreateLife(ctx, Life{ID: "life-1", Seed: 99, Name: "Kim", CreatedAtSeq: 40}))

	got, err := s.GetLife(ctx, "life-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Seed)
	assert.Equal(t, int64(1), got.CreatedAtSeq)
	assert.Equal(t, "Kim", got.Name)

	lives, err := s.ListLives(ctx)
	require.NoError(t, err)
	assert.Len(t, lives, 1)
}

func TestGetLife_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetLife(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSnapshot_RequiresLife(t *testing.T) {
	s := createTestStore(t)
	e := engine.New(engine.WithSeed(1))
	e.StartNewLife(engine.LifeConfig{Name: "Ada", LifeID: "orphan"})

	_, err := s.SaveSnapshot(context.Background(), e.Snapshot())
	assert.Error(t, err)
}

func TestAppendHistory_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateLife(ctx, Life{ID: "life-1", Name: "Ada"}))

	rec := engine.Record{Seq: 3, LifeID: "life-1", Year: 1, Kind: engine.RecordYear, Detail: map[string]any{"age": 1}}
	require.NoError(t, s.AppendHistory(ctx, rec))
	require.NoError(t, s.AppendHistory(ctx, rec))

	recs, err := s.History(ctx, "life-1", "")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
