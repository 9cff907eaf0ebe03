package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/testutil"
)

// recordedLife starts a life whose telemetry goes to s.
func recordedLife(t *testing.T, s *Store) (*engine.Engine, *Recorder) {
	t.Helper()
	rec := NewRecorder(context.Background(), s)
	e := engine.New(
		engine.WithSeed(11),
		engine.WithTelemetry(rec),
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator("life")),
	)
	e.StartNewLife(engine.LifeConfig{Name: "Ada", Age: 20})
	require.NoError(t, rec.Err())
	return e, rec
}

func TestSnapshot_SaveAndLoadLatest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	e, _ := recordedLife(t, s)

	first, err := s.SaveSnapshot(ctx, e.Snapshot())
	require.NoError(t, err)

	e.AdvanceYear()
	snap := e.Snapshot()
	digest, err := s.SaveSnapshot(ctx, snap)
	require.NoError(t, err)
	assert.NotEqual(t, first, digest)

	got, gotDigest, err := s.LatestSnapshot(ctx, "life-1")
	require.NoError(t, err)
	assert.Equal(t, digest, gotDigest)
	assert.Equal(t, snap, got)

	infos, err := s.ListSnapshots(ctx, "life-1")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, first, infos[0].Digest)
	assert.Equal(t, 1, infos[1].Year)

	old, _, err := s.SnapshotAt(ctx, "life-1", infos[0].Seq)
	require.NoError(t, err)
	assert.Equal(t, 0, old.Year)
}

func TestSnapshot_LoadedLifeResumes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	e, _ := recordedLife(t, s)
	e.AdvanceYear()
	_, err := s.SaveSnapshot(ctx, e.Snapshot())
	require.NoError(t, err)

	snap, _, err := s.LatestSnapshot(ctx, "life-1")
	require.NoError(t, err)
	e2 := engine.New()
	require.NoError(t, e2.Load(snap))

	e.AdvanceYear()
	e2.AdvanceYear()
	assert.Equal(t, e.Character(), e2.Character())
}

func TestSnapshot_DigestMismatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	e, _ := recordedLife(t, s)
	_, err := s.SaveSnapshot(ctx, e.Snapshot())
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE snapshots SET data = replace(data, '"name":"Ada"', '"name":"Eve"')`)
	require.NoError(t, err)

	_, _, err = s.LatestSnapshot(ctx, "life-1")
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestSnapshot_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, _, err := s.LatestSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistory_OrderedAndFiltered(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	e, rec := recordedLife(t, s)
	e.AdvanceYear()
	e.AdvanceYear()
	require.NoError(t, rec.Err())

	recs, err := s.History(ctx, "life-1", "")
	require.NoError(t, err)
	require.Len(t, recs, rec.Written())
	assert.Equal(t, engine.RecordLifeStarted, recs[0].Kind)
	for i := 1; i < len(recs); i++ {
		assert.Greater(t, recs[i].Seq, recs[i-1].Seq)
	}

	years, err := s.History(ctx, "life-1", engine.RecordYear)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2, years[1].Year)
	assert.Equal(t, json.Number("22"), years[1].Detail["age"])

	life, err := s.GetLife(ctx, "life-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", life.Name)
	assert.Equal(t, uint64(11), life.Seed)
	assert.Equal(t, 20, life.Config.Age)
}
