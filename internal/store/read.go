package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lifesim/internal/engine"
)

// SnapshotInfo describes a stored snapshot without decoding it.
type SnapshotInfo struct {
	LifeID string
	Seq    int64
	Year   int
	Digest string
}

// GetLife returns the life with id, or ErrNotFound.
func (s *Store) GetLife(ctx context.Context, id string) (Life, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, name, created_at_seq, config
		FROM lives
		WHERE id = ?
	`, id)
	life, err := scanLife(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Life{}, fmt.Errorf("life %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Life{}, fmt.Errorf("get life: %w", err)
	}
	return life, nil
}

// ListLives returns every stored life ordered by id.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListLives(ctx context.Context) ([]Life, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, name, created_at_seq, config
		FROM lives
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query lives: %w", err)
	}
	defer rows.Close()

	lives := []Life{}
	for rows.Next() {
		life, err := scanLife(rows)
		if err != nil {
			return nil, err
		}
		lives = append(lives, life)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lives: %w", err)
	}
	return lives, nil
}

// ListSnapshots returns the snapshots of a life ordered by seq.
func (s *Store) ListSnapshots(ctx context.Context, lifeID string) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT life_id, seq, year, digest
		FROM snapshots
		WHERE life_id = ?
		ORDER BY seq ASC
	`, lifeID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	out := []SnapshotInfo{}
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.LifeID, &info.Seq, &info.Year, &info.Digest); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// LatestSnapshot returns the most recent snapshot of a life and its digest.
// Returns ErrNotFound when the life has none and ErrDigestMismatch when the
// stored data no longer matches its digest.
func (s *Store) LatestSnapshot(ctx context.Context, lifeID string) (engine.Snapshot, string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT digest, data
		FROM snapshots
		WHERE life_id = ?
		ORDER BY seq DESC
		LIMIT 1
	`, lifeID)
	return readSnapshot(row, lifeID)
}

// SnapshotAt returns the snapshot of a life taken at seq.
func (s *Store) SnapshotAt(ctx context.Context, lifeID string, seq int64) (engine.Snapshot, string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT digest, data
		FROM snapshots
		WHERE life_id = ? AND seq = ?
	`, lifeID, seq)
	return readSnapshot(row, lifeID)
}

func readSnapshot(row *sql.Row, lifeID string) (engine.Snapshot, string, error) {
	var digest, data string
	err := row.Scan(&digest, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Snapshot{}, "", fmt.Errorf("snapshot of %s: %w", lifeID, ErrNotFound)
	}
	if err != nil {
		return engine.Snapshot{}, "", fmt.Errorf("read snapshot: %w", err)
	}

	snap, err := engine.UnmarshalSnapshot([]byte(data))
	if err != nil {
		return engine.Snapshot{}, "", fmt.Errorf("read snapshot: %w", err)
	}
	got, err := snap.Digest()
	if err != nil {
		return engine.Snapshot{}, "", fmt.Errorf("read snapshot: %w", err)
	}
	if got != digest {
		return engine.Snapshot{}, "", fmt.Errorf("snapshot of %s: %w (stored %s, computed %s)", lifeID, ErrDigestMismatch, digest, got)
	}
	return snap, digest, nil
}

// History returns the telemetry records of a life ordered by seq.
// A non-empty kind filters by record kind.
func (s *Store) History(ctx context.Context, lifeID string, kind engine.RecordKind) ([]engine.Record, error) {
	query := `
		SELECT life_id, seq, year, kind, detail
		FROM history
		WHERE life_id = ?
		ORDER BY seq ASC
	`
	args := []any{lifeID}
	if kind != "" {
		query = `
		SELECT life_id, seq, year, kind, detail
		FROM history
		WHERE life_id = ? AND kind = ?
		ORDER BY seq ASC
	`
		args = append(args, string(kind))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	recs := []engine.Record{}
	for rows.Next() {
		var rec engine.Record
		var k, detail string
		if err := rows.Scan(&rec.LifeID, &rec.Seq, &rec.Year, &k, &detail); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Kind = engine.RecordKind(k)
		if rec.Detail, err = unmarshalDetail(detail); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return recs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLife(sc scanner) (Life, error) {
	var life Life
	var seed int64
	var cfg string
	if err := sc.Scan(&life.ID, &seed, &life.Name, &life.CreatedAtSeq, &cfg); err != nil {
		return Life{}, err
	}
	life.Seed = uint64(seed)
	c, err := unmarshalConfig(cfg)
	if err != nil {
		return Life{}, err
	}
	life.Config = c
	return life, nil
}
