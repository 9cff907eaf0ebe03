package store

import (
	"context"
	"fmt"

	"github.com/roach88/lifesim/internal/engine"
)

// Life is the stored identity of one simulated life.
type Life struct {
	ID           string
	Seed         uint64
	Name         string
	CreatedAtSeq int64
	Config       engine.LifeConfig
}

// CreateLife inserts a life. An existing id keeps its seed and creation seq;
// the name and config are updated so a legacy heir shows under the same id.
func (s *Store) CreateLife(ctx context.Context, life Life) error {
	cfgJSON, err := marshalConfig(life.Config)
	if err != nil {
		return fmt.Errorf("create life: %w", err)
	}

	// SQLite integers are signed; the seed is stored by bit pattern.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lives (id, seed, name, created_at_seq, config)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, config = excluded.config
	`,
		life.ID,
		int64(life.Seed),
		life.Name,
		life.CreatedAtSeq,
		cfgJSON,
	)
	if err != nil {
		return fmt.Errorf("create life: %w", err)
	}
	return nil
}

// SaveSnapshot stores snap under its life id and clock seq, replacing any
// snapshot taken at the same seq. Returns the snapshot digest.
//
// The life must already exist (foreign key constraint).
func (s *Store) SaveSnapshot(ctx context.Context, snap engine.Snapshot) (string, error) {
	digest, err := snap.Digest()
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	data, err := engine.MarshalSnapshot(snap)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (life_id, seq, year, digest, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(life_id, seq) DO UPDATE SET year = excluded.year, digest = excluded.digest, data = excluded.data
	`,
		snap.LifeID,
		snap.Seq,
		snap.Year,
		digest,
		string(data),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return digest, nil
}

// AppendHistory inserts one telemetry record.
// Uses ON CONFLICT DO NOTHING for idempotency - a record written twice is
// silently ignored.
func (s *Store) AppendHistory(ctx context.Context, rec engine.Record) error {
	detail, err := marshalDetail(rec.Detail)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history (life_id, seq, year, kind, detail)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(life_id, seq) DO NOTHING
	`,
		rec.LifeID,
		rec.Seq,
		rec.Year,
		string(rec.Kind),
		detail,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
