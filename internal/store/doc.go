// Package store provides SQLite-backed durable storage for simulated lives.
//
// Three tables:
//   - lives: one row per life id with its seed and starting configuration
//   - snapshots: full engine snapshots keyed by (life_id, seq) with a content digest
//   - history: the telemetry stream, one row per record
//
// # Logical Time
//
// All ordering uses the engine's seq counter, never wall-clock timestamps.
// Queries are ORDER BY seq so results are identical across replays.
//
// # Integrity
//
// SaveSnapshot stores the digest alongside the data without checking it.
// LatestSnapshot and SnapshotAt recompute the digest on read and return
// ErrDigestMismatch when the stored data has been altered.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
