// Package model provides the shared data model for the life simulation.
//
// This package contains the state types every engine mutates: the Character,
// its education/career/business/investment records, the relationship ledger,
// and the closed Effects union used by event choices. All other internal
// packages import model; model imports nothing internal.
//
// Key design constraints:
//   - Vital stats and skills are always clamped to [0,100]
//   - Money is a signed int64 and may go negative
//   - Trust is mutated incrementally (append-and-clamp), never recomputed
//   - All JSON tags use snake_case so snapshots round-trip losslessly
package model
