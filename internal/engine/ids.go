package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator generates life identifiers.
// Implemented by UUIDv7Generator (production) and testutil.SequentialIDGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 life identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, so lives listed
// by id come out in creation order.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// bondIDs names new relationship bonds from a counter carried in the
// snapshot, so bond ids are reproducible under replay.
type bondIDs struct {
	e *Engine
}

func (b bondIDs) Generate() string {
	b.e.bondSeq++
	return fmt.Sprintf("bond-%d", b.e.bondSeq)
}
