// Package event defines narrative events and choices, the CUE-authored event
// catalog, the pending-event queue, and the selection strategies that decide
// which event surfaces in a year.
//
// The catalog is written in CUE (schema.cue + catalog.cue, both embedded) and
// compiled once into an immutable Catalog. External catalogs are unified with
// the same schema, so unknown fields, unknown effect keys and unknown special
// effects are rejected at compile time.
//
// Selection is an ordered list of Strategy values folded left to right; the
// first strategy that yields a candidate wins.
package event
