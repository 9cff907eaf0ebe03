// Package engine implements the year-cycle orchestrator.
//
// The orchestrator owns one simulated life and advances it one year per tick.
//
// ARCHITECTURE:
//
// Single Writer:
// Exactly one logical writer mutates the character and life state. The
// reentrancy guard (an atomic "tick in progress" flag) is the only
// synchronization primitive; a call that arrives while a tick is running,
// including one issued by a collaborator from inside the tick, is dropped as a
// no-op. Callers that need concurrency (the WebSocket server) funnel commands
// into one goroutine.
//
// Tick Order:
// AdvanceYear runs a fixed sequence of steps: year and age, market, economy,
// statistics, boosts, career risk, passive bonuses, education, career,
// business, investments, relationships, needs and stat decay, crisis gating,
// scripted ages, goals, event selection, survival, promotion of the next
// queued event, telemetry. Each step runs in isolation; a step that fails or
// panics is logged and skipped and the tick continues.
//
// Turn Structure:
// A turn has two phases. In PhaseSelectingActions the caller picks up to
// MaxActions free actions and commits them; the commit applies them and
// advances the year. In PhaseResolvingEvent the caller answers the active
// event with ResolveChoice.
//
// Determinism:
// Every random draw comes from one seeded PCG source whose state is part of
// the snapshot. A loaded snapshot continues exactly as the original would
// have. Telemetry records carry sequence numbers from a logical clock, never
// wall-clock time.
package engine
