// Package harness runs whole-life conformance scenarios against the engine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: bankrupt_at_forty
//	description: "Debt past the bankruptcy line ends the life"
//	seed: 42
//	character:
//	  name: Ada
//	  age: 40
//	  money: -100000
//	steps:
//	  - advance: 1
//	  - resolve: first
//	  - revive: true
//	assertions:
//	  - type: alive
//	    value: true
//	  - type: min_money
//	    value: 0
//
// Step kinds (exactly one per step):
//
//   - advance: N       run N ticks
//   - actions: [...]   open the action phase, choose, and commit
//   - resolve: id      answer the active event; "first" takes the first available choice
//   - revive: true     use the one-time revive
//   - legacy: true     continue as the eldest living child
//   - autoplay: N      hand N turns to the autopilot (first-choice policy)
//
// # Assertion Types
//
//   - alive, fail_cause, age, seen_contains, active_event, business_state,
//     min_money, max_queue, history_contains
//
// # Deterministic Testing
//
// Every run uses the scenario seed, sequential life ids, and a fresh
// in-memory SQLite store that records telemetry. The per-step trace is
// identical across runs, which makes it suitable for golden comparison.
package harness
