package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/event"
	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/store"
	"github.com/roach88/lifesim/internal/testutil"
)

// Harness is the scenario execution state.
type Harness struct {
	store    *store.Store
	recorder *store.Recorder
	engine   *engine.Engine
	seed     uint64
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation. Step and
// assertion failures are reported in the Result; the error return is for
// scenarios that cannot be set up at all.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	opts, err := engineOptions(scenario)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	rec := store.NewRecorder(ctx, st)
	opts = append(opts,
		engine.WithSeed(scenario.Seed),
		engine.WithTelemetry(rec),
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator("life")),
	)

	h := &Harness{
		store:    st,
		recorder: rec,
		engine:   engine.New(opts...),
		seed:     scenario.Seed,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.start(scenario)

	result := NewResult()
	for i, step := range scenario.Steps {
		result.Trace = append(result.Trace, h.execute(i, step, result))
	}

	snap := h.engine.Snapshot()
	if result.Digest, err = snap.Digest(); err != nil {
		return nil, fmt.Errorf("digest final snapshot: %w", err)
	}
	if err := rec.Err(); err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	result.History = rec.Written()

	actx := &AssertionContext{Engine: h.engine, Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func engineOptions(s *Scenario) ([]engine.EngineOption, error) {
	var opts []engine.EngineOption
	if s.Catalog != "" {
		src, err := os.ReadFile(s.Catalog)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		cat, err := event.Compile(src, s.Catalog)
		if err != nil {
			return nil, fmt.Errorf("compile catalog: %w", err)
		}
		opts = append(opts, engine.WithCatalog(cat))
	}
	if s.Director == "none" {
		opts = append(opts, engine.WithDirector(nil))
	}
	return opts, nil
}

// start begins the life and applies the character overrides.
func (h *Harness) start(s *Scenario) {
	spec := s.Character
	h.engine.StartNewLife(engine.LifeConfig{
		Name:   spec.Name,
		Age:    spec.Age,
		Money:  spec.Money,
		Seed:   s.Seed,
		LifeID: s.LifeID,
	})

	c := h.engine.Character()
	setStat(&c.Health, spec.Health)
	setStat(&c.Happiness, spec.Happiness)
	setStat(&c.Stress, spec.Stress)
	setStat(&c.Intelligence, spec.Intelligence)
	for name, v := range spec.Skills {
		c.AddSkill(model.Skill(name), v-c.Skill(model.Skill(name)))
	}
	h.logger.Info("scenario started", "scenario", s.Name, "life", h.engine.LifeID(), "seed", s.Seed)
}

func setStat(dst *int, v *int) {
	if v != nil {
		*dst = model.ClampStat(*v)
	}
}

// execute runs one step and returns its trace entry. Failed preconditions
// are added to result as errors.
func (h *Harness) execute(i int, step Step, result *Result) TraceEvent {
	e := h.engine
	op := step.Op()
	ev := TraceEvent{Step: i, Op: op}

	switch op {
	case OpAdvance:
		ev.Arg = fmt.Sprint(step.Advance)
		for range step.Advance {
			e.AdvanceYear()
		}
		for _, err := range e.StepErrors() {
			ev.Errors = append(ev.Errors, err.Error())
		}
	case OpActions:
		ev.Arg = fmt.Sprint(step.Actions)
		if e.Ended() {
			result.AddError(fmt.Sprintf("step %d: actions on an ended life", i))
			break
		}
		e.BeginActionPhase()
		e.SetChosenActions(step.Actions)
		e.CommitActionsAndAdvance()
		for _, err := range e.StepErrors() {
			ev.Errors = append(ev.Errors, err.Error())
		}
	case OpResolve:
		ev.Arg = step.Resolve
		h.resolve(i, step.Resolve, result)
	case OpRevive:
		if !e.Revive() {
			result.AddError(fmt.Sprintf("step %d: revive unavailable", i))
		}
	case OpLegacy:
		if !e.Legacy() {
			result.AddError(fmt.Sprintf("step %d: legacy unavailable", i))
		}
	case OpAutoplay:
		ev.Arg = fmt.Sprint(step.Autoplay)
		engine.NewAutopilot(engine.PolicyFirst, h.seed).Run(e, step.Autoplay)
	}

	c := e.Character()
	ev.Year = e.Year()
	ev.Age = c.Age
	ev.Money = c.Money
	ev.Health = c.Health
	if active, ok := e.ActiveEvent(); ok {
		ev.Active = active.ID
	}
	ev.Queue = e.QueuedIDs()
	ev.Ended = e.Ended()
	ev.Cause = string(e.FailCause())

	h.logger.Info("step completed", "step", i, "op", op, "year", ev.Year, "age", ev.Age)
	return ev
}

func (h *Harness) resolve(i int, choice string, result *Result) {
	e := h.engine
	active, ok := e.ActiveEvent()
	if !ok {
		result.AddError(fmt.Sprintf("step %d: no active event to resolve", i))
		return
	}
	if choice == "first" {
		choices := e.AvailableChoices()
		if len(choices) == 0 {
			result.AddError(fmt.Sprintf("step %d: %s has no available choice", i, active.ID))
			return
		}
		choice = choices[0].ID
	}
	before := e.Stats().EventsResolved
	e.ResolveChoice(choice)
	if e.Stats().EventsResolved == before {
		result.AddError(fmt.Sprintf("step %d: choice %q not available on %s", i, choice, active.ID))
	}
}
