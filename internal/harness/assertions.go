package harness

import (
	"context"
	"fmt"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/store"
)

// AssertionContext is what assertions inspect.
type AssertionContext struct {
	Engine *engine.Engine
	Store  *store.Store
	Ctx    context.Context
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(a Assertion, actx *AssertionContext) error {
	e := actx.Engine
	c := e.Character()

	switch a.Type {
	case AssertAlive:
		want := a.Value.(bool)
		return expectEqual(a.Type, want, !e.Ended())
	case AssertFailCause:
		return expectEqual(a.Type, stringValue(a.Value), string(e.FailCause()))
	case AssertAge:
		return expectEqual(a.Type, a.Value.(int), c.Age)
	case AssertSeenContains:
		id := a.Value.(string)
		if !e.Seen(id) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s in seen", id), Actual: fmt.Sprint(e.SeenIDs())}
		}
	case AssertActiveEvent:
		active := ""
		if ev, ok := e.ActiveEvent(); ok {
			active = ev.ID
		}
		return expectEqual(a.Type, stringValue(a.Value), active)
	case AssertBusinessState:
		state := ""
		if c.Business != nil {
			state = string(c.Business.State)
		}
		return expectEqual(a.Type, stringValue(a.Value), state)
	case AssertMinMoney:
		if want := int64(a.Value.(int)); c.Money < want {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf(">= %d", want), Actual: fmt.Sprint(c.Money)}
		}
	case AssertMaxQueue:
		if want, n := a.Value.(int), len(e.QueuedIDs()); n > want {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("<= %d", want), Actual: fmt.Sprint(n)}
		}
	case AssertHistoryContains:
		kind := engine.RecordKind(a.Value.(string))
		recs, err := actx.Store.History(actx.Ctx, e.LifeID(), kind)
		if err != nil {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("a %s record", kind), Actual: err.Error()}
		}
		if len(recs) == 0 {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("a %s record", kind), Actual: "none"}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func expectEqual[T comparable](typ string, want, got T) error {
	if want != got {
		return &AssertionError{Type: typ, Expected: fmt.Sprintf("%v", want), Actual: fmt.Sprintf("%v", got)}
	}
	return nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
