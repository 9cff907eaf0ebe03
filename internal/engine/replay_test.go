package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lifesim/internal/model"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirst, p)

	p, err = ParsePolicy("random")
	require.NoError(t, err)
	assert.Equal(t, PolicyRandom, p)

	_, err = ParsePolicy("greedy")
	assert.Error(t, err)
}

func TestAutopilot_LifeInvariants(t *testing.T) {
	resolved := make(map[string]int)
	tel := TelemetryFunc(func(r Record) {
		if r.Kind == RecordResolved {
			resolved[r.Detail["event"].(string)]++
		}
	})
	e := newLife(t, LifeConfig{Name: "Ada"}, WithTelemetry(tel))

	played := NewAutopilot(PolicyRandom, 3).Run(e, 80)

	c := e.Character()
	assert.LessOrEqual(t, e.Year(), played)
	assert.Equal(t, e.Year(), c.Age)
	for _, v := range []int{c.Health, c.Happiness, c.Stress, c.Intelligence} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
	for id, n := range resolved {
		ev, ok := e.Catalog().GetByID(id)
		require.True(t, ok, id)
		if ev.OneTime {
			assert.Equal(t, 1, n, "one-time event %s resolved %d times", id, n)
		}
	}
	assert.Equal(t, len(resolved) > 0, e.Stats().EventsResolved > 0)
	if !e.Ended() {
		assert.Equal(t, 80, played)
	}
}

func TestAutopilot_ResolveAllStopsWhenIdle(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 40})
	assert.Zero(t, NewAutopilot(PolicyFirst, 1).ResolveAll(e))

	activate(t, e, "reunion")
	require.True(t, e.enqueue("crisis_stress", ""))
	assert.Equal(t, 2, NewAutopilot(PolicyFirst, 1).ResolveAll(e))
	_, ok := e.ActiveEvent()
	assert.False(t, ok)
}

func TestDefaultActions(t *testing.T) {
	kid := model.NewCharacter("Kid", 12)
	assert.Equal(t, []string{ActionStudy, ActionExercise, ActionSocialize}, DefaultActions(kid))

	stressed := model.NewCharacter("Ada", 30)
	stressed.Stress = 80
	stressed.Money = 50000
	assert.Equal(t, []string{ActionExercise, ActionMeditate, ActionInvestIndex}, DefaultActions(stressed))

	single := model.NewCharacter("Ada", 30)
	assert.Equal(t, []string{ActionExercise, ActionDate, ActionSocialize}, DefaultActions(single))

	for _, id := range DefaultActions(single) {
		_, ok := LookupAction(id)
		assert.True(t, ok, id)
	}
}
