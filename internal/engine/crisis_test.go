package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/testutil"
)

func TestCrisisProbability(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{-1, 0},
		{0, 0},
		{1, 0.5},
		{2, 0.7},
		{3, 0.9},
		{5, 0.9},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, CrisisProbability(tt.n), 1e-9, "n=%d", tt.n)
	}
}

func TestQueueCrisis_MostSevereFirst(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	e.rng = testutil.NewScriptedRand(0.0, 0.0)

	e.queueCrisis([]Signal{SignalStress, SignalHealth, SignalStress})
	assert.Equal(t, []string{"crisis_health"}, e.QueuedIDs())

	// Health is already queued, so the next most severe goes in front of it.
	e.queueCrisis([]Signal{SignalHealth, SignalDebt})
	assert.Equal(t, []string{"crisis_debt", "crisis_health"}, e.QueuedIDs())
}

func TestQueueCrisis_FailedRoll(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	e.rng = testutil.NewScriptedRand(0.5)

	e.queueCrisis([]Signal{SignalLoneliness})

	assert.Empty(t, e.QueuedIDs())
}

func TestQueueCrisis_NoSignalsNeverDraws(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	e.rng = testutil.PanicRand{}

	assert.NotPanics(t, func() { e.queueCrisis(nil) })
	assert.Empty(t, e.QueuedIDs())
}

func TestQueueCrisis_SkipsActive(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	e.rng = testutil.NewScriptedRand(0.0)
	activate(t, e, "crisis_stress")

	e.queueCrisis([]Signal{SignalStress})

	assert.Empty(t, e.QueuedIDs())
}

func TestQueueScripted_OncePerLife(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})

	e.queueScripted()
	e.queueScripted()
	assert.Equal(t, []string{"turning_thirty"}, e.QueuedIDs())

	e.queue.Clear()
	e.seen["turning_thirty"] = true
	e.queueScripted()
	assert.Empty(t, e.QueuedIDs())

	e.character.Age = 31
	e.queueScripted()
	assert.Empty(t, e.QueuedIDs())
}

func TestScriptedEventsInCatalog(t *testing.T) {
	c := New().Catalog()
	for age, id := range ScriptedEvents {
		ev, ok := c.GetByID(id)
		if assert.True(t, ok, "age %d: %s", age, id) {
			assert.True(t, ev.OneTime, id)
		}
	}
}

func TestNeedsDecay(t *testing.T) {
	c := model.NewCharacter("Ada", 30)
	c.Stress = 80

	signals := NeedsDecay{}.ProcessYear(c)

	assert.Equal(t, 75, c.Stress)
	assert.Equal(t, 65, c.Happiness, "drift to 68 then loneliness")
	assert.Equal(t, []Signal{SignalLoneliness}, signals)
}

func TestNeedsDecay_Signals(t *testing.T) {
	c := model.NewCharacter("Ada", 30)
	c.Relations.Partner = &model.Bond{Alive: true, Status: model.StatusActive}
	c.Stress = 100
	c.Happiness = 0

	signals := NeedsDecay{}.ProcessYear(c)

	assert.Equal(t, 95, c.Stress)
	assert.Equal(t, 2, c.Happiness)
	assert.Equal(t, []Signal{SignalStress, SignalDepression}, signals)
}

func TestNeedsDecay_ChildrenAreNotLonely(t *testing.T) {
	c := model.NewCharacter("Kid", 10)
	assert.Empty(t, NeedsDecay{}.ProcessYear(c))
}

func TestStatDecay(t *testing.T) {
	t.Run("young and calm recovers", func(t *testing.T) {
		c := model.NewCharacter("Ada", 30)
		c.Health = 50
		assert.Empty(t, StatDecay{}.ProcessYear(c))
		assert.Equal(t, 51, c.Health)
	})

	t.Run("age decline", func(t *testing.T) {
		c := model.NewCharacter("Ada", 75)
		StatDecay{}.ProcessYear(c)
		assert.Equal(t, 97, c.Health)
		assert.Equal(t, 49, c.Intelligence)
	})

	t.Run("stress hurts", func(t *testing.T) {
		c := model.NewCharacter("Ada", 30)
		c.Health = 50
		c.Stress = 80
		StatDecay{}.ProcessYear(c)
		assert.Equal(t, 48, c.Health)
	})

	t.Run("signals", func(t *testing.T) {
		c := model.NewCharacter("Ada", 30)
		c.Health = 10
		c.Money = DebtWarning - 1
		c.Stress = 80
		assert.Equal(t, []Signal{SignalHealth, SignalDebt}, StatDecay{}.ProcessYear(c))
	})
}
