package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/survival"
	"github.com/roach88/lifesim/internal/testutil"
)

// activate makes catalog event id the active event.
func activate(t *testing.T, e *Engine, id string) {
	t.Helper()
	ev, ok := e.catalog.GetByID(id)
	require.True(t, ok, "catalog is missing %s", id)
	e.active = &ev
}

func TestResolveChoice_UnknownChoiceIgnored(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 40})
	activate(t, e, "reunion")

	e.ResolveChoice("nope")

	ev, ok := e.ActiveEvent()
	require.True(t, ok)
	assert.Equal(t, "reunion", ev.ID)
	assert.Zero(t, e.Stats().EventsResolved)
	assert.False(t, e.Seen("reunion"))
}

func TestResolveChoice_NoActiveEventIsNoop(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 40})
	before := *e.Character()

	e.ResolveChoice("go")

	assert.Equal(t, before.Happiness, e.Character().Happiness)
	assert.Zero(t, e.Stats().EventsResolved)
}

func TestResolveChoice_AppliesEffectsAndMarksSeen(t *testing.T) {
	var recs []Record
	e := newLife(t, LifeConfig{Name: "Ada", Age: 40},
		WithTelemetry(TelemetryFunc(func(r Record) { recs = append(recs, r) })))
	activate(t, e, "reunion")

	e.ResolveChoice("go")

	c := e.Character()
	assert.Equal(t, 75, c.Happiness)
	assert.Equal(t, 2, c.Skill(model.SkillSocial))
	assert.True(t, e.Seen("reunion"))
	assert.Equal(t, 1, e.Stats().EventsResolved)
	_, ok := e.ActiveEvent()
	assert.False(t, ok)

	last := recs[len(recs)-1]
	assert.Equal(t, RecordResolved, last.Kind)
	assert.Equal(t, "reunion", last.Detail["event"])
	assert.Equal(t, "go", last.Detail["choice"])
}

func TestResolveChoice_PromotesNextQueued(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 40})
	activate(t, e, "reunion")
	require.True(t, e.enqueue("crisis_stress", ""))

	e.ResolveChoice("skip")

	ev, ok := e.ActiveEvent()
	require.True(t, ok)
	assert.Equal(t, "crisis_stress", ev.ID)
	assert.Empty(t, e.QueuedIDs())
}

func TestResolveChoice_IgnoredAfterLifeEnded(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 40})
	activate(t, e, "reunion")
	e.ended = true

	e.ResolveChoice("go")

	assert.Zero(t, e.Stats().EventsResolved)
}

func TestResolveChoice_Bankruptcy(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 40, Money: -20000})
	c := e.Character()
	c.Business = &model.BusinessRecord{State: model.BusinessGrowth}
	activate(t, e, "crisis_debt")

	e.ResolveChoice("declare")

	assert.Zero(t, c.Money)
	assert.Empty(t, c.Portfolio.Holdings)
	assert.Equal(t, model.BusinessFailed, c.Business.State)
	assert.Equal(t, 70-BankruptcyHappinessLoss, c.Happiness)
	assert.Equal(t, 10+BankruptcyStressIncrease, c.Stress)
	assert.False(t, e.Ended())
}

func TestResolveChoice_HighRiskDeath(t *testing.T) {
	t.Run("fatal draw", func(t *testing.T) {
		e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
		e.rng = testutil.NewScriptedRand(0.0)
		activate(t, e, "extreme_sports")

		e.ResolveChoice("jump")

		assert.True(t, e.Ended())
		assert.Equal(t, survival.CausePoorHealth, e.FailCause())
		assert.Zero(t, e.Character().Health)
	})

	t.Run("survived draw", func(t *testing.T) {
		e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
		e.rng = testutil.NewScriptedRand(0.9)
		activate(t, e, "extreme_sports")

		e.ResolveChoice("jump")

		assert.False(t, e.Ended())
		assert.Equal(t, 100, e.Character().Health)
		assert.Equal(t, 5, e.Character().Skill(model.SkillSports))
	})
}

func TestResolveChoice_IncomeBoost(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	activate(t, e, "career_crossroads")

	e.ResolveChoice("take_it")

	assert.Equal(t, []Boost{{Kind: BoostIncome, Multiplier: IncomeBoostMultiplier, YearsLeft: IncomeBoostYears}}, e.Boosts())
}

func TestResolveChoice_HaveChild(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	c := e.Character()
	c.Relations.Partner = &model.Bond{ID: "p1", Name: "Sam", Role: model.RolePartner, Alive: true, Status: model.StatusActive, Trust: 60}
	activate(t, e, "family_planning")

	e.ResolveChoice("have_child")

	require.Len(t, c.Relations.Children, 1)
	child := c.Relations.Children[0]
	assert.Equal(t, model.RoleChild, child.Role)
	assert.Zero(t, child.Age)
	assert.Contains(t, child.ID, "bond-")
}

func TestResolveChoice_HaveChildWithoutPartnerIsIgnored(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	activate(t, e, "family_planning")

	e.ResolveChoice("have_child")

	assert.Empty(t, e.Character().Relations.Children)
	assert.Equal(t, 1, e.Stats().EventsResolved)
}

func TestResolveChoice_ArcProgress(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})

	steps := []struct{ event, choice string }{
		{"mentor_meeting", "accept"},
		{"mentor_project", "lead"},
		{"mentor_farewell", "thank"},
	}
	for i, s := range steps {
		activate(t, e, s.event)
		e.ResolveChoice(s.choice)
		assert.Equal(t, i+1, e.Arcs()["mentorship"])
	}

	assert.Equal(t, 1, e.Stats().ArcsCompleted)
	assert.Equal(t, 19, e.Character().Skill(model.SkillCareer))
}
