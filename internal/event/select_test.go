package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/testutil"
)

const arcCatalog = `
event: {
	saga_1: {title: "Saga I", description: "", category: "c", source: "arc", arc: "saga", arc_step: 1,
		choices: [{id: "go", label: "Go"}]}
	saga_2: {title: "Saga II", description: "", category: "c", source: "arc", arc: "saga", arc_step: 2,
		choices: [{id: "go", label: "Go"}]}
	picnic: {title: "Picnic", description: "", category: "c", source: "pool",
		choices: [{id: "go", label: "Go"}]}
	gala: {title: "Gala", description: "", category: "c", source: "controlled", one_time: true,
		choices: [{id: "go", label: "Go"}]}
}
`

type fixedStrategy struct {
	calls int
	c     Candidate
	ok    bool
}

func (f *fixedStrategy) strategy() Strategy {
	return func(Input) (Candidate, bool) {
		f.calls++
		return f.c, f.ok
	}
}

func TestSelect_ShortCircuits(t *testing.T) {
	first := &fixedStrategy{}
	second := &fixedStrategy{c: Candidate{Source: SourcePool, Event: Event{ID: "b"}}, ok: true}
	third := &fixedStrategy{c: Candidate{Source: SourcePool, Event: Event{ID: "c"}}, ok: true}

	got, ok := Select(Input{}, first.strategy(), second.strategy(), third.strategy())
	require.True(t, ok)
	assert.Equal(t, "b", got.Event.ID)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)

	_, ok = Select(Input{}, first.strategy())
	assert.False(t, ok)
}

type stubDirector struct{ out []Candidate }

func (s stubDirector) EvaluateYear(*model.Character, LifeView) []Candidate { return s.out }

func TestDirectorStrategy_TakesFirst(t *testing.T) {
	d := stubDirector{out: []Candidate{
		{Source: SourceArc, Event: Event{ID: "one"}},
		{Source: SourcePool, Event: Event{ID: "two"}},
	}}
	got, ok := DirectorStrategy(d)(Input{Character: model.NewCharacter("Ada", 30)})
	require.True(t, ok)
	assert.Equal(t, "one", got.Event.ID)

	_, ok = DirectorStrategy(stubDirector{})(Input{})
	assert.False(t, ok)
}

func TestDefaultStrategies_WithoutDirector(t *testing.T) {
	c, err := Compile([]byte(arcCatalog), "arc.cue")
	require.NoError(t, err)
	ch := model.NewCharacter("Ada", 30)

	// controlled roll succeeds
	in := Input{Character: ch, Life: LifeView{Rand: testutil.NewScriptedRand(0.1)}}
	got, ok := Select(in, DefaultStrategies(c, nil)...)
	require.True(t, ok)
	assert.Equal(t, "gala", got.Event.ID)
	assert.Equal(t, SourceControlled, got.Source)

	// gala seen: controlled yields nothing, pool roll succeeds
	in.Life = LifeView{Rand: testutil.NewScriptedRand(0.1), Seen: map[string]bool{"gala": true}}
	got, ok = Select(in, DefaultStrategies(c, nil)...)
	require.True(t, ok)
	assert.Equal(t, "picnic", got.Event.ID)

	// both rolls fail
	in.Life = LifeView{Rand: testutil.NewScriptedRand(0.9, 0.9)}
	_, ok = Select(in, DefaultStrategies(c, nil)...)
	assert.False(t, ok)
}

func TestTensionDirector_QuietYear(t *testing.T) {
	c, err := Compile([]byte(arcCatalog), "arc.cue")
	require.NoError(t, err)
	d := NewTensionDirector(c)

	out := d.EvaluateYear(model.NewCharacter("Ada", 30), LifeView{Rand: testutil.NewScriptedRand(0.99)})
	assert.Empty(t, out)
}

func TestTensionDirector_RanksAndContinuesArcs(t *testing.T) {
	c, err := Compile([]byte(arcCatalog), "arc.cue")
	require.NoError(t, err)
	d := NewTensionDirector(c)
	ch := model.NewCharacter("Ada", 30)

	// pace roll passes; first rank draw 0.0 takes the first candidate by id
	out := d.EvaluateYear(ch, LifeView{Rand: testutil.NewScriptedRand(0.0, 0.0, 0.0, 0.0)})
	require.Len(t, out, 3)
	assert.Equal(t, "gala", out[0].Event.ID)

	// with saga step 1 done, saga_2 is offered and saga_1 is not
	out = d.EvaluateYear(ch, LifeView{
		Rand: testutil.NewScriptedRand(0.0, 0.0, 0.0, 0.0),
		Arcs: map[string]int{"saga": 1},
	})
	var ids []string
	for _, cand := range out {
		ids = append(ids, cand.Event.ID)
	}
	assert.Contains(t, ids, "saga_2")
	assert.NotContains(t, ids, "saga_1")

	// finished arcs offer nothing
	out = d.EvaluateYear(ch, LifeView{
		Rand: testutil.NewScriptedRand(0.0, 0.0, 0.0, 0.0),
		Arcs: map[string]int{"saga": 2},
	})
	for _, cand := range out {
		assert.NotEqual(t, SourceArc, cand.Source)
	}
}

func TestPhaseAndTension(t *testing.T) {
	assert.Equal(t, PhaseChildhood, PhaseOf(5))
	assert.Equal(t, PhaseAdolescent, PhaseOf(15))
	assert.Equal(t, PhaseYoungAdult, PhaseOf(25))
	assert.Equal(t, PhaseAdult, PhaseOf(45))
	assert.Equal(t, PhaseMidlife, PhaseOf(60))
	assert.Equal(t, PhaseElder, PhaseOf(80))

	calm := model.NewCharacter("Ada", 30)
	calm.Stress = 0
	calm.Happiness = 100
	assert.Equal(t, 0.0, Tension(calm))

	wrecked := model.NewCharacter("Ada", 30)
	wrecked.Stress = 100
	wrecked.Health = 0
	wrecked.Happiness = 0
	wrecked.Money = -1
	assert.InDelta(t, 1.0, Tension(wrecked), 1e-9)
}
