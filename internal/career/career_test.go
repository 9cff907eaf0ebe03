package career

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/testutil"
)

func employed(age int) *model.Character {
	c := model.NewCharacter("Ada", age)
	c.Career = model.CareerRecord{Employed: true, Performance: 50}
	return c
}

func TestStart(t *testing.T) {
	e := New()

	c := model.NewCharacter("Kid", 15)
	require.ErrorIs(t, e.Start(c), ErrTooYoung)

	c.Age = 22
	c.Education.HighestLevel = 5
	require.NoError(t, e.Start(c))
	assert.True(t, c.Career.Employed)
	assert.Equal(t, 50, c.Career.Performance)
	assert.Equal(t, int64(15000), c.Career.Salary) // 30000 * 0.4 * 1.25

	require.ErrorIs(t, e.Start(c), ErrAlreadyEmployed)
}

func TestSalary_LevelsIncrease(t *testing.T) {
	for i := 1; i <= TopLevel; i++ {
		assert.Greater(t, Salary(i, 0), Salary(i-1, 0))
	}
	assert.Equal(t, int64(0), Salary(-1, 0))
	assert.Equal(t, int64(0), Salary(9, 0))
}

func TestPromotionChance_Clamped(t *testing.T) {
	c := employed(30)
	c.Career.Performance = 0
	c.Intelligence = 0
	assert.Equal(t, MinPromotion, PromotionChance(c))

	c.Career.Performance = 100
	c.Intelligence = 100
	c.Skills[model.SkillCareer] = 100
	assert.Equal(t, MaxPromotion, PromotionChance(c))
}

func TestProgress_PromotesBySingleStep(t *testing.T) {
	e := New()
	c := employed(25)

	// IntN -> 5 (noise 0); promotion roll 0.0 succeeds
	r := testutil.NewScriptedRand(0.0).WithInts(5)
	res := e.Progress(c, r)

	assert.True(t, res.Promoted)
	assert.Equal(t, 1, c.Career.LevelIndex)
	assert.Equal(t, 0, c.Career.YearsAtLevel)
	assert.Equal(t, []string{EventPromotion}, res.Events)
	assert.Equal(t, Salary(1, 0), c.Career.Salary)
}

func TestProgress_WaitsForYearsAtLevel(t *testing.T) {
	e := New()
	c := employed(25)
	c.Career.LevelIndex = 2 // next level needs 2 years

	res := e.Progress(c, testutil.NewScriptedRand(0.0).WithInts(5))
	assert.False(t, res.Promoted)
	assert.Equal(t, 2, c.Career.LevelIndex)
	assert.Equal(t, 1, c.Career.YearsAtLevel)
}

func TestProgress_TopLevelNeverPromotes(t *testing.T) {
	e := New()
	c := employed(60)
	c.Career.LevelIndex = TopLevel
	c.Career.YearsAtLevel = 20

	res := e.Progress(c, testutil.NewScriptedRand(0.0).WithInts(5))
	assert.False(t, res.Promoted)
	assert.Equal(t, TopLevel, c.Career.LevelIndex)
}

func TestProgress_UnemployedIsNoop(t *testing.T) {
	e := New()
	c := model.NewCharacter("Ada", 30)
	res := e.Progress(c, testutil.PanicRand{})
	assert.False(t, res.Promoted)
	assert.Equal(t, 0, c.Career.TotalYears)
}

// Level changes by exactly +1 and never decreases, for many seeds.
func TestProgress_LevelMonotonicSingleStep(t *testing.T) {
	e := New()
	for seed := uint64(1); seed <= 50; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*7))
		c := employed(20)
		c.Stress = int(seed % 100)
		for year := 0; year < 45; year++ {
			before := c.Career.LevelIndex
			e.Progress(c, r)
			e.CheckRisk(c, r)
			if !c.Career.Employed {
				require.NoError(t, e.Start(c))
			}
			diff := c.Career.LevelIndex - before
			require.True(t, diff == 0 || diff == 1, "seed %d year %d: level jumped %d", seed, year, diff)
			require.GreaterOrEqual(t, c.Career.Performance, 0)
			require.LessOrEqual(t, c.Career.Performance, 100)
		}
	}
}

func TestCheckRisk_Burnout(t *testing.T) {
	e := New()
	c := model.NewCharacter("Ada", 30)
	c.Stress = 90

	e.CheckRisk(c, testutil.PanicRand{})
	res := e.CheckRisk(c, testutil.PanicRand{})
	assert.Equal(t, 2, res.BurnoutYears)
	assert.Equal(t, 2, c.BurnoutYears)

	c.Stress = 40
	e.CheckRisk(c, testutil.PanicRand{})
	assert.Equal(t, 0, c.BurnoutYears)
}

func TestCheckRisk_Layoff(t *testing.T) {
	e := New()
	c := employed(30)
	c.Career.LevelIndex = 3
	c.Career.Performance = 10

	res := e.CheckRisk(c, testutil.NewScriptedRand(0.1))
	assert.True(t, res.LaidOff)
	assert.Contains(t, res.Events, EventLayoff)
	assert.False(t, c.Career.Employed)
	assert.Equal(t, 3, c.Career.LevelIndex, "layoff keeps the level")
	assert.Equal(t, 1, c.Career.Layoffs)

	c2 := employed(30)
	c2.Career.Performance = 10
	res = e.CheckRisk(c2, testutil.NewScriptedRand(0.5))
	assert.False(t, res.LaidOff)
}
