package model

import "sort"

// Skill identifies one entry in the closed skill set.
type Skill string

const (
	SkillCareer     Skill = "career"
	SkillBusiness   Skill = "business"
	SkillInvesting  Skill = "investing"
	SkillSocial     Skill = "social"
	SkillSports     Skill = "sports"
	SkillCreativity Skill = "creativity"
)

// Skills lists every valid skill in a stable order.
var Skills = []Skill{SkillCareer, SkillBusiness, SkillInvesting, SkillSocial, SkillSports, SkillCreativity}

// ValidSkill reports whether s belongs to the closed skill set.
func ValidSkill(s Skill) bool {
	for _, k := range Skills {
		if k == s {
			return true
		}
	}
	return false
}

// Character is the single simulated person.
//
// The orchestrator's caller owns the Character; engines mutate it in place.
type Character struct {
	Name         string          `json:"name"`
	Age          int             `json:"age"`
	Money        int64           `json:"money"`
	Health       int             `json:"health"`
	Happiness    int             `json:"happiness"`
	Stress       int             `json:"stress"`
	Intelligence int             `json:"intelligence"`
	Skills       map[Skill]int   `json:"skills"`
	BurnoutYears int             `json:"burnout_years"`
	Generation   int             `json:"generation"`
	Education    EducationRecord `json:"education"`
	Career       CareerRecord    `json:"career"`
	Business     *BusinessRecord `json:"business,omitempty"`
	Portfolio    Portfolio       `json:"portfolio"`
	Relations    Relationships   `json:"relationships"`
}

// NewCharacter returns a newborn-style character with neutral vitals.
func NewCharacter(name string, age int) *Character {
	c := &Character{
		Name:         name,
		Age:          age,
		Health:       100,
		Happiness:    70,
		Stress:       10,
		Intelligence: 50,
		Skills:       make(map[Skill]int, len(Skills)),
		Portfolio:    NewPortfolio(),
	}
	for _, s := range Skills {
		c.Skills[s] = 0
	}
	return c
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampStat bounds v to the [0,100] stat range.
func ClampStat(v int) int {
	return Clamp(v, 0, 100)
}

// Skill returns the current level of s (0 when unset).
func (c *Character) Skill(s Skill) int {
	return c.Skills[s]
}

// AddSkill adjusts s by delta and clamps the result.
func (c *Character) AddSkill(s Skill, delta int) {
	if c.Skills == nil {
		c.Skills = make(map[Skill]int, len(Skills))
	}
	c.Skills[s] = ClampStat(c.Skills[s] + delta)
}

func (c *Character) AddHealth(delta int)       { c.Health = ClampStat(c.Health + delta) }
func (c *Character) AddHappiness(delta int)    { c.Happiness = ClampStat(c.Happiness + delta) }
func (c *Character) AddStress(delta int)       { c.Stress = ClampStat(c.Stress + delta) }
func (c *Character) AddIntelligence(delta int) { c.Intelligence = ClampStat(c.Intelligence + delta) }

// Employed reports whether the character currently holds a job.
func (c *Character) Employed() bool {
	return c.Career.Employed
}

// HasBusiness reports whether a business exists that has not reached an absorbing state.
func (c *Character) HasBusiness() bool {
	return c.Business != nil && !c.Business.State.Absorbing()
}

// NetWorth is cash plus portfolio value plus live business valuation.
func (c *Character) NetWorth() int64 {
	worth := c.Money + c.Portfolio.TotalValue()
	if c.HasBusiness() {
		worth += c.Business.Valuation
	}
	return worth
}

// SortedSkills returns skills in the canonical order with their levels.
// Used for deterministic text output.
func (c *Character) SortedSkills() []Skill {
	out := make([]Skill, 0, len(c.Skills))
	for s := range c.Skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
