package model

import (
	"fmt"
	"sort"
	"strings"
)

// DeltaKind tags one variant of the closed Delta union.
type DeltaKind string

const (
	DeltaMoney        DeltaKind = "money"
	DeltaHealth       DeltaKind = "health"
	DeltaHappiness    DeltaKind = "happiness"
	DeltaStress       DeltaKind = "stress"
	DeltaIntelligence DeltaKind = "intelligence"
	DeltaSkill        DeltaKind = "skill"
	DeltaMemory       DeltaKind = "memory"
)

// Delta is a single named effect.
//
// Only the fields relevant to Kind are set: Skill for DeltaSkill, Role and
// Memory for DeltaMemory, Amount for everything except DeltaMemory.
type Delta struct {
	Kind   DeltaKind  `json:"kind"`
	Skill  Skill      `json:"skill,omitempty"`
	Role   Role       `json:"role,omitempty"`
	Memory MemoryKind `json:"memory,omitempty"`
	Amount int64      `json:"amount,omitempty"`
}

// Effects is an ordered list of deltas applied together.
type Effects []Delta

// Validate checks that the delta is a well-formed variant.
func (d Delta) Validate() error {
	switch d.Kind {
	case DeltaMoney, DeltaHealth, DeltaHappiness, DeltaStress, DeltaIntelligence:
		return nil
	case DeltaSkill:
		if !ValidSkill(d.Skill) {
			return fmt.Errorf("unknown skill %q", d.Skill)
		}
		return nil
	case DeltaMemory:
		if !ValidRole(d.Role) {
			return fmt.Errorf("unknown role %q", d.Role)
		}
		if _, ok := MemoryImpacts[d.Memory]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMemory, d.Memory)
		}
		return nil
	default:
		return fmt.Errorf("unknown delta kind %q", d.Kind)
	}
}

// Validate checks every delta.
func (e Effects) Validate() error {
	for i, d := range e {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("effect[%d]: %w", i, err)
		}
	}
	return nil
}

// ParseEffects converts a named-delta map into Effects.
//
// Accepted keys: money, health, happiness, stress, intelligence, and
// skill.<name>. Any other key is an error. Output order is sorted by key so
// the same map always yields the same Effects.
func ParseEffects(m map[string]int64) (Effects, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Effects, 0, len(keys))
	for _, k := range keys {
		amount := m[k]
		var d Delta
		switch k {
		case "money":
			d = Delta{Kind: DeltaMoney, Amount: amount}
		case "health":
			d = Delta{Kind: DeltaHealth, Amount: amount}
		case "happiness":
			d = Delta{Kind: DeltaHappiness, Amount: amount}
		case "stress":
			d = Delta{Kind: DeltaStress, Amount: amount}
		case "intelligence":
			d = Delta{Kind: DeltaIntelligence, Amount: amount}
		default:
			name, ok := strings.CutPrefix(k, "skill.")
			if !ok {
				return nil, fmt.Errorf("unknown effect key %q", k)
			}
			d = Delta{Kind: DeltaSkill, Skill: Skill(name), Amount: amount}
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("effect %q: %w", k, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseMemories converts a role->memory-kind map into memory deltas.
func ParseMemories(m map[string]string) (Effects, error) {
	roles := make([]string, 0, len(m))
	for r := range m {
		roles = append(roles, r)
	}
	sort.Strings(roles)

	out := make(Effects, 0, len(roles))
	for _, r := range roles {
		d := Delta{Kind: DeltaMemory, Role: Role(r), Memory: MemoryKind(m[r])}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("memory %q: %w", r, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ApplyEffects applies every delta to c and returns the deltas that took effect.
//
// Memory deltas target the bond identified by subjectID when it has the
// delta's role; otherwise every active bond with that role receives the memory.
// Invalid deltas are skipped.
func ApplyEffects(c *Character, effects Effects, subjectID string) Effects {
	applied := make(Effects, 0, len(effects))
	for _, d := range effects {
		if d.Validate() != nil {
			continue
		}
		switch d.Kind {
		case DeltaMoney:
			c.Money += d.Amount
		case DeltaHealth:
			c.AddHealth(int(d.Amount))
		case DeltaHappiness:
			c.AddHappiness(int(d.Amount))
		case DeltaStress:
			c.AddStress(int(d.Amount))
		case DeltaIntelligence:
			c.AddIntelligence(int(d.Amount))
		case DeltaSkill:
			c.AddSkill(d.Skill, int(d.Amount))
		case DeltaMemory:
			if !applyMemory(c, d, subjectID) {
				continue
			}
		}
		applied = append(applied, d)
	}
	return applied
}

func applyMemory(c *Character, d Delta, subjectID string) bool {
	if b := c.Relations.Find(subjectID); b != nil && b.Role == d.Role {
		return AddMemory(b, d.Memory, c.Age) == nil
	}
	hit := false
	for _, b := range c.Relations.ByRole(d.Role) {
		if !b.Active() {
			continue
		}
		if AddMemory(b, d.Memory, c.Age) == nil {
			hit = true
		}
	}
	return hit
}
