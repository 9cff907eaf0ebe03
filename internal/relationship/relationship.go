// Package relationship advances the character's bonds each year: aging,
// closeness drift, neglect decay, mortality, and small random life events.
//
// Trust moves only through model.AddMemory. Closeness moves through
// interactions, drift, and neglect decay. Both are clamped to [0,100] at
// every step.
package relationship

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lifesim/internal/model"
)

// Event identifiers surfaced by the subsystem.
const (
	EventParentDeath       = "family_parent_death"
	EventInheritance       = "family_inheritance"
	EventFamilyIllness     = "family_illness"
	EventPetDeath          = "pet_death"
	EventPetSick           = "pet_sick"
	EventPetHeroics        = "pet_heroics"
	EventFriendBetrayal    = "friend_betrayal"
	EventFriendSuccess     = "friend_success"
	EventFriendNeedsHelp   = "friend_needs_help"
	EventFriendOpportunity = "friend_opportunity"
	EventBreakup           = "relationship_breakup"
	EventLostContact       = "relationship_lost_contact"
)

// Yearly thresholds.
const (
	NeglectYears      = 2
	NeglectDecayPer   = 3
	NeglectDecayCap   = 15
	LostContactTrust  = 25
	LostContactYears  = 3
	BreakupTrust      = 15
	HouseholdAge      = 18
	PetCost           = 500
	MinPetOwnerAge    = 10
	MinDatingAge      = 16
	NewFriendChance   = 0.5
	NewPartnerChance  = 0.3
	StartingTrust     = 50
	StartingCloseness = 50
)

// Random event chances.
const (
	FamilyIllnessChance     = 0.03
	FriendBetrayalChance    = 0.02
	FriendSuccessChance     = 0.03
	FriendNeedsHelpChance   = 0.02
	FriendOpportunityChance = 0.02
	PetSickChance           = 0.04
	PetHeroicsChance        = 0.01
)

var (
	ErrTooYoung          = errors.New("too young")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownSpecies    = errors.New("unknown species")
	ErrNoPartner         = errors.New("no active partner")
)

// IDGenerator produces identifiers for new bonds.
type IDGenerator interface {
	Generate() string
}

// Trigger is an event surfaced by the subsystem, optionally about one bond.
type Trigger struct {
	EventID   string
	SubjectID string
}

// Result describes one yearly advance.
type Result struct {
	Triggers []Trigger
	Deaths   []string
}

// Engine advances relationships.
type Engine struct {
	ids IDGenerator
}

// New creates an Engine that names new bonds with ids.
func New(ids IDGenerator) *Engine {
	return &Engine{ids: ids}
}

// Advance runs one year of relationship updates in a fixed order: aging,
// drift, neglect, status changes, mortality, then random events.
func (e *Engine) Advance(c *model.Character, r model.Rand) Result {
	var res Result
	rel := &c.Relations

	for _, b := range rel.All() {
		if b.Alive {
			b.Age++
		}
	}

	for _, b := range rel.All() {
		if !b.Active() {
			continue
		}
		b.AddCloseness(drift(b.Role, c.Skill(model.SkillSocial)))
		applyNeglect(c, b)
	}

	res.Triggers = append(res.Triggers, updateStatuses(c)...)

	for _, p := range rel.Parents() {
		if !p.Alive || !model.Roll(r, ParentMortality(p.Age)) {
			continue
		}
		res.Triggers = append(res.Triggers, parentDied(c, p))
		res.Deaths = append(res.Deaths, p.ID)
	}
	for _, pet := range rel.Pets {
		if !pet.Alive || !model.Roll(r, PetMortality(pet.Species, pet.Age)) {
			continue
		}
		markDeceased(pet)
		c.AddHappiness(-8)
		res.Triggers = append(res.Triggers, Trigger{EventID: EventPetDeath, SubjectID: pet.ID})
		res.Deaths = append(res.Deaths, pet.ID)
		slog.Info("pet died", "name", pet.Name, "species", pet.Species, "age", pet.Age)
	}

	res.Triggers = append(res.Triggers, rollRandomEvents(c, r)...)
	return res
}

// drift is the yearly closeness change for a role.
func drift(role model.Role, social int) int {
	switch role {
	case model.RoleFriend:
		return -3 + social/25
	case model.RolePartner:
		return -2 + social/50
	case model.RoleParent, model.RoleSibling, model.RoleChild:
		return -1
	case model.RolePet:
		return -2
	}
	return 0
}

// neglectExempt reports bonds that share a household with the character.
func neglectExempt(c *model.Character, b *model.Bond) bool {
	switch b.Role {
	case model.RolePet:
		return true
	case model.RoleParent:
		return c.Age < HouseholdAge
	case model.RoleChild:
		return b.Age < HouseholdAge
	}
	return false
}

// NeglectYearsOf is how long ago the character last interacted with b.
func NeglectYearsOf(c *model.Character, b *model.Bond) int {
	return c.Age - b.LastInteractionAge
}

func applyNeglect(c *model.Character, b *model.Bond) {
	if neglectExempt(c, b) {
		return
	}
	years := NeglectYearsOf(c, b)
	if years < NeglectYears {
		return
	}
	b.AddCloseness(-min(NeglectDecayPer*years, NeglectDecayCap))
	remember(b, model.MemoryNeglected, c.Age)
}

func updateStatuses(c *model.Character) []Trigger {
	var out []Trigger
	rel := &c.Relations

	lose := func(bonds []*model.Bond) {
		for _, b := range bonds {
			if b.Active() && b.Trust < LostContactTrust && NeglectYearsOf(c, b) >= LostContactYears {
				b.Status = model.StatusLostContact
				out = append(out, Trigger{EventID: EventLostContact, SubjectID: b.ID})
				slog.Debug("lost contact", "name", b.Name, "role", b.Role, "trust", b.Trust)
			}
		}
	}
	lose(rel.Friends)
	lose(rel.Siblings)

	if p := rel.Partner; p != nil && p.Active() && p.Trust < BreakupTrust {
		p.Status = model.StatusSeparated
		c.AddHappiness(-10)
		c.AddStress(10)
		out = append(out, Trigger{EventID: EventBreakup, SubjectID: p.ID})
		slog.Info("relationship ended", "partner", p.Name, "trust", p.Trust, "age", c.Age)
	}
	return out
}

func markDeceased(b *model.Bond) {
	b.Alive = false
	b.Status = model.StatusDeceased
}

func parentDied(c *model.Character, p *model.Bond) Trigger {
	markDeceased(p)
	c.AddHappiness(-15)
	c.AddStress(10)
	slog.Info("parent died", "name", p.Name, "age", p.Age, "wealth", p.Wealth)
	if p.Wealth > 0 {
		c.Money += p.Wealth / 2
		return Trigger{EventID: EventInheritance, SubjectID: p.ID}
	}
	return Trigger{EventID: EventParentDeath, SubjectID: p.ID}
}

// ParentMortality is the yearly death probability for a parent of age.
func ParentMortality(age int) float64 {
	switch {
	case age < 60:
		return 0.005
	case age < 70:
		return 0.015
	case age < 80:
		return 0.04
	case age < 90:
		return 0.10
	}
	return 0.25
}

// LifeExpectancy is the typical lifespan in years of each pet species.
var LifeExpectancy = map[string]int{
	"dog":     13,
	"cat":     15,
	"rabbit":  9,
	"bird":    20,
	"fish":    5,
	"hamster": 3,
}

// Species lists LifeExpectancy keys in a stable order.
var Species = []string{"bird", "cat", "dog", "fish", "hamster", "rabbit"}

// PetMortality is the yearly death probability for a pet, banded by the
// fraction of its species' life expectancy already lived.
func PetMortality(species string, age int) float64 {
	le, ok := LifeExpectancy[species]
	if !ok {
		le = 10
	}
	ratio := float64(age) / float64(le)
	switch {
	case ratio < 0.7:
		return 0.01
	case ratio < 1.0:
		return 0.10
	case ratio < 1.2:
		return 0.30
	}
	return 0.6
}

// pick returns a uniformly chosen element of bonds, or nil.
func pick(bonds []*model.Bond, r model.Rand) *model.Bond {
	if len(bonds) == 0 {
		return nil
	}
	return bonds[r.IntN(len(bonds))]
}

func activeOf(bonds []*model.Bond) []*model.Bond {
	var out []*model.Bond
	for _, b := range bonds {
		if b.Active() {
			out = append(out, b)
		}
	}
	return out
}

func rollRandomEvents(c *model.Character, r model.Rand) []Trigger {
	var out []Trigger
	rel := &c.Relations

	if parents := activeOf(rel.Parents()); len(parents) > 0 && model.Roll(r, FamilyIllnessChance) {
		p := pick(parents, r)
		out = append(out, Trigger{EventID: EventFamilyIllness, SubjectID: p.ID})
	}

	friends := activeOf(rel.Friends)
	if len(friends) > 0 {
		if model.Roll(r, FriendBetrayalChance) {
			f := pick(friends, r)
			remember(f, model.MemoryBetrayedMe, c.Age)
			out = append(out, Trigger{EventID: EventFriendBetrayal, SubjectID: f.ID})
		}
		if model.Roll(r, FriendSuccessChance) {
			out = append(out, Trigger{EventID: EventFriendSuccess, SubjectID: pick(friends, r).ID})
		}
		if model.Roll(r, FriendNeedsHelpChance) {
			out = append(out, Trigger{EventID: EventFriendNeedsHelp, SubjectID: pick(friends, r).ID})
		}
		if model.Roll(r, FriendOpportunityChance) {
			out = append(out, Trigger{EventID: EventFriendOpportunity, SubjectID: pick(friends, r).ID})
		}
	}

	pets := activeOf(rel.Pets)
	if len(pets) > 0 {
		if model.Roll(r, PetSickChance) {
			out = append(out, Trigger{EventID: EventPetSick, SubjectID: pick(pets, r).ID})
		}
		if model.Roll(r, PetHeroicsChance) {
			p := pick(pets, r)
			remember(p, model.MemoryHeroicAct, c.Age)
			out = append(out, Trigger{EventID: EventPetHeroics, SubjectID: p.ID})
		}
	}
	return out
}

// newBond creates an active bond met at the character's current age.
func (e *Engine) newBond(c *model.Character, role model.Role, name string, age int) *model.Bond {
	return &model.Bond{
		ID:                 e.ids.Generate(),
		Name:               name,
		Role:               role,
		Age:                age,
		Trust:              StartingTrust,
		Closeness:          StartingCloseness,
		Alive:              true,
		Status:             model.StatusActive,
		LastInteractionAge: c.Age,
	}
}

func touch(c *model.Character, b *model.Bond, closeness int) {
	b.AddCloseness(closeness)
	b.LastInteractionAge = c.Age
	remember(b, model.MemoryQualityTime, c.Age)
}

// SpendTimeFamily is the family free action. Returns how many bonds were visited.
func (e *Engine) SpendTimeFamily(c *model.Character) int {
	rel := &c.Relations
	n := 0
	var family []*model.Bond
	if rel.Partner != nil {
		family = append(family, rel.Partner)
	}
	family = append(family, rel.Parents()...)
	family = append(family, rel.Siblings...)
	family = append(family, rel.Children...)
	for _, b := range family {
		if !b.Active() {
			continue
		}
		touch(c, b, 5)
		n++
	}
	c.AddHappiness(3)
	c.AddStress(-3)
	return n
}

// Socialize is the friends free action. With no active friends there is a
// chance to make a new one. Returns the new friend, if any.
func (e *Engine) Socialize(c *model.Character, r model.Rand) *model.Bond {
	c.AddSkill(model.SkillSocial, 2)
	c.AddHappiness(2)

	friends := activeOf(c.Relations.Friends)
	for _, f := range friends {
		touch(c, f, 4)
	}
	if len(friends) > 0 || !model.Roll(r, NewFriendChance) {
		return nil
	}
	f := e.newBond(c, model.RoleFriend, pickName(r), c.Age+r.IntN(5)-2)
	c.Relations.Friends = append(c.Relations.Friends, f)
	slog.Debug("new friend", "name", f.Name, "age", c.Age)
	return f
}

// Date is the romance free action. With an active partner it deepens the
// relationship; otherwise there is a chance to find a partner.
func (e *Engine) Date(c *model.Character, r model.Rand) (*model.Bond, error) {
	if c.Age < MinDatingAge {
		return nil, fmt.Errorf("%w: minimum age %d", ErrTooYoung, MinDatingAge)
	}
	rel := &c.Relations
	if rel.HasPartner() {
		touch(c, rel.Partner, 6)
		c.AddHappiness(3)
		return nil, nil
	}
	if !model.Roll(r, NewPartnerChance) {
		return nil, nil
	}
	p := e.newBond(c, model.RolePartner, pickName(r), c.Age+r.IntN(7)-3)
	rel.Partner = p
	c.AddHappiness(8)
	slog.Info("new partner", "name", p.Name, "age", c.Age)
	return p, nil
}

// AdoptPet buys a pet of species, or a random species when empty.
func (e *Engine) AdoptPet(c *model.Character, species string, r model.Rand) (*model.Bond, error) {
	if c.Age < MinPetOwnerAge {
		return nil, fmt.Errorf("%w: minimum age %d", ErrTooYoung, MinPetOwnerAge)
	}
	if species == "" {
		species = Species[r.IntN(len(Species))]
	}
	if _, ok := LifeExpectancy[species]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	if c.Money < PetCost {
		return nil, fmt.Errorf("%w: a pet costs %d", ErrInsufficientFunds, PetCost)
	}
	c.Money -= PetCost
	pet := e.newBond(c, model.RolePet, pickPetName(r), 0)
	pet.Species = species
	pet.Trust = 60
	pet.Closeness = 60
	c.Relations.Pets = append(c.Relations.Pets, pet)
	c.AddHappiness(5)
	return pet, nil
}

// HaveChild adds a newborn child with the active partner.
func (e *Engine) HaveChild(c *model.Character, r model.Rand) (*model.Bond, error) {
	if !c.Relations.HasPartner() {
		return nil, ErrNoPartner
	}
	child := e.newBond(c, model.RoleChild, pickName(r), 0)
	child.Trust = 80
	child.Closeness = 80
	c.Relations.Children = append(c.Relations.Children, child)
	remember(c.Relations.Partner, model.MemorySharedMilestone, c.Age)
	c.AddHappiness(10)
	c.AddStress(8)
	slog.Info("child born", "name", child.Name, "age", c.Age)
	return child, nil
}

// NewFamily gives a fresh character two parents and up to two siblings.
func (e *Engine) NewFamily(c *model.Character, r model.Rand) {
	mother := e.newBond(c, model.RoleParent, pickName(r), c.Age+25+r.IntN(11))
	father := e.newBond(c, model.RoleParent, pickName(r), c.Age+25+r.IntN(13))
	for _, p := range []*model.Bond{mother, father} {
		p.Trust = 70
		p.Closeness = 70
		p.Wealth = int64(r.IntN(200)) * 1000
	}
	c.Relations.Mother = mother
	c.Relations.Father = father

	for i, n := 0, r.IntN(3); i < n; i++ {
		s := e.newBond(c, model.RoleSibling, pickName(r), max(0, c.Age+r.IntN(11)-5))
		s.Trust = 60
		s.Closeness = 60
		c.Relations.Siblings = append(c.Relations.Siblings, s)
	}
}

// remember adds a memory to b, logging kinds the ledger rejects.
func remember(b *model.Bond, kind model.MemoryKind, age int) bool {
	if err := model.AddMemory(b, kind, age); err != nil {
		slog.Debug("memory dropped", "name", b.Name, "kind", kind, "error", err)
		return false
	}
	return true
}
