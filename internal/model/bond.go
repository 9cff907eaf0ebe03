package model

import (
	"errors"
	"fmt"
)

// Role is the kind of relationship a Bond represents.
type Role string

const (
	RolePartner Role = "partner"
	RoleChild   Role = "child"
	RoleParent  Role = "parent"
	RoleSibling Role = "sibling"
	RoleFriend  Role = "friend"
	RolePet     Role = "pet"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RolePartner, RoleChild, RoleParent, RoleSibling, RoleFriend, RolePet:
		return true
	}
	return false
}

// BondStatus is the lifecycle state of a relationship.
type BondStatus string

const (
	StatusActive      BondStatus = "active"
	StatusLostContact BondStatus = "lost_contact"
	StatusSeparated   BondStatus = "separated"
	StatusDeceased    BondStatus = "deceased"
)

// MemoryKind names a remembered interaction. Each kind has a fixed impact.
type MemoryKind string

const (
	MemoryQualityTime       MemoryKind = "quality_time"
	MemorySupportedMe       MemoryKind = "supported_me"
	MemorySharedMilestone   MemoryKind = "shared_milestone"
	MemoryGift              MemoryKind = "gift"
	MemoryHelpedThem        MemoryKind = "helped_them"
	MemoryCelebratedSuccess MemoryKind = "celebrated_success"
	MemoryCaredWhenSick     MemoryKind = "cared_when_sick"
	MemoryHeroicAct         MemoryKind = "heroic_act"
	MemoryApologized        MemoryKind = "apologized"
	MemoryArgument          MemoryKind = "argument"
	MemoryLetDown           MemoryKind = "let_down"
	MemoryMissedEvent       MemoryKind = "missed_event"
	MemoryNeglected         MemoryKind = "neglected"
	MemoryBetrayedMe        MemoryKind = "betrayed_me"
)

// MemoryImpacts is the fixed signed trust impact of every memory kind.
var MemoryImpacts = map[MemoryKind]int{
	MemoryQualityTime:       4,
	MemorySupportedMe:       8,
	MemorySharedMilestone:   10,
	MemoryGift:              5,
	MemoryHelpedThem:        6,
	MemoryCelebratedSuccess: 7,
	MemoryCaredWhenSick:     9,
	MemoryHeroicAct:         15,
	MemoryApologized:        3,
	MemoryArgument:          -8,
	MemoryLetDown:           -10,
	MemoryMissedEvent:       -6,
	MemoryNeglected:         -4,
	MemoryBetrayedMe:        -25,
}

// ErrUnknownMemory is returned for a memory kind outside MemoryImpacts.
var ErrUnknownMemory = errors.New("unknown memory kind")

// Memory is one append-only ledger entry.
type Memory struct {
	Kind   MemoryKind `json:"kind"`
	Impact int        `json:"impact"`
	Age    int        `json:"age"`
}

// Bond is a relationship entity: partner, child, parent, sibling, friend, or pet.
//
// Trust moves only through memories (AddMemory). Closeness moves through
// interaction, drift, and neglect decay. Both stay within [0,100].
type Bond struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Role               Role       `json:"role"`
	Species            string     `json:"species,omitempty"`
	Age                int        `json:"age"`
	Trust              int        `json:"trust"`
	Closeness          int        `json:"closeness"`
	Alive              bool       `json:"alive"`
	Status             BondStatus `json:"status"`
	LastInteractionAge int        `json:"last_interaction_age"`
	Wealth             int64      `json:"wealth,omitempty"`
	Memories           []Memory   `json:"memories,omitempty"`
}

// Active reports whether the bond is alive and still in contact.
func (b *Bond) Active() bool {
	return b.Alive && b.Status == StatusActive
}

// AddMemory appends a memory and applies its fixed impact to Trust.
//
// INVARIANT: Trust is always clamp(previous + impact, 0, 100). It is never
// recomputed by summing Memories; clamping at each step makes the result
// order-dependent, and the incremental value is the one that counts.
func AddMemory(b *Bond, kind MemoryKind, age int) error {
	impact, ok := MemoryImpacts[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMemory, kind)
	}
	b.Memories = append(b.Memories, Memory{Kind: kind, Impact: impact, Age: age})
	b.Trust = ClampStat(b.Trust + impact)
	return nil
}

// AddCloseness adjusts closeness and clamps it.
func (b *Bond) AddCloseness(delta int) {
	b.Closeness = ClampStat(b.Closeness + delta)
}

// Relationships groups every bond the character holds.
type Relationships struct {
	Partner  *Bond   `json:"partner,omitempty"`
	Children []*Bond `json:"children,omitempty"`
	Mother   *Bond   `json:"mother,omitempty"`
	Father   *Bond   `json:"father,omitempty"`
	Siblings []*Bond `json:"siblings,omitempty"`
	Friends  []*Bond `json:"friends,omitempty"`
	Pets     []*Bond `json:"pets,omitempty"`
}

// All returns every bond in a fixed order: partner, children, parents,
// siblings, friends, pets.
func (r *Relationships) All() []*Bond {
	var out []*Bond
	if r.Partner != nil {
		out = append(out, r.Partner)
	}
	out = append(out, r.Children...)
	out = append(out, r.Parents()...)
	out = append(out, r.Siblings...)
	out = append(out, r.Friends...)
	out = append(out, r.Pets...)
	return out
}

// Parents returns the non-nil parents, mother first.
func (r *Relationships) Parents() []*Bond {
	var out []*Bond
	if r.Mother != nil {
		out = append(out, r.Mother)
	}
	if r.Father != nil {
		out = append(out, r.Father)
	}
	return out
}

// ByRole returns every bond with the given role.
func (r *Relationships) ByRole(role Role) []*Bond {
	var out []*Bond
	for _, b := range r.All() {
		if b.Role == role {
			out = append(out, b)
		}
	}
	return out
}

// Find returns the bond with id, or nil.
func (r *Relationships) Find(id string) *Bond {
	if id == "" {
		return nil
	}
	for _, b := range r.All() {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// HasPartner reports whether an active partner exists.
func (r *Relationships) HasPartner() bool {
	return r.Partner != nil && r.Partner.Active()
}
