package event

import (
	"github.com/roach88/lifesim/internal/model"
)

// Source tags where an event came from.
type Source string

const (
	SourcePool       Source = "pool"
	SourceControlled Source = "controlled"
	SourceScripted   Source = "scripted"
	SourceCrisis     Source = "crisis"
	SourceEngine     Source = "engine"
	SourceArc        Source = "arc"
)

// Special names an outcome side effect the orchestrator applies after the
// choice's plain effects.
type Special string

const (
	SpecialNone              Special = ""
	SpecialBankruptcyPenalty Special = "bankruptcy_penalty"
	SpecialHighRiskDeath     Special = "high_risk_death"
	SpecialIncomeBoost       Special = "income_boost"
	SpecialBusinessExit      Special = "business_exit"
	SpecialEnrollNextStage   Special = "enroll_next_stage"
	SpecialHaveChild         Special = "have_child"
)

// Event is one narrative event with its choices.
//
// Events are values: the queue, the active slot and snapshots hold copies.
type Event struct {
	ID          string     `json:"id"`
	Source      Source     `json:"source"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	OneTime     bool       `json:"one_time,omitempty"`
	Weight      int        `json:"weight"`
	Arc         string     `json:"arc,omitempty"`
	ArcStep     int        `json:"arc_step,omitempty"`
	Requires    Conditions `json:"requires"`
	Choices     []Choice   `json:"choices"`

	// SubjectID names the bond the event is about, when there is one.
	SubjectID string `json:"subject_id,omitempty"`
}

// Choice returns the choice with id.
func (e Event) Choice(id string) (Choice, bool) {
	for _, c := range e.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Choice is one option of an event.
type Choice struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Effects  model.Effects `json:"effects,omitempty"`
	Requires Conditions    `json:"requires"`
	Special  Special       `json:"special,omitempty"`
}

// Conditions gate events and choices. Zero values mean "no constraint".
type Conditions struct {
	MinAge    int                 `json:"min_age,omitempty"`
	MaxAge    int                 `json:"max_age,omitempty"`
	MinMoney  *int64              `json:"min_money,omitempty"`
	MinHealth int                 `json:"min_health,omitempty"`
	Partner   *bool               `json:"partner,omitempty"`
	Job       *bool               `json:"job,omitempty"`
	Business  *bool               `json:"business,omitempty"`
	Skills    map[model.Skill]int `json:"skills,omitempty"`
}

// Met reports whether ch satisfies every condition.
func (c Conditions) Met(ch *model.Character) bool {
	if ch == nil {
		return false
	}
	if ch.Age < c.MinAge {
		return false
	}
	if c.MaxAge > 0 && ch.Age > c.MaxAge {
		return false
	}
	if c.MinMoney != nil && ch.Money < *c.MinMoney {
		return false
	}
	if ch.Health < c.MinHealth {
		return false
	}
	if c.Partner != nil && *c.Partner != ch.Relations.HasPartner() {
		return false
	}
	if c.Job != nil && *c.Job != ch.Employed() {
		return false
	}
	if c.Business != nil && *c.Business != ch.HasBusiness() {
		return false
	}
	for skill, need := range c.Skills {
		if ch.Skill(skill) < need {
			return false
		}
	}
	return true
}

// Outcome is the result of applying a choice.
type Outcome struct {
	EventID  string        `json:"event_id"`
	ChoiceID string        `json:"choice_id"`
	Applied  model.Effects `json:"applied,omitempty"`
	Special  Special       `json:"special,omitempty"`
}
