// Package education implements the education progression engine.
//
// The engine is stateless apart from its stage table; all per-life state is
// kept in the character's model.EducationRecord.
package education

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lifesim/internal/model"
)

// Sentinel errors returned by Enroll.
var (
	ErrUnknownStage        = errors.New("unknown education stage")
	ErrTooYoung            = errors.New("too young to enroll")
	ErrAlreadyEnrolled     = errors.New("already enrolled")
	ErrInsufficientFunds   = errors.New("insufficient funds for tuition")
	ErrMissingPrerequisite = errors.New("missing prerequisite stage")
)

// Event identifiers surfaced by the engine.
const (
	EventGraduation  = "education_graduation"
	EventExam        = "education_exam"
	EventScholarship = "education_scholarship"
)

// Probabilities of the non-graduation yearly events.
const (
	ExamChance        = 0.15
	ScholarshipChance = 0.05
	DropOutPenalty    = 5
)

// MaxCompulsoryAge is the age at which compulsory enrollment stops.
const MaxCompulsoryAge = 18

// Result describes one yearly progression.
type Result struct {
	Stage     model.StageID
	Graduated bool
	Events    []string
}

// Engine advances education records.
type Engine struct {
	stages map[model.StageID]Stage
	order  []model.StageID
}

// New creates an Engine over stages. With no stages, DefaultStages is used.
func New(stages ...Stage) *Engine {
	if len(stages) == 0 {
		stages = DefaultStages
	}
	e := &Engine{stages: make(map[model.StageID]Stage, len(stages))}
	for _, s := range stages {
		e.stages[s.ID] = s
		e.order = append(e.order, s.ID)
	}
	return e
}

// Stage returns the definition of id.
func (e *Engine) Stage(id model.StageID) (Stage, bool) {
	s, ok := e.stages[id]
	return s, ok
}

// Stages returns all stages in declaration order.
func (e *Engine) Stages() []Stage {
	out := make([]Stage, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.stages[id])
	}
	return out
}

// Enroll begins stage id, deducting its cost.
//
// Preconditions are checked in order: known stage, minimum age, not already
// enrolled, funds, prerequisite.
func (e *Engine) Enroll(c *model.Character, id model.StageID) error {
	s, ok := e.stages[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	if c.Age < s.MinAge {
		return fmt.Errorf("%w: %s requires age %d", ErrTooYoung, id, s.MinAge)
	}
	if c.Education.Enrolled {
		return fmt.Errorf("%w: currently in %s", ErrAlreadyEnrolled, c.Education.Stage)
	}
	if c.Money < s.Cost {
		return fmt.Errorf("%w: %s costs %d", ErrInsufficientFunds, id, s.Cost)
	}
	if s.Prerequisite != "" && !c.Education.HasCompleted(s.Prerequisite) {
		return fmt.Errorf("%w: %s requires %s", ErrMissingPrerequisite, id, s.Prerequisite)
	}

	c.Money -= s.Cost
	c.Education.Stage = id
	c.Education.Enrolled = true
	c.Education.YearsInStage = 0
	slog.Debug("education enrolled", "stage", id, "cost", s.Cost, "age", c.Age)
	return nil
}

// Progress advances the current stage by one year.
//
// Graduation happens when YearsInStage reaches YearsRequired. Otherwise an
// exam or scholarship event may be rolled. Not being enrolled is a no-op.
func (e *Engine) Progress(c *model.Character, r model.Rand) Result {
	rec := &c.Education
	if !rec.Enrolled {
		return Result{}
	}
	s, ok := e.stages[rec.Stage]
	if !ok {
		rec.Enrolled = false
		return Result{}
	}

	rec.YearsInStage++
	c.AddIntelligence(1 + s.Level/2)
	if s.Skill != "" {
		c.AddSkill(s.Skill, s.Level)
	}

	res := Result{Stage: s.ID}
	if rec.YearsInStage >= s.YearsRequired {
		e.graduate(c, s)
		res.Graduated = true
		res.Events = append(res.Events, EventGraduation)
		return res
	}

	if model.Roll(r, ExamChance) {
		res.Events = append(res.Events, EventExam)
	}
	if model.Roll(r, ScholarshipChance) {
		res.Events = append(res.Events, EventScholarship)
	}
	return res
}

func (e *Engine) graduate(c *model.Character, s Stage) {
	rec := &c.Education
	rec.Enrolled = false
	rec.YearsInStage = 0
	rec.Stage = ""
	if !rec.HasCompleted(s.ID) {
		rec.Completed = append(rec.Completed, s.ID)
	}
	if s.Level > rec.HighestLevel {
		rec.HighestLevel = s.Level
		rec.HighestStage = s.ID
	}
	if s.Certification != "" {
		rec.Certifications = append(rec.Certifications, s.Certification)
	}
	slog.Info("education graduated", "stage", s.ID, "level", s.Level, "age", c.Age)
}

// DropOut clears enrollment with a small happiness penalty.
// Returns false when the character is not enrolled.
func (e *Engine) DropOut(c *model.Character) bool {
	if !c.Education.Enrolled {
		return false
	}
	slog.Info("education dropped out", "stage", c.Education.Stage, "age", c.Age)
	c.Education.Enrolled = false
	c.Education.Stage = ""
	c.Education.YearsInStage = 0
	c.AddHappiness(-DropOutPenalty)
	return true
}

// NextStage returns the next core-path stage the character has not completed
// and whose prerequisite is met.
func (e *Engine) NextStage(c *model.Character) (Stage, bool) {
	for _, id := range corePath {
		s, ok := e.stages[id]
		if !ok || c.Education.HasCompleted(id) {
			continue
		}
		if s.Prerequisite != "" && !c.Education.HasCompleted(s.Prerequisite) {
			return Stage{}, false
		}
		return s, true
	}
	return Stage{}, false
}

// EnsureCompulsory enrolls an idle child in the next compulsory stage once
// they are old enough. Returns the stage enrolled, if any.
func (e *Engine) EnsureCompulsory(c *model.Character) (model.StageID, bool) {
	if c.Education.Enrolled || c.Age >= MaxCompulsoryAge {
		return "", false
	}
	s, ok := e.NextStage(c)
	if !ok || !s.Compulsory || c.Age < s.MinAge {
		return "", false
	}
	if err := e.Enroll(c, s.ID); err != nil {
		return "", false
	}
	return s.ID, true
}

// Backfill graduates every compulsory stage a character starting at their
// current age would already have finished. Returns the stages completed.
func (e *Engine) Backfill(c *model.Character) []model.StageID {
	var done []model.StageID
	for _, id := range corePath {
		s, ok := e.stages[id]
		if !ok || !s.Compulsory || c.Education.HasCompleted(id) {
			continue
		}
		if c.Age < s.MinAge+s.YearsRequired {
			break
		}
		e.graduate(c, s)
		done = append(done, id)
	}
	return done
}
