package event

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lifesim/internal/model"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed catalog.cue
var catalogCUE []byte

// Catalog is an immutable, compiled set of events keyed by id.
type Catalog struct {
	events map[string]Event
	ids    []string // sorted
	arcs   map[string]int
}

// CompileError represents a catalog compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in catalog, compiled once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Compile(catalogCUE, "catalog.cue")
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that cannot proceed without a catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("built-in event catalog: %v", err))
	}
	return c
}

// Compile unifies src with the catalog schema and compiles every event.
// filename is used in error positions.
func Compile(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	user := ctx.CompileBytes(src, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	eventsVal := v.LookupPath(cue.ParsePath("event"))
	if !eventsVal.Exists() {
		return nil, &CompileError{Field: "event", Message: "at least one event is required", Pos: user.Pos()}
	}
	iter, err := eventsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{events: make(map[string]Event), arcs: make(map[string]int)}
	for iter.Next() {
		ev, err := compileEvent(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		c.events[ev.ID] = ev
		c.ids = append(c.ids, ev.ID)
		if ev.Arc != "" && ev.ArcStep > c.arcs[ev.Arc] {
			c.arcs[ev.Arc] = ev.ArcStep
		}
	}
	if len(c.ids) == 0 {
		return nil, &CompileError{Field: "event", Message: "at least one event is required", Pos: eventsVal.Pos()}
	}
	sort.Strings(c.ids)
	return c, nil
}

type rawRequires struct {
	MinAge    int            `json:"min_age"`
	MaxAge    int            `json:"max_age"`
	MinMoney  *int64         `json:"min_money"`
	MinHealth int            `json:"min_health"`
	Partner   *bool          `json:"partner"`
	Job       *bool          `json:"job"`
	Business  *bool          `json:"business"`
	Skills    map[string]int `json:"skills"`
}

type rawChoice struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Effects  map[string]int64  `json:"effects"`
	Memories map[string]string `json:"memories"`
	Requires *rawRequires      `json:"requires"`
	Special  string            `json:"special"`
}

type rawEvent struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Source      string       `json:"source"`
	OneTime     bool         `json:"one_time"`
	Weight      int          `json:"weight"`
	Arc         string       `json:"arc"`
	ArcStep     int          `json:"arc_step"`
	Requires    *rawRequires `json:"requires"`
	Choices     []rawChoice  `json:"choices"`
}

func compileEvent(id string, v cue.Value) (Event, error) {
	var raw rawEvent
	if err := v.Decode(&raw); err != nil {
		return Event{}, formatCUEError(err)
	}

	field := "event." + id
	req, err := compileRequires(raw.Requires)
	if err != nil {
		return Event{}, &CompileError{Field: field + ".requires", Message: err.Error(), Pos: v.Pos()}
	}
	if (raw.Arc == "") != (raw.ArcStep == 0) {
		return Event{}, &CompileError{Field: field, Message: "arc and arc_step must be set together", Pos: v.Pos()}
	}

	ev := Event{
		ID:          id,
		Source:      Source(raw.Source),
		Category:    raw.Category,
		Title:       raw.Title,
		Description: raw.Description,
		OneTime:     raw.OneTime,
		Weight:      raw.Weight,
		Arc:         raw.Arc,
		ArcStep:     raw.ArcStep,
		Requires:    req,
	}
	if ev.Weight == 0 {
		ev.Weight = 1
	}

	seen := make(map[string]bool, len(raw.Choices))
	for i, rc := range raw.Choices {
		pos := v.LookupPath(cue.MakePath(cue.Str("choices"), cue.Index(i))).Pos()
		choiceField := fmt.Sprintf("%s.choices[%d]", field, i)
		if seen[rc.ID] {
			return Event{}, &CompileError{Field: choiceField, Message: fmt.Sprintf("duplicate choice id %q", rc.ID), Pos: pos}
		}
		seen[rc.ID] = true

		ch, err := compileChoice(rc)
		if err != nil {
			return Event{}, &CompileError{Field: choiceField, Message: err.Error(), Pos: pos}
		}
		ev.Choices = append(ev.Choices, ch)
	}
	return ev, nil
}

func compileChoice(rc rawChoice) (Choice, error) {
	effects, err := model.ParseEffects(rc.Effects)
	if err != nil {
		return Choice{}, err
	}
	memories, err := model.ParseMemories(rc.Memories)
	if err != nil {
		return Choice{}, err
	}
	req, err := compileRequires(rc.Requires)
	if err != nil {
		return Choice{}, err
	}
	ch := Choice{
		ID:       rc.ID,
		Label:    rc.Label,
		Requires: req,
		Special:  Special(rc.Special),
	}
	if all := append(effects, memories...); len(all) > 0 {
		ch.Effects = all
	}
	return ch, nil
}

func compileRequires(raw *rawRequires) (Conditions, error) {
	if raw == nil {
		return Conditions{}, nil
	}
	c := Conditions{
		MinAge:    raw.MinAge,
		MaxAge:    raw.MaxAge,
		MinMoney:  raw.MinMoney,
		MinHealth: raw.MinHealth,
		Partner:   raw.Partner,
		Job:       raw.Job,
		Business:  raw.Business,
	}
	if c.MaxAge > 0 && c.MaxAge < c.MinAge {
		return Conditions{}, fmt.Errorf("max_age %d is below min_age %d", c.MaxAge, c.MinAge)
	}
	if len(raw.Skills) > 0 {
		c.Skills = make(map[model.Skill]int, len(raw.Skills))
		for name, level := range raw.Skills {
			s := model.Skill(name)
			if !model.ValidSkill(s) {
				return Conditions{}, fmt.Errorf("unknown skill %q", name)
			}
			c.Skills[s] = level
		}
	}
	return c, nil
}

// Len returns the number of events.
func (c *Catalog) Len() int { return len(c.ids) }

// IDs returns every event id in sorted order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Events returns every event in id order.
func (c *Catalog) Events() []Event {
	out := make([]Event, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.events[id])
	}
	return out
}

// GetByID returns a copy of the event with id.
func (c *Catalog) GetByID(id string) (Event, bool) {
	ev, ok := c.events[id]
	return ev, ok
}

// ArcLength returns the number of steps of arc (0 when unknown).
func (c *Catalog) ArcLength(arc string) int {
	return c.arcs[arc]
}

// Arcs returns every arc name in sorted order.
func (c *Catalog) Arcs() []string {
	out := make([]string, 0, len(c.arcs))
	for a := range c.arcs {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// ArcStep returns the event for step of arc.
func (c *Catalog) ArcStep(arc string, step int) (Event, bool) {
	for _, id := range c.ids {
		ev := c.events[id]
		if ev.Arc == arc && ev.ArcStep == step {
			return ev, true
		}
	}
	return Event{}, false
}

// Eligible returns events from src whose conditions ch meets, excluding ids
// in exclude and one-time events already in seen. Order is by id.
func (c *Catalog) Eligible(src Source, ch *model.Character, exclude, seen map[string]bool) []Event {
	var out []Event
	for _, id := range c.ids {
		ev := c.events[id]
		if ev.Source != src || exclude[id] {
			continue
		}
		if ev.OneTime && seen[id] {
			continue
		}
		if !ev.Requires.Met(ch) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// GetRandom picks a weighted random pool event, excluding ids in exclude and
// previously seen one-time events.
func (c *Catalog) GetRandom(r model.Rand, ch *model.Character, exclude, seen map[string]bool) (Event, bool) {
	return weightedPick(r, c.Eligible(SourcePool, ch, exclude, seen))
}

// IsChoiceAvailable reports whether ch may take choice.
func (c *Catalog) IsChoiceAvailable(choice Choice, ch *model.Character) bool {
	return choice.Requires.Met(ch)
}

// ApplyChoice applies the effects of choiceID on ev to ch. Memory effects
// target ev.SubjectID when set. Returns false, changing nothing, when the
// choice does not exist or is unavailable.
func (c *Catalog) ApplyChoice(ev Event, choiceID string, ch *model.Character) (Outcome, bool) {
	choice, ok := ev.Choice(choiceID)
	if !ok || !c.IsChoiceAvailable(choice, ch) {
		return Outcome{}, false
	}
	applied := model.ApplyEffects(ch, choice.Effects, ev.SubjectID)
	out := Outcome{EventID: ev.ID, ChoiceID: choice.ID, Special: choice.Special}
	if len(applied) > 0 {
		out.Applied = applied
	}
	return out, true
}

// weightedPick samples one event proportionally to Weight.
func weightedPick(r model.Rand, events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	total := 0
	for _, ev := range events {
		total += max(1, ev.Weight)
	}
	n := r.IntN(total)
	for _, ev := range events {
		n -= max(1, ev.Weight)
		if n < 0 {
			return ev, true
		}
	}
	return events[len(events)-1], true
}
