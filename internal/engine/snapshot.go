package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/lifesim/internal/event"
	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/survival"
)

// SnapshotVersion is bumped on incompatible snapshot changes.
const SnapshotVersion = 1

// ErrInvalidSnapshot is returned by Load for unusable snapshots.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the serializable state of one life.
//
// INVARIANT: Load(s) followed by Snapshot() reproduces s field for field.
type Snapshot struct {
	Version        int                `json:"version"`
	LifeID         string             `json:"life_id"`
	Seed           uint64             `json:"seed"`
	Config         LifeConfig         `json:"config"`
	Character      *model.Character   `json:"character"`
	Ended          bool               `json:"ended"`
	Year           int                `json:"year"`
	FailCause      survival.FailCause `json:"fail_cause,omitempty"`
	Seen           []string           `json:"seen,omitempty"`
	Queue          []event.Event      `json:"queue,omitempty"`
	Active         *event.Event       `json:"active,omitempty"`
	Phase          Phase              `json:"phase"`
	PendingActions []string           `json:"pending_actions,omitempty"`
	Stats          Stats              `json:"stats"`
	Market         model.Market       `json:"market"`
	Boosts         []Boost            `json:"boosts,omitempty"`
	Goal           *Goal              `json:"goal,omitempty"`
	Arcs           map[string]int     `json:"arcs,omitempty"`
	Revived        bool               `json:"revived,omitempty"`
	Score          int64              `json:"score,omitempty"`
	LastBonusYear  int                `json:"last_bonus_year,omitempty"`
	BondSeq        int                `json:"bond_seq"`
	Seq            int64              `json:"seq"`
	RNG            []byte             `json:"rng"`
}

// Digest returns the content digest of the snapshot.
func (s Snapshot) Digest() (string, error) {
	return model.Digest(model.DomainSnapshot, s)
}

// Snapshot returns a deep copy of the current life state.
func (e *Engine) Snapshot() Snapshot {
	rng, err := e.pcg.MarshalBinary()
	if err != nil {
		slog.Error("snapshot rng", "error", err)
	}
	var active *event.Event
	if e.active != nil {
		ev := *e.active
		active = &ev
	}
	var goal *Goal
	if e.goal != nil {
		g := *e.goal
		goal = &g
	}
	var arcs map[string]int
	if len(e.arcs) > 0 {
		arcs = e.Arcs()
	}

	s := Snapshot{
		Version:        SnapshotVersion,
		LifeID:         e.lifeID,
		Seed:           e.lifeSeed,
		Config:         e.config,
		Character:      e.character,
		Ended:          e.ended,
		Year:           e.year,
		FailCause:      e.cause,
		Seen:           e.SeenIDs(),
		Queue:          e.queue.Items(),
		Active:         active,
		Phase:          e.phase,
		PendingActions: e.pending,
		Stats:          e.stats,
		Market:         e.market,
		Boosts:         e.boosts,
		Goal:           goal,
		Arcs:           arcs,
		Revived:        e.revived,
		Score:          e.score,
		LastBonusYear:  e.lastBonusYear,
		BondSeq:        e.bondSeq,
		Seq:            e.clock.current(),
		RNG:            rng,
	}
	out, err := cloneSnapshot(s)
	if err != nil {
		slog.Error("snapshot clone", "error", err)
		return s
	}
	return out
}

// Load replaces the current life with s. No-op while a tick is in progress.
func (e *Engine) Load(s Snapshot) error {
	if e.ticking.Load() {
		return nil
	}
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: version %d", ErrInvalidSnapshot, s.Version)
	}
	if s.Character == nil {
		return fmt.Errorf("%w: no character", ErrInvalidSnapshot)
	}
	s, err := cloneSnapshot(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(s.RNG); err != nil {
		return fmt.Errorf("%w: rng: %v", ErrInvalidSnapshot, err)
	}

	e.resetLife()
	e.pcg = pcg
	e.rng = rand.New(pcg)
	e.lifeID = s.LifeID
	e.lifeSeed = s.Seed
	e.config = s.Config
	e.character = s.Character
	e.ended = s.Ended
	e.year = s.Year
	e.cause = s.FailCause
	for _, id := range s.Seen {
		e.seen[id] = true
	}
	e.queue = event.NewQueue(s.Queue...)
	e.active = s.Active
	e.phase = s.Phase
	if e.phase == "" {
		e.phase = PhaseResolvingEvent
	}
	e.pending = s.PendingActions
	e.stats = s.Stats
	e.market = s.Market
	e.boosts = s.Boosts
	e.goal = s.Goal
	for k, v := range s.Arcs {
		e.arcs[k] = v
	}
	e.revived = s.Revived
	e.score = s.Score
	e.lastBonusYear = s.LastBonusYear
	e.bondSeq = s.BondSeq
	e.clock = &seqClock{}
	e.clock.resume(s.Seq)

	slog.Debug("life loaded", "life", e.lifeID, "year", e.year, "age", e.character.Age)
	return nil
}

// cloneSnapshot deep-copies s through its JSON form, the same form used for
// persistence.
func cloneSnapshot(s Snapshot) (Snapshot, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Snapshot{}, err
	}
	var out Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return Snapshot{}, err
	}
	return out, nil
}

// MarshalSnapshot encodes s for storage.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a stored snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return s, nil
}
