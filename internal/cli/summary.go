package cli

import (
	"fmt"
	"io"

	"github.com/roach88/lifesim/internal/engine"
)

// LifeSummary is the printable state of a life at one snapshot.
type LifeSummary struct {
	LifeID         string `json:"life_id"`
	Name           string `json:"name"`
	Seed           uint64 `json:"seed"`
	Generation     int    `json:"generation"`
	Year           int    `json:"year"`
	Age            int    `json:"age"`
	Money          int64  `json:"money"`
	NetWorth       int64  `json:"net_worth"`
	Health         int    `json:"health"`
	Happiness      int    `json:"happiness"`
	Stress         int    `json:"stress"`
	Alive          bool   `json:"alive"`
	Cause          string `json:"cause,omitempty"`
	Score          int64  `json:"score,omitempty"`
	EventsResolved int    `json:"events_resolved"`
	Seq            int64  `json:"seq"`
	Digest         string `json:"digest"`
}

func summarize(snap engine.Snapshot, digest string) LifeSummary {
	s := LifeSummary{
		LifeID:         snap.LifeID,
		Seed:           snap.Seed,
		Year:           snap.Year,
		Alive:          !snap.Ended,
		Cause:          string(snap.FailCause),
		Score:          snap.Score,
		EventsResolved: snap.Stats.EventsResolved,
		Seq:            snap.Seq,
		Digest:         digest,
	}
	if c := snap.Character; c != nil {
		s.Name = c.Name
		s.Generation = c.Generation
		s.Age = c.Age
		s.Money = c.Money
		s.NetWorth = c.NetWorth()
		s.Health = c.Health
		s.Happiness = c.Happiness
		s.Stress = c.Stress
	}
	return s
}

func (s LifeSummary) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s (%s), generation %d\n", s.Name, s.LifeID, s.Generation)
	fmt.Fprintf(w, "  year %d, age %d\n", s.Year, s.Age)
	fmt.Fprintf(w, "  money %d, net worth %d\n", s.Money, s.NetWorth)
	fmt.Fprintf(w, "  health %d, happiness %d, stress %d\n", s.Health, s.Happiness, s.Stress)
	if s.Alive {
		fmt.Fprintln(w, "  alive")
	} else {
		fmt.Fprintf(w, "  died: %s (score %d)\n", s.Cause, s.Score)
	}
	fmt.Fprintf(w, "  seed %d, digest %s\n", s.Seed, s.Digest)
}
