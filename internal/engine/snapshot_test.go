package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_LoadRoundTrip(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 16})
	NewAutopilot(PolicyFirst, 1).Run(e, 10)
	s1 := e.Snapshot()

	e2 := New()
	require.NoError(t, e2.Load(s1))

	assert.Equal(t, s1, e2.Snapshot())
	assert.Equal(t, e.Character(), e2.Character())
	assert.Equal(t, e.QueuedIDs(), e2.QueuedIDs())
	assert.Equal(t, e.SeenIDs(), e2.SeenIDs())
}

func TestSnapshot_IsACopy(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 20})
	s := e.Snapshot()

	e.Character().Money = 999

	assert.Zero(t, s.Character.Money)
}

func TestSnapshot_LoadedLifeContinuesIdentically(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 10})
	NewAutopilot(PolicyFirst, 1).Run(e, 8)

	e2 := New()
	require.NoError(t, e2.Load(e.Snapshot()))

	NewAutopilot(PolicyFirst, 1).Run(e, 15)
	NewAutopilot(PolicyFirst, 1).Run(e2, 15)

	d1, err := e.Snapshot().Digest()
	require.NoError(t, err)
	d2, err := e2.Snapshot().Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestSimulate_Deterministic(t *testing.T) {
	cfg := LifeConfig{Name: "Ada", Seed: 7, LifeID: "life-7"}

	_, s1 := Simulate(cfg, 40, PolicyRandom)
	_, s2 := Simulate(cfg, 40, PolicyRandom)
	d1, err := s1.Digest()
	require.NoError(t, err)
	d2, err := s2.Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	cfg.Seed = 8
	_, s3 := Simulate(cfg, 40, PolicyRandom)
	d3, err := s3.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestMarshalSnapshot_RoundTrip(t *testing.T) {
	e := newLife(t, LifeConfig{Name: "Ada", Age: 30})
	e.AdvanceYear()
	s := e.Snapshot()

	data, err := MarshalSnapshot(s)
	require.NoError(t, err)
	got, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoad_Invalid(t *testing.T) {
	valid := newLife(t, LifeConfig{Name: "Ada"}).Snapshot()

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"version", func(s *Snapshot) { s.Version = SnapshotVersion + 1 }},
		{"character", func(s *Snapshot) { s.Character = nil }},
		{"rng", func(s *Snapshot) { s.RNG = []byte("garbage") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			e := newLife(t, LifeConfig{Name: "Bo", Age: 20})

			err := e.Load(s)

			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.Equal(t, "Bo", e.Character().Name, "failed load leaves the life untouched")
		})
	}
}

func TestUnmarshalSnapshot_Garbage(t *testing.T) {
	_, err := UnmarshalSnapshot([]byte("{"))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}
