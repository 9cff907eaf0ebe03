package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
name: minimal
description: "one year"
seed: 1
character:
  name: Ada
  age: 30
steps:
  - advance: 1
assertions:
  - type: age
    value: 31
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, uint64(1), s.Seed)
	assert.Equal(t, "scenario-minimal", s.LifeID)
	assert.Equal(t, 30, s.Character.Age)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, OpAdvance, s.Steps[0].Op())
	assert.Equal(t, 31, s.Assertions[0].Value)
}

func TestParseScenario_CharacterOverrides(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: overrides
description: "vitals"
seed: 3
character:
  name: Ada
  health: 40
  skills: {sports: 75}
steps:
  - resolve: first
assertions:
  - type: alive
    value: true
`))
	require.NoError(t, err)
	require.NotNil(t, s.Character.Health)
	assert.Equal(t, 40, *s.Character.Health)
	assert.Nil(t, s.Character.Stress)
	assert.Equal(t, map[string]int{"sports": 75}, s.Character.Skills)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: d\nseed: 1\nsteps: [{advance: 1}]\nassertions: [{type: alive, value: true}]",
			want: "name is required",
		},
		{
			name: "zero seed",
			yaml: "name: n\ndescription: d\nsteps: [{advance: 1}]\nassertions: [{type: alive, value: true}]",
			want: "seed is required",
		},
		{
			name: "no steps",
			yaml: "name: n\ndescription: d\nseed: 1\nassertions: [{type: alive, value: true}]",
			want: "steps list is required",
		},
		{
			name: "two ops in one step",
			yaml: "name: n\ndescription: d\nseed: 1\nsteps: [{advance: 1, revive: true}]\nassertions: [{type: alive, value: true}]",
			want: "steps[0]: exactly one of",
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\nseed: 1\nsteps: [{advance: 1}]\nassertions: [{type: wealthy, value: true}]",
			want: `unknown assertion type "wealthy"`,
		},
		{
			name: "wrong value type",
			yaml: "name: n\ndescription: d\nseed: 1\nsteps: [{advance: 1}]\nassertions: [{type: age, value: old}]",
			want: "age needs an integer value",
		},
		{
			name: "unknown director",
			yaml: "name: n\ndescription: d\nseed: 1\ndirector: chaos\nsteps: [{advance: 1}]\nassertions: [{type: alive, value: true}]",
			want: `unknown director "chaos"`,
		},
		{
			name: "typo field",
			yaml: "name: n\ndescription: d\nseed: 1\nstep: [{advance: 1}]\nassertions: [{type: alive, value: true}]",
			want: "failed to parse YAML",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStep_Op(t *testing.T) {
	assert.Equal(t, OpActions, Step{Actions: []string{"study"}}.Op())
	assert.Equal(t, OpResolve, Step{Resolve: "first"}.Op())
	assert.Equal(t, OpRevive, Step{Revive: true}.Op())
	assert.Equal(t, OpLegacy, Step{Legacy: true}.Op())
	assert.Equal(t, OpAutoplay, Step{Autoplay: 5}.Op())
	assert.Equal(t, "", Step{}.Op())
}

func TestLoadScenario_ResolvesCatalogPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.cue"), []byte("event: {}\n"), 0o644))
	body := minimalYAML + "catalog: events.cue\n"
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "events.cue"), s.Catalog)
}

func TestLoadScenario_MissingCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML+"catalog: nope.cue\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog file not found")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
