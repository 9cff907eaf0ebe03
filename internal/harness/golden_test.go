package harness

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalTrace(t *testing.T) {
	result := NewResult()
	result.Digest = "abc"
	result.Trace = []TraceEvent{{Step: 0, Op: OpAdvance, Arg: "1", Year: 1, Age: 31}}

	data, err := MarshalTrace("demo", result)
	require.NoError(t, err)

	assert.Equal(t, byte('\n'), data[len(data)-1])
	var snap TraceSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "demo", snap.ScenarioName)
	assert.Equal(t, "abc", snap.Digest)
	assert.Equal(t, result.Trace, snap.Trace)
}

func TestGoldenPath(t *testing.T) {
	assert.Equal(t, "dir/life.golden.json", GoldenPath("dir/life.yaml"))
	assert.Equal(t, "life.golden.json", GoldenPath("life.yml"))
}

func TestCheckGolden(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "life.yaml")

	checked, err := CheckGolden(scenario, []byte("one\n"), false)
	require.NoError(t, err)
	assert.False(t, checked, "a missing golden file is skipped")

	checked, err = CheckGolden(scenario, []byte("one\n"), true)
	require.NoError(t, err)
	assert.True(t, checked)
	got, err := os.ReadFile(filepath.Join(dir, "life.golden.json"))
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(got))

	checked, err = CheckGolden(scenario, []byte("one\n"), false)
	require.NoError(t, err)
	assert.True(t, checked)

	checked, err = CheckGolden(scenario, []byte("two\n"), false)
	assert.True(t, checked)
	assert.ErrorIs(t, err, ErrGoldenMismatch)
}

func TestRunWithGolden(t *testing.T) {
	s, err := LoadScenario("../../testdata/scenarios/bankruptcy_revive.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	data, err := MarshalTrace(s.Name, first)
	require.NoError(t, err)

	dir := t.TempDir()
	g := goldie.New(t, goldie.WithFixtureDir(dir), goldie.WithNameSuffix(".golden"))
	require.NoError(t, g.Update(t, s.Name, data))

	result, err := RunWithGolden(t, s, goldie.WithFixtureDir(dir))
	require.NoError(t, err)
	assert.Equal(t, first.Digest, result.Digest)
}
