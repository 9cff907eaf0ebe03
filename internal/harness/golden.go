package harness

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// ErrGoldenMismatch is returned by CheckGolden when a trace differs from its
// golden file.
var ErrGoldenMismatch = errors.New("trace differs from golden file")

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Digest       string       `json:"digest"`
	Trace        []TraceEvent `json:"trace"`
}

// MarshalTrace renders the golden form of result: indented JSON with a
// trailing newline.
func MarshalTrace(scenarioName string, result *Result) ([]byte, error) {
	snap := TraceSnapshot{
		ScenarioName: scenarioName,
		Digest:       result.Digest,
		Trace:        result.Trace,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden. opts are applied
// after the defaults.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...goldie.Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	data, err := MarshalTrace(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t, append([]goldie.Option{
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	}, opts...)...)
	g.Assert(t, scenario.Name, data)
	return result, nil
}

// GoldenPath is the golden file kept next to a scenario file:
// "life.yaml" pairs with "life.golden.json".
func GoldenPath(scenarioPath string) string {
	return strings.TrimSuffix(scenarioPath, filepath.Ext(scenarioPath)) + ".golden.json"
}

// CheckGolden compares data with the golden file of scenarioPath. With
// update, the golden file is (re)written instead. Reports whether a
// comparison or write happened; a missing golden file without update is
// not an error.
func CheckGolden(scenarioPath string, data []byte, update bool) (bool, error) {
	path := GoldenPath(scenarioPath)
	if update {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return false, fmt.Errorf("write golden: %w", err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read golden: %w", err)
	}
	if !bytes.Equal(want, data) {
		return true, fmt.Errorf("%s: %w", path, ErrGoldenMismatch)
	}
	return true, nil
}
