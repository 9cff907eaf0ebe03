package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalog = `
event: {
	hello: {
		title:       "Hello"
		description: "A greeting."
		category:    "misc"
		source:      "pool"
		choices: [{id: "wave", label: "Wave", effects: {"happiness": 1}}]
	}
}
`

func writeCatalog(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestValidate_Valid(t *testing.T) {
	path := writeCatalog(t, validCatalog)

	buf := &bytes.Buffer{}
	require.NoError(t, runValidate(textRoot(), path, buf, &bytes.Buffer{}))
	assert.Contains(t, buf.String(), "✓")
	assert.Contains(t, buf.String(), "1 events, 0 arcs")

	buf.Reset()
	require.NoError(t, runValidate(jsonRoot(), path, buf, &bytes.Buffer{}))
	var result ValidationResult
	decodeData(t, buf, &result)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Events)
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing title", `event: {x: {description: "d", category: "c", source: "pool", choices: [{id: "a", label: "A"}]}}`},
		{"unknown effect", `event: {x: {title: "X", description: "d", category: "c", source: "pool", choices: [{id: "a", label: "A", effects: {"luck": 1}}]}}`},
		{"empty", `other: 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalog(t, tt.src)
			buf := &bytes.Buffer{}
			err := runValidate(jsonRoot(), path, buf, &bytes.Buffer{})
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeCatalog, resp.Error.Code)
		})
	}
}

func TestValidate_MissingFile(t *testing.T) {
	err := runValidate(textRoot(), filepath.Join(t.TempDir(), "nope.cue"), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "catalog not found")
}

func TestCatalog_BuiltIn(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, runCatalog(jsonRoot(), "", buf, &bytes.Buffer{}))

	var entries []CatalogEntry
	decodeData(t, buf, &entries)
	require.NotEmpty(t, entries)

	byID := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	school, ok := byID["first_day_of_school"]
	require.True(t, ok)
	assert.Equal(t, "scripted", school.Source)
	assert.True(t, school.OneTime)
	assert.Equal(t, []string{"make_friends", "stay_quiet"}, school.Choices)
}

func TestCatalog_File(t *testing.T) {
	path := writeCatalog(t, validCatalog)
	buf := &bytes.Buffer{}
	require.NoError(t, runCatalog(textRoot(), path, buf, &bytes.Buffer{}))
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "[wave]")
	assert.Contains(t, buf.String(), "1 events")

	err := runCatalog(textRoot(), writeCatalog(t, "other: 1"), &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
