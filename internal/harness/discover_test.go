package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b_school.yaml"))
	touch(t, filepath.Join(dir, "a_birth.yml"))
	touch(t, filepath.Join(dir, "nested", "c_school.yaml"))
	touch(t, filepath.Join(dir, "b_school.golden.json"))
	touch(t, filepath.Join(dir, "events.cue"))

	t.Run("all", func(t *testing.T) {
		paths, err := Discover(dir, "")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a_birth.yml"),
			filepath.Join(dir, "b_school.yaml"),
			filepath.Join(dir, "nested", "c_school.yaml"),
		}, paths)
	})

	t.Run("filter", func(t *testing.T) {
		paths, err := Discover(dir, "*_school")
		require.NoError(t, err)
		assert.Len(t, paths, 2)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := Discover(dir, "zzz*")
		var nse *NoScenariosError
		require.ErrorAs(t, err, &nse)
		assert.Equal(t, "zzz*", nse.Filter)
		assert.Contains(t, err.Error(), "no scenarios matching")
	})

	t.Run("bad filter", func(t *testing.T) {
		_, err := Discover(dir, "[")
		assert.ErrorContains(t, err, "invalid filter")
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := Discover(filepath.Join(dir, "nope"), "")
		assert.Error(t, err)
	})
}
