package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	opts := &ServeOptions{
		RootOptions: textRoot(),
		Addr:        "127.0.0.1:0",
		Database:    filepath.Join(t.TempDir(), "lives.db"),
		Seed:        1,
	}
	require.NoError(t, runServe(ctx, opts, &bytes.Buffer{}, &bytes.Buffer{}))
}

func TestServe_BadAddress(t *testing.T) {
	opts := &ServeOptions{
		RootOptions: textRoot(),
		Addr:        "127.0.0.1:99999",
		Database:    filepath.Join(t.TempDir(), "lives.db"),
	}
	err := runServe(context.Background(), opts, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "server failed")
}
