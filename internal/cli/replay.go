package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	LifeID   string
	Policy   string
}

// ReplayResult is the output of the replay command.
type ReplayResult struct {
	LifeID        string    `json:"life_id"`
	Seed          uint64    `json:"seed"`
	Years         int       `json:"years"`
	Policy        string    `json:"policy"`
	StoredDigest  string    `json:"stored_digest"`
	Digests       [2]string `json:"digests"`
	Deterministic bool      `json:"deterministic"`
	Matches       bool      `json:"matches"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-simulate a stored life and verify determinism",
		Long: `Re-simulate a life recorded by "lifesim run" from its stored seed and
configuration, twice, and compare the final snapshot digests with each other
and with the latest stored snapshot.

The policy must be the one the life was run with.

Exit codes:
  0 - Both replays reproduce the stored digest
  1 - The replays disagree with each other or with the stored digest
  2 - Command error (missing database, unknown life, etc.)

Example:
  lifesim replay --db ./lives.db --life 0190...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite database")
	cmd.Flags().StringVar(&opts.LifeID, "life", "", "life id (required)")
	cmd.Flags().StringVar(&opts.Policy, "policy", string(engine.PolicyFirst), "event policy the life was run with (first|random)")
	_ = cmd.MarkFlagRequired("life")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, w, errW io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, w, errW)

	policy, err := engine.ParsePolicy(opts.Policy)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "invalid policy", err)
	}
	st, err := openExisting(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	life, err := st.GetLife(ctx, opts.LifeID)
	if errors.Is(err, store.ErrNotFound) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("life not found: %s", opts.LifeID), nil)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to load life", err)
	}
	stored, storedDigest, err := st.LatestSnapshot(ctx, opts.LifeID)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to load snapshot", err)
	}

	result := ReplayResult{
		LifeID:       life.ID,
		Seed:         life.Seed,
		Years:        stored.Year,
		Policy:       string(policy),
		StoredDigest: storedDigest,
	}
	for i := range result.Digests {
		_, snap := engine.Simulate(life.Config, result.Years, policy, engineOptions(opts.RootOptions)...)
		if result.Digests[i], err = snap.Digest(); err != nil {
			return f.Fail(ExitCommandError, ErrCodeReplay, "failed to digest replay", err)
		}
		f.VerboseLog("Replay %d: %s", i+1, result.Digests[i])
	}
	result.Deterministic = result.Digests[0] == result.Digests[1]
	result.Matches = result.Deterministic && result.Digests[0] == storedDigest

	slog.Info("replay finished", "life", life.ID, "deterministic", result.Deterministic, "matches", result.Matches)
	if err := f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Replayed %s: %d years, policy %s\n", result.LifeID, result.Years, result.Policy)
		fmt.Fprintf(w, "  stored  %s\n", result.StoredDigest)
		fmt.Fprintf(w, "  replay1 %s\n", result.Digests[0])
		fmt.Fprintf(w, "  replay2 %s\n", result.Digests[1])
		switch {
		case !result.Deterministic:
			fmt.Fprintln(w, "✗ replays disagree")
		case !result.Matches:
			fmt.Fprintln(w, "✗ replay differs from the stored life")
		default:
			fmt.Fprintln(w, "✓ deterministic")
		}
	}); err != nil {
		return err
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "non-deterministic replay")
	}
	if !result.Matches {
		return NewExitError(ExitFailure, "replay does not match stored digest")
	}
	return nil
}
