package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	LifeID   string
	History  string // record kind to list, "all" for every kind
}

// ShowResult is the output of the show command.
type ShowResult struct {
	Lives   []LifeSummary   `json:"lives"`
	History []engine.Record `json:"history,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the latest snapshot of stored lives",
		Long: `Print the latest snapshot summary of one life, or of every stored life.

Snapshots are digest-checked on load. With --history, the life's telemetry
records of that kind are listed too ("all" lists every kind).

Example:
  lifesim show --db ./lives.db
  lifesim show --db ./lives.db --life 0190... --history milestone`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite database")
	cmd.Flags().StringVar(&opts.LifeID, "life", "", "life id (default: every life)")
	cmd.Flags().StringVar(&opts.History, "history", "", "list history records of this kind (requires --life)")

	return cmd
}

func runShow(ctx context.Context, opts *ShowOptions, w, errW io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, w, errW)

	if opts.History != "" && opts.LifeID == "" {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "--history requires --life", nil)
	}
	st, err := openExisting(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	ids := []string{opts.LifeID}
	if opts.LifeID == "" {
		lives, err := st.ListLives(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to list lives", err)
		}
		ids = ids[:0]
		for _, l := range lives {
			ids = append(ids, l.ID)
		}
	}

	result := ShowResult{Lives: []LifeSummary{}}
	for _, id := range ids {
		snap, digest, err := st.LatestSnapshot(ctx, id)
		if errors.Is(err, store.ErrNotFound) && opts.LifeID == "" {
			f.VerboseLog("Skipping %s: no snapshot", id)
			continue
		}
		if errors.Is(err, store.ErrNotFound) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no snapshot for life %s", id), nil)
		}
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to load snapshot", err)
		}
		result.Lives = append(result.Lives, summarize(snap, digest))
	}

	if opts.History != "" {
		kind := engine.RecordKind(opts.History)
		if opts.History == "all" {
			kind = ""
		}
		if result.History, err = st.History(ctx, opts.LifeID, kind); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
		}
	}

	return f.Success(result, func(w io.Writer) {
		if len(result.Lives) == 0 {
			fmt.Fprintln(w, "No lives found.")
			return
		}
		for _, s := range result.Lives {
			s.writeText(w)
		}
		for _, rec := range result.History {
			fmt.Fprintf(w, "  #%d year %d %s %v\n", rec.Seq, rec.Year, rec.Kind, rec.Detail)
		}
	})
}

// openExisting opens a database that must already exist; store.Open would
// silently create an empty one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	return store.Open(path)
}
