package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Seed     uint64
	Years    int
	Policy   string
	Name     string
	Age      int
	Money    int64

	// IDGenerator overrides the life id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.IDGenerator
}

// RunResult is the output of the run command.
type RunResult struct {
	LifeSummary
	Turns     int `json:"turns"`
	Snapshots int `json:"snapshots"`
	History   int `json:"history"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a life headlessly",
		Long: `Simulate a life without a presentation layer.

Events are answered by the policy (first or random choice), free actions are
chosen from the character's circumstances, and the life is played for up to
--years turns or until it ends. A snapshot is saved after every turn and
every telemetry record is appended to the history.

Example:
  lifesim run --seed 42 --years 80
  lifesim run --db ./lives.db --policy random --name Kim --age 18`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLife(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite database")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", rootOpts.Config.Seed, "random seed (0 draws one)")
	cmd.Flags().IntVar(&opts.Years, "years", 100, "maximum turns to play")
	cmd.Flags().StringVar(&opts.Policy, "policy", string(engine.PolicyFirst), "event policy (first|random)")
	cmd.Flags().StringVar(&opts.Name, "name", "Alex", "character name")
	cmd.Flags().IntVar(&opts.Age, "age", 0, "starting age")
	cmd.Flags().Int64Var(&opts.Money, "money", 0, "starting money")

	return cmd
}

func runLife(ctx context.Context, opts *RunOptions, w, errW io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, w, errW)

	policy, err := engine.ParsePolicy(opts.Policy)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "invalid policy", err)
	}
	if opts.Years < 0 {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("--years must not be negative, got %d", opts.Years), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	rec := store.NewRecorder(ctx, st)
	engineOpts := append(engineOptions(opts.RootOptions), engine.WithTelemetry(rec))
	if opts.IDGenerator != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(opts.IDGenerator))
	}
	e := engine.New(engineOpts...)
	e.StartNewLife(engine.LifeConfig{Name: opts.Name, Age: opts.Age, Money: opts.Money, Seed: opts.Seed})
	f.VerboseLog("Started %s (seed %d)", e.LifeID(), e.Seed())

	save := func() (string, error) {
		return st.SaveSnapshot(ctx, e.Snapshot())
	}

	ap := engine.NewAutopilot(policy, e.Seed())
	result := RunResult{}
	for result.Turns < opts.Years && !e.Ended() {
		ap.Turn(e)
		result.Turns++
		if _, err := save(); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to save snapshot", err)
		}
		for _, stepErr := range e.StepErrors() {
			slog.Debug("step error", "year", e.Year(), "error", stepErr)
		}
	}
	ap.ResolveAll(e)
	digest, err := save()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to save snapshot", err)
	}
	infos, err := st.ListSnapshots(ctx, e.LifeID())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to list snapshots", err)
	}
	result.Snapshots = len(infos)
	if err := rec.Err(); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to record history", err)
	}
	result.History = rec.Written()
	result.LifeSummary = summarize(e.Snapshot(), digest)

	slog.Info("life simulated", "life", e.LifeID(), "turns", result.Turns, "ended", e.Ended())
	return f.Success(result, func(w io.Writer) {
		result.writeText(w)
		fmt.Fprintf(w, "  %d turns, %d snapshots, %d history records in %s\n",
			result.Turns, result.Snapshots, result.History, opts.Database)
	})
}
