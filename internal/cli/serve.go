package cli

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/lifesim/internal/engine"
	"github.com/roach88/lifesim/internal/server"
	"github.com/roach88/lifesim/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	Database string
	Seed     uint64
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a life over WebSocket",
		Long: `Serve one engine over WebSocket at ws://<addr>/ws.

Clients send JSON commands ({"type": "new_life" | "begin_actions" |
"set_actions" | "commit" | "advance" | "resolve" | "revive" | "legacy" |
"snapshot"}); after each command the resulting state is broadcast to every
connected client. Snapshots and history are saved to the database.

Stops on SIGINT or SIGTERM.

Example:
  lifesim serve --addr 127.0.0.1:8080 --db ./lives.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", rootOpts.Config.Addr, "listen address")
	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite database")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", rootOpts.Config.Seed, "seed for lives started without one (0 draws one)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, w, errW io.Writer) error {
	f := newFormatter(opts.RootOptions, w, errW)

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	e := engine.New(append(engineOptions(opts.RootOptions),
		engine.WithSeed(opts.Seed),
		engine.WithTelemetry(store.NewRecorder(ctx, st)),
	)...)
	srv := server.New(e, server.WithStore(st))
	if err := srv.ListenAndServe(ctx, opts.Addr); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "server failed", err)
	}
	return nil
}
