package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lifesim/internal/event"
)

// CatalogEntry is one listed event.
type CatalogEntry struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Category string   `json:"category,omitempty"`
	Title    string   `json:"title"`
	OneTime  bool     `json:"one_time,omitempty"`
	Arc      string   `json:"arc,omitempty"`
	ArcStep  int      `json:"arc_step,omitempty"`
	Choices  []string `json:"choices"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [catalog.cue]",
		Short: "List the events of a catalog",
		Long: `List every event of a CUE catalog in id order, or of the built-in
catalog when no file is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCatalog(rootOpts, path, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	return cmd
}

func runCatalog(opts *RootOptions, path string, w, errW io.Writer) error {
	f := newFormatter(opts, w, errW)

	cat, err := loadCatalog(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCatalog, "failed to load catalog", err)
	}

	entries := make([]CatalogEntry, 0, cat.Len())
	for _, ev := range cat.Events() {
		entry := CatalogEntry{
			ID:       ev.ID,
			Source:   string(ev.Source),
			Category: ev.Category,
			Title:    ev.Title,
			OneTime:  ev.OneTime,
			Arc:      ev.Arc,
			ArcStep:  ev.ArcStep,
			Choices:  make([]string, 0, len(ev.Choices)),
		}
		for _, ch := range ev.Choices {
			entry.Choices = append(entry.Choices, ch.ID)
		}
		entries = append(entries, entry)
	}

	return f.Success(entries, func(w io.Writer) {
		for _, e := range entries {
			flags := ""
			if e.OneTime {
				flags = " once"
			}
			if e.Arc != "" {
				flags += fmt.Sprintf(" arc=%s#%d", e.Arc, e.ArcStep)
			}
			fmt.Fprintf(w, "%-28s %-10s %s%s %v\n", e.ID, e.Source, e.Title, flags, e.Choices)
		}
		fmt.Fprintf(w, "%d events\n", len(entries))
	})
}

// loadCatalog compiles path, or returns the built-in catalog for "".
func loadCatalog(path string) (*event.Catalog, error) {
	if path == "" {
		return event.Default()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return event.Compile(src, path)
}
