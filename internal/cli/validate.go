package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lifesim/internal/event"
)

// ValidationError is one catalog problem with its source position.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Events int               `json:"events,omitempty"`
	Arcs   int               `json:"arcs,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog.cue>",
		Short: "Validate an event catalog",
		Long: `Compile a CUE event catalog against the catalog schema.

Reports the first problem with its file position: schema violations, unknown
effect or memory keys, and empty catalogs. A valid catalog can be used by
harness scenarios (catalog: path).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, w, errW io.Writer) error {
	f := newFormatter(opts, w, errW)

	src, err := os.ReadFile(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("catalog not found: %s", path), nil)
	}
	f.VerboseLog("Compiling %s (%d bytes)", path, len(src))

	cat, err := event.Compile(src, path)
	if err != nil {
		verr := toValidationError(err)
		result := ValidationResult{Errors: []ValidationError{verr}}
		if f.JSON() {
			_ = f.Error(ErrCodeCatalog, "catalog invalid", result)
		} else {
			fmt.Fprintf(w, "✗ %s\n", path)
			fmt.Fprintf(w, "  %s\n", err)
		}
		return WrapExitError(ExitCommandError, "catalog invalid", err)
	}

	result := ValidationResult{Valid: true, Events: cat.Len(), Arcs: len(cat.Arcs())}
	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s: %d events, %d arcs\n", path, result.Events, result.Arcs)
	})
}

func toValidationError(err error) ValidationError {
	var cerr *event.CompileError
	if !errors.As(err, &cerr) {
		return ValidationError{Field: "catalog", Message: err.Error()}
	}
	v := ValidationError{Field: cerr.Field, Message: cerr.Message}
	if cerr.Pos.IsValid() {
		v.File = cerr.Pos.Filename()
		v.Line = cerr.Pos.Line()
		v.Column = cerr.Pos.Column()
	}
	return v
}
