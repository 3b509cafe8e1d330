package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/chartpath"
	"github.com/comalice/chartpath/internal/primitives"
	"github.com/comalice/chartpath/internal/production"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Version string   `json:"version,omitempty"`
	States  int      `json:"states,omitempty"`
	Owners  []string `json:"owners,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [chart]",
		Short: "Check that a chart document compiles",
		Long: `Parse, validate and compile a chart document. Every problem found is reported:
missing names, ambiguous or unknown targets, defaults outside their branch.

The document defaults to --chart.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Chart
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	if path == "" {
		_ = formatter.Error("missing_chart", "no chart document given", nil)
		return NewExitError(ExitCommandError, "no chart document given")
	}

	cfg, err := production.LoadChartFile(path)
	if errors.Is(err, os.ErrNotExist) {
		_ = formatter.Error("missing_chart", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load chart", err)
	}
	if err == nil {
		formatter.VerboseLog("parsed %s", path)
		var chart *chartpath.Chart
		chart, err = chartpath.Compile(cfg)
		if err == nil {
			result := ValidationResult{
				Valid:   true,
				Version: primitives.ComputeVersion(cfg),
				States:  chart.Len(),
			}
			for _, o := range chart.Owners() {
				result.Owners = append(result.Owners, string(o))
			}
			return formatter.Result(result, fmt.Sprintf("✓ chart valid: %d states, version %s", result.States, result.Version))
		}
	}

	problems := strings.Split(err.Error(), "\n")
	result := ValidationResult{Valid: false, Errors: problems}
	if formatter.Format == "json" {
		_ = formatter.Error("invalid_chart", "validation failed", result)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		for _, p := range problems {
			fmt.Fprintf(formatter.Writer, "  %s\n", p)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(problems)))
}
