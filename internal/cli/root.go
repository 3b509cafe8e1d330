// Package cli implements the chartpath command line.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/comalice/chartpath"
	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Chart   string // chart document path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the chartpath CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "chartpath",
		Short: "chartpath - statechart transition resolver",
		Long: `Resolve transitions over a statechart document: exit/enter action sequences,
event resolution, default leaves and state references.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Chart, "chart", "c", "", "chart document (YAML or JSON)")

	cmd.AddCommand(NewPathCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewLeafCommand(opts))
	cmd.AddCommand(NewRefCommand(opts))
	cmd.AddCommand(NewDescendantCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewDotCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level)
}

// session is a loaded chart plus the resolver and formatter a query command uses.
type session struct {
	chart     *chartpath.Chart
	resolver  *core.Resolver
	formatter *OutputFormatter
}

func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := newFormatter(opts, cmd)
	if opts.Chart == "" {
		_ = formatter.Error("missing_chart", "--chart is required", nil)
		return nil, NewExitError(ExitCommandError, "--chart is required")
	}
	chart, err := chartpath.LoadFile(opts.Chart)
	if err != nil {
		_ = formatter.Error("invalid_chart", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "load chart", err)
	}
	formatter.VerboseLog("loaded %s: %d states", opts.Chart, chart.Len())
	return &session{
		chart:     chart,
		resolver:  core.NewResolver(chart, core.WithLogger(newLogger(opts, cmd))),
		formatter: formatter,
	}, nil
}

// fail reports a resolver error and turns it into exit code 1.
func (s *session) fail(err error) error {
	_ = s.formatter.Error(core.Kind(err), err.Error(), nil)
	return WrapExitError(ExitFailure, "query failed", err)
}

// lookup resolves a command-line reference ("#3" or a name).
func (s *session) lookup(raw string, opts ...core.RefOption) (*chartpath.Node, error) {
	ref, err := core.ParseReference(raw)
	if err != nil {
		_ = s.formatter.Error("bad_reference", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "bad reference", err)
	}
	id, err := s.resolver.ResolveStateReference(ref, opts...)
	if err != nil {
		return nil, s.fail(err)
	}
	n, _ := s.chart.Node(id)
	return n, nil
}
