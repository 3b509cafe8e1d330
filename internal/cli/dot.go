package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/production"
)

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Render the chart as Graphviz DOT",
		Long: `Render the chart as Graphviz DOT. With --from and --to the transition path
between the two states is highlighted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}

			var overlay *core.Path
			if from != "" || to != "" {
				if from == "" || to == "" {
					_ = s.formatter.Error("bad_arguments", "--from and --to go together", nil)
					return NewExitError(ExitCommandError, "--from and --to go together")
				}
				origin, err := s.lookup(from)
				if err != nil {
					return err
				}
				dest, err := s.lookup(to)
				if err != nil {
					return err
				}
				overlay, err = s.resolver.TransitionPath(origin.ID, dest.ID)
				if err != nil {
					return s.fail(err)
				}
			}

			vis := &production.DefaultVisualizer{}
			dot := vis.ExportDOT(s.chart, overlay)
			return s.formatter.Result(map[string]string{"dot": dot}, strings.TrimSuffix(dot, "\n"))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "highlight the path from this state")
	cmd.Flags().StringVar(&to, "to", "", "highlight the path to this state")
	return cmd
}
