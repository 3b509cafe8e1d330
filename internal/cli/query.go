package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
	"github.com/comalice/chartpath/internal/server"
)

func formatNodes(nodes []*primitives.Node) string {
	if len(nodes) == 0 {
		return "-"
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

func formatActions(b *strings.Builder, chart *primitives.Chart, steps []core.ActionStep) {
	b.WriteString("actions:")
	if len(steps) == 0 {
		b.WriteString(" -")
	}
	for _, s := range steps {
		label := s.Node.String()
		if n, ok := chart.Node(s.Node); ok {
			label = n.String()
		}
		fmt.Fprintf(b, "\n  %-5s %s %v", s.Direction, label, s.Action)
	}
}

func formatPath(chart *primitives.Chart, p *core.Path) string {
	var b strings.Builder
	fmt.Fprintf(&b, "lca: %s\nexit: %s\nenter: %s\n", p.LCA, formatNodes(p.Exit), formatNodes(p.Enter))
	formatActions(&b, chart, p.Actions())
	return b.String()
}

func formatTransition(chart *primitives.Chart, t *core.ResolvedTransition) string {
	src, _ := chart.Node(t.Source)
	dst, _ := chart.Node(t.Target)
	return fmt.Sprintf("%s --%s--> %s", src, t.Event, dst)
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Compute the exit/enter sequence between two states",
		Long: `Compute the lowest common ancestor of two states, the states exited (innermost
first) and entered (outermost first), and the resulting action sequence.

States are given by name or as #id.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			from, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			to, err := s.lookup(args[1])
			if err != nil {
				return err
			}
			p, err := s.resolver.TransitionPath(from.ID, to.ID)
			if err != nil {
				return s.fail(err)
			}
			return s.formatter.Result(server.NewPathResponse(p), formatPath(s.chart, p))
		},
	}
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var family bool
	cmd := &cobra.Command{
		Use:           "resolve <state> <event>",
		Short:         "Find the transition an event triggers in a state",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			n, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			evt := primitives.NewEvent(args[1], nil)
			var t *core.ResolvedTransition
			if family {
				t, err = s.resolver.ResolveEventInFamilyTree(n.ID, evt)
			} else {
				t, err = s.resolver.ResolveEvent(n.ID, evt)
			}
			if err != nil {
				return s.fail(err)
			}
			return s.formatter.Result(server.NewTransitionResponse(s.chart, t), formatTransition(s.chart, t))
		},
	}
	cmd.Flags().BoolVar(&family, "family", false, "search the ancestor chain instead of the root path")
	return cmd
}

// NewLeafCommand creates the leaf command.
func NewLeafCommand(rootOpts *RootOptions) *cobra.Command {
	var subcharts bool
	cmd := &cobra.Command{
		Use:           "leaf <state>",
		Short:         "Resolve a state to the leaf entered by default",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			n, err := s.lookup(args[0], core.WithSearchSubcharts(subcharts))
			if err != nil {
				return err
			}
			leaf, err := s.resolver.ResolveDefaultLeaf(n)
			if err != nil {
				return s.fail(err)
			}
			return s.formatter.Result(server.NewNodeView(leaf), leaf.String())
		},
	}
	cmd.Flags().BoolVar(&subcharts, "subcharts", false, "also match names declared by embedded sub-charts")
	return cmd
}

// NewRefCommand creates the ref command.
func NewRefCommand(rootOpts *RootOptions) *cobra.Command {
	var subcharts bool
	cmd := &cobra.Command{
		Use:           "ref <state>",
		Short:         "Resolve a name or #id to a state",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			n, err := s.lookup(args[0], core.WithSearchSubcharts(subcharts))
			if err != nil {
				return err
			}
			return s.formatter.Result(server.NewNodeView(n), fmt.Sprintf("%s %s owner=%s", n, n.Kind, n.Owner))
		},
	}
	cmd.Flags().BoolVar(&subcharts, "subcharts", false, "also match names declared by embedded sub-charts")
	return cmd
}

// NewDescendantCommand creates the descendant command.
func NewDescendantCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "descendant <origin> <target>",
		Short:         "Check that target lies strictly below origin",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			origin, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			target, err := s.lookup(args[1])
			if err != nil {
				return err
			}
			if err := s.resolver.ValidateDescendant(origin.ID, target.ID); err != nil {
				return s.fail(err)
			}
			data := map[string]server.NodeView{
				"origin": server.NewNodeView(origin),
				"target": server.NewNodeView(target),
			}
			return s.formatter.Result(data, fmt.Sprintf("%s is below %s", target, origin))
		},
	}
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <state> <event>",
		Short: "Plan one event step from a state",
		Long: `Resolve the event, descend from its target to the default leaf and compute the
action sequence from the given state to that leaf.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			n, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			p, err := s.resolver.Plan(n.ID, primitives.NewEvent(args[1], nil))
			if err != nil {
				return s.fail(err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "transition: %s\nleaf: %s\n", formatTransition(s.chart, &p.Transition), p.Leaf)
			formatActions(&b, s.chart, p.Actions)
			return s.formatter.Result(server.NewPlanResponse(s.chart, p), b.String())
		},
	}
}
