// Package benchmarks provides shared helpers for resolver benchmarks.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/chartpath"
	"github.com/comalice/chartpath/internal/primitives"
)

// GenFlatConfig creates a chart with n leaf states under the root cycling via "tick".
func GenFlatConfig(n int) *primitives.ChartConfig {
	if n < 1 {
		n = 1
	}
	root := primitives.NewStateConfig("flat")
	for i := 0; i < n; i++ {
		s := primitives.NewStateConfig(fmt.Sprintf("s%d", i))
		s.AddTransition("tick", fmt.Sprintf("s%d", (i+1)%n))
		root.AddChild(s)
	}
	return &primitives.ChartConfig{Owner: fmt.Sprintf("flat_%d", n), Root: root}
}

// GenDeepConfig creates a hierarchy depth levels deep. Every level holds a branch
// c<i> plus two leaves flipping on "tick"; the root handles "reset".
func GenDeepConfig(depth int) *primitives.ChartConfig {
	if depth < 1 {
		depth = 1
	}
	root := primitives.NewStateConfig("c0").AddTransition("reset", "c0")
	parent := root
	for i := 1; i <= depth; i++ {
		a := primitives.NewStateConfig(fmt.Sprintf("a%d", i)).
			AddEntry(fmt.Sprintf("enter_a%d", i)).
			AddExit(fmt.Sprintf("exit_a%d", i)).
			AddTransition("tick", fmt.Sprintf("b%d", i))
		b := primitives.NewStateConfig(fmt.Sprintf("b%d", i)).
			AddTransition("tick", fmt.Sprintf("a%d", i))
		parent.AddChild(a, b)
		if i < depth {
			next := primitives.NewStateConfig(fmt.Sprintf("c%d", i)).
				AddEntry(fmt.Sprintf("enter_c%d", i)).
				AddExit(fmt.Sprintf("exit_c%d", i))
			parent.AddChild(next)
			parent = next
		}
	}
	return &primitives.ChartConfig{Owner: fmt.Sprintf("deep_%d", depth), Root: root}
}

// GenWideTransitions creates one state with numTransitions transitions on distinct
// events followed by the glob "t?ck", so resolving "tick" scans the whole list.
func GenWideTransitions(numTransitions int) *primitives.ChartConfig {
	if numTransitions < 1 {
		numTransitions = 1
	}
	main := primitives.NewStateConfig("main")
	root := primitives.NewStateConfig("wide").AddChild(main)
	for i := 0; i < numTransitions; i++ {
		target := fmt.Sprintf("target%d", i)
		main.AddTransition(fmt.Sprintf("event.%d", i), target)
		root.AddChild(primitives.NewStateConfig(target).AddTransition("back", "main"))
	}
	main.AddTransition("t?ck", "main")
	return &primitives.ChartConfig{Owner: fmt.Sprintf("wide_%d", numTransitions), Root: root}
}

// MustCompile compiles cfg or panics.
func MustCompile(cfg *primitives.ChartConfig) *chartpath.Chart {
	return chartpath.MustCompile(cfg)
}

// MustID looks a state name up in chart or panics.
func MustID(chart *chartpath.Chart, name string) chartpath.NodeID {
	id, err := chartpath.ResolveStateReference(chart, chartpath.ByName(name))
	if err != nil {
		panic(err)
	}
	return id
}

// GenChartYAML renders a flat chart of n states as a YAML document.
func GenChartYAML(n int) []byte {
	data, err := yaml.Marshal(GenFlatConfig(n))
	if err != nil {
		panic(err)
	}
	return data
}
