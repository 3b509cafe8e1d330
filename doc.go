// Package chartpath resolves transitions over an immutable statechart tree.
//
// A chart is compiled from a document (YAML or JSON, see LoadFile) or assembled with a
// Builder. Once compiled it never changes, and every resolver operation is a pure
// function of the chart and its arguments:
//
//	chart, _ := chartpath.LoadFile("door.yaml")
//	plan, _ := chartpath.Plan(chart, current, chartpath.NewEvent("open", nil))
//	for _, step := range plan.Actions {
//		run(step.Action)
//	}
//
// Execution engines hold the current node id and advance it from the answers.
package chartpath
