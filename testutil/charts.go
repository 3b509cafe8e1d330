// Package testutil provides fixture charts shared by tests and benchmarks.
package testutil

import (
	"fmt"

	"github.com/comalice/chartpath/internal/primitives"
)

// Owner of the fixture charts' own definitions.
const MainOwner primitives.OwnerID = "main"

// Node ids of SampleChart.
const (
	Root primitives.NodeID = iota
	A
	B
	C
	B1
	B2
	C1
)

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// tracked adds "enter:<name>" and "exit:<name>" actions to a node.
func tracked(name string) []primitives.NodeOption {
	return []primitives.NodeOption{
		primitives.OnEntry("enter:" + name),
		primitives.OnExit("exit:" + name),
	}
}

func node(id primitives.NodeID, name string, opts ...primitives.NodeOption) *primitives.Node {
	return primitives.NewNode(id, name, MainOwner, append(tracked(name), opts...)...)
}

// SampleChart builds
//
//	Root -> A -> {B, C}
//	B -> {B1, B2}
//	C -> {C1}
//
// Every node has one enter and one exit action. Transitions:
//
//	Root: reset -> A
//	A:    go -> B2, error -> C
//	B:    next -> C1
//	B1:   go -> C
//	C1:   back -> B
func SampleChart() *primitives.Chart {
	tree := primitives.NewTree()
	must(tree.AddRoot(node(Root, "Root", primitives.AsBranch(A), primitives.On("reset", A))))
	must(tree.Add(Root, node(A, "A", primitives.AsBranch(B), primitives.On("go", B2), primitives.On("error", C))))
	must(tree.Add(A, node(B, "B", primitives.AsBranch(B1), primitives.On("next", C1))))
	must(tree.Add(A, node(C, "C", primitives.AsBranch(C1))))
	must(tree.Add(B, node(B1, "B1", primitives.On("go", C))))
	must(tree.Add(B, node(B2, "B2")))
	must(tree.Add(C, node(C1, "C1", primitives.On("back", B))))
	return primitives.NewChart(MainOwner, tree)
}

// Node ids of SubchartChart.
const (
	SubRoot primitives.NodeID = iota
	SubIdle
	SubBusy
	SubPanel
	SubPanelIdle
	SubPanelActive
	SubTwinA
	SubTwinB
)

// WidgetOwner is the owner tag of the sub-chart embedded in SubchartChart.
const WidgetOwner primitives.OwnerID = "widget"

// SubchartChart builds a chart embedding a "widget" sub-chart:
//
//	root(main) -> idle(main), busy(main), twin(main), twin(main)
//	busy -> panel(widget) -> idle(widget), active(widget)
//
// "idle" exists in both definitions, "active" only in the sub-chart and "twin" twice
// in the main definition.
func SubchartChart() *primitives.Chart {
	widget := func(id primitives.NodeID, name string, opts ...primitives.NodeOption) *primitives.Node {
		return primitives.NewNode(id, name, WidgetOwner, opts...)
	}
	tree := primitives.NewTree()
	must(tree.AddRoot(node(SubRoot, "root", primitives.AsBranch(SubIdle))))
	must(tree.Add(SubRoot, node(SubIdle, "idle", primitives.On("start", SubBusy))))
	must(tree.Add(SubRoot, node(SubBusy, "busy", primitives.AsBranch(SubPanel), primitives.On("stop", SubIdle))))
	must(tree.Add(SubBusy, widget(SubPanel, "panel", primitives.AsBranch(SubPanelIdle))))
	must(tree.Add(SubPanel, widget(SubPanelIdle, "idle", primitives.On("poke", SubPanelActive))))
	must(tree.Add(SubPanel, widget(SubPanelActive, "active", primitives.On("stop", SubPanelIdle))))
	must(tree.Add(SubRoot, node(SubTwinA, "twin")))
	must(tree.Add(SubRoot, node(SubTwinB, "twin")))
	return primitives.NewChart(MainOwner, tree)
}

// Node ids of BrokenDefaultsChart.
const (
	BadRoot primitives.NodeID = iota
	BadLoopA
	BadLoopB
	BadNoDefault
	BadDangling
	BadLeaf
)

// BrokenDefaultsChart builds a chart whose default chains violate the build-time
// invariants:
//
//	root -> loopA -> loopB, loopB defaults back to loopA
//	root -> noDefault (branch without default) -> leaf
//	root -> dangling (branch defaulting to a missing id)
func BrokenDefaultsChart() *primitives.Chart {
	tree := primitives.NewTree()
	must(tree.AddRoot(node(BadRoot, "root", primitives.AsBranch(BadLoopA))))
	must(tree.Add(BadRoot, node(BadLoopA, "loopA", primitives.AsBranch(BadLoopB))))
	must(tree.Add(BadLoopA, node(BadLoopB, "loopB", primitives.AsBranch(BadLoopA))))
	must(tree.Add(BadRoot, node(BadNoDefault, "noDefault", primitives.AsBranchWithoutDefault())))
	must(tree.Add(BadNoDefault, node(BadLeaf, "leaf")))
	must(tree.Add(BadRoot, node(BadDangling, "dangling", primitives.AsBranch(99))))
	return primitives.NewChart(MainOwner, tree)
}

// DeepChart builds a chain of depth branches ending in a leaf, each level with width-1
// extra leaf siblings. Ids are assigned depth-first. It returns the chart and the ids of
// the deepest leaf and of the last sibling at depth one.
func DeepChart(depth, width int) (chart *primitives.Chart, deepest, shallow primitives.NodeID) {
	tree := primitives.NewTree()
	next := primitives.NodeID(0)
	alloc := func() primitives.NodeID {
		id := next
		next++
		return id
	}

	rootID := alloc()
	must(tree.AddRoot(node(rootID, "n0", primitives.AsBranch(rootID+1), primitives.On("jump", rootID))))
	parent := rootID
	for level := 1; level <= depth; level++ {
		id := alloc()
		opts := []primitives.NodeOption{primitives.On(fmt.Sprintf("level.%d", level), id)}
		if level < depth {
			opts = append(opts, primitives.AsBranch(id+primitives.NodeID(width)))
		}
		must(tree.Add(parent, node(id, fmt.Sprintf("n%d", id), opts...)))
		for w := 1; w < width; w++ {
			sib := alloc()
			must(tree.Add(parent, node(sib, fmt.Sprintf("n%d", sib))))
			if level == 1 {
				shallow = sib
			}
		}
		parent = id
		deepest = id
	}
	return primitives.NewChart(MainOwner, tree), deepest, shallow
}

// Names maps nodes to their names.
func Names(nodes []*primitives.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
