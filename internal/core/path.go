package core

import (
	"fmt"

	"github.com/comalice/chartpath/internal/primitives"
)

// Path is the decomposition of a transition around its lowest common ancestor.
type Path struct {
	LCA   *primitives.Node
	Exit  []*primitives.Node // innermost first
	Enter []*primitives.Node // outermost first
}

// ActionStep is a single action to run, tagged with the node and direction it came from.
type ActionStep struct {
	Node      primitives.NodeID    `json:"node"`
	Direction primitives.Direction `json:"direction"`
	Action    primitives.ActionRef `json:"action"`
}

// TransitionPath computes the exit and enter sets for a transition from origin to
// destination.
//
// Both root paths are walked by common index while the element one ahead still matches,
// so the walk stops on the last common ancestor without a separate bounds check.
func TransitionPath(chart Chart, origin, destination primitives.NodeID) (*Path, error) {
	from, ok := chart.PathToRoot(origin)
	if !ok || len(from) == 0 {
		return nil, fmt.Errorf("origin %s: %w", origin, ErrUnknownNode)
	}
	to, ok := chart.PathToRoot(destination)
	if !ok || len(to) == 0 {
		return nil, fmt.Errorf("destination %s: %w", destination, ErrUnknownNode)
	}
	if from[0].ID != to[0].ID {
		return nil, fmt.Errorf("%s and %s share no root: %w", origin, destination, ErrUnknownNode)
	}

	i := 0
	for i+1 < len(from) && i+1 < len(to) && from[i+1].ID == to[i+1].ID {
		i++
	}

	exit := make([]*primitives.Node, 0, len(from)-i-1)
	for j := len(from) - 1; j > i; j-- {
		exit = append(exit, from[j])
	}
	enter := make([]*primitives.Node, 0, len(to)-i-1)
	enter = append(enter, to[i+1:]...)

	return &Path{LCA: from[i], Exit: exit, Enter: enter}, nil
}

// Actions flattens the path into exit actions (innermost first) followed by enter
// actions (outermost first), keeping each node's declaration order.
func (p *Path) Actions() []ActionStep {
	var steps []ActionStep
	for _, n := range p.Exit {
		for _, a := range n.Actions(primitives.Exit) {
			steps = append(steps, ActionStep{Node: n.ID, Direction: primitives.Exit, Action: a})
		}
	}
	for _, n := range p.Enter {
		for _, a := range n.Actions(primitives.Enter) {
			steps = append(steps, ActionStep{Node: n.ID, Direction: primitives.Enter, Action: a})
		}
	}
	return steps
}

// ComputeActionSequence returns the ordered actions to run when moving from origin to
// destination.
func ComputeActionSequence(chart Chart, origin, destination primitives.NodeID) ([]ActionStep, error) {
	p, err := TransitionPath(chart, origin, destination)
	if err != nil {
		return nil, err
	}
	return p.Actions(), nil
}
