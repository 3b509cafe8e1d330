package core

import (
	"fmt"

	"github.com/comalice/chartpath/internal/primitives"
)

// TransitionPlan is everything an execution engine needs to take one event step.
type TransitionPlan struct {
	Transition ResolvedTransition
	Leaf       *primitives.Node
	Path       *Path
	Actions    []ActionStep
}

// Plan resolves event in current, resolves the destination to its leaf and computes the
// action sequence from current to that leaf. A transition back to the current leaf
// yields an empty action sequence.
func Plan(chart Chart, current primitives.NodeID, event primitives.Event) (*TransitionPlan, error) {
	t, err := ResolveEvent(chart, current, event)
	if err != nil {
		return nil, err
	}
	dest, ok := chart.Node(t.Target)
	if !ok {
		return nil, fmt.Errorf("target %s of %s: %w", t.Target, t.Source, ErrUnknownNode)
	}
	leaf, err := ResolveDefaultLeaf(chart, dest)
	if err != nil {
		return nil, err
	}
	p, err := TransitionPath(chart, current, leaf.ID)
	if err != nil {
		return nil, err
	}
	return &TransitionPlan{
		Transition: *t,
		Leaf:       leaf,
		Path:       p,
		Actions:    p.Actions(),
	}, nil
}
