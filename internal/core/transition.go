package core

import (
	"errors"
	"fmt"

	"github.com/comalice/chartpath/internal/primitives"
)

// ResolvedTransition is a matching transition and the node that declared it.
type ResolvedTransition struct {
	Source primitives.NodeID `json:"source"`
	primitives.Transition
}

// firstMatch returns the first transition on n, in declaration order, whose pattern
// matches event.
func firstMatch(n *primitives.Node, event primitives.Event) (*ResolvedTransition, bool) {
	for _, t := range n.Transitions {
		if primitives.Match(t.Event, event) {
			return &ResolvedTransition{Source: n.ID, Transition: t}, true
		}
	}
	return nil, false
}

// ResolveEvent finds the transition that fires for event while in id. The node's own
// transitions are searched first, then its parent's, up to the root.
func ResolveEvent(chart Chart, id primitives.NodeID, event primitives.Event) (*ResolvedTransition, error) {
	path, ok := chart.PathToRoot(id)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, ErrUnknownNode)
	}
	for i := len(path) - 1; i >= 0; i-- {
		if t, ok := firstMatch(path[i], event); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("event %q in %s: %w", event.Type, id, ErrTransitionNotFound)
}

// ResolveEventInFamilyTree is ResolveEvent over the node's ancestor chain. Both searches
// visit nodes innermost first and always agree.
func ResolveEventInFamilyTree(chart Chart, id primitives.NodeID, event primitives.Event) (*ResolvedTransition, error) {
	family, ok := chart.AncestorChain(id)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, ErrUnknownNode)
	}
	for _, n := range family {
		if t, ok := firstMatch(n, event); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("event %q in %s: %w", event.Type, id, ErrTransitionNotFound)
}

// LookupTransition is ResolveEventInFamilyTree for callers that treat "no transition"
// as a normal outcome: it returns nil, nil when nothing matches.
func LookupTransition(chart Chart, id primitives.NodeID, event primitives.Event) (*ResolvedTransition, error) {
	t, err := ResolveEventInFamilyTree(chart, id, event)
	if errors.Is(err, ErrTransitionNotFound) {
		return nil, nil
	}
	return t, err
}
