package core

import (
	"fmt"

	"github.com/comalice/chartpath/internal/primitives"
)

// ResolveDefaultLeaf follows default children from n until a leaf is reached.
// A leaf resolves to itself.
func ResolveDefaultLeaf(chart Chart, n *primitives.Node) (*primitives.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("nil node: %w", ErrUnknownNode)
	}
	start := n
	visited := make(map[primitives.NodeID]bool)
	for n.IsBranch() {
		if visited[n.ID] {
			return nil, fmt.Errorf("default chain of %s revisits %s: %w", start, n, ErrNoDefaultLeaf)
		}
		visited[n.ID] = true

		childID, ok := n.Default()
		if !ok {
			return nil, fmt.Errorf("%s has no default child: %w", n, ErrNoDefaultLeaf)
		}
		child, ok := chart.Node(childID)
		if !ok {
			return nil, fmt.Errorf("default child %s of %s: %w", childID, n, ErrUnknownNode)
		}
		n = child
	}
	return n, nil
}

// ValidateDescendant succeeds only if target lies strictly below origin.
func ValidateDescendant(chart Chart, origin, target primitives.NodeID) error {
	desc, ok := chart.Descendants(origin)
	if !ok {
		return fmt.Errorf("origin %s: %w", origin, ErrUnknownNode)
	}
	for _, n := range desc {
		if n.ID == target {
			return nil
		}
	}
	return fmt.Errorf("%s under %s: %w", target, origin, ErrTargetNotDescendant)
}
