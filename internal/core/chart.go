package core

import "github.com/comalice/chartpath/internal/primitives"

// Tree is the read side of a node tree.
type Tree interface {
	// PathToRoot returns root..id inclusive, outermost first.
	PathToRoot(id primitives.NodeID) ([]*primitives.Node, bool)
	// AncestorChain returns id..root inclusive, innermost first.
	AncestorChain(id primitives.NodeID) ([]*primitives.Node, bool)
	Contains(id primitives.NodeID) bool
	// Descendants returns the nodes strictly below id.
	Descendants(id primitives.NodeID) ([]*primitives.Node, bool)
	Node(id primitives.NodeID) (*primitives.Node, bool)
	Nodes() []*primitives.Node
}

// Chart is a tree plus the owner tag of the chart's own definition.
type Chart interface {
	Tree
	Owner() primitives.OwnerID
}

var _ Chart = (*primitives.Chart)(nil)
