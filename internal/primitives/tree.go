// Package primitives defines the foundational data structures for the statechart resolver.
//
// Tree stores nodes with single-parent links and answers path, ancestor and descendant
// queries. Trees are assembled with AddRoot/Add and then frozen; a frozen tree is
// immutable and safe for concurrent readers.
package primitives

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrTreeFrozen    = errors.New("tree is frozen")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrNoParent      = errors.New("parent node not found")
	ErrRootExists    = errors.New("tree already has a root")
)

// Tree is an in-memory node tree.
type Tree struct {
	nodes    map[NodeID]*Node
	parent   map[NodeID]NodeID
	children map[NodeID][]NodeID
	root     *Node
	frozen   bool

	// populated by Freeze
	pathCache map[NodeID][]*Node
	ordered   []*Node
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(map[NodeID]*Node),
		parent:   make(map[NodeID]NodeID),
		children: make(map[NodeID][]NodeID),
	}
}

// AddRoot installs the root node.
func (t *Tree) AddRoot(n *Node) error {
	if t.frozen {
		return ErrTreeFrozen
	}
	if t.root != nil {
		return ErrRootExists
	}
	if _, exists := t.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	t.root = n
	t.nodes[n.ID] = n
	return nil
}

// Add inserts n as the last child of parent.
func (t *Tree) Add(parent NodeID, n *Node) error {
	if t.frozen {
		return ErrTreeFrozen
	}
	if _, ok := t.nodes[parent]; !ok {
		return fmt.Errorf("%w: %s", ErrNoParent, parent)
	}
	if _, exists := t.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	t.nodes[n.ID] = n
	t.parent[n.ID] = parent
	t.children[parent] = append(t.children[parent], n.ID)
	return nil
}

// Freeze precomputes root paths and blocks further mutation.
// Idempotent.
func (t *Tree) Freeze() *Tree {
	if t.frozen {
		return t
	}
	t.pathCache = make(map[NodeID][]*Node, len(t.nodes))
	if t.root != nil {
		t.precomputePaths(t.root, nil)
	}
	t.ordered = make([]*Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		t.ordered = append(t.ordered, n)
	}
	sort.Slice(t.ordered, func(i, j int) bool { return t.ordered[i].ID < t.ordered[j].ID })
	t.frozen = true
	return t
}

// precomputePaths walks the hierarchy and records root-to-node paths incrementally.
func (t *Tree) precomputePaths(n *Node, prefix []*Node) {
	path := append(make([]*Node, 0, len(prefix)+1), prefix...)
	path = append(path, n)
	t.pathCache[n.ID] = path
	for _, cid := range t.children[n.ID] {
		t.precomputePaths(t.nodes[cid], path)
	}
}

// Frozen reports whether Freeze has been called.
func (t *Tree) Frozen() bool {
	return t.frozen
}

// Root returns the root node or nil.
func (t *Tree) Root() *Node {
	return t.root
}

// Node fetches a node by id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Contains reports whether id is present.
func (t *Tree) Contains(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Parent returns the parent of id. The root has no parent.
func (t *Tree) Parent(id NodeID) (*Node, bool) {
	pid, ok := t.parent[id]
	if !ok {
		return nil, false
	}
	return t.nodes[pid], true
}

// Children returns the direct children of id in insertion order.
func (t *Tree) Children(id NodeID) []*Node {
	ids := t.children[id]
	out := make([]*Node, len(ids))
	for i, cid := range ids {
		out[i] = t.nodes[cid]
	}
	return out
}

// PathToRoot returns the nodes from the root down to id, inclusive, outermost first.
// The returned slice must not be modified.
func (t *Tree) PathToRoot(id NodeID) ([]*Node, bool) {
	if t.frozen {
		p, ok := t.pathCache[id]
		return p, ok
	}
	chain, ok := t.AncestorChain(id)
	if !ok {
		return nil, false
	}
	path := make([]*Node, len(chain))
	for i, n := range chain {
		path[len(chain)-1-i] = n
	}
	return path, true
}

// AncestorChain returns id followed by its ancestors up to the root, innermost first.
func (t *Tree) AncestorChain(id NodeID) ([]*Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	var chain []*Node
	for {
		chain = append(chain, n)
		pid, ok := t.parent[n.ID]
		if !ok {
			break
		}
		n = t.nodes[pid]
	}
	return chain, true
}

// Descendants returns every node strictly below id in depth-first pre-order.
// The node itself is not included.
func (t *Tree) Descendants(id NodeID) ([]*Node, bool) {
	if _, ok := t.nodes[id]; !ok {
		return nil, false
	}
	var out []*Node
	var walk func(NodeID)
	walk = func(pid NodeID) {
		for _, cid := range t.children[pid] {
			out = append(out, t.nodes[cid])
			walk(cid)
		}
	}
	walk(id)
	return out, true
}

// Nodes returns every node ordered by id.
func (t *Tree) Nodes() []*Node {
	if t.frozen {
		return t.ordered
	}
	out := make([]*Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}
