// Package primitives defines the foundational data structures for the statechart resolver.
//
// Node is the static description of a single state: identity, ownership, classification,
// default child, enter/exit actions and declared transitions.
package primitives

import "fmt"

// NodeID identifies a node within a tree. Ids are small, dense and stable.
type NodeID int

func (id NodeID) String() string {
	return fmt.Sprintf("#%d", int(id))
}

// OwnerID tags the chart definition a node was declared by.
type OwnerID string

// Kind classifies a node as leaf or branch.
type Kind string

const (
	Leaf   Kind = "leaf"
	Branch Kind = "branch"
)

// Direction selects the enter or exit action list of a node.
type Direction string

const (
	Enter Direction = "enter"
	Exit  Direction = "exit"
)

// ActionRef references an action: a string name or any host-defined handle.
type ActionRef any

// Transition is a single (event pattern, destination) pair declared on a node.
type Transition struct {
	Event  string `json:"event" yaml:"event"`
	Target NodeID `json:"target" yaml:"target"`
}

// Node is a read-only state description.
type Node struct {
	ID           NodeID
	Name         string
	Owner        OwnerID
	Kind         Kind
	DefaultChild NodeID
	HasDefault   bool
	Entry        []ActionRef
	Exit         []ActionRef
	Transitions  []Transition
}

// NodeOption configures a Node built with NewNode.
type NodeOption func(*Node)

// NewNode creates a leaf node with the given identity.
func NewNode(id NodeID, name string, owner OwnerID, opts ...NodeOption) *Node {
	n := &Node{ID: id, Name: name, Owner: owner, Kind: Leaf}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// AsBranch marks the node as a branch with the given default child.
func AsBranch(defaultChild NodeID) NodeOption {
	return func(n *Node) {
		n.Kind = Branch
		n.DefaultChild = defaultChild
		n.HasDefault = true
	}
}

// AsBranchWithoutDefault marks the node as a branch with no default child.
func AsBranchWithoutDefault() NodeOption {
	return func(n *Node) {
		n.Kind = Branch
		n.HasDefault = false
	}
}

// OnEntry appends enter actions.
func OnEntry(actions ...ActionRef) NodeOption {
	return func(n *Node) {
		n.Entry = append(n.Entry, actions...)
	}
}

// OnExit appends exit actions.
func OnExit(actions ...ActionRef) NodeOption {
	return func(n *Node) {
		n.Exit = append(n.Exit, actions...)
	}
}

// On appends a transition.
func On(event string, target NodeID) NodeOption {
	return func(n *Node) {
		n.Transitions = append(n.Transitions, Transition{Event: event, Target: target})
	}
}

// IsBranch reports whether the node is a composite state.
func (n *Node) IsBranch() bool {
	return n.Kind == Branch
}

// Default returns the default child id, if any.
func (n *Node) Default() (NodeID, bool) {
	if n.Kind != Branch || !n.HasDefault {
		return 0, false
	}
	return n.DefaultChild, true
}

// Actions returns the ordered actions registered for dir.
func (n *Node) Actions(dir Direction) []ActionRef {
	switch dir {
	case Enter:
		return n.Entry
	case Exit:
		return n.Exit
	default:
		return nil
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Name, n.ID)
}
