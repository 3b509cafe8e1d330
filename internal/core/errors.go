package core

import "errors"

// Error kinds returned by resolver operations. Failures are always wrapped with context;
// test with errors.Is.
var (
	// ErrUnknownNode is returned when an id is not present in the tree.
	ErrUnknownNode = errors.New("unknown node")
	// ErrNameNotFound is returned when no node in the searched scope carries a name.
	ErrNameNotFound = errors.New("state name not found")
	// ErrAmbiguousStateName is returned when more than one node in scope carries a name.
	ErrAmbiguousStateName = errors.New("ambiguous state name")
	// ErrTransitionNotFound is returned when no node on the ancestor chain declares a
	// transition matching the event.
	ErrTransitionNotFound = errors.New("no transition matches event")
	// ErrNoDefaultLeaf is returned when a branch's default chain does not end in a leaf,
	// including chains that revisit a node.
	ErrNoDefaultLeaf = errors.New("branch does not resolve to a leaf")
	// ErrTargetNotDescendant is returned when a target is outside the origin's subtree.
	ErrTargetNotDescendant = errors.New("target is not a descendant")
)

// Kind maps an error onto a stable label for metrics, API bodies and CLI output.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, ErrNameNotFound):
		return "name_not_found"
	case errors.Is(err, ErrAmbiguousStateName):
		return "ambiguous_state_name"
	case errors.Is(err, ErrTransitionNotFound):
		return "transition_not_found"
	case errors.Is(err, ErrNoDefaultLeaf):
		return "no_default_leaf"
	case errors.Is(err, ErrTargetNotDescendant):
		return "target_not_descendant"
	case errors.Is(err, ErrChartNotFound):
		return "chart_not_found"
	default:
		return "error"
	}
}
