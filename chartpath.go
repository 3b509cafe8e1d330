package chartpath

import (
	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
)

type (
	NodeID           = primitives.NodeID
	OwnerID          = primitives.OwnerID
	Node             = primitives.Node
	Transition       = primitives.Transition
	Chart            = primitives.Chart
	Event            = primitives.Event
	ChartConfig      = primitives.ChartConfig
	StateConfig      = primitives.StateConfig
	TransitionConfig = primitives.TransitionConfig

	Path               = core.Path
	ActionStep         = core.ActionStep
	ResolvedTransition = core.ResolvedTransition
	TransitionPlan     = core.TransitionPlan
	StateReference     = core.StateReference
	ByID               = core.ByID
	ByName             = core.ByName
	RefOption          = core.RefOption
	Resolver           = core.Resolver
	Option             = core.Option
)

var (
	ErrUnknownNode         = core.ErrUnknownNode
	ErrNameNotFound        = core.ErrNameNotFound
	ErrAmbiguousStateName  = core.ErrAmbiguousStateName
	ErrTransitionNotFound  = core.ErrTransitionNotFound
	ErrNoDefaultLeaf       = core.ErrNoDefaultLeaf
	ErrTargetNotDescendant = core.ErrTargetNotDescendant
)

// NewEvent creates an event.
func NewEvent(eventType string, data any) Event {
	return primitives.NewEvent(eventType, data)
}

// NewResolver creates an instrumented resolver over chart.
func NewResolver(chart *Chart, opts ...Option) *Resolver {
	return core.NewResolver(chart, opts...)
}

// SearchSubcharts widens name lookup to embedded sub-charts.
func SearchSubcharts() RefOption {
	return core.SearchSubcharts()
}

// ComputeActionSequence returns exit actions innermost first, then enter actions
// outermost first, for a transition from origin to destination.
func ComputeActionSequence(chart *Chart, origin, destination NodeID) ([]ActionStep, error) {
	return core.ComputeActionSequence(chart, origin, destination)
}

// TransitionPath returns the LCA decomposition of a transition.
func TransitionPath(chart *Chart, origin, destination NodeID) (*Path, error) {
	return core.TransitionPath(chart, origin, destination)
}

// ResolveEvent finds the innermost transition matching event while in id.
func ResolveEvent(chart *Chart, id NodeID, event Event) (*ResolvedTransition, error) {
	return core.ResolveEvent(chart, id, event)
}

// ResolveEventInFamilyTree is ResolveEvent over the ancestor chain.
func ResolveEventInFamilyTree(chart *Chart, id NodeID, event Event) (*ResolvedTransition, error) {
	return core.ResolveEventInFamilyTree(chart, id, event)
}

// LookupTransition returns nil, nil when no transition matches.
func LookupTransition(chart *Chart, id NodeID, event Event) (*ResolvedTransition, error) {
	return core.LookupTransition(chart, id, event)
}

// ResolveDefaultLeaf follows default children down to a leaf.
func ResolveDefaultLeaf(chart *Chart, n *Node) (*Node, error) {
	return core.ResolveDefaultLeaf(chart, n)
}

// ValidateDescendant succeeds only if target lies strictly below origin.
func ValidateDescendant(chart *Chart, origin, target NodeID) error {
	return core.ValidateDescendant(chart, origin, target)
}

// ResolveStateReference maps an id or name to a canonical id.
func ResolveStateReference(chart *Chart, ref StateReference, opts ...RefOption) (NodeID, error) {
	return core.ResolveStateReference(chart, ref, opts...)
}

// ResolveTarget resolves ref to its default leaf.
func ResolveTarget(chart *Chart, ref StateReference, opts ...RefOption) (*Node, error) {
	return core.ResolveTarget(chart, ref, opts...)
}

// Plan computes everything needed to take one event step from current.
func Plan(chart *Chart, current NodeID, event Event) (*TransitionPlan, error) {
	return core.Plan(chart, current, event)
}
