package core

import (
	"log/slog"
	"time"

	"github.com/comalice/chartpath/internal/logging"
	"github.com/comalice/chartpath/internal/primitives"
)

// Resolver binds the resolution functions to one chart and reports every call to a
// logger and, optionally, prometheus collectors. It holds no mutable state and is safe
// for concurrent use.
type Resolver struct {
	chart   Chart
	logger  *slog.Logger
	metrics *Metrics
}

// NewResolver creates a Resolver for chart.
func NewResolver(chart Chart, opts ...Option) *Resolver {
	r := &Resolver{
		chart:  chart,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Chart returns the chart the resolver reads.
func (r *Resolver) Chart() Chart {
	return r.chart
}

func (r *Resolver) observe(op string, start time.Time, err error, attrs ...any) {
	outcome := Kind(err)
	r.metrics.Observe(op, outcome, time.Since(start))
	attrs = append(attrs, "op", op, "outcome", outcome)
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	r.logger.Debug("resolve", attrs...)
}

// TransitionPath see TransitionPath.
func (r *Resolver) TransitionPath(origin, destination primitives.NodeID) (*Path, error) {
	start := time.Now()
	p, err := TransitionPath(r.chart, origin, destination)
	r.observe("transition_path", start, err, "origin", origin, "destination", destination)
	return p, err
}

// ComputeActionSequence see ComputeActionSequence.
func (r *Resolver) ComputeActionSequence(origin, destination primitives.NodeID) ([]ActionStep, error) {
	start := time.Now()
	steps, err := ComputeActionSequence(r.chart, origin, destination)
	r.observe("action_sequence", start, err, "origin", origin, "destination", destination, "steps", len(steps))
	return steps, err
}

// ResolveEvent see ResolveEvent.
func (r *Resolver) ResolveEvent(id primitives.NodeID, event primitives.Event) (*ResolvedTransition, error) {
	start := time.Now()
	t, err := ResolveEvent(r.chart, id, event)
	r.observe("resolve_event", start, err, "node", id, "event", event.Type)
	return t, err
}

// ResolveEventInFamilyTree see ResolveEventInFamilyTree.
func (r *Resolver) ResolveEventInFamilyTree(id primitives.NodeID, event primitives.Event) (*ResolvedTransition, error) {
	start := time.Now()
	t, err := ResolveEventInFamilyTree(r.chart, id, event)
	r.observe("resolve_event_family", start, err, "node", id, "event", event.Type)
	return t, err
}

// LookupTransition see LookupTransition.
func (r *Resolver) LookupTransition(id primitives.NodeID, event primitives.Event) (*ResolvedTransition, error) {
	start := time.Now()
	t, err := LookupTransition(r.chart, id, event)
	r.observe("lookup_transition", start, err, "node", id, "event", event.Type, "found", t != nil)
	return t, err
}

// ResolveDefaultLeaf see ResolveDefaultLeaf.
func (r *Resolver) ResolveDefaultLeaf(n *primitives.Node) (*primitives.Node, error) {
	start := time.Now()
	leaf, err := ResolveDefaultLeaf(r.chart, n)
	r.observe("default_leaf", start, err, "node", n)
	return leaf, err
}

// ValidateDescendant see ValidateDescendant.
func (r *Resolver) ValidateDescendant(origin, target primitives.NodeID) error {
	start := time.Now()
	err := ValidateDescendant(r.chart, origin, target)
	r.observe("validate_descendant", start, err, "origin", origin, "target", target)
	return err
}

// ResolveStateReference see ResolveStateReference.
func (r *Resolver) ResolveStateReference(ref StateReference, opts ...RefOption) (primitives.NodeID, error) {
	start := time.Now()
	id, err := ResolveStateReference(r.chart, ref, opts...)
	r.observe("resolve_reference", start, err, "ref", ref)
	return id, err
}

// ResolveTarget see ResolveTarget.
func (r *Resolver) ResolveTarget(ref StateReference, opts ...RefOption) (*primitives.Node, error) {
	start := time.Now()
	leaf, err := ResolveTarget(r.chart, ref, opts...)
	r.observe("resolve_target", start, err, "ref", ref)
	return leaf, err
}

// Plan see Plan.
func (r *Resolver) Plan(current primitives.NodeID, event primitives.Event) (*TransitionPlan, error) {
	start := time.Now()
	p, err := Plan(r.chart, current, event)
	r.observe("plan", start, err, "node", current, "event", event.Type)
	return p, err
}
