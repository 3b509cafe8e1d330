package server

import (
	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
)

// NodeView is the wire form of a node.
type NodeView struct {
	ID    primitives.NodeID  `json:"id"`
	Name  string             `json:"name"`
	Owner primitives.OwnerID `json:"owner"`
	Kind  primitives.Kind    `json:"kind"`
}

// PathResponse answers GET /charts/{name}/path.
type PathResponse struct {
	LCA     NodeView          `json:"lca"`
	Exit    []NodeView        `json:"exit"`
	Enter   []NodeView        `json:"enter"`
	Actions []core.ActionStep `json:"actions"`
}

// TransitionResponse answers GET /charts/{name}/resolve.
type TransitionResponse struct {
	Source NodeView `json:"source"`
	Event  string   `json:"event"`
	Target NodeView `json:"target"`
}

// PlanResponse answers GET /charts/{name}/plan.
type PlanResponse struct {
	Transition TransitionResponse `json:"transition"`
	Leaf       NodeView           `json:"leaf"`
	Path       PathResponse       `json:"path"`
}

// RegisterResponse answers PUT /charts/{name}.
type RegisterResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every failed request. Code is a stable label.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewNodeView converts a node to its wire form.
func NewNodeView(n *primitives.Node) NodeView {
	return NodeView{ID: n.ID, Name: n.Name, Owner: n.Owner, Kind: n.Kind}
}

// NewNodeViews converts nodes to their wire form.
func NewNodeViews(nodes []*primitives.Node) []NodeView {
	out := make([]NodeView, len(nodes))
	for i, n := range nodes {
		out[i] = NewNodeView(n)
	}
	return out
}

// NewPathResponse converts a path, with its action sequence, to its wire form.
func NewPathResponse(p *core.Path) PathResponse {
	actions := p.Actions()
	if actions == nil {
		actions = []core.ActionStep{}
	}
	return PathResponse{
		LCA:     NewNodeView(p.LCA),
		Exit:    NewNodeViews(p.Exit),
		Enter:   NewNodeViews(p.Enter),
		Actions: actions,
	}
}

// NewTransitionResponse converts a resolved transition to its wire form.
func NewTransitionResponse(chart *primitives.Chart, t *core.ResolvedTransition) TransitionResponse {
	src, _ := chart.Node(t.Source)
	dst, _ := chart.Node(t.Target)
	return TransitionResponse{Source: NewNodeView(src), Event: t.Event, Target: NewNodeView(dst)}
}

// NewPlanResponse converts a transition plan to its wire form.
func NewPlanResponse(chart *primitives.Chart, p *core.TransitionPlan) PlanResponse {
	return PlanResponse{
		Transition: NewTransitionResponse(chart, &p.Transition),
		Leaf:       NewNodeView(p.Leaf),
		Path:       NewPathResponse(p.Path),
	}
}
