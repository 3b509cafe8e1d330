package chartpath

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
	"github.com/comalice/chartpath/internal/production"
)

// pending carries a compiled node back to its document for name resolution.
type pending struct {
	node  *primitives.Node
	state *primitives.StateConfig
	owner primitives.OwnerID
	path  string
	// default child when the document names none: first child, else the sub-chart root
	fallback primitives.NodeID
}

type compiler struct {
	tree    *primitives.Tree
	next    primitives.NodeID
	pending []*pending
}

// Compile turns a chart document into a frozen chart.
//
// Ids are assigned depth-first in document order, root first, with an embedded
// sub-chart's root following the state's own children. Defaults and transition targets
// are names resolved within the definition that declared them; a transition marked
// subcharts may also name nodes of embedded sub-charts. `initial` is looked up below its
// branch, where the embedded chart's names are visible too. A "#N" reference obeys the
// same ownership scope as a name. A branch without `initial` defaults to its first child. Compile fails if a name is missing or ambiguous, a
// default is not below its branch, or a branch does not resolve to a leaf.
func Compile(cfg *ChartConfig) (*Chart, error) {
	if cfg == nil {
		return nil, errors.New("nil chart document")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart: %w", err)
	}

	c := &compiler{tree: primitives.NewTree()}
	if _, err := c.add(nil, cfg.Root, primitives.OwnerID(cfg.Owner), cfg.Root.Name); err != nil {
		return nil, err
	}
	chart := primitives.NewChart(primitives.OwnerID(cfg.Owner), c.tree)

	var errs []error
	for _, p := range c.pending {
		if err := c.link(chart, p); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, n := range chart.Nodes() {
		if !n.IsBranch() {
			continue
		}
		if _, err := core.ResolveDefaultLeaf(chart, n); err != nil {
			errs = append(errs, fmt.Errorf("state %s: %w", n, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return chart, nil
}

// add allocates ids depth-first and returns the new node's id.
func (c *compiler) add(parent *primitives.Node, s *primitives.StateConfig, owner primitives.OwnerID, path string) (primitives.NodeID, error) {
	n := primitives.NewNode(c.next, s.Name, owner)
	c.next++
	if s.IsBranch() {
		n.Kind = primitives.Branch
	}
	for _, a := range s.Entry {
		n.Entry = append(n.Entry, a)
	}
	for _, a := range s.Exit {
		n.Exit = append(n.Exit, a)
	}

	var err error
	if parent == nil {
		err = c.tree.AddRoot(n)
	} else {
		err = c.tree.Add(parent.ID, n)
	}
	if err != nil {
		return 0, fmt.Errorf("state %q: %w", path, err)
	}

	p := &pending{node: n, state: s, owner: owner, path: path}
	c.pending = append(c.pending, p)

	first := true
	for _, child := range s.Children {
		id, err := c.add(n, child, owner, path+"."+child.Name)
		if err != nil {
			return 0, err
		}
		if first {
			p.fallback, first = id, false
		}
	}
	if s.Subchart != nil {
		sub := s.Subchart
		id, err := c.add(n, sub.Root, primitives.OwnerID(sub.Owner), path+"."+sub.Root.Name)
		if err != nil {
			return 0, err
		}
		if first {
			p.fallback = id
		}
	}
	return n.ID, nil
}

// link resolves the default child and transition targets of one node.
func (c *compiler) link(chart *primitives.Chart, p *pending) error {
	view := chart.WithOwner(p.owner)
	var errs []error

	if p.node.IsBranch() {
		def := p.fallback
		if p.state.Initial != "" {
			id, err := resolveInitial(chart, p)
			if err != nil {
				errs = append(errs, fmt.Errorf("state %q initial: %w", p.path, err))
			} else {
				def = id
			}
		}
		p.node.DefaultChild, p.node.HasDefault = def, true
	}

	for i, t := range p.state.On {
		owners := []primitives.OwnerID{p.owner}
		if t.Subcharts {
			owners = nil
		}
		id, err := resolveRef(view, t.Target, t.Subcharts, owners)
		if err != nil {
			errs = append(errs, fmt.Errorf("state %q transition %d (%s): %w", p.path, i, t.Event, err))
			continue
		}
		p.node.Transitions = append(p.node.Transitions, primitives.Transition{Event: t.Event, Target: id})
	}
	return errors.Join(errs...)
}

// resolveInitial resolves the default child of p. A name is matched among the branch's
// descendants declared by its own definition or by the chart it embeds; a name found
// only elsewhere in the definition fails as not a descendant.
func resolveInitial(chart *primitives.Chart, p *pending) (primitives.NodeID, error) {
	owners := []primitives.OwnerID{p.owner}
	if p.state.Subchart != nil {
		owners = append(owners, primitives.OwnerID(p.state.Subchart.Owner))
	}
	if id, found, err := lookupBelow(chart, p.node.ID, p.state.Initial, owners); found || err != nil {
		return id, err
	}
	id, err := resolveRef(chart.WithOwner(p.owner), p.state.Initial, false, owners)
	if err != nil {
		return 0, err
	}
	return id, core.ValidateDescendant(chart, p.node.ID, id)
}

// lookupBelow matches a name against the descendants of branch declared by one of
// owners. found is false when nothing matches or raw is not a name.
func lookupBelow(chart *primitives.Chart, branch primitives.NodeID, raw string, owners []primitives.OwnerID) (id primitives.NodeID, found bool, err error) {
	ref, err := core.ParseReference(raw)
	name, ok := ref.(core.ByName)
	if err != nil || !ok {
		return 0, false, nil
	}

	desc, _ := chart.Descendants(branch)
	var matches []string
	for _, n := range desc {
		if n.Name == string(name) && slices.Contains(owners, n.Owner) {
			id = n.ID
			matches = append(matches, n.ID.String())
		}
	}
	switch len(matches) {
	case 0:
		return 0, false, nil
	case 1:
		return id, true, nil
	default:
		return 0, true, fmt.Errorf("state %q matches %s below %s: %w", name, strings.Join(matches, ", "), branch, core.ErrAmbiguousStateName)
	}
}

// resolveRef resolves a name or #id written in a definition. Names follow the owner
// view; an id must belong to one of owners, or to any definition when owners is nil.
func resolveRef(view *primitives.Chart, raw string, searchSubcharts bool, owners []primitives.OwnerID) (primitives.NodeID, error) {
	ref, err := core.ParseReference(raw)
	if err != nil {
		return 0, err
	}
	id, err := core.ResolveStateReference(view, ref, core.WithSearchSubcharts(searchSubcharts))
	if err != nil {
		return 0, err
	}
	if n, _ := view.Node(id); owners != nil && !slices.Contains(owners, n.Owner) {
		return 0, fmt.Errorf("state %s is declared by %q, outside %q: %w", n, n.Owner, view.Owner(), core.ErrUnknownNode)
	}
	return id, nil
}

// LoadFile reads a YAML or JSON chart document and compiles it.
func LoadFile(path string) (*Chart, error) {
	cfg, err := production.LoadChartFile(path)
	if err != nil {
		return nil, err
	}
	chart, err := Compile(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return chart, nil
}

// MustCompile is Compile that panics on error, for package-level chart variables.
func MustCompile(cfg *ChartConfig) *Chart {
	chart, err := Compile(cfg)
	if err != nil {
		panic(err)
	}
	return chart
}
