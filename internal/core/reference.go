package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/chartpath/internal/primitives"
)

// StateReference names a state either by id or by name.
type StateReference interface {
	fmt.Stringer
	isStateReference()
}

// ByID references a state by its canonical id.
type ByID primitives.NodeID

// ByName references a state by name.
type ByName string

func (ByID) isStateReference()   {}
func (ByName) isStateReference() {}

func (r ByID) String() string   { return primitives.NodeID(r).String() }
func (r ByName) String() string { return string(r) }

// ParseReference parses "#12" as an id and anything else as a name.
func ParseReference(s string) (StateReference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty state reference")
	}
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		id, err := strconv.Atoi(rest)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid state id %q", s)
		}
		return ByID(id), nil
	}
	return ByName(s), nil
}

type refOptions struct {
	searchSubcharts bool
}

// RefOption configures reference resolution.
type RefOption func(*refOptions)

// SearchSubcharts widens name lookup to nodes contributed by embedded sub-charts.
func SearchSubcharts() RefOption {
	return WithSearchSubcharts(true)
}

// WithSearchSubcharts sets sub-chart lookup from a flag value.
func WithSearchSubcharts(enabled bool) RefOption {
	return func(o *refOptions) {
		o.searchSubcharts = enabled
	}
}

// ResolveStateReference resolves ref to a canonical id. Ids are checked for existence.
// Names are looked up among the chart's own nodes unless SearchSubcharts is given; zero
// or several matches are errors.
func ResolveStateReference(chart Chart, ref StateReference, opts ...RefOption) (primitives.NodeID, error) {
	var o refOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch r := ref.(type) {
	case ByID:
		id := primitives.NodeID(r)
		if !chart.Contains(id) {
			return 0, fmt.Errorf("state %s: %w", id, ErrUnknownNode)
		}
		return id, nil
	case ByName:
		return lookupName(chart, string(r), o.searchSubcharts)
	default:
		return 0, fmt.Errorf("unsupported state reference %T: %w", ref, ErrUnknownNode)
	}
}

func lookupName(chart Chart, name string, searchSubcharts bool) (primitives.NodeID, error) {
	owner := chart.Owner()
	var matches []*primitives.Node
	for _, n := range chart.Nodes() {
		if n.Name != name {
			continue
		}
		if !searchSubcharts && n.Owner != owner {
			continue
		}
		matches = append(matches, n)
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("state %q in %s: %w", name, scopeLabel(owner, searchSubcharts), ErrNameNotFound)
	case 1:
		return matches[0].ID, nil
	default:
		ids := make([]string, len(matches))
		for i, n := range matches {
			ids[i] = n.ID.String()
		}
		return 0, fmt.Errorf("state %q matches %s: %w", name, strings.Join(ids, ", "), ErrAmbiguousStateName)
	}
}

func scopeLabel(owner primitives.OwnerID, searchSubcharts bool) string {
	if searchSubcharts {
		return "chart and sub-charts"
	}
	return fmt.Sprintf("chart %q", owner)
}

// ResolveTarget resolves ref and then its default leaf.
func ResolveTarget(chart Chart, ref StateReference, opts ...RefOption) (*primitives.Node, error) {
	id, err := ResolveStateReference(chart, ref, opts...)
	if err != nil {
		return nil, err
	}
	n, ok := chart.Node(id)
	if !ok {
		return nil, fmt.Errorf("state %s: %w", id, ErrUnknownNode)
	}
	return ResolveDefaultLeaf(chart, n)
}
