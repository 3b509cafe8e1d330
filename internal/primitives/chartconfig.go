// Package primitives defines the foundational data structures for the statechart resolver.
//
// ChartConfig is the document form of a chart (YAML or JSON). A state with children or
// an embedded sub-chart is a branch; everything else is a leaf. Names referenced by
// `initial` and transition targets are resolved at compile time within the owning
// definition.
package primitives

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ChartConfig defines a chart definition and its state hierarchy.
type ChartConfig struct {
	Version string       `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version"`
	Owner   string       `json:"owner" yaml:"owner" mapstructure:"owner"`
	Root    *StateConfig `json:"root" yaml:"root" mapstructure:"root"`
}

// StateConfig defines a state, supporting hierarchical nesting and embedded sub-charts.
type StateConfig struct {
	Name     string             `json:"name" yaml:"name" mapstructure:"name"`
	Initial  string             `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`
	Entry    []string           `json:"entry,omitempty" yaml:"entry,omitempty" mapstructure:"entry"`
	Exit     []string           `json:"exit,omitempty" yaml:"exit,omitempty" mapstructure:"exit"`
	On       []TransitionConfig `json:"on,omitempty" yaml:"on,omitempty" mapstructure:"on"`
	Children []*StateConfig     `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
	Subchart *ChartConfig       `json:"subchart,omitempty" yaml:"subchart,omitempty" mapstructure:"subchart"`
}

// TransitionConfig defines a single transition. Subcharts widens target lookup to nodes
// of embedded sub-charts.
type TransitionConfig struct {
	Event     string `json:"event" yaml:"event" mapstructure:"event"`
	Target    string `json:"target" yaml:"target" mapstructure:"target"`
	Subcharts bool   `json:"subcharts,omitempty" yaml:"subcharts,omitempty" mapstructure:"subcharts"`
}

// ValidationError describes a single document problem.
type ValidationError struct {
	Path   string // dotted state path, e.g. root.closed
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("state %q: %s", e.Path, e.Reason)
}

// NewStateConfig creates a new StateConfig with the given name.
func NewStateConfig(name string) *StateConfig {
	return &StateConfig{Name: name}
}

// WithInitial sets the default child name.
func (s *StateConfig) WithInitial(initial string) *StateConfig {
	s.Initial = initial
	return s
}

// AddTransition adds a transition for an event.
func (s *StateConfig) AddTransition(event, target string) *StateConfig {
	s.On = append(s.On, TransitionConfig{Event: event, Target: target})
	return s
}

// AddEntry adds enter actions.
func (s *StateConfig) AddEntry(actions ...string) *StateConfig {
	s.Entry = append(s.Entry, actions...)
	return s
}

// AddExit adds exit actions.
func (s *StateConfig) AddExit(actions ...string) *StateConfig {
	s.Exit = append(s.Exit, actions...)
	return s
}

// AddChild adds child states.
func (s *StateConfig) AddChild(children ...*StateConfig) *StateConfig {
	s.Children = append(s.Children, children...)
	return s
}

// WithSubchart embeds another chart definition below this state.
func (s *StateConfig) WithSubchart(sub *ChartConfig) *StateConfig {
	s.Subchart = sub
	return s
}

// IsBranch reports whether the state compiles to a branch node.
func (s *StateConfig) IsBranch() bool {
	return len(s.Children) > 0 || s.Subchart != nil
}

// Validate checks the document shape. All problems are reported, joined.
func (c *ChartConfig) Validate() error {
	var errs []error
	c.validate("", &errs)
	return errors.Join(errs...)
}

func (c *ChartConfig) validate(prefix string, errs *[]error) {
	if c.Owner == "" {
		*errs = append(*errs, &ValidationError{Path: prefix, Reason: "owner is required"})
	}
	if c.Root == nil {
		*errs = append(*errs, &ValidationError{Path: prefix, Reason: "root state is required"})
		return
	}
	c.Root.validate(c.Owner, joinPath(prefix, c.Root.Name), errs)
}

func (s *StateConfig) validate(owner, path string, errs *[]error) {
	if s.Name == "" {
		*errs = append(*errs, &ValidationError{Path: path, Reason: "name is required"})
	}
	if !s.IsBranch() && s.Initial != "" {
		*errs = append(*errs, &ValidationError{Path: path, Reason: "leaf state cannot have initial"})
	}
	for i, t := range s.On {
		if t.Event == "" {
			*errs = append(*errs, &ValidationError{Path: path, Reason: fmt.Sprintf("transition %d: event is required", i)})
		}
		if t.Target == "" {
			*errs = append(*errs, &ValidationError{Path: path, Reason: fmt.Sprintf("transition %d: target is required", i)})
		}
	}
	for i, child := range s.Children {
		if child == nil {
			*errs = append(*errs, &ValidationError{Path: path, Reason: fmt.Sprintf("child %d is nil", i)})
			continue
		}
		child.validate(owner, joinPath(path, child.Name), errs)
	}
	if s.Subchart != nil {
		if s.Subchart.Owner != "" && s.Subchart.Owner == owner {
			*errs = append(*errs, &ValidationError{Path: path, Reason: fmt.Sprintf("subchart reuses owner %q", owner)})
		}
		s.Subchart.validate(path, errs)
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// DecodeChartConfig decodes a loosely typed document map into a ChartConfig.
// Unknown keys are rejected.
func DecodeChartConfig(raw map[string]any) (*ChartConfig, error) {
	var cfg ChartConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return &cfg, nil
}

// ParseChartConfig parses a YAML or JSON chart document and validates it.
func ParseChartConfig(data []byte) (*ChartConfig, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if raw == nil {
		return nil, errors.New("empty chart document")
	}
	cfg, err := DecodeChartConfig(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart: %w", err)
	}
	return cfg, nil
}
