package chartpath

import (
	"fmt"
	"strings"

	"github.com/comalice/chartpath/internal/primitives"
)

// ChartBuilder provides a fluent API for assembling a chart document with string-based
// state names instead of writing ChartConfig values by hand.
type ChartBuilder struct {
	cfg    *primitives.ChartConfig
	states map[string]*primitives.StateConfig // dotted path below the root
	err    error
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b     *ChartBuilder
	state *primitives.StateConfig
	path  string
}

// NewChartBuilder creates a builder for a chart owned by owner. rootName names the root
// branch and initialStateName the child entered by default.
func NewChartBuilder(owner, rootName, initialStateName string) *ChartBuilder {
	root := primitives.NewStateConfig(rootName).WithInitial(initialStateName)
	return &ChartBuilder{
		cfg:    &primitives.ChartConfig{Owner: owner, Root: root},
		states: make(map[string]*primitives.StateConfig),
	}
}

// Root returns a builder for the root state.
func (b *ChartBuilder) Root() *StateBuilder {
	return &StateBuilder{b: b, state: b.cfg.Root, path: ""}
}

// State creates or retrieves a state by name.
// Supports dot notation for hierarchical states (e.g., "parent.child"); missing parents
// are created on the way. The state's own name is the last segment.
func (b *ChartBuilder) State(path string) *StateBuilder {
	parent := b.cfg.Root
	parentPath, name := splitPath(path)
	if parentPath != "" {
		parent = b.State(parentPath).state
	}

	s, ok := b.states[path]
	if !ok {
		s = primitives.NewStateConfig(name)
		parent.AddChild(s)
		b.states[path] = s
	}
	return &StateBuilder{b: b, state: s, path: path}
}

// Config returns the assembled document.
func (b *ChartBuilder) Config() (*primitives.ChartConfig, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg, nil
}

// Build compiles the assembled document.
func (b *ChartBuilder) Build() (*Chart, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return Compile(cfg)
}

// splitPath splits a hierarchical path into parent and name components.
// For example, "parent.child" returns ("parent", "child").
// For "child", returns ("", "child").
func splitPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// Compound sets the child entered by default.
func (sb *StateBuilder) Compound(initialStateName string) *StateBuilder {
	sb.state.WithInitial(initialStateName)
	return sb
}

// Entry appends enter actions.
func (sb *StateBuilder) Entry(actions ...string) *StateBuilder {
	sb.state.AddEntry(actions...)
	return sb
}

// Exit appends exit actions.
func (sb *StateBuilder) Exit(actions ...string) *StateBuilder {
	sb.state.AddExit(actions...)
	return sb
}

// On adds a transition to the state named targetName when eventPattern matches.
func (sb *StateBuilder) On(eventPattern, targetName string) *StateBuilder {
	sb.state.AddTransition(eventPattern, targetName)
	return sb
}

// OnSubchart is On with a target that may live in an embedded sub-chart.
func (sb *StateBuilder) OnSubchart(eventPattern, targetName string) *StateBuilder {
	sb.state.On = append(sb.state.On, primitives.TransitionConfig{
		Event:     eventPattern,
		Target:    targetName,
		Subcharts: true,
	})
	return sb
}

// Embed places another chart definition below this state. The embedded chart keeps
// its own owner, so its names stay private to it.
func (sb *StateBuilder) Embed(sub *ChartBuilder) *StateBuilder {
	cfg, err := sub.Config()
	if err != nil {
		sb.b.err = fmt.Errorf("embed into %q: %w", sb.label(), err)
		return sb
	}
	if sb.state.Subchart != nil {
		sb.b.err = fmt.Errorf("state %q already embeds %q", sb.label(), sb.state.Subchart.Owner)
		return sb
	}
	sb.state.WithSubchart(cfg)
	return sb
}

func (sb *StateBuilder) label() string {
	if sb.path == "" {
		return sb.state.Name
	}
	return sb.path
}
