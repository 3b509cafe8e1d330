package chartpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartpath"
)

func TestBuilderTrafficLight(t *testing.T) {
	b := chartpath.NewChartBuilder("traffic", "light", "green")

	b.State("green").On("timer", "yellow")
	b.State("yellow").On("timer", "red")
	b.State("red").On("timer", "green")

	chart, err := b.Build()
	require.NoError(t, err)

	green := idOf(t, chart, "green")
	yellow := idOf(t, chart, "yellow")

	tr, err := chartpath.ResolveEvent(chart, green, chartpath.NewEvent("timer", nil))
	require.NoError(t, err)
	assert.Equal(t, yellow, tr.Target)

	leaf, err := chartpath.ResolveDefaultLeaf(chart, chart.Root())
	require.NoError(t, err)
	assert.Equal(t, green, leaf.ID)
}

func TestBuilderHierarchy(t *testing.T) {
	b := chartpath.NewChartBuilder("app", "app", "off")
	b.Root().On("reset", "off")
	b.State("off").Entry("log_off").On("power", "on")
	b.State("on").Compound("idle").Entry("boot").Exit("shutdown").On("power", "off")
	b.State("on.idle").On("work", "busy")
	b.State("on.busy").Entry("spin").Exit("stop_spin").On("done", "idle")

	cfg, err := b.Config()
	require.NoError(t, err)
	require.Len(t, cfg.Root.Children, 2)
	assert.Equal(t, "on", cfg.Root.Children[1].Name)
	assert.Len(t, cfg.Root.Children[1].Children, 2)

	chart, err := b.Build()
	require.NoError(t, err)

	plan, err := chartpath.Plan(chart, idOf(t, chart, "off"), chartpath.NewEvent("power", nil))
	require.NoError(t, err)
	assert.Equal(t, "idle", plan.Leaf.Name)
	assert.Equal(t, []string{"boot"}, actions(plan.Actions))

	plan, err = chartpath.Plan(chart, idOf(t, chart, "busy"), chartpath.NewEvent("reset", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"stop_spin", "shutdown", "log_off"}, actions(plan.Actions))
}

func TestBuilderAutoCreatesParents(t *testing.T) {
	b := chartpath.NewChartBuilder("m", "root", "a")
	b.State("a.b.c")

	chart, err := b.Build()
	require.NoError(t, err)
	leaf, err := chartpath.ResolveDefaultLeaf(chart, chart.Root())
	require.NoError(t, err)
	assert.Equal(t, "c", leaf.Name)
	assert.Equal(t, 4, chart.Len())
}

func TestBuilderEmbed(t *testing.T) {
	panel := chartpath.NewChartBuilder("widget", "panel", "idle")
	panel.State("idle").On("poke", "active")
	panel.State("active").On("stop", "idle")

	b := chartpath.NewChartBuilder("main", "root", "idle")
	b.State("idle").On("start", "busy").OnSubchart("peek", "active")
	b.State("busy").Embed(panel).On("stop", "idle")

	chart, err := b.Build()
	require.NoError(t, err)

	idle := idOf(t, chart, "idle")
	busy := idOf(t, chart, "busy")

	leaf, err := chartpath.ResolveTarget(chart, chartpath.ByID(busy))
	require.NoError(t, err)
	assert.Equal(t, chartpath.OwnerID("widget"), leaf.Owner)
	assert.Equal(t, "idle", leaf.Name)

	_, err = chartpath.ResolveStateReference(chart, chartpath.ByName("idle"), chartpath.SearchSubcharts())
	assert.ErrorIs(t, err, chartpath.ErrAmbiguousStateName)

	tr, err := chartpath.ResolveEvent(chart, idle, chartpath.NewEvent("peek", nil))
	require.NoError(t, err)
	active, _ := chart.Node(tr.Target)
	assert.Equal(t, "active", active.Name)

	// the embedded chart's own "stop" wins over busy's
	tr, err = chartpath.ResolveEvent(chart, active.ID, chartpath.NewEvent("stop", nil))
	require.NoError(t, err)
	assert.Equal(t, leaf.ID, tr.Target)
}

func TestBuilderEmbedTwice(t *testing.T) {
	sub := chartpath.NewChartBuilder("w", "inner", "x")
	sub.State("x")

	b := chartpath.NewChartBuilder("m", "root", "host")
	b.State("host").Embed(sub).Embed(sub)

	_, err := b.Build()
	assert.ErrorContains(t, err, "already embeds")
}
