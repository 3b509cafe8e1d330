package production

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
	"github.com/comalice/chartpath/testutil"
)

func TestExportDOTGolden(t *testing.T) {
	chart := testutil.SampleChart()
	p, err := core.TransitionPath(chart, testutil.B1, testutil.C1)
	require.NoError(t, err)

	v := &DefaultVisualizer{}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sample_overlay", []byte(v.ExportDOT(chart, p)))
}

func TestExportDOTSubchartLabels(t *testing.T) {
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(testutil.SubchartChart(), nil)

	assert.Contains(t, dot, `label="panel [widget]"`)
	assert.Contains(t, dot, `"#5" [label="active [widget]"];`)
	assert.Contains(t, dot, `"#1" [label="idle"];`)
	assert.Contains(t, dot, `"#1" -> "#2" [label="start"];`)
	assert.NotContains(t, dot, "fillcolor", "no overlay, no highlight")
}

func TestExportJSON(t *testing.T) {
	cfg := &primitives.ChartConfig{
		Owner: "m",
		Root:  primitives.NewStateConfig("r").AddChild(primitives.NewStateConfig("a")).WithInitial("a"),
	}
	data, err := (&DefaultVisualizer{}).ExportJSON(cfg)
	require.NoError(t, err)

	var back primitives.ChartConfig
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, &back)
}
