package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartpath/internal/primitives"
	"github.com/comalice/chartpath/testutil"
)

func TestResolveEvent(t *testing.T) {
	chart := testutil.SampleChart()

	tests := []struct {
		name           string
		node           primitives.NodeID
		event          string
		source, target primitives.NodeID
	}{
		{"own transition beats ancestor", testutil.B1, "go", testutil.B1, testutil.C},
		{"inherited from grandparent", testutil.B2, "go", testutil.A, testutil.B2},
		{"inherited from parent", testutil.B1, "next", testutil.B, testutil.C1},
		{"inherited from root", testutil.C1, "reset", testutil.Root, testutil.A},
		{"descriptor prefix", testutil.B1, "error.fatal", testutil.A, testutil.C},
		{"declared on branch itself", testutil.A, "go", testutil.A, testutil.B2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEvent(chart, tt.node, primitives.NewEvent(tt.event, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.target, got.Target)
		})
	}
}

func TestResolveEventNotFound(t *testing.T) {
	chart := testutil.SampleChart()

	_, err := ResolveEvent(chart, testutil.B1, primitives.NewEvent("nope", nil))
	assert.ErrorIs(t, err, ErrTransitionNotFound)

	_, err = ResolveEvent(chart, testutil.Root, primitives.NewEvent("next", nil))
	assert.ErrorIs(t, err, ErrTransitionNotFound, "events declared below the node are not visible")

	_, err = ResolveEvent(chart, 99, primitives.NewEvent("go", nil))
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestResolveEventDeclarationOrderWithinNode(t *testing.T) {
	tree := primitives.NewTree()
	require.NoError(t, tree.AddRoot(primitives.NewNode(0, "root", "m",
		primitives.AsBranch(1),
		primitives.On("go", 2),
	)))
	require.NoError(t, tree.Add(0, primitives.NewNode(1, "a", "m",
		primitives.On("stop", 0),
		primitives.On("*", 2),
		primitives.On("go", 1),
	)))
	require.NoError(t, tree.Add(0, primitives.NewNode(2, "b", "m")))
	chart := primitives.NewChart("m", tree)

	got, err := ResolveEvent(chart, 1, primitives.NewEvent("go", nil))
	require.NoError(t, err)
	assert.Equal(t, primitives.NodeID(1), got.Source)
	assert.Equal(t, primitives.NodeID(2), got.Target, "first matching declaration wins")

	got, err = ResolveEvent(chart, 1, primitives.NewEvent("stop", nil))
	require.NoError(t, err)
	assert.Equal(t, primitives.NodeID(0), got.Target)
}

func TestResolveEventInFamilyTreeAgreesWithPathSearch(t *testing.T) {
	events := []string{"go", "next", "reset", "error", "error.io", "back", "nope"}
	for _, chart := range []*primitives.Chart{testutil.SampleChart(), testutil.SubchartChart()} {
		for _, n := range chart.Nodes() {
			for _, e := range events {
				evt := primitives.NewEvent(e, nil)
				want, wantErr := ResolveEvent(chart, n.ID, evt)
				got, gotErr := ResolveEventInFamilyTree(chart, n.ID, evt)
				assert.Equal(t, want, got, "node %s event %s", n, e)
				assert.Equal(t, Kind(wantErr), Kind(gotErr), "node %s event %s", n, e)
			}
		}
	}
}

func TestLookupTransition(t *testing.T) {
	chart := testutil.SampleChart()

	got, err := LookupTransition(chart, testutil.C1, primitives.NewEvent("back", nil))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testutil.B, got.Target)

	got, err = LookupTransition(chart, testutil.C1, primitives.NewEvent("nope", nil))
	assert.NoError(t, err)
	assert.Nil(t, got, "absent transition is not an error")

	_, err = LookupTransition(chart, 77, primitives.NewEvent("back", nil))
	assert.ErrorIs(t, err, ErrUnknownNode)

	_, err = ResolveEventInFamilyTree(chart, testutil.C1, primitives.NewEvent("nope", nil))
	assert.ErrorIs(t, err, ErrTransitionNotFound)
}
