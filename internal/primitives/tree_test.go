package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSample builds Root(0) -> A(1) -> {B(2), C(3)}, B -> {B1(4), B2(5)}, C -> {C1(6)}.
func buildSample(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree()
	require.NoError(t, tree.AddRoot(NewNode(0, "Root", "main", AsBranch(1))))
	require.NoError(t, tree.Add(0, NewNode(1, "A", "main", AsBranch(2))))
	require.NoError(t, tree.Add(1, NewNode(2, "B", "main", AsBranch(4))))
	require.NoError(t, tree.Add(1, NewNode(3, "C", "main", AsBranch(6))))
	require.NoError(t, tree.Add(2, NewNode(4, "B1", "main")))
	require.NoError(t, tree.Add(2, NewNode(5, "B2", "main")))
	require.NoError(t, tree.Add(3, NewNode(6, "C1", "main")))
	return tree
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestTreePathToRoot(t *testing.T) {
	for _, frozen := range []bool{false, true} {
		tree := buildSample(t)
		if frozen {
			tree.Freeze()
		}
		path, ok := tree.PathToRoot(4)
		require.True(t, ok)
		assert.Equal(t, []string{"Root", "A", "B", "B1"}, names(path))

		path, ok = tree.PathToRoot(0)
		require.True(t, ok)
		assert.Equal(t, []string{"Root"}, names(path))

		_, ok = tree.PathToRoot(99)
		assert.False(t, ok)
	}
}

func TestTreeAncestorChainIsReversedPath(t *testing.T) {
	tree := buildSample(t).Freeze()
	for _, n := range tree.Nodes() {
		path, ok := tree.PathToRoot(n.ID)
		require.True(t, ok)
		chain, ok := tree.AncestorChain(n.ID)
		require.True(t, ok)
		require.Len(t, chain, len(path))
		for i := range chain {
			assert.Same(t, path[len(path)-1-i], chain[i], "node %s index %d", n, i)
		}
	}
}

func TestTreeDescendants(t *testing.T) {
	tree := buildSample(t).Freeze()

	desc, ok := tree.Descendants(1)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "B1", "B2", "C", "C1"}, names(desc))

	desc, ok = tree.Descendants(4)
	require.True(t, ok)
	assert.Empty(t, desc, "a leaf has no descendants and never includes itself")

	_, ok = tree.Descendants(42)
	assert.False(t, ok)
}

func TestTreeMutationErrors(t *testing.T) {
	tree := buildSample(t)
	assert.ErrorIs(t, tree.AddRoot(NewNode(10, "X", "main")), ErrRootExists)
	assert.ErrorIs(t, tree.Add(0, NewNode(1, "dup", "main")), ErrDuplicateNode)
	assert.ErrorIs(t, tree.Add(77, NewNode(11, "orphan", "main")), ErrNoParent)

	tree.Freeze()
	assert.True(t, tree.Frozen())
	assert.ErrorIs(t, tree.Add(0, NewNode(12, "late", "main")), ErrTreeFrozen)
}

func TestTreeQueries(t *testing.T) {
	tree := buildSample(t).Freeze()
	assert.Equal(t, 7, tree.Len())
	assert.True(t, tree.Contains(6))
	assert.False(t, tree.Contains(7))
	assert.Equal(t, "Root", tree.Root().Name)

	parent, ok := tree.Parent(6)
	require.True(t, ok)
	assert.Equal(t, "C", parent.Name)
	_, ok = tree.Parent(0)
	assert.False(t, ok)

	assert.Equal(t, []string{"B1", "B2"}, names(tree.Children(2)))

	ids := make([]NodeID, 0, tree.Len())
	for _, n := range tree.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []NodeID{0, 1, 2, 3, 4, 5, 6}, ids)
}

func TestNodeAccessors(t *testing.T) {
	leaf := NewNode(3, "leaf", "main", OnEntry("a", "b"), OnExit("c"), On("go", 1))
	assert.False(t, leaf.IsBranch())
	_, ok := leaf.Default()
	assert.False(t, ok)
	assert.Equal(t, []ActionRef{"a", "b"}, leaf.Actions(Enter))
	assert.Equal(t, []ActionRef{"c"}, leaf.Actions(Exit))
	assert.Nil(t, leaf.Actions(Direction("sideways")))
	assert.Equal(t, []Transition{{Event: "go", Target: 1}}, leaf.Transitions)
	assert.Equal(t, "leaf(#3)", leaf.String())

	branch := NewNode(1, "branch", "main", AsBranch(3))
	def, ok := branch.Default()
	assert.True(t, ok)
	assert.Equal(t, NodeID(3), def)

	bare := NewNode(2, "bare", "main", AsBranchWithoutDefault())
	assert.True(t, bare.IsBranch())
	_, ok = bare.Default()
	assert.False(t, ok)
}

func TestChartOwners(t *testing.T) {
	tree := buildSample(t)
	require.NoError(t, tree.Add(6, NewNode(7, "hinge", "sub")))
	chart := NewChart("main", tree)
	assert.True(t, chart.Frozen())
	assert.Equal(t, OwnerID("main"), chart.Owner())
	assert.Equal(t, []OwnerID{"main", "sub"}, chart.Owners())

	view := chart.WithOwner("sub")
	assert.Equal(t, OwnerID("sub"), view.Owner())
	assert.Same(t, chart.Tree, view.Tree)
}
