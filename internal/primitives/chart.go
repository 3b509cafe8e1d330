package primitives

// Chart is a frozen tree together with the owner tag of the definition that produced it.
// Nodes whose Owner differs from the chart's belong to embedded sub-charts.
type Chart struct {
	*Tree
	owner OwnerID
}

// NewChart freezes tree and binds it to owner.
func NewChart(owner OwnerID, tree *Tree) *Chart {
	return &Chart{Tree: tree.Freeze(), owner: owner}
}

// Owner returns the chart's own owner tag.
func (c *Chart) Owner() OwnerID {
	return c.owner
}

// WithOwner returns a view over the same tree scoped to another definition.
func (c *Chart) WithOwner(owner OwnerID) *Chart {
	return &Chart{Tree: c.Tree, owner: owner}
}

// Owners lists the distinct owner tags present in the tree, the chart's own first.
func (c *Chart) Owners() []OwnerID {
	seen := map[OwnerID]bool{c.owner: true}
	out := []OwnerID{c.owner}
	for _, n := range c.Nodes() {
		if !seen[n.Owner] {
			seen[n.Owner] = true
			out = append(out, n.Owner)
		}
	}
	return out
}
