package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
)

// DefaultVisualizer renders charts as Graphviz DOT.
type DefaultVisualizer struct{}

const (
	exitStyle  = ` style="rounded,filled" fillcolor=orange`
	enterStyle = ` style="rounded,filled" fillcolor=lightgreen`
	lcaStyle   = ` penwidth=2`
)

// ExportDOT generates DOT source for chart. Branches become clusters. When overlay is
// non-nil, its exit set is drawn orange, its enter set green and its LCA bold. Nodes of
// embedded sub-charts carry their owner in the label.
func (v *DefaultVisualizer) ExportDOT(chart *primitives.Chart, overlay *core.Path) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", string(chart.Owner()))
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	styles := overlayStyles(overlay)
	if root := chart.Root(); root != nil {
		renderNode(&buf, chart, root, styles, "  ")
	}

	for _, n := range chart.Nodes() {
		for _, t := range n.Transitions {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.ID.String(), t.Target.String(), t.Event)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes a chart document to indented JSON.
func (v *DefaultVisualizer) ExportJSON(cfg *primitives.ChartConfig) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

func overlayStyles(p *core.Path) map[primitives.NodeID]string {
	styles := make(map[primitives.NodeID]string)
	if p == nil {
		return styles
	}
	for _, n := range p.Exit {
		styles[n.ID] = exitStyle
	}
	for _, n := range p.Enter {
		styles[n.ID] = enterStyle
	}
	if p.LCA != nil {
		styles[p.LCA.ID] = lcaStyle
	}
	return styles
}

func nodeLabel(chart *primitives.Chart, n *primitives.Node) string {
	if n.Owner != chart.Owner() {
		return fmt.Sprintf("%s [%s]", n.Name, n.Owner)
	}
	return n.Name
}

// renderNode recursively renders leaves as boxes and branches as clusters.
func renderNode(buf *bytes.Buffer, chart *primitives.Chart, n *primitives.Node, styles map[primitives.NodeID]string, indent string) {
	label := nodeLabel(chart, n)
	if !n.IsBranch() {
		fmt.Fprintf(buf, "%s%q [label=%q%s];\n", indent, n.ID.String(), label, styles[n.ID])
		return
	}

	fmt.Fprintf(buf, "%ssubgraph \"cluster_%d\" {\n", indent, int(n.ID))
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, label)
	fmt.Fprintf(buf, "%s  %q [label=%q shape=ellipse%s];\n", indent, n.ID.String(), label, styles[n.ID])
	for _, child := range chart.Children(n.ID) {
		renderNode(buf, chart, child, styles, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}
