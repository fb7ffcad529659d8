package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// DotGraph renders the tree rooted at n as a Graphviz digraph for the
// .outast stream (SPEC_FULL.md §6.2/§2C). Inner (Children) nodes are
// ellipses labeled by kind; leaves are boxes labeled by their payload.
//
// Grounded on original_source/ast/src/ast.rs's dot_graph/dot_node_label_rec,
// with one necessary departure: the Rust original uses the node's pointer
// address ({:p}) as a stable graph node id. Go has no equivalent stable,
// printable pointer text, so this uses a pre-order serial counter instead
// (SPEC_FULL.md §2C).
func DotGraph(root *Node) string {
	var b strings.Builder
	b.WriteString("digraph A {\n")
	serial := 0
	var walk func(n *Node) int
	walk = func(n *Node) int {
		id := serial
		serial++
		if n.IsLeaf() {
			fmt.Fprintf(&b, "  n%d [shape=box, label=%s];\n", id, strconv.Quote(n.leafText()))
		} else {
			fmt.Fprintf(&b, "  n%d [shape=ellipse, label=%s];\n", id, strconv.Quote(n.Kind))
		}
		for _, child := range n.Children() {
			childID := walk(child)
			fmt.Fprintf(&b, "  n%d -> n%d;\n", id, childID)
		}
		return id
	}
	walk(root)
	b.WriteString("}\n")
	return b.String()
}
