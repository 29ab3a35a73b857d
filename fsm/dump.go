package fsm

import (
	"fmt"
	"strings"
)

// DumpChildren renders n's direct children as a one-line summary.
// Supplemented from original_source/nightfury/src/fsm.rs's dbg helper,
// dropped by the distillation but useful standalone.
func (n *Node) DumpChildren() string {
	var b strings.Builder
	for i, c := range n.Children() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "#%d:%s", c.ID, c.label())
	}
	return b.String()
}

func (n *Node) label() string {
	switch n.Kind {
	case KNull:
		return "Null"
	case KKeyword:
		if n.Closing != "" {
			return fmt.Sprintf("Keyword(%s/%s..%s)", n.Short, n.Expanded, n.Closing)
		}
		return fmt.Sprintf("Keyword(%s/%s)", n.Short, n.Expanded)
	case KUserDefinedRegex:
		return fmt.Sprintf("Regex(/%s/)", n.Pattern)
	case KUserDefinedCombo:
		return fmt.Sprintf("Combo(/%s/, followers=%q)", n.Pattern, n.Followers())
	default:
		return "?"
	}
}

// String renders a full indented tree dump of the graph rooted at n, used by
// cmd/nightfury dbg. It is cycle-safe: a node's children are expanded only
// at its first occurrence; every later occurrence prints the node's own line
// followed by "...".
func (n *Node) String() string {
	var b strings.Builder
	visited := map[int]bool{}
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		fmt.Fprintf(&b, "%s#%d %s\n", strings.Repeat("  ", depth), node.ID, node.label())
		if visited[node.ID] {
			fmt.Fprintf(&b, "%s...\n", strings.Repeat("  ", depth+1))
			return
		}
		visited[node.ID] = true
		for _, c := range node.Children() {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return b.String()
}
