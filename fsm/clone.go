package fsm

// DeepClone produces a structurally identical subgraph rooted at a fresh
// node, with fresh identifiers throughout, preserving sharing and cycles.
// Grounded on spec §4.2 and the design notes' "identifier map during
// clone" strategy: first every reachable old node is collected and cloned
// (kind fields only) into a fresh node under an old-ID -> new-node map,
// then a second pass wires up children by looking up that map, so
// back-edges and shared children resolve correctly regardless of visit
// order.
func DeepClone(start *Node) *Node {
	old := map[int]*Node{start.ID: start}
	Walk(start, func(parent, child *Node, idx *int, visited map[int]bool) bool {
		old[child.ID] = child
		return false
	}, DepthFirst, true, false)

	mapping := make(map[int]*Node, len(old))
	for id, n := range old {
		mapping[id] = cloneNodeKind(n)
	}
	for id, fresh := range mapping {
		var children []*Node
		for _, c := range old[id].Children() {
			children = append(children, mapping[c.ID])
		}
		fresh.SetChildren(children)
	}
	return mapping[start.ID]
}

func cloneNodeKind(n *Node) *Node {
	switch n.Kind {
	case KNull:
		return NewNull()
	case KKeyword:
		fresh := NewKeyword(n.Expanded)
		fresh.Short = n.Short
		fresh.Closing = n.Closing
		return fresh
	case KUserDefinedRegex:
		fresh, _ := NewUserDefinedRegex(n.Pattern)
		return fresh
	case KUserDefinedCombo:
		fresh, _ := NewUserDefinedCombo(n.Pattern)
		for _, r := range n.Followers() {
			fresh.AddFollower(r)
		}
		return fresh
	}
	return NewNull()
}
