package fsm

// Minify collapses chains of redundant Null nodes reachable from root,
// preserving the language of the FSM and invariants I1-I6 (§4.6).
//
// Pass 1 (depth-first, mutating): whenever a Null node itself has exactly
// one child and that child is also Null, the child is spliced out — the
// node is retained and inherits the child's children (skipping would-be
// self-cycles and duplicates), and the removed child is recorded in a
// translation table pointing at the surviving node. Pass 2 rewrites any
// remaining edge whose target is in the translation table to point to the
// replacement. A final de-duplication pass removes repeated direct
// children per node.
func Minify(root *Node) {
	translation := make(map[int]*Node)
	splicePass(root, translation, map[int]bool{root.ID: true})
	rewritePass(root, translation, map[int]bool{root.ID: true})
	dedupPass(root, map[int]bool{root.ID: true})
}

// splicePass is pass 1. It walks depth-first, and whenever the node it is
// standing on is Null with exactly one Null child, collapses that child
// into the node in place (looping, since the absorbed children may again
// leave the node with a single Null child), recording child.ID -> n in
// translation.
func splicePass(n *Node, translation map[int]*Node, visited map[int]bool) {
	for n.Kind == KNull && singleNullChild(n) {
		child := n.Children()[0]
		translation[child.ID] = n
		n.RemoveChildAt(0)
		for _, gc := range child.Children() {
			if gc.ID == n.ID {
				continue // would-be self-cycle through the splice point
			}
			n.AppendChild(gc)
		}
	}
	for _, c := range n.Children() {
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true
		splicePass(c, translation, visited)
	}
}

// singleNullChild reports whether n has exactly one child and that child is
// a Null node.
func singleNullChild(n *Node) bool {
	c := n.Children()
	return len(c) == 1 && c[0].Kind == KNull
}

// rewritePass is pass 2: any edge whose target id is a key in translation
// is redirected to translation[id], skipping self-cycles and duplicates.
func rewritePass(n *Node, translation map[int]*Node, visited map[int]bool) {
	children := n.Children()
	var rewritten []*Node
	changed := false
	for _, c := range children {
		target := c
		for {
			repl, ok := translation[target.ID]
			if !ok {
				break
			}
			target = repl
			changed = true
		}
		if target.ID == n.ID {
			changed = true
			continue // self-cycle introduced by rewriting; drop
		}
		rewritten = append(rewritten, target)
	}
	if changed {
		n.SetChildren(rewritten)
	}
	for _, c := range n.Children() {
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true
		rewritePass(c, translation, visited)
	}
}

// dedupPass removes duplicate direct children per node (SetChildren already
// deduplicates by ID, so this just forces a rewrite through it).
func dedupPass(n *Node, visited map[int]bool) {
	n.SetChildren(n.Children())
	for _, c := range n.Children() {
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true
		dedupPass(c, visited)
	}
}
