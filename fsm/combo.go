package fsm

// ComputeFollowers fills in every UserDefinedCombo node's follower set
// reachable from root (§4.7): for each combo node U, it breadth-walks U's
// descendants (cycle-aware) and, for every Keyword descendant K reachable
// through the combo, adds K.Short's first rune to U's followers.
func ComputeFollowers(root *Node) {
	combos := collectCombos(root)
	for _, u := range combos {
		Walk(u, func(parent, child *Node, idx *int, visited map[int]bool) bool {
			if child.Kind == KKeyword {
				r := []rune(child.Short)
				if len(r) > 0 {
					u.AddFollower(r[0])
				}
			}
			return false
		}, BreadthFirst, true, true)
	}
}

func collectCombos(root *Node) []*Node {
	var out []*Node
	if root.Kind == KUserDefinedCombo {
		out = append(out, root)
	}
	Walk(root, func(parent, child *Node, idx *int, visited map[int]bool) bool {
		if child.Kind == KUserDefinedCombo {
			out = append(out, child)
		}
		return false
	}, DepthFirst, true, false)
	return out
}
