package fsm

// Shorten implements the Shortener helper: it extends short by exactly one
// more rune taken from expanded. If short already equals expanded, it is
// returned unchanged — the sentinel meaning "no further abbreviation is
// possible; the caller must type the full word". Shorten panics if asked to
// expand a short that is not a prefix of expanded at all, since that is a
// caller-contract violation (spec §7: "expand the empty string" and its
// kin are programming bugs, not runtime conditions).
func Shorten(short, expanded string) string {
	if short == expanded {
		return short
	}
	sr := []rune(short)
	er := []rune(expanded)
	if len(sr) >= len(er) {
		panic("fsm: Shorten called with short already as long as expanded")
	}
	for i, r := range sr {
		if i >= len(er) || er[i] != r {
			panic("fsm: Shorten called with short that is not a prefix of expanded")
		}
	}
	return short + string(er[len(sr)])
}

// isPrefix reports whether a is a prefix of b or b is a prefix of a.
func mutualPrefix(a, b string) bool {
	ar, br := []rune(a), []rune(b)
	n := len(ar)
	if len(br) < n {
		n = len(br)
	}
	for i := 0; i < n; i++ {
		if ar[i] != br[i] {
			return false
		}
	}
	return true
}

// ResolveConflicts applies Shorten iteratively to newChild (and, if
// newChild is a Null, transitively to the Keyword nodes reachable through
// it) against every Keyword already reachable from parent's Null frontier,
// until no two short codes on that frontier share a prefix (I3). It returns
// true if it made any change.
//
// Grounded on handle_potential_conflict in original_source/nightfury/src/lib.rs
// and fsm.rs: the policy is greedy and symmetric, both sides of a detected
// conflict grow, which guarantees termination since each extension strictly
// shortens the remaining runway.
func ResolveConflicts(parent, newChild *Node) bool {
	changed := false
	for resolveOnePass(parent, newChild) {
		changed = true
	}
	return changed
}

func resolveOnePass(parent, newChild *Node) bool {
	var newKeywords []*Node
	switch newChild.Kind {
	case KKeyword:
		newKeywords = []*Node{newChild}
	case KNull:
		newKeywords = NullFrontierKeywords(newChild)
	default:
		return false
	}
	if len(newKeywords) == 0 {
		return false
	}

	existing := NullFrontierKeywords(parent)
	changed := false
	for _, nk := range newKeywords {
		for _, ek := range existing {
			if ek.ID == nk.ID {
				continue
			}
			if mutualPrefix(ek.Short, nk.Short) {
				if ek.Short != ek.Expanded {
					ek.Short = Shorten(ek.Short, ek.Expanded)
					changed = true
				}
				if nk.Short != nk.Expanded {
					nk.Short = Shorten(nk.Short, nk.Expanded)
					changed = true
				}
			}
		}
	}
	return changed
}

// AddChildCycleSafe appends child to parent after resolving short-code
// conflicts to a fixed point (§4.2's add_child_cycle_safe).
func AddChildCycleSafe(parent, child *Node) {
	for ResolveConflicts(parent, child) {
	}
	parent.AppendChild(child)
}

// AddChildToAllLeaves attaches x as a new child of every leaf reachable
// from start (start itself included if it is a leaf).
func AddChildToAllLeaves(start, x *Node) {
	for _, leaf := range Leaves(start) {
		AddChildCycleSafe(leaf, x)
	}
}
