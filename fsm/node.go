package fsm

import (
	"regexp"
	"sync/atomic"

	"golang.org/x/exp/slices"
)

// Kind tags the variant of a Node, per the NodeKind tagged union.
type Kind int

const (
	// KNull is structural: it carries no label and is used for joins,
	// branches, optional skips, and repeat loops.
	KNull Kind = iota
	// KKeyword is a fixed token with a (possibly abbreviated) short code.
	KKeyword
	// KUserDefinedRegex consumes a free-form run matched by Pattern.
	KUserDefinedRegex
	// KUserDefinedCombo is a regex edge whose exit transitions are a set
	// of single-character follower keys.
	KUserDefinedCombo
)

func (k Kind) String() string {
	switch k {
	case KNull:
		return "Null"
	case KKeyword:
		return "Keyword"
	case KUserDefinedRegex:
		return "UserDefinedRegex"
	case KUserDefinedCombo:
		return "UserDefinedCombo"
	default:
		return "?"
	}
}

var nextID int64

// nextNodeID hands out process-wide monotonically increasing identifiers;
// there is no semantic ordering between them.
func nextNodeID() int {
	return int(atomic.AddInt64(&nextID, 1))
}

// Node is a single vertex of the FSM graph. Exactly one group of fields is
// meaningful for a given Kind; Node is a closed tagged union rather than an
// interface hierarchy so every walk can switch over Kind exhaustively.
type Node struct {
	ID   int
	Kind Kind

	// Kind == KKeyword
	Short    string
	Expanded string
	Closing  string // "" means no bracket-match token

	// Kind == KUserDefinedRegex, KUserDefinedCombo
	Pattern string
	re      *regexp.Regexp

	// Kind == KUserDefinedCombo: the set of distinct first characters of
	// the Keyword edges reachable after the combo completes.
	followers *SharedMut[map[rune]struct{}]

	children *SharedMut[[]*Node]
}

// NewNull creates a fresh structural node.
func NewNull() *Node {
	return &Node{ID: nextNodeID(), Kind: KNull, children: NewSharedMut([]*Node{})}
}

// NewKeyword creates a fixed-token node whose short code starts out as the
// shortest possible prefix of expanded: its first rune. ConflictResolver
// lengthens it from there only as far as collisions force it to.
func NewKeyword(expanded string) *Node {
	short := expanded
	if r := []rune(expanded); len(r) > 0 {
		short = string(r[0])
	}
	return &Node{
		ID:       nextNodeID(),
		Kind:     KKeyword,
		Short:    short,
		Expanded: expanded,
		children: NewSharedMut([]*Node{}),
	}
}

// NewKeywordClosing is NewKeyword plus a bracket-match token, classifying
// the node as "unfinished" on entry.
func NewKeywordClosing(expanded, closing string) *Node {
	n := NewKeyword(expanded)
	n.Closing = closing
	return n
}

// NewUserDefinedRegex creates a free-form regex edge. pattern must compile
// with the standard library's regexp engine (the "chosen regex engine"
// subset this implementation recognizes).
func NewUserDefinedRegex(pattern string) (*Node, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Node{
		ID:       nextNodeID(),
		Kind:     KUserDefinedRegex,
		Pattern:  pattern,
		re:       re,
		children: NewSharedMut([]*Node{}),
	}, nil
}

// NewUserDefinedCombo creates a regex edge with an initially empty
// follower set; followers are filled in later by ComputeFollowers.
func NewUserDefinedCombo(pattern string) (*Node, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Node{
		ID:        nextNodeID(),
		Kind:      KUserDefinedCombo,
		Pattern:   pattern,
		re:        re,
		followers: NewSharedMut(map[rune]struct{}{}),
		children:  NewSharedMut([]*Node{}),
	}, nil
}

// Regexp returns the compiled pattern for a regex or combo node.
func (n *Node) Regexp() *regexp.Regexp {
	return n.re
}

// Followers returns the combo's current follower set as a sorted-free
// snapshot slice of runes.
func (n *Node) Followers() []rune {
	if n.followers == nil {
		return nil
	}
	set := n.followers.Borrow()
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	return out
}

// HasFollower reports whether c is a registered combo follower.
func (n *Node) HasFollower(c rune) bool {
	if n.followers == nil {
		return false
	}
	_, ok := n.followers.Borrow()[c]
	return ok
}

// AddFollower registers c as a combo follower.
func (n *Node) AddFollower(c rune) {
	n.followers.BorrowMut(func(set map[rune]struct{}) map[rune]struct{} {
		set[c] = struct{}{}
		return set
	})
}

// Children returns a snapshot slice of the node's current children.
func (n *Node) Children() []*Node {
	return n.children.Borrow()
}

// ChildCount returns len(Children()) without copying beyond the snapshot.
func (n *Node) ChildCount() int {
	return len(n.children.Borrow())
}

// HasChild reports whether id already appears among n's children (I2).
func (n *Node) HasChild(id int) bool {
	return slices.ContainsFunc(n.children.Borrow(), func(c *Node) bool { return c.ID == id })
}

// AppendChild appends child to n's children unless it is already present
// (I2: no node lists the same child twice).
func (n *Node) AppendChild(child *Node) {
	n.children.BorrowMut(func(cur []*Node) []*Node {
		if slices.ContainsFunc(cur, func(c *Node) bool { return c.ID == child.ID }) {
			return cur
		}
		return append(cur, child)
	})
}

// RemoveChildAt removes the child at index i, preserving order.
func (n *Node) RemoveChildAt(i int) {
	n.children.BorrowMut(func(cur []*Node) []*Node {
		if i < 0 || i >= len(cur) {
			return cur
		}
		out := make([]*Node, 0, len(cur)-1)
		out = append(out, cur[:i]...)
		out = append(out, cur[i+1:]...)
		return out
	})
}

// SetChildren replaces the full children list, deduplicating by ID.
func (n *Node) SetChildren(children []*Node) {
	seen := make(map[int]bool, len(children))
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	n.children.Set(out)
}

// NodeCount returns the number of distinct nodes reachable from n,
// including n itself. Supplemented from original_source's fsm.rs node_cnt.
func (n *Node) NodeCount() int {
	count := 0
	Walk(n, func(parent, child *Node, idx *int, visited map[int]bool) bool {
		if !visited[child.ID] {
			count++
		}
		return false
	}, DepthFirst, true, false)
	return count + 1 // + n itself
}
