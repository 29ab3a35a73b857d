package cursor

import (
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/nightfury-lang/nightfury/fsm"
)

// Cursor advances a position through an FSM one character at a time.
// Grounded on §4.8's FSMCursor; the node graph itself is never mutated by
// a Cursor.
type Cursor struct {
	root *fsm.Node
	cur  *fsm.Node

	buf []rune

	didRevert      bool
	regexCompleted bool // set by advanceRegex when the just-fed char completed a full match

	pathStack  *arraylist.List // prior positions (*fsm.Node), for revert()
	unfinished *arraylist.List // bracket stack of Keyword nodes (*fsm.Node) with Closing set

	isDone map[int]bool // per-cursor is_done, keyed by node ID
}

// New creates a cursor positioned at root.
func New(root *fsm.Node) *Cursor {
	return &Cursor{
		root:       root,
		cur:        root,
		pathStack:  arraylist.New(),
		unfinished: arraylist.New(),
		isDone:     make(map[int]bool),
	}
}

// Reset returns the cursor to its initial position, discarding all
// accumulated state. is_done is per-cursor, so a reset clears it too,
// sidestepping the lifetime question the shared-node design raised.
func (c *Cursor) Reset() {
	c.cur = c.root
	c.buf = nil
	c.didRevert = false
	c.regexCompleted = false
	c.pathStack = arraylist.New()
	c.unfinished = arraylist.New()
	c.isDone = make(map[int]bool)
}

// Clone forks the cursor at its current position, grounded on FSMCursor's
// #[derive(Clone)] in the original implementation.
func (c *Cursor) Clone() *Cursor {
	clone := &Cursor{
		root:   c.root,
		cur:    c.cur,
		buf:    append([]rune(nil), c.buf...),
		isDone: make(map[int]bool, len(c.isDone)),
	}
	for k, v := range c.isDone {
		clone.isDone[k] = v
	}
	clone.pathStack = cloneNodeList(c.pathStack)
	clone.unfinished = cloneNodeList(c.unfinished)
	clone.didRevert = c.didRevert
	return clone
}

func cloneNodeList(l *arraylist.List) *arraylist.List {
	out := arraylist.New()
	out.Add(l.Values()...)
	return out
}

// pathTop returns the top of the path stack without popping it.
func pathTop(l *arraylist.List) (*fsm.Node, bool) {
	v, ok := l.Get(l.Size() - 1)
	if !ok {
		return nil, false
	}
	return v.(*fsm.Node), true
}

// truncateTo removes elements from the end of l until it has length n.
func truncateTo(l *arraylist.List, n int) {
	for l.Size() > n {
		l.Remove(l.Size() - 1)
	}
}

// IsInUserdefinedStage reports whether the current node's kind is a
// userdef variant; the front-end echoes the raw keystroke verbatim while
// this holds.
func (c *Cursor) IsInUserdefinedStage() bool {
	return c.cur.Kind == fsm.KUserDefinedRegex || c.cur.Kind == fsm.KUserDefinedCombo
}

// RegexJustCompleted reports whether the most recent Advance call caused a
// UserDefinedRegex run to reach a full match that remains ambiguous (the
// wire protocol's RegexFull signal): the free-form run is well-formed but
// more than one keyword could still follow it.
func (c *Cursor) RegexJustCompleted() bool {
	return c.regexCompleted
}

// IsDone reports whether the cursor has nothing useful left to match.
func (c *Cursor) IsDone() bool {
	if !hasUsefulChildren(c.cur) {
		if c.cur.Kind == fsm.KUserDefinedRegex || c.cur.Kind == fsm.KUserDefinedCombo {
			return c.isDone[c.cur.ID]
		}
		return true
	}
	return false
}

// hasUsefulChildren reports whether n has a non-Null child, or a Keyword or
// userdef node reachable through its Null children (i.e. it is not a dead
// end). A node whose only children are Null nodes with nothing behind them
// has no useful children.
func hasUsefulChildren(n *fsm.Node) bool {
	if n.ChildCount() == 0 {
		return false
	}
	for _, c := range n.Children() {
		if c.Kind != fsm.KNull {
			return true
		}
	}
	kws := fsm.NullFrontierKeywords(n)
	uds := fsm.NullFrontierUserdefs(n)
	return len(kws) > 0 || len(uds) > 0
}

// Revert removes one character from the buffer; if the buffer is already
// empty, it pops the path stack and restores the previous position.
func (c *Cursor) Revert() {
	if len(c.buf) > 0 {
		c.buf = c.buf[:len(c.buf)-1]
		return
	}
	if top, ok := pathTop(c.pathStack); ok {
		c.cur = top
		c.pathStack.Remove(c.pathStack.Size() - 1)
	}
}

// Advance feeds one character to the cursor (§4.8).
func (c *Cursor) Advance(ch rune) Result {
	prevBuf := append([]rune(nil), c.buf...)
	prevCur := c.cur
	prevDoneVal, hadDone := c.isDone[c.cur.ID]
	prevPathLen := c.pathStack.Size()
	prevUnfinishedLen := c.unfinished.Size()

	c.buf = append(c.buf, ch)
	c.regexCompleted = false

	var res Result
	switch c.cur.Kind {
	case fsm.KUserDefinedRegex:
		res = c.advanceRegex()
	case fsm.KUserDefinedCombo:
		res = c.advanceCombo(ch)
	default:
		res = c.runSearch(false, false)
	}

	if res.Kind == InvalidChar {
		// P5: roll back to exactly the pre-call state.
		c.buf = prevBuf
		c.cur = prevCur
		if hadDone {
			c.isDone[prevCur.ID] = prevDoneVal
		} else {
			delete(c.isDone, prevCur.ID)
		}
		truncateTo(c.pathStack, prevPathLen)
		truncateTo(c.unfinished, prevUnfinishedLen)
		c.didRevert = true
	}
	return res
}

// runSearch implements the non-regex search algorithm: it walks the
// keyword frontier reachable from c.cur, looking for a unique Keyword
// whose Short begins with the accumulated buffer. fromUserdef marks that
// the caller is exiting a free-form section, so a commit is reported as
// ExpandedAfterUserdef instead of Expanded. bestEffort allows committing
// to the single reachable keyword even if its Short does not literally
// match the buffer, used when a regex run has just completed.
func (c *Cursor) runSearch(fromUserdef, bestEffort bool) Result {
	buf := string(c.buf)
	frontier := fsm.NullFrontierKeywords(c.cur)

	var matches []*fsm.Node
	for _, k := range frontier {
		if strings.HasPrefix(k.Short, buf) {
			matches = append(matches, k)
		}
	}

	switch {
	case len(matches) == 1:
		return c.commit(matches[0], fromUserdef)

	case len(matches) == 0:
		if u := c.matchingUserdef(buf); u != nil {
			c.pushPath()
			c.cur = u
			return Result{Kind: None}
		}
		if bestEffort && len(frontier) == 1 {
			return c.commit(frontier[0], fromUserdef)
		}
		c.buf = c.buf[:len(c.buf)-1]
		c.didRevert = true
		return Result{Kind: InvalidChar}

	default:
		return Result{Kind: None}
	}
}

// matchingUserdef returns the reachable regex/combo node whose pattern
// matches buf from its start, if exactly one such node exists.
func (c *Cursor) matchingUserdef(buf string) *fsm.Node {
	var found *fsm.Node
	for _, u := range fsm.NullFrontierUserdefs(c.cur) {
		re := u.Regexp()
		if re == nil {
			continue
		}
		loc := re.FindStringIndex(buf)
		if loc != nil && loc[0] == 0 {
			if found != nil {
				return nil // ambiguous; caller falls through to InvalidChar
			}
			found = u
		}
	}
	return found
}

// advanceRegex handles the current node being a plain UserDefinedRegex.
func (c *Cursor) advanceRegex() Result {
	buf := string(c.buf)
	re := c.cur.Regexp()
	if re == nil || !re.MatchString(buf) {
		c.buf = c.buf[:len(c.buf)-1]
		c.didRevert = true
		return Result{Kind: InvalidChar}
	}
	c.isDone[c.cur.ID] = true
	// The run may end exactly on the character that starts a follower
	// keyword: reset the buffer to just the last rune fed and re-run the
	// search in best-effort mode.
	c.buf = []rune{c.buf[len(c.buf)-1]}
	res := c.runSearch(true, true)
	if res.Kind == None {
		c.regexCompleted = true
	}
	return res
}

// advanceCombo handles the current node being a UserDefinedCombo.
func (c *Cursor) advanceCombo(ch rune) Result {
	if c.cur.HasFollower(ch) {
		c.buf = []rune{ch}
		return c.runSearch(true, false)
	}
	buf := string(c.buf)
	re := c.cur.Regexp()
	if re != nil && re.MatchString(buf) {
		return Result{Kind: None}
	}
	c.buf = c.buf[:len(c.buf)-1]
	c.didRevert = true
	return Result{Kind: InvalidChar}
}

// commit moves the cursor onto k, clears the buffer, and performs the
// position-update bookkeeping (§4.8's "Position update").
func (c *Cursor) commit(k *fsm.Node, fromUserdef bool) Result {
	c.pushPath()
	c.cur = k
	c.buf = nil
	c.didRevert = false

	if k.Closing != "" {
		c.unfinished.Add(k)
	}
	if k.ChildCount() == 0 && c.unfinished.Size() > 1 {
		n := c.unfinished.Size() - 1
		resume, _ := c.unfinished.Get(n)
		c.unfinished.Remove(n)
		c.cur = resume.(*fsm.Node)
	}

	kind := Expanded
	if fromUserdef {
		kind = ExpandedAfterUserdef
	}
	return Result{Kind: kind, Text: k.Expanded}
}

func (c *Cursor) pushPath() {
	c.pathStack.Add(c.cur)
}
