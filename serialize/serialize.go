package serialize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/gconf"

	"github.com/nightfury-lang/nightfury/esc"
	"github.com/nightfury-lang/nightfury/fsm"
)

// Save renders root's whole reachable graph as the three-section text
// format (§4.3).
func Save(root *fsm.Node) string {
	nodes := collectNodes(root)

	var b strings.Builder
	// Node section, root first.
	fmt.Fprintf(&b, "%d\t%s\n", root.ID, kindRepr(root))
	for _, n := range nodes {
		if n.ID == root.ID {
			continue
		}
		fmt.Fprintf(&b, "%d\t%s\n", n.ID, kindRepr(n))
	}
	b.WriteString("\n")

	// Edge section: one line per node that has children.
	written := map[int]bool{}
	writeEdges := func(n *fsm.Node) {
		if written[n.ID] {
			return
		}
		written[n.ID] = true
		children := n.Children()
		if len(children) == 0 {
			return
		}
		fmt.Fprintf(&b, "%d", n.ID)
		for _, c := range children {
			fmt.Fprintf(&b, "\t%d", c.ID)
		}
		b.WriteString("\n")
	}
	writeEdges(root)
	for _, n := range nodes {
		writeEdges(n)
	}
	b.WriteString("\n")

	return b.String()
}

func kindRepr(n *fsm.Node) string {
	switch n.Kind {
	case fsm.KNull:
		return ""
	case fsm.KKeyword:
		fields := []string{esc.Encode(n.Short), esc.Encode(n.Expanded)}
		if n.Closing != "" {
			fields = append(fields, esc.Encode(n.Closing))
		}
		return strings.Join(fields, "\t")
	case fsm.KUserDefinedRegex:
		return "/" + n.Pattern
	case fsm.KUserDefinedCombo:
		fields := []string{"/" + n.Pattern}
		followers := n.Followers()
		sort.Slice(followers, func(i, j int) bool { return followers[i] < followers[j] })
		for _, r := range followers {
			fields = append(fields, string(r))
		}
		return strings.Join(fields, "\t")
	}
	return ""
}

// collectNodes returns every node reachable from root (root included),
// in a stable, deterministic order (by ID) so Save is reproducible.
func collectNodes(root *fsm.Node) []*fsm.Node {
	seen := map[int]*fsm.Node{root.ID: root}
	fsm.Walk(root, func(parent, child *fsm.Node, idx *int, visited map[int]bool) bool {
		seen[child.ID] = child
		return false
	}, fsm.DepthFirst, true, false)

	out := make([]*fsm.Node, 0, len(seen))
	for _, n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FormatError reports a malformed FSM file: missing required field,
// non-parseable identifier, or unknown kind tag (§7).
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("serialize: line %d: %s", e.Line, e.Msg)
}

// Load parses the three-section text format back into an fsm.Node graph,
// returning the root. Edge installation is routed through
// fsm.AddChildCycleSafe so I2/I3 are re-enforced on load, unless the
// "nightfury-fast-load" gconf toggle selects the release-mode fast path
// of unchecked appends (§4.3), which assumes the file was produced by a
// compliant Save.
func Load(text string) (*fsm.Node, error) {
	lines := strings.Split(text, "\n")

	i := 0
	var rootID int
	byID := make(map[int]*fsm.Node)
	var order []int

	first := true
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		n, id, err := parseNodeLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if first {
			rootID = id
			first = false
		}
		byID[id] = n
		order = append(order, id)
	}
	if first {
		return nil, &FormatError{Line: 1, Msg: "empty node section"}
	}

	fast := gconf.GetBool("nightfury-fast-load")

	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			break
		}
		if err := parseEdgeLine(line, i+1, byID, fast); err != nil {
			return nil, err
		}
	}

	root, ok := byID[rootID]
	if !ok {
		return nil, &FormatError{Line: 1, Msg: "root id not found among declared nodes"}
	}
	return root, nil
}

func parseNodeLine(line string, lineNo int) (*fsm.Node, int, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return nil, 0, &FormatError{Line: lineNo, Msg: "node record missing kind field"}
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, 0, &FormatError{Line: lineNo, Msg: "non-parseable node identifier: " + fields[0]}
	}
	kindFields := fields[1:]

	if len(kindFields) == 1 && kindFields[0] == "" {
		return fsm.NewNull(), id, nil
	}
	if strings.HasPrefix(kindFields[0], "/") {
		pattern := strings.TrimPrefix(kindFields[0], "/")
		if len(kindFields) == 1 {
			n, err := fsm.NewUserDefinedRegex(pattern)
			if err != nil {
				return nil, 0, &FormatError{Line: lineNo, Msg: "bad regex pattern: " + err.Error()}
			}
			return n, id, nil
		}
		n, err := fsm.NewUserDefinedCombo(pattern)
		if err != nil {
			return nil, 0, &FormatError{Line: lineNo, Msg: "bad regex pattern: " + err.Error()}
		}
		for _, f := range kindFields[1:] {
			rs := []rune(esc.Resolve(f))
			if len(rs) > 0 {
				n.AddFollower(rs[0])
			}
		}
		return n, id, nil
	}
	if len(kindFields) < 2 {
		return nil, 0, &FormatError{Line: lineNo, Msg: "keyword record missing expanded field"}
	}
	short := esc.Resolve(kindFields[0])
	expanded := esc.Resolve(kindFields[1])
	var n *fsm.Node
	if len(kindFields) >= 3 {
		n = fsm.NewKeywordClosing(expanded, esc.Resolve(kindFields[2]))
	} else {
		n = fsm.NewKeyword(expanded)
	}
	n.Short = short
	return n, id, nil
}

func parseEdgeLine(line string, lineNo int, byID map[int]*fsm.Node, fast bool) error {
	fields := strings.Split(line, "\t")
	if len(fields) < 1 {
		return &FormatError{Line: lineNo, Msg: "empty edge record"}
	}
	parentID, err := strconv.Atoi(fields[0])
	if err != nil {
		return &FormatError{Line: lineNo, Msg: "non-parseable parent identifier: " + fields[0]}
	}
	parent, ok := byID[parentID]
	if !ok {
		return &FormatError{Line: lineNo, Msg: fmt.Sprintf("edge references unknown parent id %d", parentID)}
	}
	for _, cf := range fields[1:] {
		childID, err := strconv.Atoi(cf)
		if err != nil {
			return &FormatError{Line: lineNo, Msg: "non-parseable child identifier: " + cf}
		}
		child, ok := byID[childID]
		if !ok {
			return &FormatError{Line: lineNo, Msg: fmt.Sprintf("edge references unknown child id %d", childID)}
		}
		if fast {
			parent.AppendChild(child)
		} else {
			fsm.AddChildCycleSafe(parent, child)
		}
	}
	return nil
}
