package lower

import (
	"fmt"

	"github.com/nightfury-lang/nightfury/ebnf"
	"github.com/nightfury-lang/nightfury/fsm"
)

// UnresolvableTerminalError is returned when a Terminal references a
// production name that no production in the grammar defines (§7). It is
// fatal for the lowering; the partial FSM is discarded.
type UnresolvableTerminalError struct {
	Name string
}

func (e *UnresolvableTerminalError) Error() string {
	return fmt.Sprintf("lower: unresolvable terminal %q", e.Name)
}

type termState int

const (
	stateStub termState = iota
	stateCreated
)

type termEntry struct {
	root  *fsm.Node
	state termState
}

// Lowerer walks a parsed EBNF grammar and emits an fsm.Node graph,
// managing the terminal-name cache across the whole lowering of one
// grammar.
type Lowerer struct {
	grammar   *ebnf.Grammar
	terminals map[string]*termEntry
}

// Lower lowers g's start symbol (its first production) into a finalized
// FSM: terminal Null attached to every leaf, minified, with combo
// followers computed (§4.5's Finalization step).
func Lower(g *ebnf.Grammar) (*fsm.Node, error) {
	if len(g.Productions) == 0 {
		return nil, fmt.Errorf("lower: grammar has no productions")
	}
	l := &Lowerer{grammar: g, terminals: make(map[string]*termEntry)}

	root := fsm.NewNull()
	if _, err := l.lowerExpr(root, g.Productions[0].RHS); err != nil {
		return nil, err
	}

	finalNull := fsm.NewNull()
	fsm.AddChildToAllLeaves(root, finalNull)

	fsm.Minify(root)
	fsm.ComputeFollowers(root)

	return root, nil
}

// lowerExpr is the structural recursion table of §4.5: it attaches the
// fragment for e under curRoot and returns the node subsequent fragments
// should attach under.
func (l *Lowerer) lowerExpr(curRoot *fsm.Node, e *ebnf.Expr) (*fsm.Node, error) {
	switch e.Kind {
	case ebnf.KString:
		k := fsm.NewKeyword(e.Str)
		fsm.AddChildCycleSafe(curRoot, k)
		return k, nil

	case ebnf.KRegexString:
		combo, err := fsm.NewUserDefinedCombo(e.Regex)
		if err != nil {
			return nil, fmt.Errorf("lower: bad regex %q: %w", e.Regex, err)
		}
		fsm.AddChildCycleSafe(curRoot, combo)
		return combo, nil

	case ebnf.KTerminal:
		return l.lowerTerminal(curRoot, e.Name)

	case ebnf.KMultiple:
		cur := curRoot
		for _, sub := range e.Seq {
			leaf, err := l.lowerExpr(cur, sub)
			if err != nil {
				return nil, err
			}
			cur = leaf
		}
		return cur, nil

	case ebnf.KSymbol:
		if e.Sym == ebnf.Concat {
			la, err := l.lowerExpr(curRoot, e.Left)
			if err != nil {
				return nil, err
			}
			return l.lowerExpr(la, e.Right)
		}
		// Alt
		join := fsm.NewNull()
		fsm.AddChildCycleSafe(curRoot, join)
		if _, err := l.lowerExpr(join, e.Left); err != nil {
			return nil, err
		}
		if _, err := l.lowerExpr(join, e.Right); err != nil {
			return nil, err
		}
		exit := fsm.NewNull()
		fsm.AddChildToAllLeaves(join, exit)
		return exit, nil

	case ebnf.KGroup:
		return l.lowerExpr(curRoot, e.Inner)

	case ebnf.KOptional:
		if _, err := l.lowerExpr(curRoot, e.Inner); err != nil {
			return nil, err
		}
		skip := fsm.NewNull()
		fsm.AddChildToAllLeaves(curRoot, skip)
		fsm.AddChildCycleSafe(curRoot, skip)
		return skip, nil

	case ebnf.KRepeat:
		header := fsm.NewNull()
		fsm.AddChildCycleSafe(curRoot, header)
		if _, err := l.lowerExpr(header, e.Inner); err != nil {
			return nil, err
		}
		bodyLeaves := fsm.Leaves(header)

		exit := fsm.NewNull()
		for _, leaf := range bodyLeaves {
			fsm.AddChildCycleSafe(leaf, exit)
		}
		fsm.AddChildCycleSafe(curRoot, exit)

		for _, leaf := range bodyLeaves {
			fsm.AddChildCycleSafe(leaf, header) // back edge
		}
		return exit, nil
	}
	return nil, fmt.Errorf("lower: unknown ebnf.Kind %v", e.Kind)
}

// lowerTerminal implements the two-phase stub/cloned terminal lifecycle
// (§4.5). The first reference to a terminal lowers the production's
// right-hand side in place and attaches the canonical (unshared) subgraph;
// every later reference attaches a deep clone so distinct call sites never
// share mutable leaves. A reference encountered while the terminal is
// still a Stub (direct or indirect left recursion) links the stub itself
// as a back-edge, with a fresh Null hop interposed so the cycle always
// contains a Null-only segment (I6) — see SPEC_FULL.md's resolution of the
// left-recursion open question.
func (l *Lowerer) lowerTerminal(curRoot *fsm.Node, name string) (*fsm.Node, error) {
	entry, ok := l.terminals[name]
	if !ok {
		prod := l.grammar.Find(name)
		if prod == nil {
			return nil, &UnresolvableTerminalError{Name: name}
		}
		stubRoot := fsm.NewNull()
		entry = &termEntry{root: stubRoot, state: stateStub}
		l.terminals[name] = entry

		if _, err := l.lowerExpr(stubRoot, prod.RHS); err != nil {
			return nil, err
		}
		entry.state = stateCreated

		fsm.AddChildCycleSafe(curRoot, stubRoot)
		exit := fsm.NewNull()
		fsm.AddChildToAllLeaves(stubRoot, exit)
		return exit, nil
	}

	if entry.state == stateStub {
		hop := fsm.NewNull()
		fsm.AddChildCycleSafe(curRoot, hop)
		fsm.AddChildCycleSafe(hop, entry.root)
		return hop, nil
	}

	clone := fsm.DeepClone(entry.root)
	fsm.AddChildCycleSafe(curRoot, clone)
	exit := fsm.NewNull()
	fsm.AddChildToAllLeaves(clone, exit)
	return exit, nil
}
