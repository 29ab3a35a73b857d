package lower

import (
	"testing"

	"github.com/nightfury-lang/nightfury/ebnf"
	"github.com/nightfury-lang/nightfury/fsm"
)

func grammar(prods ...ebnf.Production) *ebnf.Grammar {
	return &ebnf.Grammar{Productions: prods}
}

func TestLowerSimpleKeyword(t *testing.T) {
	g := grammar(ebnf.Production{Name: "t1", RHS: ebnf.String("a")})
	root, err := Lower(g)
	if err != nil {
		t.Fatal(err)
	}
	kws := fsm.NullFrontierKeywords(root)
	if len(kws) != 1 || kws[0].Expanded != "a" {
		t.Fatalf("keywords = %v, want [a]", kws)
	}
}

func TestLowerAlternation(t *testing.T) {
	// t1 ::= t2 | t3; t2 ::= 'r' t3; t3 ::= 'a';
	g := grammar(
		ebnf.Production{Name: "t1", RHS: ebnf.Symbol(ebnf.Terminal("t2"), ebnf.Alt, ebnf.Terminal("t3"))},
		ebnf.Production{Name: "t2", RHS: ebnf.Multiple(ebnf.String("r"), ebnf.Terminal("t3"))},
		ebnf.Production{Name: "t3", RHS: ebnf.String("a")},
	)
	root, err := Lower(g)
	if err != nil {
		t.Fatal(err)
	}
	if root.NodeCount() == 0 {
		t.Fatal("expected non-empty FSM")
	}
}

func TestLowerTerminalUnresolvable(t *testing.T) {
	g := grammar(ebnf.Production{Name: "t1", RHS: ebnf.Terminal("missing")})
	_, err := Lower(g)
	if err == nil {
		t.Fatal("expected an UnresolvableTerminalError")
	}
	if _, ok := err.(*UnresolvableTerminalError); !ok {
		t.Fatalf("got %T, want *UnresolvableTerminalError", err)
	}
}

func TestLowerLeftRecursionInterposesNullHop(t *testing.T) {
	// t1 ::= t1 | 'a';  -- directly left-recursive
	g := grammar(ebnf.Production{
		Name: "t1",
		RHS:  ebnf.Symbol(ebnf.Terminal("t1"), ebnf.Alt, ebnf.String("a")),
	})
	root, err := Lower(g)
	if err != nil {
		t.Fatal(err)
	}
	// Must not panic/hang, and must still expose the 'a' keyword.
	kws := fsm.NullFrontierKeywords(root)
	found := false
	for _, k := range kws {
		if k.Expanded == "a" {
			found = true
		}
	}
	if !found {
		t.Fatalf("keywords = %v, want to contain 'a'", kws)
	}
}

func TestLowerRegexCombo(t *testing.T) {
	// t1 ::= (#'[0-9]+' 'uwu') | (#'[a-z]' 'awa');
	g := grammar(ebnf.Production{
		Name: "t1",
		RHS: ebnf.Symbol(
			ebnf.Group(ebnf.Multiple(ebnf.RegexString("[0-9]+"), ebnf.String("uwu"))),
			ebnf.Alt,
			ebnf.Group(ebnf.Multiple(ebnf.RegexString("[a-z]"), ebnf.String("awa"))),
		),
	})
	root, err := Lower(g)
	if err != nil {
		t.Fatal(err)
	}
	combos := fsm.NullFrontierUserdefs(root)
	if len(combos) != 2 {
		t.Fatalf("got %d userdef nodes on the frontier, want 2", len(combos))
	}
}

func TestLowerRepeat(t *testing.T) {
	// t1 ::= 't' { 'e' } 'st';
	g := grammar(ebnf.Production{
		Name: "t1",
		RHS: ebnf.Multiple(
			ebnf.String("t"),
			ebnf.Repeat(ebnf.String("e")),
			ebnf.String("st"),
		),
	})
	root, err := Lower(g)
	if err != nil {
		t.Fatal(err)
	}
	if root.NodeCount() == 0 {
		t.Fatal("expected non-empty FSM")
	}
}
