package ebnflex

import (
	"fmt"
	"strings"

	"github.com/nightfury-lang/nightfury/ebnf"
)

// ParseError reports a grammar error (§7): the EBNF parser rejected the
// input and lowering is never attempted.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "ebnflex: " + e.Msg }

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token    { return p.toks[p.pos] }
func (p *parser) advance() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *parser) expect(typ tokType, what string) (token, error) {
	t := p.peek()
	if t.typ != typ {
		return token{}, &ParseError{Msg: fmt.Sprintf("expected %s, got %q", what, t.text)}
	}
	return p.advance(), nil
}

// Parse tokenizes and parses src into a Grammar, or returns a *ParseError.
func Parse(src string) (*ebnf.Grammar, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	p := &parser{toks: toks}
	g := &ebnf.Grammar{}
	for p.peek().typ != tokEOF {
		prod, err := p.parseProduction()
		if err != nil {
			return nil, err
		}
		g.Productions = append(g.Productions, *prod)
	}
	if len(g.Productions) == 0 {
		return nil, &ParseError{Msg: "empty grammar"}
	}
	return g, nil
}

func (p *parser) parseProduction() (*ebnf.Production, error) {
	name, err := p.expect(tokIdent, "production name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDefines, "'::='"); err != nil {
		return nil, err
	}
	rhs, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return nil, err
	}
	return &ebnf.Production{Name: name.text, RHS: rhs}, nil
}

func (p *parser) parseAlt() (*ebnf.Expr, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokPipe {
		p.advance()
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = ebnf.Symbol(left, ebnf.Alt, right)
	}
	return left, nil
}

func (p *parser) parseConcat() (*ebnf.Expr, error) {
	var seq []*ebnf.Expr
	for isPrimaryStart(p.peek().typ) {
		e, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		seq = append(seq, e)
	}
	if len(seq) == 0 {
		return nil, &ParseError{Msg: fmt.Sprintf("expected an expression, got %q", p.peek().text)}
	}
	if len(seq) == 1 {
		return seq[0], nil
	}
	return ebnf.Multiple(seq...), nil
}

func (p *parser) parsePostfix() (*ebnf.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().typ == tokQuestion {
		p.advance()
		e = ebnf.Optional(e)
	}
	return e, nil
}

func isPrimaryStart(t tokType) bool {
	switch t {
	case tokString, tokRegex, tokIdent, tokLParen, tokLBrace:
		return true
	default:
		return false
	}
}

func (p *parser) parsePrimary() (*ebnf.Expr, error) {
	t := p.peek()
	switch t.typ {
	case tokString:
		p.advance()
		return ebnf.String(trimQuotes(t.text)), nil
	case tokRegex:
		p.advance()
		return ebnf.RegexString(trimQuotes(strings.TrimPrefix(t.text, "#"))), nil
	case tokIdent:
		p.advance()
		return ebnf.Terminal(t.text), nil
	case tokLParen:
		p.advance()
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return ebnf.Group(inner), nil
	case tokLBrace:
		p.advance()
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBrace, "'}'"); err != nil {
			return nil, err
		}
		return ebnf.Repeat(inner), nil
	}
	return nil, &ParseError{Msg: fmt.Sprintf("unexpected token %q", t.text)}
}

func trimQuotes(s string) string {
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}
