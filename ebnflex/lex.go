package ebnflex

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokType int

const (
	tokEOF tokType = iota
	tokDefines // ::=
	tokSemi    // ;
	tokPipe    // |
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokQuestion
	tokIdent
	tokString // 'literal'
	tokRegex  // #'pattern'
)

type token struct {
	typ  tokType
	text string
}

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	add := func(pattern string, typ tokType) {
		lexer.Add([]byte(pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return token{typ: typ, text: string(m.Bytes)}, nil
		})
	}
	add(`::=`, tokDefines)
	add(`;`, tokSemi)
	add(`\|`, tokPipe)
	add(`\(`, tokLParen)
	add(`\)`, tokRParen)
	add(`\{`, tokLBrace)
	add(`\}`, tokRBrace)
	add(`\?`, tokQuestion)
	add(`#'[^']*'`, tokRegex)
	add(`'[^']*'`, tokString)
	add(`[a-zA-Z_][a-zA-Z0-9_]*`, tokIdent)
	lexer.Add([]byte(`( |\t|\n|\r)+`), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return nil, nil // skip whitespace
	})
	if err := lexer.Compile(); err != nil {
		panic("ebnflex: failed to compile DFA: " + err.Error())
	}
}

// lex tokenizes src into a flat token slice terminated by a tokEOF.
func lex(src string) ([]token, error) {
	scan, err := lexer.Scanner([]byte(src))
	if err != nil {
		return nil, err
	}
	var out []token
	for {
		tok, err, eof := scan.Next()
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				tracer().Errorf("ebnflex: unconsumed input at byte %d", ui.FailTC)
				scan.TC = ui.FailTC
				continue
			}
			return nil, fmt.Errorf("ebnflex: lex error: %w", err)
		}
		if eof {
			break
		}
		if tok == nil {
			continue
		}
		out = append(out, tok.(token))
	}
	out = append(out, token{typ: tokEOF})
	return out, nil
}
