// Package lower walks a parsed EBNF grammar (package ebnf's tagged Expr
// tree) and emits an fsm.Node graph: the EbnfLowerer of the Nightfury
// compiler. It owns the terminal-name cache with its two-phase
// stub/cloned lifecycle, and runs finalization (terminal Null on every
// leaf, minification, combo-follower computation) once lowering of the
// start symbol completes.
package lower

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("nightfury.lower")
}
