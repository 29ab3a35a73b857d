// Package serialize converts between an fsm.Node graph and the
// line-oriented text format described in the Nightfury FSM file spec: a
// node section (root first), a blank line, an edge section, and a
// trailing blank line. Fields within a record are tab-separated; records
// are newline-terminated.
package serialize

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("nightfury.serialize")
}
