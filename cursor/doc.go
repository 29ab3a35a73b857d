// Package cursor implements the Nightfury Cursor: an advance-one-character
// state machine over an fsm.Node graph that produces Expanded,
// ExpandedAfterUserdef, InvalidChar, or no result at all, per character fed
// to it.
//
// is_done is kept as per-cursor state keyed by node ID rather than as a
// mutable flag on the shared graph node, resolving the "is_done on the
// graph itself is a latent hazard" design note: two cursors advancing the
// same UserDefinedRegex node concurrently never race, since each cursor
// owns its own map.
package cursor

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("nightfury.cursor")
}
