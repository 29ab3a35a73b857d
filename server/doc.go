// Package server implements the thin Unix-socket collaborator that
// multiplexes cursor sessions over the wire protocol (§4.9, §5, §6): one
// goroutine accepts connections, and each connection is serviced by its
// own goroutine that reads requests sequentially and replies in order.
package server

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("nightfury.server")
}
