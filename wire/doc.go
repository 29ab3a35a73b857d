// Package wire implements the Nightfury binary request/response protocol:
// a length-free, type-tagged stream where each frame begins with a single
// discriminator byte, and payload-carrying frames terminate their payload
// with a zero byte (§4.9, §6).
package wire

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("nightfury.wire")
}
