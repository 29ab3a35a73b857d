package wire

// RequestType discriminates an incoming request frame.
type RequestType byte

const (
	ReqGetCapabilities RequestType = 0x01
	ReqInstallLanguage RequestType = 0x02 // reserved
	ReqRevert          RequestType = 0x03
	ReqReset           RequestType = 0x04
	ReqInitialize      RequestType = 0x05
	ReqSetCursor       RequestType = 0x06
	ReqAdvance         RequestType = 0x07 // 0x07 and above: Advance
)

// ResponseType discriminates an outgoing response frame.
type ResponseType byte

const (
	RespOk           ResponseType = 0x00
	RespError        ResponseType = 0x01
	RespRegexFull    ResponseType = 0x02
	RespCapabilities ResponseType = 0x03
	RespCursorHandle ResponseType = 0x04
	RespInvalidChar  ResponseType = 0x05
	RespRegexStart   ResponseType = 0x06
	RespExpanded     ResponseType = 0x07 // 0x07 and above: Expanded
)

// Request is a decoded request frame.
type Request struct {
	Type RequestType

	// ReqInitialize: language name.
	// ReqAdvance: characters to feed.
	Text string

	// ReqSetCursor: big-endian cursor handle.
	Handle uint16
}

// Response is a decoded (or to-be-encoded) response frame.
type Response struct {
	Type ResponseType

	// RespError, RespExpanded: payload text.
	Text string

	// RespCapabilities: payload list, joined by ';' on the wire.
	List []string

	// RespCursorHandle: single-byte handle.
	Handle byte
}
