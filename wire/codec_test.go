package wire

import (
	"bufio"
	"bytes"
	"testing"
)

func roundtripRequest(t *testing.T, req Request) Request {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteRequest(&buf, req); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	got, err := ReadRequest(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	return got
}

func roundtripResponse(t *testing.T, resp Response) Response {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	return got
}

func TestRequestRoundtripNoPayload(t *testing.T) {
	for _, typ := range []RequestType{ReqGetCapabilities, ReqInstallLanguage, ReqRevert, ReqReset} {
		got := roundtripRequest(t, Request{Type: typ})
		if got.Type != typ {
			t.Fatalf("roundtrip %v: got %v", typ, got.Type)
		}
	}
}

func TestRequestRoundtripInitialize(t *testing.T) {
	got := roundtripRequest(t, Request{Type: ReqInitialize, Text: "rust"})
	if got.Type != ReqInitialize || got.Text != "rust" {
		t.Fatalf("got %+v", got)
	}
}

func TestRequestRoundtripSetCursor(t *testing.T) {
	got := roundtripRequest(t, Request{Type: ReqSetCursor, Handle: 0x0102})
	if got.Type != ReqSetCursor || got.Handle != 0x0102 {
		t.Fatalf("got %+v", got)
	}
}

func TestRequestRoundtripAdvance(t *testing.T) {
	got := roundtripRequest(t, Request{Type: ReqAdvance, Text: "sig"})
	if got.Type != ReqAdvance || got.Text != "sig" {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundtripOk(t *testing.T) {
	for _, typ := range []ResponseType{RespOk, RespRegexFull, RespInvalidChar, RespRegexStart} {
		got := roundtripResponse(t, Response{Type: typ})
		if got.Type != typ {
			t.Fatalf("roundtrip %v: got %v", typ, got.Type)
		}
	}
}

func TestResponseRoundtripError(t *testing.T) {
	got := roundtripResponse(t, Response{Type: RespError, Text: "boom"})
	if got.Type != RespError || got.Text != "boom" {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundtripCapabilities(t *testing.T) {
	got := roundtripResponse(t, Response{Type: RespCapabilities, List: []string{"rust", "go"}})
	if got.Type != RespCapabilities || len(got.List) != 2 || got.List[0] != "rust" || got.List[1] != "go" {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundtripCapabilitiesEmpty(t *testing.T) {
	got := roundtripResponse(t, Response{Type: RespCapabilities, List: nil})
	if got.Type != RespCapabilities || len(got.List) != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundtripCursorHandle(t *testing.T) {
	got := roundtripResponse(t, Response{Type: RespCursorHandle, Handle: 7})
	if got.Type != RespCursorHandle || got.Handle != 7 {
		t.Fatalf("got %+v", got)
	}
}

func TestResponseRoundtripExpanded(t *testing.T) {
	got := roundtripResponse(t, Response{Type: RespExpanded, Text: "signed"})
	if got.Type != RespExpanded || got.Text != "signed" {
		t.Fatalf("got %+v", got)
	}
}

func TestReadRequestUnknownDiscriminator(t *testing.T) {
	_, err := ReadRequest(bufio.NewReader(bytes.NewReader([]byte{0x00})))
	if err == nil {
		t.Fatal("expected a decode error for discriminator 0x00")
	}
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("got %T, want *DecodeError", err)
	}
}

func TestReadResponseEmptyStream(t *testing.T) {
	// Every byte is a defined response discriminator (0x07 and above all
	// decode as Expanded), so there is no unknown one to feed; an empty
	// stream instead surfaces io.EOF, which is not a *DecodeError.
	_, err := ReadResponse(bufio.NewReader(bytes.NewReader(nil)))
	if err == nil {
		t.Fatal("expected an error reading from an empty stream")
	}
}

func TestReadRequestShortReadSurfacesIOError(t *testing.T) {
	// A SetCursor discriminator with no following bytes should surface the
	// underlying I/O error rather than panicking.
	_, err := ReadRequest(bufio.NewReader(bytes.NewReader([]byte{byte(ReqSetCursor)})))
	if err == nil {
		t.Fatal("expected an error for a truncated SetCursor frame")
	}
}
