package server

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/nightfury-lang/nightfury/ebnflex"
	"github.com/nightfury-lang/nightfury/lower"
	"github.com/nightfury-lang/nightfury/registry"
	"github.com/nightfury-lang/nightfury/serialize"
	"github.com/nightfury-lang/nightfury/wire"
)

func startTestServer(t *testing.T) (net.Conn, func()) {
	t.Helper()
	dir := t.TempDir()

	g, err := ebnflex.Parse(`t1 ::= 'signed' | 'short';`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root, err := lower.Lower(g)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rust.fsm"), []byte(serialize.Save(root)), 0o644); err != nil {
		t.Fatalf("write fsm: %v", err)
	}

	reg := registry.New(dir)
	if err := reg.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	sockPath := filepath.Join(t.TempDir(), "nightfury.sock")
	srv, err := Listen(sockPath, reg)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve()

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestServerGetCapabilities(t *testing.T) {
	conn, cleanup := startTestServer(t)
	defer cleanup()

	if err := wire.WriteRequest(conn, wire.Request{Type: wire.ReqGetCapabilities}); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	resp, err := wire.ReadResponse(bufio.NewReader(conn))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if resp.Type != wire.RespCapabilities || len(resp.List) != 1 || resp.List[0] != "rust" {
		t.Fatalf("got %+v", resp)
	}
}

func TestServerInitializeUnknownLanguage(t *testing.T) {
	conn, cleanup := startTestServer(t)
	defer cleanup()
	r := bufio.NewReader(conn)

	wire.WriteRequest(conn, wire.Request{Type: wire.ReqInitialize, Text: "nope"})
	resp, err := wire.ReadResponse(r)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if resp.Type != wire.RespError {
		t.Fatalf("got %+v, want Error", resp)
	}
}

func TestServerFullSession(t *testing.T) {
	conn, cleanup := startTestServer(t)
	defer cleanup()
	r := bufio.NewReader(conn)

	send := func(req wire.Request) wire.Response {
		if err := wire.WriteRequest(conn, req); err != nil {
			t.Fatalf("WriteRequest: %v", err)
		}
		resp, err := wire.ReadResponse(r)
		if err != nil {
			t.Fatalf("ReadResponse: %v", err)
		}
		return resp
	}

	if resp := send(wire.Request{Type: wire.ReqInitialize, Text: "rust"}); resp.Type != wire.RespOk {
		t.Fatalf("Initialize: got %+v", resp)
	}
	if resp := send(wire.Request{Type: wire.ReqSetCursor, Handle: 0}); resp.Type != wire.RespCursorHandle || resp.Handle != 0 {
		t.Fatalf("SetCursor: got %+v", resp)
	}
	if resp := send(wire.Request{Type: wire.ReqAdvance, Text: "s"}); resp.Type != wire.RespOk {
		t.Fatalf("Advance(s): got %+v, want Ok (ambiguous)", resp)
	}
	if resp := send(wire.Request{Type: wire.ReqAdvance, Text: "h"}); resp.Type != wire.RespExpanded || resp.Text != "short" {
		t.Fatalf("Advance(h): got %+v, want Expanded(short)", resp)
	}
}

func TestServerAdvanceBeforeCursor(t *testing.T) {
	conn, cleanup := startTestServer(t)
	defer cleanup()
	r := bufio.NewReader(conn)

	wire.WriteRequest(conn, wire.Request{Type: wire.ReqInitialize, Text: "rust"})
	wire.ReadResponse(r)

	wire.WriteRequest(conn, wire.Request{Type: wire.ReqAdvance, Text: "s"})
	resp, err := wire.ReadResponse(r)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if resp.Type != wire.RespError {
		t.Fatalf("got %+v, want Error (no cursor selected)", resp)
	}
}
