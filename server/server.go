package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"

	"github.com/nightfury-lang/nightfury/cursor"
	"github.com/nightfury-lang/nightfury/fsm"
	"github.com/nightfury-lang/nightfury/registry"
	"github.com/nightfury-lang/nightfury/wire"
)

// MaxCursorsPerConnection is the per-connection cursor-handle ceiling (§7
// "Cursor-limit exceeded"): handles are single bytes, and the connection
// additionally refuses to grow its cursor list past this count.
const MaxCursorsPerConnection = 255

// Server accepts connections on a Unix socket and services each one
// against a shared Registry.
type Server struct {
	reg      *registry.Registry
	listener net.Listener
	closed   atomic.Bool
}

// Listen opens the Unix socket at path and returns a Server ready to Serve.
func Listen(path string, reg *registry.Registry) (*Server, error) {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("server: listen on %s: %w", path, err)
	}
	return &Server{reg: reg, listener: ln}, nil
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	s.closed.Store(true)
	return s.listener.Close()
}

// Serve accepts connections until Close is called, servicing each one in
// its own goroutine (§5 "Different connections run in parallel threads").
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			return err
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	c := &connection{reg: s.reg, conn: conn, r: bufio.NewReader(conn)}
	if err := c.loop(); err != nil && !errors.Is(err, io.EOF) {
		tracer().Errorf("server: connection %s: %v", conn.RemoteAddr(), err)
	}
}

// connection holds the per-connection state: the current language, its
// cursor list indexed by handle, and which handle is "current" (§5
// "Per-connection concurrency").
type connection struct {
	reg  *registry.Registry
	conn net.Conn
	r    *bufio.Reader

	language string
	root     *fsm.Node

	cursors []*cursor.Cursor
	current int // index into cursors, -1 if none selected
}

// loop reads and services requests sequentially until the connection
// closes, flushing each response before reading the next request (§5
// "Ordering").
func (c *connection) loop() error {
	c.current = -1
	for {
		req, err := wire.ReadRequest(c.r)
		if err != nil {
			return err
		}
		resp := c.dispatch(req)
		if err := wire.WriteResponse(c.conn, resp); err != nil {
			return err
		}
	}
}

func (c *connection) dispatch(req wire.Request) wire.Response {
	switch req.Type {
	case wire.ReqGetCapabilities:
		return wire.Response{Type: wire.RespCapabilities, List: c.reg.Capabilities()}

	case wire.ReqInstallLanguage:
		return errorResponse("InstallLanguage is reserved")

	case wire.ReqInitialize:
		return c.handleInitialize(req.Text)

	case wire.ReqSetCursor:
		return c.handleSetCursor(req.Handle)

	case wire.ReqReset:
		return c.handleReset()

	case wire.ReqRevert:
		return c.handleRevert()

	case wire.ReqAdvance:
		return c.handleAdvance(req.Text)

	default:
		return errorResponse(fmt.Sprintf("unhandled request type %v", req.Type))
	}
}

func (c *connection) handleInitialize(name string) wire.Response {
	root, ok := c.reg.Lookup(name)
	if !ok {
		return errorResponse(fmt.Sprintf("unknown language %q", name))
	}
	c.language = name
	c.root = root
	c.cursors = nil
	c.current = -1
	return wire.Response{Type: wire.RespOk}
}

func (c *connection) handleSetCursor(handle uint16) wire.Response {
	if c.root == nil {
		return errorResponse("SetCursor before Initialize")
	}
	idx := int(handle)
	if idx < len(c.cursors) {
		c.current = idx
		return wire.Response{Type: wire.RespCursorHandle, Handle: byte(idx)}
	}
	if idx != len(c.cursors) {
		return errorResponse(fmt.Sprintf("unknown cursor handle %d", handle))
	}
	if len(c.cursors) >= MaxCursorsPerConnection {
		return errorResponse("cursor-limit exceeded")
	}
	c.cursors = append(c.cursors, cursor.New(c.root))
	c.current = idx
	return wire.Response{Type: wire.RespCursorHandle, Handle: byte(idx)}
}

func (c *connection) currentCursor() (*cursor.Cursor, wire.Response, bool) {
	if c.current < 0 || c.current >= len(c.cursors) {
		return nil, errorResponse("no cursor selected"), false
	}
	return c.cursors[c.current], wire.Response{}, true
}

func (c *connection) handleReset() wire.Response {
	cur, errResp, ok := c.currentCursor()
	if !ok {
		return errResp
	}
	cur.Reset()
	return wire.Response{Type: wire.RespOk}
}

func (c *connection) handleRevert() wire.Response {
	cur, errResp, ok := c.currentCursor()
	if !ok {
		return errResp
	}
	cur.Revert()
	return wire.Response{Type: wire.RespOk}
}

func (c *connection) handleAdvance(text string) wire.Response {
	cur, errResp, ok := c.currentCursor()
	if !ok {
		return errResp
	}
	var last cursor.Result
	enteredUserdef := false
	for _, ch := range text {
		before := cur.IsInUserdefinedStage()
		last = cur.Advance(ch)
		if last.Kind == cursor.InvalidChar {
			return wire.Response{Type: wire.RespInvalidChar}
		}
		if cur.RegexJustCompleted() {
			return wire.Response{Type: wire.RespRegexFull}
		}
		if !before && cur.IsInUserdefinedStage() {
			enteredUserdef = true
		}
	}
	switch last.Kind {
	case cursor.Expanded, cursor.ExpandedAfterUserdef:
		return wire.Response{Type: wire.RespExpanded, Text: last.Text}
	case cursor.None:
		if enteredUserdef {
			return wire.Response{Type: wire.RespRegexStart}
		}
		return wire.Response{Type: wire.RespOk}
	default:
		return wire.Response{Type: wire.RespOk}
	}
}

func errorResponse(msg string) wire.Response {
	return wire.Response{Type: wire.RespError, Text: msg}
}
