/*
nightfury is the Nightfury front-end CLI: compile an EBNF grammar to an
FSM file (generate), inspect one (dbg), type into one interactively
(chat), or drive a running nightfury-server over its socket (send).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/nightfury-lang/nightfury/cursor"
	"github.com/nightfury-lang/nightfury/ebnflex"
	"github.com/nightfury-lang/nightfury/lower"
	"github.com/nightfury-lang/nightfury/serialize"
	"github.com/nightfury-lang/nightfury/wire"
)

func tracer() tracing.Trace {
	return tracing.Select("nightfury.cmd")
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tracer().SetTraceLevel(tracing.LevelError)
	initDisplay()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = cmdGenerate(os.Args[2:])
	case "dbg":
		err = cmdDbg(os.Args[2:])
	case "chat":
		err = cmdChat(os.Args[2:])
	case "send":
		err = cmdSend(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nightfury <generate|dbg|chat|send> [args...]")
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// cmdGenerate compiles an EBNF grammar file to its FSM text form.
//
//	generate [path] [--out path]
//
// Grammar is read from stdin if path is omitted or "-".
func cmdGenerate(args []string) error {
	var inPath, outPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--out":
			i++
			if i >= len(args) {
				return fmt.Errorf("generate: --out requires a path")
			}
			outPath = args[i]
		default:
			if inPath == "" {
				inPath = args[i]
			}
		}
	}

	var src []byte
	var err error
	if inPath == "" || inPath == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(inPath)
	}
	if err != nil {
		return fmt.Errorf("generate: reading grammar: %w", err)
	}

	g, err := ebnflex.Parse(string(src))
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	root, err := lower.Lower(g)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	text := serialize.Save(root)

	if outPath == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(outPath, []byte(text), 0o644)
}

// cmdDbg loads an FSM file and renders it as a tree.
//
//	dbg <fsm>
func cmdDbg(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("dbg: usage: nightfury dbg <fsm-file>")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("dbg: %w", err)
	}
	root, err := serialize.Load(string(raw))
	if err != nil {
		return fmt.Errorf("dbg: %w", err)
	}
	pterm.Println(filepath.Base(args[0]))
	pterm.Println(root.String())
	return nil
}

// cmdChat loads an FSM file and drives an interactive cursor session over
// readline, echoing raw keystrokes while the cursor is in a user-defined
// stage (spec.md §4.8).
//
//	chat <fsm>
func cmdChat(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("chat: usage: nightfury chat <fsm-file>")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	root, err := serialize.Load(string(raw))
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	repl, err := readline.New("nightfury> ")
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	defer repl.Close()

	c := cursor.New(root)
	pterm.Info.Println("Type characters; <ctrl>D to quit. ':reset' clears the cursor.")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		if line == ":reset" {
			c.Reset()
			continue
		}
		for _, ch := range line {
			res := c.Advance(ch)
			switch res.Kind {
			case cursor.Expanded, cursor.ExpandedAfterUserdef:
				pterm.Println(res.Text)
			case cursor.InvalidChar:
				pterm.Error.Printfln("invalid character %q", ch)
			case cursor.None:
				if c.IsInUserdefinedStage() {
					fmt.Print(string(ch))
				}
			}
		}
	}
	return nil
}

// cmdSend drives a running nightfury-server over its Unix socket.
//
//	send --input <chars> [--reset] [--name <language>] [--list] <socket>
func cmdSend(args []string) error {
	var input, name, socket string
	var doReset, doList bool
	var positional []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--input":
			i++
			if i >= len(args) {
				return fmt.Errorf("send: --input requires a value")
			}
			input = args[i]
		case "--reset":
			doReset = true
		case "--name":
			i++
			if i >= len(args) {
				return fmt.Errorf("send: --name requires a value")
			}
			name = args[i]
		case "--list":
			doList = true
		default:
			positional = append(positional, args[i])
		}
	}
	if len(positional) != 1 {
		return fmt.Errorf("send: usage: nightfury send --input ... --reset --name ... --list <socket>")
	}
	socket = positional[0]

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer conn.Close()
	r := bufio.NewReader(conn)

	roundtrip := func(req wire.Request) (wire.Response, error) {
		if err := wire.WriteRequest(conn, req); err != nil {
			return wire.Response{}, err
		}
		return wire.ReadResponse(r)
	}

	if doList {
		resp, err := roundtrip(wire.Request{Type: wire.ReqGetCapabilities})
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		fmt.Println(strings.Join(resp.List, "\n"))
		return nil
	}

	if name != "" {
		resp, err := roundtrip(wire.Request{Type: wire.ReqInitialize, Text: name})
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		if resp.Type == wire.RespError {
			return fmt.Errorf("send: %s", resp.Text)
		}
		if _, err := roundtrip(wire.Request{Type: wire.ReqSetCursor, Handle: 0}); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}

	if doReset {
		if _, err := roundtrip(wire.Request{Type: wire.ReqReset}); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}

	if input != "" {
		resp, err := roundtrip(wire.Request{Type: wire.ReqAdvance, Text: input})
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		switch resp.Type {
		case wire.RespExpanded:
			fmt.Println(resp.Text)
		case wire.RespError:
			return fmt.Errorf("send: %s", resp.Text)
		case wire.RespInvalidChar:
			return fmt.Errorf("send: invalid character")
		}
	}
	return nil
}

