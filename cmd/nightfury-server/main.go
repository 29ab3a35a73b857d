/*
nightfury-server listens on a Unix socket and services the Nightfury wire
protocol against a shared registry of compiled FSM graphs loaded from
NIGHTFURY_FSMDIR (spec.md §6).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/nightfury-lang/nightfury/registry"
	"github.com/nightfury-lang/nightfury/server"
)

func tracer() tracing.Trace {
	return tracing.Select("nightfury.cmd")
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	reg, err := registry.FromEnv()
	if err != nil {
		tracer().Errorf("loading %s: %v", registry.DefaultFSMDirEnv, err)
		os.Exit(1)
	}

	sockPath := server.SocketPath()
	os.Remove(sockPath) // a stale socket from a crashed prior run must not block bind

	srv, err := server.Listen(sockPath, reg)
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(1)
	}
	tracer().Infof("listening on %s", sockPath)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		tracer().Infof("shutting down")
		srv.Close()
	}()

	if err := srv.Serve(); err != nil {
		tracer().Errorf("%v", err)
		os.Exit(1)
	}
}
