/*
Package nightfury compiles EBNF grammars into cyclic finite-state
machines for real-time keyword input-expansion, and provides the
supporting cursor, serialization, and wire-protocol packages. Package
structure is as follows:

■ ebnflex: parses the EBNF grammar source into a tagged syntax tree.

■ lower: lowers a parsed grammar into an fsm.Node graph.

■ fsm: the FSM graph itself — node kinds, cycle-safe traversal, short-code
disambiguation, minification.

■ cursor: advances a position through an FSM graph one character at a
time.

■ serialize: the FSM file format, and loading a directory of them.

■ wire: the binary request/response protocol spoken by nightfury-server.

■ registry: the shared, process-wide table of loaded FSM graphs.

■ server: a Unix-socket server multiplexing cursors over the wire
protocol.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package nightfury
