// Package transport wires the language server's dispatch table to an
// actual connection. Stdio is the primary entry point every editor
// speaks; WebSocket is the secondary entry point for browser-hosted or
// remote editing clients that can't hand the server its own stdin/stdout.
package transport

import (
	"fmt"
	"time"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// DefaultTimeout is the initial value of Transport.Timeout. The field is
// not passed to the underlying glsp server, so it does not bound any
// read or write.
var DefaultTimeout = time.Minute

// Transport owns the glsp server.Server that actually frames and
// dispatches JSON-RPC messages (stdio and WebSocket alike go through
// sourcegraph/jsonrpc2 internally, the way the teacher's own
// newStreamConnection/newWebSocketConnection split did explicitly).
type Transport struct {
	Name  string
	Debug bool

	Log     commonlog.Logger
	Timeout time.Duration

	server *server.Server
}

// New constructs a Transport bound to handler. name is both the log
// scope and the name handed to the glsp server.
func New(handler *protocol.Handler, name string, debug bool) *Transport {
	return &Transport{
		Name:    name,
		Debug:   debug,
		Log:     commonlog.GetLogger(name),
		Timeout: DefaultTimeout,
		server:  server.NewServer(handler, name, debug),
	}
}

// RunStdio runs the server over stdin/stdout. This is the transport
// every editor's built-in LSP client expects by default.
func (t *Transport) RunStdio() error {
	t.Log.Infof("%s: listening on stdio", t.Name)
	if err := t.server.RunStdio(); err != nil {
		return fmt.Errorf("%s: stdio transport: %w", t.Name, err)
	}
	return nil
}

// RunWebSocket runs the server over a WebSocket listener at address
// (e.g. ":7777"), for editing clients that connect over a network
// rather than owning the server process's own stdio.
func (t *Transport) RunWebSocket(address string) error {
	t.Log.Infof("%s: listening on ws://%s", t.Name, address)
	if err := t.server.RunWebSocket(address); err != nil {
		return fmt.Errorf("%s: websocket transport: %w", t.Name, err)
	}
	return nil
}

// RunTCP runs the server over a plain TCP listener at address, for
// editors that speak LSP's socket transport directly.
func (t *Transport) RunTCP(address string) error {
	t.Log.Infof("%s: listening on tcp://%s", t.Name, address)
	if err := t.server.RunTCP(address); err != nil {
		return fmt.Errorf("%s: tcp transport: %w", t.Name, err)
	}
	return nil
}
