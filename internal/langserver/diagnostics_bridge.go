package langserver

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/tsconfig"
)

// configureArgs builds the "configure" request body from the resolved
// tsfmt.json overrides; root is not included in the request. Format options are
// marshaled into a plain map, since the analyzer's formatOptions schema
// has far more fields than FormatOptions names and unknown keys are
// harmless to omit rather than round-trip.
func configureArgs(root string, format *tsconfig.FormatOptions) analyzer.ConfigureRequestArgs {
	args := analyzer.ConfigureRequestArgs{HostInfo: "tsls-bridge"}
	if format != nil {
		b, err := json.Marshal(format)
		if err == nil {
			var m map[string]any
			if json.Unmarshal(b, &m) == nil {
				args.FormatOptions = m
			}
		}
	}
	return args
}

// publishDiagnostics returns a diagnostics.Publisher bound to ctx, the
// one glsp.Context live for the duration of the connection.
func (s *Server) publishDiagnostics(ctx *glsp.Context) func(uri string, diags []protocol.Diagnostic) {
	return func(uri string, diags []protocol.Diagnostic) {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: diags,
		})
	}
}

// handleEvent is the analyzer.Client's event callback: it routes
// syntaxDiag/semanticDiag/suggestionDiag events into the diagnostic
// queue and ignores everything else (the analyzer also emits
// "telemetry", "projectsUpdatedInBackground", and similar events this
// server has no use for).
func (s *Server) handleEvent(ev analyzer.Event) {
	kind, ok := analyzer.KindForEvent(ev.Name)
	if !ok {
		return
	}

	var body analyzer.DiagnosticEventBody
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		s.log.Warningf("tsls-bridge: malformed %s event: %s", ev.Name, err)
		return
	}

	s.mu.Lock()
	queue := s.queue
	s.mu.Unlock()
	if queue == nil {
		return
	}

	queue.Update(convert.PathToURI(body.File), kind, body.Diagnostics)
}

// requestDiagnostics starts (or restarts) a project-wide geterr round
// over every open file, ordered least-recently-accessed first so the
// file the user is most likely to look at next gets checked last —
// matching the analyzer's own recommendation that geterr's file order is
// a priority hint, not a guarantee.
func (s *Server) requestDiagnostics() {
	s.mu.Lock()
	client := s.client
	if client == nil {
		s.mu.Unlock()
		return
	}
	files := make([]string, 0, len(s.docs))
	for _, uri := range s.openURIsLRU() {
		if path, err := convert.URIToPath(uri); err == nil {
			files = append(files, path)
		}
	}
	token := make(chan struct{})
	if s.diagToken != nil {
		close(s.diagToken)
	}
	s.diagToken = token
	s.mu.Unlock()

	if len(files) == 0 {
		return
	}

	roundID := uuid.NewString()
	s.log.Debugf("tsls-bridge: geterr round %s covering %d file(s)", roundID, len(files))

	go func() {
		_, err := client.Request(context.Background(), "geterr", map[string]any{
			"files": files,
			"delay": 0,
		}, token)
		if err != nil && err != analyzer.ErrCancelled {
			s.log.Debugf("tsls-bridge: geterr round %s failed: %s", roundID, err)
		}

		// Clear the token slot iff it still matches this round's token —
		// interruptDiagnostics or a newer round may have already replaced
		// it, and clearing unconditionally would drop a round we don't own.
		s.mu.Lock()
		if s.diagToken == token {
			s.diagToken = nil
		}
		s.mu.Unlock()
	}()
}

// interruptDiagnostics cancels any in-flight geterr round, runs fn (an
// interactive request that must not wait behind a project-wide check),
// then re-arms diagnostics so the editor's error squiggles catch back up.
func (s *Server) interruptDiagnostics(fn func()) {
	s.mu.Lock()
	token := s.diagToken
	s.diagToken = nil
	s.mu.Unlock()

	if token != nil {
		close(token)
	}

	fn()

	s.requestDiagnostics()
}
