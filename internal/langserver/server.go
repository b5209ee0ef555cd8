// Package langserver implements C5: the server core. It owns the table of
// open documents, the analyzer client, the diagnostic queue, and the
// diagnostics interrupt/re-arm protocol that keeps interactive requests
// (completion, hover, signature help, code actions) responsive while a
// project-wide error check is in flight.
package langserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/diagnostics"
	"github.com/kelsorion/tsls-bridge/internal/document"
	"github.com/kelsorion/tsls-bridge/internal/tsconfig"
)

const name = "tsls-bridge"

// lifecycleState is the server's position in the LSP lifecycle
// state machine: uninitialized -> initialized -> shuttingDown -> dead.
type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateInitialized
	stateShuttingDown
	stateDead
)

// Server is the language server core. One Server serves one client
// connection and owns exactly one analyzer subprocess.
type Server struct {
	log commonlog.Logger

	mu    sync.Mutex
	state lifecycleState
	root  string // absolute filesystem path of the workspace root, "" if none

	docs map[string]*document.Document

	client *analyzer.Client
	queue  *diagnostics.Queue

	format *tsconfig.FormatOptions

	// diagToken is the cancellation channel for the in-flight geterr
	// round, if any. A nil value means no round is outstanding.
	diagToken chan struct{}
}

// NewServer constructs a Server. The analyzer subprocess is not started
// until initialize() runs, since its launch arguments depend on the
// client's initialize params.
func NewServer(log commonlog.Logger) *Server {
	return &Server{
		log:  log,
		docs: make(map[string]*document.Document),
	}
}

// Handler builds the glsp protocol handler table backed by this Server.
// Every handler that touches the open-document map or the analyzer client
// is wrapped with requireAlive/requireAliveNotify so that once the server
// has transitioned to stateDead (see handleFatal), dispatch rejects
// further requests instead of reaching for a client or document map that
// may no longer be meaningfully usable.
func (s *Server) Handler() protocol.Handler {
	return protocol.Handler{
		Initialize:    s.initialize,
		Initialized:   s.initialized,
		Shutdown:      s.shutdown,
		Exit:          s.exit,
		SetTrace:      s.setTrace,
		CancelRequest: s.cancelRequest,

		TextDocumentDidOpen:   requireAliveNotify(s, s.textDocumentDidOpen),
		TextDocumentDidChange: requireAliveNotify(s, s.textDocumentDidChange),
		TextDocumentDidClose:  requireAliveNotify(s, s.textDocumentDidClose),
		TextDocumentDidSave:   requireAliveNotify(s, s.textDocumentDidSave),

		TextDocumentDefinition:          requireAlive(s, s.textDocumentDefinition),
		TextDocumentImplementation:      requireAlive(s, s.textDocumentImplementation),
		TextDocumentTypeDefinition:      requireAlive(s, s.textDocumentTypeDefinition),
		TextDocumentReferences:          requireAlive(s, s.textDocumentReferences),
		TextDocumentDocumentHighlight:   requireAlive(s, s.textDocumentDocumentHighlight),
		TextDocumentDocumentSymbol:      requireAlive(s, s.textDocumentDocumentSymbol),
		WorkspaceSymbol:                 requireAlive(s, s.workspaceSymbol),
		TextDocumentHover:               requireAlive(s, s.textDocumentHover),
		TextDocumentSignatureHelp:       requireAlive(s, s.textDocumentSignatureHelp),
		TextDocumentCompletion:          requireAlive(s, s.textDocumentCompletion),
		CompletionItemResolve:           requireAlive(s, s.completionItemResolve),
		TextDocumentRename:              requireAlive(s, s.textDocumentRename),
		TextDocumentFormatting:          requireAlive(s, s.textDocumentFormatting),
		TextDocumentFoldingRange:        requireAlive(s, s.textDocumentFoldingRange),
		TextDocumentCodeAction:          requireAlive(s, s.textDocumentCodeAction),
		WorkspaceExecuteCommand:         requireAlive(s, s.workspaceExecuteCommand),
		WorkspaceDidChangeConfiguration: requireAliveNotify(s, s.workspaceDidChangeConfiguration),
	}
}

// errServerDead is returned by dispatch once the server has observed a
// fatal transport/subprocess failure (category 4, §7): every pending
// request already failed and the outer runner is expected to surface the
// failure to the user, so further requests are rejected rather than
// retried against a dead analyzer client.
var errServerDead = errors.New("tsls-bridge: server is shutting down after a fatal analyzer failure")

func (s *Server) isDead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateDead
}

// requireAlive wraps a request handler so it short-circuits with
// errServerDead once the server is dead, rather than running against a
// client/document state that failure has already torn down.
func requireAlive[T, R any](s *Server, fn func(*glsp.Context, T) (R, error)) func(*glsp.Context, T) (R, error) {
	return func(ctx *glsp.Context, params T) (R, error) {
		if s.isDead() {
			var zero R
			return zero, errServerDead
		}
		return fn(ctx, params)
	}
}

// requireAliveNotify is requireAlive for the notification-shaped handlers
// that return only an error.
func requireAliveNotify[T any](s *Server, fn func(*glsp.Context, T) error) func(*glsp.Context, T) error {
	return func(ctx *glsp.Context, params T) error {
		if s.isDead() {
			return errServerDead
		}
		return fn(ctx, params)
	}
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.mu.Lock()
	switch {
	case params.RootURI != nil:
		if p, err := convert.URIToPath(*params.RootURI); err == nil {
			s.root = p
		}
	case params.RootPath != nil:
		s.root = *params.RootPath
	}
	root := s.root
	s.mu.Unlock()

	var explicitPath string
	var initOpts struct {
		ServerPath string `json:"serverPath"`
		TSFmtPath  string `json:"tsfmtPath"`
	}
	if params.InitializationOptions != nil {
		_ = decodeAny(params.InitializationOptions, &initOpts)
		explicitPath = initOpts.ServerPath
	}

	binPath, err := tsconfig.ResolveBinary(explicitPath, root)
	if err != nil {
		return nil, fmt.Errorf("tsls-bridge: %w", err)
	}

	tsfmtPath := initOpts.TSFmtPath
	if tsfmtPath == "" && root != "" {
		tsfmtPath = filepath.Join(root, "tsfmt.json")
	}
	format, err := tsconfig.LoadTSFmt(s.log, tsfmtPath)
	if err != nil {
		s.log.Warningf("tsls-bridge: %s", err)
	}

	s.mu.Lock()
	s.format = format
	s.mu.Unlock()

	cmd := exec.Command(binPath)
	if root != "" {
		cmd.Dir = root
	}
	cmd.Stderr = os.Stderr

	client := analyzer.New(s.log, cmd, s.handleEvent, s.handleFatal)
	if err := client.Start(); err != nil {
		return nil, fmt.Errorf("tsls-bridge: start analyzer: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.queue = diagnostics.New(s.publishDiagnostics(ctx), convert.PathToURI)
	s.state = stateInitialized
	s.mu.Unlock()

	if _, err := client.Request(context.Background(), "configure", configureArgs(root, format), nil); err != nil {
		s.log.Warningf("tsls-bridge: initial configure failed: %s", err)
	}

	syncKind := protocol.TextDocumentSyncKindFull
	trueVal := true
	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: &trueVal,
				Change:    &syncKind,
				Save:      &protocol.SaveOptions{IncludeText: &trueVal},
			},
			DefinitionProvider:        true,
			ImplementationProvider:    true,
			TypeDefinitionProvider:    true,
			ReferencesProvider:        true,
			DocumentHighlightProvider: true,
			DocumentSymbolProvider:    true,
			WorkspaceSymbolProvider:   true,
			HoverProvider:             true,
			SignatureHelpProvider: &protocol.SignatureHelpOptions{
				TriggerCharacters: []string{"(", ",", "<"},
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{".", "\"", "'", "`", "/", "@", "<", "#"},
				ResolveProvider:   &trueVal,
			},
			RenameProvider:            true,
			DocumentFormattingProvider: true,
			FoldingRangeProvider:       true,
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{
					protocol.CodeActionKindQuickFix,
					protocol.CodeActionKindRefactor,
					protocol.CodeActionKindSourceOrganizeImports,
				},
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{
					CommandApplyWorkspaceEdit,
					CommandApplyCodeAction,
					CommandApplyRefactoring,
					CommandOrganizeImports,
				},
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    name,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Info("tsls-bridge initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	s.state = stateShuttingDown
	client := s.client
	var openURIs []string
	for uri := range s.docs {
		openURIs = append(openURIs, uri)
	}
	s.mu.Unlock()

	if client != nil {
		return client.Stop(openURIs)
	}
	return nil
}

func (s *Server) exit(ctx *glsp.Context) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	code := 0
	if state != stateShuttingDown {
		code = 1
	}
	os.Exit(code)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// cancelRequest is a logged no-op: the editor's own cancellation signal
// does not abort analyzer work already in flight, since the analyzer has
// no per-request cancel primitive of its own.
func (s *Server) cancelRequest(ctx *glsp.Context, params *protocol.CancelParams) error {
	s.log.Debugf("tsls-bridge: ignoring $/cancelRequest for id %v", params.ID)
	return nil
}

// handleFatal is the analyzer.Client's fatal callback: transport read
// failures and premature subprocess exit are category-4 errors (§7) —
// every pending request has already failed, so the server transitions to
// dead and dispatch starts rejecting further requests (see requireAlive).
func (s *Server) handleFatal(err error) {
	s.log.Errorf("tsls-bridge: analyzer transport failed: %s", err)
	s.mu.Lock()
	s.state = stateDead
	s.mu.Unlock()
}

// decodeAny re-marshals a generically-decoded JSON value (glsp hands
// initializationOptions and similar fields to us as map[string]any) into
// a concrete struct.
func decodeAny(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// openURIsLRU returns open document URIs ordered least-recently-accessed
// first, the order requestDiagnostics uses for its geterr file list.
func (s *Server) openURIsLRU() []string {
	type entry struct {
		uri      string
		accessed int64
	}
	entries := make([]entry, 0, len(s.docs))
	for uri, d := range s.docs {
		entries = append(entries, entry{uri, d.LastAccessed})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].accessed < entries[j].accessed })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.uri
	}
	return out
}
