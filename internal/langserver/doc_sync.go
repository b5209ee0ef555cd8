package langserver

import (
	"context"
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/document"
	"github.com/kelsorion/tsls-bridge/internal/tsconfig"
)

func languageForURI(uri string) document.Language {
	switch {
	case hasSuffixFold(uri, ".tsx"):
		return document.LanguageTypeScriptReact
	case hasSuffixFold(uri, ".ts"):
		return document.LanguageTypeScript
	case hasSuffixFold(uri, ".jsx"):
		return document.LanguageJavaScriptReact
	case hasSuffixFold(uri, ".js"), hasSuffixFold(uri, ".mjs"), hasSuffixFold(uri, ".cjs"):
		return document.LanguageJavaScript
	default:
		return document.LanguageOther
	}
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := range tail {
		a, b := tail[i], suffix[i]
		if a >= 'A' && a <= 'Z' {
			a += 'a' - 'A'
		}
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

func scriptKindFor(lang document.Language) analyzer.ScriptKind {
	switch lang {
	case document.LanguageTypeScript:
		return analyzer.ScriptKindTS
	case document.LanguageTypeScriptReact:
		return analyzer.ScriptKindTSX
	case document.LanguageJavaScript:
		return analyzer.ScriptKindJS
	case document.LanguageJavaScriptReact:
		return analyzer.ScriptKindJSX
	default:
		return analyzer.ScriptKindNone
	}
}

// textDocumentDidOpen opens or, for an already-open URI, treats the
// notification as an implicit full-content change — editors occasionally
// resend didOpen for a document the server still has open, and the
// analyzer's "open" command is itself idempotent in the same way.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	lang := languageForURI(uri)
	text := params.TextDocument.Text

	s.mu.Lock()
	if existing, ok := s.docs[uri]; ok {
		existing.ApplyChange(nil, text, int(params.TextDocument.Version))
	} else {
		s.docs[uri] = document.New(uri, lang, int(params.TextDocument.Version), text)
	}
	client := s.client
	s.mu.Unlock()

	if client == nil {
		return nil
	}

	path, err := convert.URIToPath(uri)
	if err != nil {
		return nil
	}

	if err := client.Notify("open", analyzer.OpenRequestArgs{
		File:           path,
		FileContent:    text,
		ScriptKindName: scriptKindFor(lang),
		ProjectRootPath: s.rootOrEmpty(),
	}); err != nil {
		s.log.Warningf("tsls-bridge: open %s: %s", uri, err)
	}

	s.requestDiagnostics()
	return nil
}

func (s *Server) rootOrEmpty() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// textDocumentDidChange replays every content change onto the document
// model and forwards each as an analyzer "change" notification, in order.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	doc, ok := s.docs[uri]
	client := s.client
	s.mu.Unlock()
	if !ok {
		return errDocumentNotOpen
	}

	path, pathErr := convert.URIToPath(uri)

	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			rng := document.Range{
				Start: document.Position{Line: int(change.Range.Start.Line), Character: int(change.Range.Start.Character)},
				End:   document.Position{Line: int(change.Range.End.Line), Character: int(change.Range.End.Character)},
			}
			doc.ApplyChange(&rng, change.Text, int(params.TextDocument.Version))

			if client != nil && pathErr == nil {
				start := convert.ToAnalyzerPosition(rng.Start)
				end := convert.ToAnalyzerPosition(rng.End)
				_ = client.Notify("change", analyzer.ChangeRequestArgs{
					File: path, Line: start.Line, Offset: start.Offset,
					EndLine: end.Line, EndOffset: end.Offset,
					InsertString: change.Text,
				})
			}

		case protocol.TextDocumentContentChangeEventWhole:
			doc.ApplyChange(nil, change.Text, int(params.TextDocument.Version))
			if client != nil && pathErr == nil {
				_ = client.Notify("change", analyzer.ChangeRequestArgs{
					File: path, Line: 1, Offset: 1,
					EndLine: convert.EndOfFilePosition().Line, EndOffset: convert.EndOfFilePosition().Offset,
					InsertString: change.Text,
				})
			}
		}
	}

	s.requestDiagnostics()
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, uri)
	client := s.client
	queue := s.queue
	s.mu.Unlock()

	if path, err := convert.URIToPath(uri); err == nil && client != nil {
		_ = client.Notify("close", analyzer.CloseRequestArgs{File: path})
	}
	if queue != nil {
		queue.Close(uri)
	}
	return nil
}

// textDocumentDidSave only logs the save; nothing is sent to the
// analyzer. The analyzer already has the authoritative buffer from
// didChange, so save carries no new content the analyzer needs — it
// exists only so editors that gate "organize imports on save" style
// client-side behavior see a server that understands save.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.log.Debugf("tsls-bridge: textDocument/didSave %s", params.TextDocument.URI)
	return nil
}

func (s *Server) workspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	s.mu.Lock()
	client := s.client
	root := s.root
	format := s.format
	s.mu.Unlock()

	if raw, err := json.Marshal(params.Settings); err == nil {
		var wrapper struct {
			Format *tsconfig.FormatOptions `json:"format"`
		}
		if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Format != nil {
			format = wrapper.Format
			s.mu.Lock()
			s.format = format
			s.mu.Unlock()
		}
	}

	if client == nil {
		return nil
	}
	_, err := client.Request(context.Background(), "configure", configureArgs(root, format), nil)
	return err
}
