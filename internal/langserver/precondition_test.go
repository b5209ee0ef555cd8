package langserver

import (
	"os/exec"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/commonlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
)

// fakeClient is a real *analyzer.Client wired to a never-started command:
// every test here exercises only the document-state precondition check,
// which must fail before the handler ever reaches for the subprocess, so
// the client only needs to be non-nil.
func fakeClient() *analyzer.Client {
	return analyzer.New(commonlog.GetLogger("tsls-bridge-test"), exec.Command("true"), nil, nil)
}

func TestRequireDocumentUnknownURI(t *testing.T) {
	s := newTestServer()
	_, err := s.requireDocument("file:///never/opened.ts")
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestRequireDocumentKnownURI(t *testing.T) {
	s := newTestServer()
	uri := "file:///a/b.ts"
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 1, Text: "x"},
	}))

	doc, err := s.requireDocument(uri)
	require.NoError(t, err)
	assert.Equal(t, "x", doc.Text())
}

func TestHoverPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	hover, err := s.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, hover)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestSignatureHelpPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	help, err := s.textDocumentSignatureHelp(nil, &protocol.SignatureHelpParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, help)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestCompletionPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	list, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, list)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestDefinitionPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	loc, err := s.textDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, loc)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestReferencesPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	locs, err := s.textDocumentReferences(nil, &protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: true},
	})
	assert.Nil(t, locs)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestDocumentHighlightPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	highlights, err := s.textDocumentDocumentHighlight(nil, &protocol.DocumentHighlightParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, highlights)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestRenamePreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	edit, err := s.textDocumentRename(nil, &protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
		NewName: "b",
	})
	assert.Nil(t, edit)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestFoldingRangePreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	ranges, err := s.textDocumentFoldingRange(nil, &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
	})
	assert.Nil(t, ranges)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestDocumentSymbolPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	symbols, err := s.textDocumentDocumentSymbol(nil, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
	})
	assert.Nil(t, symbols)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestCodeActionPreconditionOnClosedDocument(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	actions, err := s.textDocumentCodeAction(nil, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		},
	})
	assert.Nil(t, actions)
	assert.ErrorIs(t, err, errDocumentNotOpen)
}
