package langserver

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/commonlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsorion/tsls-bridge/internal/document"
)

func newTestServer() *Server {
	return NewServer(commonlog.GetLogger("tsls-bridge-test"))
}

func TestDidOpenThenCloseRoundTrip(t *testing.T) {
	s := newTestServer()
	uri := "file:///a/b.ts"

	err := s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 1, Text: "let x = 1;\n"},
	})
	require.NoError(t, err)

	doc, ok := s.docs[uri]
	require.True(t, ok)
	assert.Equal(t, "let x = 1;\n", doc.Text())

	err = s.textDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	_, ok = s.docs[uri]
	assert.False(t, ok)
}

// TestDidOpenIsIdempotent reflects the spec's documented property: a
// second didOpen for an already-open URI is reinterpreted as a full-text
// change rather than rejected or duplicated.
func TestDidOpenIsIdempotent(t *testing.T) {
	s := newTestServer()
	uri := "file:///a/b.ts"

	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 1, Text: "let x = 1;\n"},
	}))
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 2, Text: "let y = 2;\n"},
	}))

	doc := s.docs[uri]
	assert.Equal(t, "let y = 2;\n", doc.Text())
	assert.Equal(t, 2, doc.Version)
	assert.Len(t, s.docs, 1)
}

func TestDidChangeOnUnknownDocumentReturnsPrecondition(t *testing.T) {
	s := newTestServer()

	err := s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///never/opened.ts"}},
	})
	assert.ErrorIs(t, err, errDocumentNotOpen)
}

func TestDidChangeAppliesIncrementalEdit(t *testing.T) {
	s := newTestServer()
	uri := "file:///a/b.ts"
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 1, Text: "function foo(){}\nfoo();\n"},
	}))

	err := s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: protocol.Range{
					Start: protocol.Position{Line: 1, Character: 0},
					End:   protocol.Position{Line: 1, Character: 3},
				},
				Text: "foo",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "function foo(){}\nfoo();\n", s.docs[uri].Text())
	assert.Equal(t, 2, s.docs[uri].Version)
}

// TestOpenURIsLRUOrdering matches scenario 4 of the testable properties:
// opening A, B, C in order then touching A moves A to the back of the
// list the next geterr round would use.
func TestOpenURIsLRUOrdering(t *testing.T) {
	s := newTestServer()

	clockTick := int64(0)
	orig := document.Clock
	document.Clock = func() int64 {
		clockTick++
		return clockTick
	}
	defer func() { document.Clock = orig }()

	open := func(uri string) {
		require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 1, Text: "x"},
		}))
	}
	open("file:///a.ts")
	open("file:///b.ts")
	open("file:///c.ts")

	require.NoError(t, s.textDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///a.ts"},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "y"}},
	}))

	assert.Equal(t, []string{"file:///b.ts", "file:///c.ts", "file:///a.ts"}, s.openURIsLRU())
}
