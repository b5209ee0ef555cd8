package diagnostics

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
)

func identityFileToURI(path string) string { return "file://" + path }

func TestQueuePublishesUnionAcrossKinds(t *testing.T) {
	var published []protocol.Diagnostic
	q := New(func(uri string, diags []protocol.Diagnostic) {
		published = diags
	}, identityFileToURI)

	q.Update("file:///a.ts", analyzer.DiagnosticKindSyntax, []analyzer.Diagnostic{
		{Text: "unexpected token", Category: "error"},
	})
	require.Len(t, published, 1)

	q.Update("file:///a.ts", analyzer.DiagnosticKindSemantic, []analyzer.Diagnostic{
		{Text: "unused variable", Category: "suggestion", ReportsUnnecessary: true},
	})
	require.Len(t, published, 2)

	assert.Equal(t, "unexpected token", published[0].Message)
	assert.Equal(t, "unused variable", published[1].Message)
}

func TestQueueReplacesKindOnUpdate(t *testing.T) {
	var published []protocol.Diagnostic
	q := New(func(uri string, diags []protocol.Diagnostic) { published = diags }, identityFileToURI)

	q.Update("file:///a.ts", analyzer.DiagnosticKindSemantic, []analyzer.Diagnostic{{Text: "first", Category: "error"}})
	q.Update("file:///a.ts", analyzer.DiagnosticKindSemantic, []analyzer.Diagnostic{{Text: "second", Category: "error"}})

	require.Len(t, published, 1)
	assert.Equal(t, "second", published[0].Message)
}

func TestQueueCloseClearsDiagnostics(t *testing.T) {
	var published []protocol.Diagnostic
	calls := 0
	q := New(func(uri string, diags []protocol.Diagnostic) {
		published = diags
		calls++
	}, identityFileToURI)

	q.Update("file:///a.ts", analyzer.DiagnosticKindSyntax, []analyzer.Diagnostic{{Text: "x", Category: "error"}})
	q.Close("file:///a.ts")

	assert.Equal(t, 2, calls)
	assert.Empty(t, published)
}
