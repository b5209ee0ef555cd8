// Package diagnostics implements C4: the per-file diagnostic merge and
// publish queue. The analyzer reports syntax, semantic, and suggestion
// diagnostics as three independent streams per file; this package holds
// the latest set for each (file, kind) pair and publishes their union
// whenever any of the three changes.
package diagnostics

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
)

// Publisher sends a textDocument/publishDiagnostics notification for uri.
type Publisher func(uri string, diags []protocol.Diagnostic)

// Queue holds the latest diagnostics for every open file, keyed by kind,
// and republishes the union on every update.
type Queue struct {
	publish   Publisher
	fileToURI func(string) string

	mu    sync.Mutex
	files map[string]*fileState
}

type fileState struct {
	byKind map[analyzer.DiagnosticKind][]analyzer.Diagnostic
}

// New constructs a Queue. fileToURI resolves a native path (as reported
// in diagnostic relatedInformation) to a file:// URI.
func New(publish Publisher, fileToURI func(string) string) *Queue {
	return &Queue{
		publish:   publish,
		fileToURI: fileToURI,
		files:     make(map[string]*fileState),
	}
}

// Update replaces the diagnostics of one (uri, kind) slot and republishes
// the file's full union.
func (q *Queue) Update(uri string, kind analyzer.DiagnosticKind, diags []analyzer.Diagnostic) {
	q.mu.Lock()
	fs, ok := q.files[uri]
	if !ok {
		fs = &fileState{byKind: make(map[analyzer.DiagnosticKind][]analyzer.Diagnostic)}
		q.files[uri] = fs
	}
	fs.byKind[kind] = diags
	union := q.unionLocked(fs)
	q.mu.Unlock()

	q.publish(uri, union)
}

// Close drops all tracked diagnostics for uri and publishes an empty set,
// clearing the editor's gutter for a file that has been closed or deleted.
func (q *Queue) Close(uri string) {
	q.mu.Lock()
	delete(q.files, uri)
	q.mu.Unlock()

	q.publish(uri, []protocol.Diagnostic{})
}

func (q *Queue) unionLocked(fs *fileState) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, kind := range []analyzer.DiagnosticKind{
		analyzer.DiagnosticKindSyntax,
		analyzer.DiagnosticKindSemantic,
		analyzer.DiagnosticKindSuggestion,
	} {
		for _, d := range fs.byKind[kind] {
			out = append(out, convert.ToLSPDiagnostic(d, q.fileToURI))
		}
	}
	return out
}
