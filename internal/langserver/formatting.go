package langserver

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

// textDocumentFormatting formats the whole document. The format request
// carries no options of its own: the analyzer applies the format options
// last sent with "configure" (tsfmt.json at initialize, or a "format"
// block from workspace/didChangeConfiguration), or its own defaults when
// neither was set. The editor-supplied FormattingOptions are not used,
// whether or not tsfmt.json exists.
func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	s.mu.Lock()
	client := s.client
	path, err := convert.URIToPath(params.TextDocument.URI)
	doc, hasDoc := s.docs[params.TextDocument.URI]
	s.mu.Unlock()
	if client == nil || err != nil || !hasDoc {
		return nil, nil
	}

	end := document.Position{Line: doc.LineCount(), Character: 0}
	if doc.LineCount() > 0 {
		end = doc.LineEnd(doc.LineCount() - 1)
	}
	startAP := convert.ToAnalyzerPosition(document.Position{})
	endAP := convert.ToAnalyzerPosition(end)

	args := analyzer.FormatRequestArgs{
		FileRangeRequestArgs: analyzer.FileRangeRequestArgs{
			File:        path,
			StartLine:   startAP.Line,
			StartOffset: startAP.Offset,
			EndLine:     endAP.Line,
			EndOffset:   endAP.Offset,
		},
	}

	// formatting is not latency-sensitive enough to interrupt an in-flight
	// geterr round over, so it calls the analyzer directly.
	body, reqErr := client.Request(context.Background(), "format", args, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: format failed: %s", reqErr)
		return nil, nil
	}
	var changes []analyzer.TextChange
	if err := unmarshalInto(body, &changes); err != nil {
		s.log.Warningf("tsls-bridge: format: malformed response: %s", err)
		return nil, nil
	}

	edits := make([]protocol.TextEdit, 0, len(changes))
	for _, c := range changes {
		rng := convert.FromAnalyzerSpan(c.Span)
		edits = append(edits, protocol.TextEdit{Range: toProtocolRangeValue(rng), NewText: c.NewText})
	}
	return edits, nil
}
