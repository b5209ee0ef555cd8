package langserver

import (
	"context"
	"regexp"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

// endregionPattern matches a "// #endregion" comment (any amount of
// whitespace after the slashes, case-insensitive), the marker a region
// span's closing comment carries that should never itself be folded.
var endregionPattern = regexp.MustCompile(`(?i)^\s*//\s*#endregion`)

// textDocumentFoldingRange asks the analyzer for its outlining spans and
// applies two corrections LSP clients expect but the analyzer's spans
// don't supply on their own: dropping the closing "#endregion" marker
// comment, and pulling a fold's end line back by one when it ends right
// after a closing brace, so collapsing the fold leaves the brace visible.
// This is not latency-sensitive enough to interrupt an in-flight geterr
// round over, so it calls the analyzer client directly.
func (s *Server) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.mu.Lock()
	client := s.client
	path, err := convert.URIToPath(params.TextDocument.URI)
	doc, hasDoc := s.docs[params.TextDocument.URI]
	s.mu.Unlock()
	if client == nil || err != nil {
		return nil, nil
	}
	if !hasDoc {
		return nil, errDocumentNotOpen
	}

	body, reqErr := client.Request(context.Background(), "getOutliningSpans", analyzer.FileRequestArgs{File: path}, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: getOutliningSpans failed: %s", reqErr)
		return nil, nil
	}
	var regions []analyzer.FoldingRegion
	if err := unmarshalInto(body, &regions); err != nil {
		s.log.Warningf("tsls-bridge: getOutliningSpans: malformed response: %s", err)
		return nil, nil
	}

	ranges := make([]protocol.FoldingRange, 0, len(regions))
	for _, region := range regions {
		rng := convert.FromAnalyzerSpan(region.TextSpan)

		if region.Kind == "comment" && endregionPattern.MatchString(doc.LineText(rng.Start.Line)) {
			continue
		}

		fr := protocol.FoldingRange{
			StartLine: protocol.UInteger(rng.Start.Line),
			EndLine:   protocol.UInteger(adjustedFoldEndLine(doc, rng)),
		}
		if kind := foldingRangeKind(region.Kind); kind != "" {
			fr.Kind = &kind
		}
		ranges = append(ranges, fr)
	}
	return ranges, nil
}

// adjustedFoldEndLine pulls a fold's end line back by one when the code
// unit immediately preceding the span's end position is a closing brace,
// so collapsing the fold leaves the brace on its own visible line. The
// result never drops below the fold's start line.
func adjustedFoldEndLine(doc *document.Document, rng document.Range) int {
	end := rng.End.Line
	if end <= rng.Start.Line {
		return end
	}

	if offset := doc.OffsetAt(rng.End); offset > 0 {
		if unit, ok := doc.CodeUnitAt(offset - 1); ok && unit == '}' {
			end--
		}
	}
	if end < rng.Start.Line {
		end = rng.Start.Line
	}
	return end
}

func foldingRangeKind(analyzerKind string) protocol.FoldingRangeKind {
	switch analyzerKind {
	case "comment":
		return protocol.FoldingRangeKindComment
	case "region":
		return protocol.FoldingRangeKindRegion
	case "imports":
		return protocol.FoldingRangeKindImports
	default:
		return ""
	}
}
