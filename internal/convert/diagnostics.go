package convert

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

// diagnosticSource is the value every translated diagnostic carries in its
// "source" field, matching what editors expect from a TypeScript server.
const diagnosticSource = "typescript"

// severityByCategory maps the analyzer's diagnostic category string to an
// LSP DiagnosticSeverity. A category this server has never seen falls back
// to Error, since an unrecognized category from a future analyzer version
// is more likely to be a real problem than noise.
func severityByCategory(category string) protocol.DiagnosticSeverity {
	switch category {
	case "error":
		return protocol.DiagnosticSeverityError
	case "warning":
		return protocol.DiagnosticSeverityWarning
	case "suggestion":
		return protocol.DiagnosticSeverityHint
	case "message":
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

// ToLSPDiagnostic translates one analyzer Diagnostic into an LSP
// Diagnostic. fileToURI resolves the file path carried by related
// information (the analyzer reports those as native paths, not URIs).
func ToLSPDiagnostic(d analyzer.Diagnostic, fileToURI func(string) string) protocol.Diagnostic {
	severity := severityByCategory(d.Category)
	rng := toProtocolRange(FromAnalyzerSpan(analyzer.Span{Start: d.Start, End: d.End}))
	code := protocol.IntegerOrString{Value: d.Code}
	source := diagnosticSource

	out := protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  d.Text,
	}

	if tags := diagnosticTags(d); len(tags) > 0 {
		out.Tags = tags
	}

	for _, rel := range d.RelatedInformation {
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{
				URI:   fileToURI(rel.Span.File),
				Range: toProtocolRange(FromAnalyzerSpan(analyzer.Span{Start: rel.Span.Start, End: rel.Span.End})),
			},
			Message: rel.Message,
		})
	}

	return out
}

func diagnosticTags(d analyzer.Diagnostic) []protocol.DiagnosticTag {
	var tags []protocol.DiagnosticTag
	if d.ReportsUnnecessary {
		tags = append(tags, protocol.DiagnosticTagUnnecessary)
	}
	if d.ReportsDeprecated {
		tags = append(tags, protocol.DiagnosticTagDeprecated)
	}
	return tags
}

func toProtocolPosition(p document.Position) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(p.Line), Character: protocol.UInteger(p.Character)}
}

func toProtocolRange(r document.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}
