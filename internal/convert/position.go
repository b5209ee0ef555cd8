package convert

import (
	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

// ToAnalyzerPosition converts an LSP (0-based line, UTF-16 character)
// Position to the analyzer's 1-based (line, offset) Position. Both axes
// count UTF-16 code units, so the conversion is a pure +1 shift on each.
func ToAnalyzerPosition(pos document.Position) analyzer.Position {
	return analyzer.Position{Line: pos.Line + 1, Offset: pos.Character + 1}
}

// FromAnalyzerPosition is the inverse of ToAnalyzerPosition.
func FromAnalyzerPosition(pos analyzer.Position) document.Position {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	character := pos.Offset - 1
	if character < 0 {
		character = 0
	}
	return document.Position{Line: line, Character: character}
}

// ToAnalyzerSpan converts an LSP Range to an analyzer Span.
func ToAnalyzerSpan(rng document.Range) analyzer.Span {
	return analyzer.Span{Start: ToAnalyzerPosition(rng.Start), End: ToAnalyzerPosition(rng.End)}
}

// FromAnalyzerSpan is the inverse of ToAnalyzerSpan.
func FromAnalyzerSpan(span analyzer.Span) document.Range {
	return document.Range{Start: FromAnalyzerPosition(span.Start), End: FromAnalyzerPosition(span.End)}
}

// EndOfFilePosition is the analyzer position meaning "the very end of the
// file", used by requests that otherwise require an explicit span.
func EndOfFilePosition() analyzer.Position {
	return analyzer.Position{Line: analyzer.MaxSafeInteger, Offset: analyzer.MaxSafeInteger}
}
