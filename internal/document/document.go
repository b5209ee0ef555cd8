// Package document holds the authoritative in-memory model of one open
// text buffer (C1 in the design): version, content, and the offset/position
// arithmetic both the analyzer-facing translation layer and the editor-facing
// handlers depend on.
//
// Positions here are LSP positions: zero-based lines, UTF-16 code-unit
// characters. The document stores its text as UTF-16 code units directly
// (the format the LSP specification itself mandates for position math),
// so offset/position conversion never has to reach back into UTF-8 byte
// arithmetic the way a Go string would otherwise force.
package document

import (
	"unicode/utf16"
)

// Language is the LSP languageId of an open document.
type Language string

const (
	LanguageTypeScript      Language = "typescript"
	LanguageTypeScriptReact Language = "typescriptreact"
	LanguageJavaScript      Language = "javascript"
	LanguageJavaScriptReact Language = "javascriptreact"
	LanguageOther           Language = ""
)

// Position is a zero-based (line, character) pair, character counted in
// UTF-16 code units, matching the LSP specification exactly.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span of Positions.
type Range struct {
	Start Position
	End   Position
}

// Document is the authoritative snapshot of one open text buffer.
type Document struct {
	URI      string
	Language Language
	Version  int

	// text holds the document content as UTF-16 code units.
	text []uint16

	// lineStarts[i] is the code-unit offset of the first unit of line i.
	// Invalidated (recomputed lazily) whenever text changes.
	lineStarts []int

	// LastAccessed is a monotonic wall-clock millisecond timestamp, updated
	// on every mutation and on any read that services an editor query.
	LastAccessed int64
}

// Clock returns the current time in the monotonic millisecond unit used by
// LastAccessed. It is a variable so tests can substitute a deterministic
// clock.
var Clock = defaultClock

// New creates a Document from an open notification's URI, languageId,
// version, and initial text.
func New(uri string, lang Language, version int, text string) *Document {
	d := &Document{
		URI:      uri,
		Language: lang,
		Version:  version,
	}
	d.setText(text)
	d.MarkAccessed()
	return d
}

func (d *Document) setText(text string) {
	d.text = utf16.Encode([]rune(text))
	d.lineStarts = nil
}

// Text returns the full document content as a Go string.
func (d *Document) Text() string {
	return string(utf16.Decode(d.text))
}

// Len returns the document length in UTF-16 code units.
func (d *Document) Len() int {
	return len(d.text)
}

// MarkAccessed stamps LastAccessed with the current time. Called on every
// mutation and on every read that services an editor query for this file.
func (d *Document) MarkAccessed() {
	d.LastAccessed = Clock()
}

// ApplyChange replaces the character window [rng.Start, rng.End) with
// newText, or the whole document if rng is nil, then sets Version and
// invalidates the line-offset cache.
func (d *Document) ApplyChange(rng *Range, newText string, version int) {
	newUnits := utf16.Encode([]rune(newText))

	if rng == nil {
		d.text = newUnits
	} else {
		start := d.OffsetAt(rng.Start)
		end := d.OffsetAt(rng.End)
		merged := make([]uint16, 0, start+len(newUnits)+(len(d.text)-end))
		merged = append(merged, d.text[:start]...)
		merged = append(merged, newUnits...)
		merged = append(merged, d.text[end:]...)
		d.text = merged
	}

	d.lineStarts = nil
	d.Version = version
	d.MarkAccessed()
}

// ensureLineStarts computes and caches the code-unit offset of each line's
// first unit. A line break is any of \n, \r\n, or \r; the break units
// belong to the preceding line. An empty trailing line exists iff the text
// ends with a break.
func (d *Document) ensureLineStarts() {
	if d.lineStarts != nil {
		return
	}
	starts := []int{0}
	i := 0
	for i < len(d.text) {
		u := d.text[i]
		switch u {
		case '\r':
			if i+1 < len(d.text) && d.text[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			starts = append(starts, i)
		case '\n':
			i++
			starts = append(starts, i)
		default:
			i++
		}
	}
	d.lineStarts = starts
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	d.ensureLineStarts()
	return len(d.lineStarts)
}

// LineRange returns the [start, endExclusive) code-unit offsets of line.
// endExclusive is the offset one past the last unit of the line, including
// its break characters (if any).
func (d *Document) LineRange(line int) (start, endExclusive int) {
	d.ensureLineStarts()
	if line < 0 {
		line = 0
	}
	if line >= len(d.lineStarts) {
		return len(d.text), len(d.text)
	}
	start = d.lineStarts[line]
	if line+1 < len(d.lineStarts) {
		endExclusive = d.lineStarts[line+1]
	} else {
		endExclusive = len(d.text)
	}
	return start, endExclusive
}

// LineEnd returns the position one code unit before the start of line+1:
// the end of the visible content of line, excluding its break characters.
// Used by the folding heuristic.
func (d *Document) LineEnd(line int) Position {
	start, endExclusive := d.LineRange(line)
	end := endExclusive
	for end > start && isBreakUnit(d.text[end-1]) {
		end--
	}
	return d.PositionAt(end)
}

func isBreakUnit(u uint16) bool {
	return u == '\n' || u == '\r'
}

// LineText returns the text of line, excluding its break characters.
func (d *Document) LineText(line int) string {
	start, endExclusive := d.LineRange(line)
	end := endExclusive
	for end > start && isBreakUnit(d.text[end-1]) {
		end--
	}
	return string(utf16.Decode(d.text[start:end]))
}

// PositionAt converts an absolute code-unit offset to a (line, character)
// Position. offset is clamped to [0, Len()].
func (d *Document) PositionAt(offset int) Position {
	d.ensureLineStarts()
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}

	// Binary search for the line whose start is <= offset.
	lo, hi := 0, len(d.lineStarts)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if d.lineStarts[mid] <= offset {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	return Position{Line: line, Character: offset - d.lineStarts[line]}
}

// OffsetAt converts a (line, character) Position to an absolute code-unit
// offset. A character beyond the end of its line clamps to the line's end
// (including its break characters); a line beyond the document clamps to
// the document's end.
func (d *Document) OffsetAt(pos Position) int {
	d.ensureLineStarts()
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= len(d.lineStarts) {
		return len(d.text)
	}
	start, endExclusive := d.LineRange(pos.Line)
	character := pos.Character
	if character < 0 {
		character = 0
	}
	max := endExclusive - start
	if character > max {
		character = max
	}
	return start + character
}

// CodeUnitAt returns the UTF-16 code unit at offset and true, or 0 and
// false if offset is out of [0, Len()) range.
func (d *Document) CodeUnitAt(offset int) (uint16, bool) {
	if offset < 0 || offset >= len(d.text) {
		return 0, false
	}
	return d.text[offset], true
}

// GetText returns the text in rng, or the full document text if rng is nil.
func (d *Document) GetText(rng *Range) string {
	if rng == nil {
		return d.Text()
	}
	start := d.OffsetAt(rng.Start)
	end := d.OffsetAt(rng.End)
	if end < start {
		start, end = end, start
	}
	return string(utf16.Decode(d.text[start:end]))
}

func defaultClock() int64 {
	return nowMillis()
}
