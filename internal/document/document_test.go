package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetPositionRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"let x = 1;\n",
		"function foo(){}\nfoo();\n",
		"line one\r\nline two\rline three\nline four",
		"a\n\n\nb",
	}

	for _, text := range texts {
		d := New("file:///t.ts", LanguageTypeScript, 1, text)
		for o := 0; o <= d.Len(); o++ {
			pos := d.PositionAt(o)
			got := d.OffsetAt(pos)
			require.Equalf(t, o, got, "text=%q offset=%d pos=%+v", text, o, pos)
		}
	}
}

func TestApplyChangeFullDocument(t *testing.T) {
	d := New("file:///t.ts", LanguageTypeScript, 1, "old text")
	d.ApplyChange(nil, "new text", 2)
	assert.Equal(t, "new text", d.Text())
	assert.Equal(t, 2, d.Version)
}

func TestApplyChangeIncremental(t *testing.T) {
	d := New("file:///t.ts", LanguageTypeScript, 1, "function foo(){}\nfoo();\n")
	// Replace "foo" on line 1 (no-op rewrite).
	d.ApplyChange(&Range{Start: Position{Line: 1, Character: 0}, End: Position{Line: 1, Character: 3}}, "foo", 2)
	assert.Equal(t, "function foo(){}\nfoo();\n", d.Text())
}

func TestLineTextAndLineEnd(t *testing.T) {
	d := New("file:///t.ts", LanguageTypeScript, 1, "abc\ndef\n")
	assert.Equal(t, "abc", d.LineText(0))
	assert.Equal(t, "def", d.LineText(1))
	assert.Equal(t, 3, d.LineCount())

	end := d.LineEnd(0)
	assert.Equal(t, Position{Line: 0, Character: 3}, end)
}

func TestMarkAccessedUpdatesOnMutation(t *testing.T) {
	var tick int64
	old := Clock
	Clock = func() int64 { tick++; return tick }
	defer func() { Clock = old }()

	d := New("file:///t.ts", LanguageTypeScript, 1, "a")
	first := d.LastAccessed
	d.ApplyChange(nil, "b", 2)
	assert.Greater(t, d.LastAccessed, first)
}

func TestGetTextRange(t *testing.T) {
	d := New("file:///t.ts", LanguageTypeScript, 1, "hello world")
	got := d.GetText(&Range{Start: Position{Line: 0, Character: 6}, End: Position{Line: 0, Character: 11}})
	assert.Equal(t, "world", got)
}
