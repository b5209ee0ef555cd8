package langserver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelsorion/tsls-bridge/internal/document"
)

// TestAdjustedFoldEndLineBrace matches scenario 5 of the testable
// properties: a fold ending right after a closing brace pulls its end
// line back by one, so collapsing it leaves the brace visible.
func TestAdjustedFoldEndLineBrace(t *testing.T) {
	doc := document.New("file:///a.ts", document.LanguageTypeScript, 1, "function foo() {\n  return 1;\n}\n")

	rng := document.Range{
		Start: document.Position{Line: 0, Character: 16},
		End:   document.Position{Line: 2, Character: 1},
	}
	assert.Equal(t, 1, adjustedFoldEndLine(doc, rng))
}

func TestAdjustedFoldEndLineNoBraceUnchanged(t *testing.T) {
	doc := document.New("file:///a.ts", document.LanguageTypeScript, 1, "// a comment\n// spanning two lines\n")

	rng := document.Range{
		Start: document.Position{Line: 0, Character: 0},
		End:   document.Position{Line: 1, Character: 22},
	}
	assert.Equal(t, 1, adjustedFoldEndLine(doc, rng))
}

func TestAdjustedFoldEndLineNeverBelowStart(t *testing.T) {
	doc := document.New("file:///a.ts", document.LanguageTypeScript, 1, "{}\n")

	rng := document.Range{
		Start: document.Position{Line: 0, Character: 0},
		End:   document.Position{Line: 0, Character: 2},
	}
	assert.Equal(t, 0, adjustedFoldEndLine(doc, rng))
}

func TestEndregionPatternMatchesCaseInsensitive(t *testing.T) {
	assert.True(t, endregionPattern.MatchString("// #endregion"))
	assert.True(t, endregionPattern.MatchString("  //#ENDREGION"))
	assert.True(t, endregionPattern.MatchString("//   #EndRegion foo"))
	assert.False(t, endregionPattern.MatchString("// #region"))
	assert.False(t, endregionPattern.MatchString("const x = 1; // #endregion"))
}
