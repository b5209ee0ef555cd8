package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
)

func TestRenderDocumentation(t *testing.T) {
	doc := []analyzer.SymbolDisplayPart{{Text: "Returns the sum.", Kind: "text"}}
	tags := []analyzer.JSDocTagInfo{
		{Name: "param", Text: []analyzer.SymbolDisplayPart{{Text: "a the first addend"}}},
		{Name: "deprecated"},
	}

	got := RenderDocumentation(doc, tags)
	assert.Equal(t, "Returns the sum.\n\n*@param* a the first addend\n\n*@deprecated*", got)
}

func TestRenderDocumentationEmpty(t *testing.T) {
	assert.Equal(t, "", RenderDocumentation(nil, nil))
}
