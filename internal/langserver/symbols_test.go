package langserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
)

// TestFlattenNavtreeSetsContainerNameFromParent checks the documentSymbol
// shape: a flat []SymbolInformation where each entry's ContainerName is
// the text of the navtree node it was nested under, not a nested
// DocumentSymbol tree.
func TestFlattenNavtreeSetsContainerNameFromParent(t *testing.T) {
	span := analyzer.Span{
		Start: analyzer.Position{Line: 1, Offset: 1},
		End:   analyzer.Position{Line: 1, Offset: 5},
	}
	items := []analyzer.NavtreeItem{
		{
			Text:  "Widget",
			Kind:  "class",
			Spans: []analyzer.Span{span},
			ChildItems: []analyzer.NavtreeItem{
				{Text: "render", Kind: "method", Spans: []analyzer.Span{span}},
				{Text: "name", Kind: "property", Spans: []analyzer.Span{span}},
			},
		},
	}

	symbols := flattenNavtree(items, "", "file:///a.ts")
	require.Len(t, symbols, 3)

	assert.Equal(t, "Widget", symbols[0].Name)
	assert.Nil(t, symbols[0].ContainerName)

	assert.Equal(t, "render", symbols[1].Name)
	require.NotNil(t, symbols[1].ContainerName)
	assert.Equal(t, "Widget", *symbols[1].ContainerName)

	assert.Equal(t, "name", symbols[2].Name)
	require.NotNil(t, symbols[2].ContainerName)
	assert.Equal(t, "Widget", *symbols[2].ContainerName)
}

func TestFlattenNavtreeEmpty(t *testing.T) {
	symbols := flattenNavtree(nil, "", "file:///a.ts")
	assert.Empty(t, symbols)
}
