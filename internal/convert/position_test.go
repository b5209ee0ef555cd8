package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

func TestToAnalyzerPosition(t *testing.T) {
	tests := []struct {
		name string
		in   document.Position
		want analyzer.Position
	}{
		{"origin", document.Position{Line: 0, Character: 0}, analyzer.Position{Line: 1, Offset: 1}},
		{"mid-file", document.Position{Line: 9, Character: 4}, analyzer.Position{Line: 10, Offset: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToAnalyzerPosition(tt.in))
		})
	}
}

func TestFromAnalyzerPositionRoundTrip(t *testing.T) {
	positions := []document.Position{
		{Line: 0, Character: 0},
		{Line: 3, Character: 17},
		{Line: 120, Character: 0},
	}
	for _, p := range positions {
		got := FromAnalyzerPosition(ToAnalyzerPosition(p))
		assert.Equal(t, p, got)
	}
}

func TestFromAnalyzerPositionClampsBelowOne(t *testing.T) {
	got := FromAnalyzerPosition(analyzer.Position{Line: 0, Offset: 0})
	assert.Equal(t, document.Position{Line: 0, Character: 0}, got)
}
