package convert

import (
	"fmt"
	"strings"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
)

// displayPartsToString concatenates a SymbolDisplayPart slice's Text
// fields, discarding the per-part syntax-highlighting Kind.
func displayPartsToString(parts []analyzer.SymbolDisplayPart) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// RenderDocumentation turns a symbol's documentation display parts and
// JSDoc tags into a single GitHub-flavored Markdown string: the
// documentation body, then each tag as "*@name* text" on its own
// paragraph, matching the convention editors render JSDoc hovers with.
func RenderDocumentation(documentation []analyzer.SymbolDisplayPart, tags []analyzer.JSDocTagInfo) string {
	var parts []string

	if body := strings.TrimSpace(displayPartsToString(documentation)); body != "" {
		parts = append(parts, body)
	}

	for _, tag := range tags {
		text := strings.TrimSpace(displayPartsToString(tag.Text))
		if text == "" {
			parts = append(parts, fmt.Sprintf("*@%s*", tag.Name))
		} else {
			parts = append(parts, fmt.Sprintf("*@%s* %s", tag.Name, text))
		}
	}

	return strings.Join(parts, "\n\n")
}
