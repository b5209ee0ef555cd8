package convert

import (
	"github.com/google/uuid"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

// completionKindByAnalyzerKind maps the analyzer's completion-entry kind
// string to an LSP CompletionItemKind. Kinds the analyzer uses that LSP
// has no exact analogue for collapse onto the closest visual fit;
// anything unrecognized falls back to Text.
var completionKindByAnalyzerKind = map[string]protocol.CompletionItemKind{
	"class":               protocol.CompletionItemKindClass,
	"local class":         protocol.CompletionItemKindClass,
	"interface":           protocol.CompletionItemKindInterface,
	"module":              protocol.CompletionItemKindModule,
	"external module name": protocol.CompletionItemKindModule,
	"method":              protocol.CompletionItemKindMethod,
	"getter":              protocol.CompletionItemKindMethod,
	"setter":              protocol.CompletionItemKindMethod,
	"property":            protocol.CompletionItemKindProperty,
	"function":            protocol.CompletionItemKindFunction,
	"local function":      protocol.CompletionItemKindFunction,
	"constructor":         protocol.CompletionItemKindConstructor,
	"var":                 protocol.CompletionItemKindVariable,
	"local var":           protocol.CompletionItemKindVariable,
	"let":                 protocol.CompletionItemKindVariable,
	"parameter":           protocol.CompletionItemKindVariable,
	"const":               protocol.CompletionItemKindConstant,
	"enum":                protocol.CompletionItemKindEnum,
	"enum member":         protocol.CompletionItemKindEnumMember,
	"keyword":             protocol.CompletionItemKindKeyword,
	"type parameter":      protocol.CompletionItemKindTypeParameter,
	"type":                protocol.CompletionItemKindInterface,
	"alias":               protocol.CompletionItemKindVariable,
	"directory":           protocol.CompletionItemKindFolder,
	"script":              protocol.CompletionItemKindFile,
	"string":              protocol.CompletionItemKindConstant,
	"warning":             protocol.CompletionItemKindText,
}

func completionItemKind(analyzerKind string) protocol.CompletionItemKind {
	if k, ok := completionKindByAnalyzerKind[analyzerKind]; ok {
		return k
	}
	return protocol.CompletionItemKindText
}

// completionData is the opaque payload round-tripped through a
// completion item's Data field, letting completionItem/resolve locate
// the analyzer-side entry it must re-request details for without the
// editor needing to understand it.
type completionData struct {
	Token     string `json:"token"`
	URI       string `json:"uri"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	Name      string `json:"name"`
	Source    string `json:"source,omitempty"`
}

// ToCompletionList translates a completionInfo response into an LSP
// CompletionList. uri and pos are folded into each item's opaque Data so
// a later completionItem/resolve can replay the analyzer request.
func ToCompletionList(info analyzer.CompletionInfo, uri string, pos document.Position) protocol.CompletionList {
	items := make([]protocol.CompletionItem, 0, len(info.Entries))
	for _, entry := range info.Entries {
		items = append(items, toCompletionItem(entry, uri, pos))
	}
	return protocol.CompletionList{IsIncomplete: info.IsIncomplete, Items: items}
}

func toCompletionItem(entry analyzer.CompletionEntry, uri string, pos document.Position) protocol.CompletionItem {
	kind := completionItemKind(entry.Kind)
	sortText := entry.SortText
	data := completionData{
		Token:     uuid.NewString(),
		URI:       uri,
		Line:      pos.Line,
		Character: pos.Character,
		Name:      entry.Name,
	}
	if len(entry.Source) > 0 {
		data.Source = displayPartsToString(entry.Source)
	}

	item := protocol.CompletionItem{
		Label:    entry.Name,
		Kind:     &kind,
		SortText: &sortText,
		Data:     data,
	}
	if entry.InsertText != "" {
		item.InsertText = &entry.InsertText
	}
	if entry.IsSnippet {
		format := protocol.InsertTextFormatSnippet
		item.InsertTextFormat = &format
	}
	if entry.ReplacementSpan != nil {
		rng := toProtocolRange(FromAnalyzerSpan(*entry.ReplacementSpan))
		item.TextEdit = protocol.TextEdit{Range: rng, NewText: entry.InsertText}
	}
	return item
}

// ApplyCompletionDetails fills in Detail, Documentation, and
// AdditionalTextEdits on a completion item once completionEntryDetails
// has resolved, leaving every field the initial completion list already
// set untouched.
func ApplyCompletionDetails(item protocol.CompletionItem, details analyzer.CompletionEntryDetails) protocol.CompletionItem {
	detail := displayPartsToString(details.DisplayParts)
	item.Detail = &detail

	if doc := RenderDocumentation(details.Documentation, details.Tags); doc != "" {
		item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: doc}
	}

	for _, action := range details.CodeActions {
		for _, change := range action.Changes {
			if change.FileName == "" {
				continue
			}
			for _, tc := range change.TextChanges {
				item.AdditionalTextEdits = append(item.AdditionalTextEdits, protocol.TextEdit{
					Range:   toProtocolRange(FromAnalyzerSpan(tc.Span)),
					NewText: tc.NewText,
				})
			}
		}
	}

	// A completion's code actions may carry follow-up analyzer commands
	// beyond the text edits already folded into AdditionalTextEdits (e.g.
	// an auto-import that still needs a package resolved); the editor
	// replays those through ClientCommandApplyCompletionCodeAction.
	if len(details.CodeActions) > 0 {
		item.Command = &protocol.Command{
			Title:     "",
			Command:   ClientCommandApplyCompletionCodeAction,
			Arguments: []any{details.CodeActions},
		}
	}

	return item
}
