package convert

import (
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// symbolCollator sorts symbol names the way a user reading them expects,
// rather than by raw UTF-8 byte value. Identifiers in TypeScript/JavaScript
// source aren't limited to ASCII, and byte order puts every uppercase
// letter before every lowercase one regardless of locale.
var symbolCollator = collate.New(language.Und)

// SortSymbolInformation sorts workspace/symbol results by name.
func SortSymbolInformation(symbols []protocol.SymbolInformation) {
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbolCollator.CompareString(symbols[i].Name, symbols[j].Name) < 0
	})
}

// symbolKindByAnalyzerKind maps the analyzer's navtree/navto "kind" string
// to the LSP SymbolKind enumeration. Kinds the analyzer reports that LSP
// has no dedicated slot for collapse onto the closest fit; an unrecognized
// kind defaults to Variable, matching the analyzer's own fallback for
// "local variable" vs. untagged bindings.
var symbolKindByAnalyzerKind = map[string]protocol.SymbolKind{
	"module":             protocol.SymbolKindModule,
	"class":              protocol.SymbolKindClass,
	"local class":        protocol.SymbolKindClass,
	"interface":          protocol.SymbolKindInterface,
	"enum":               protocol.SymbolKindEnum,
	"enum member":        protocol.SymbolKindEnumMember,
	"function":           protocol.SymbolKindFunction,
	"local function":     protocol.SymbolKindFunction,
	"method":             protocol.SymbolKindMethod,
	"getter":             protocol.SymbolKindMethod,
	"setter":             protocol.SymbolKindMethod,
	"property":           protocol.SymbolKindProperty,
	"constructor":        protocol.SymbolKindConstructor,
	"parameter":          protocol.SymbolKindVariable,
	"type parameter":     protocol.SymbolKindTypeParameter,
	"var":                protocol.SymbolKindVariable,
	"local var":          protocol.SymbolKindVariable,
	"let":                protocol.SymbolKindVariable,
	"const":              protocol.SymbolKindConstant,
	"alias":              protocol.SymbolKindVariable,
	"type":               protocol.SymbolKindInterface,
	"string":             protocol.SymbolKindString,
	"script":             protocol.SymbolKindFile,
	"external module name": protocol.SymbolKindModule,
}

// SymbolKind translates an analyzer navtree/navto kind string to the
// closest LSP SymbolKind. Unknown kinds default to Variable.
func SymbolKind(analyzerKind string) protocol.SymbolKind {
	if kind, ok := symbolKindByAnalyzerKind[analyzerKind]; ok {
		return kind
	}
	return protocol.SymbolKindVariable
}
