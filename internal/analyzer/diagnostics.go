package analyzer

// Diagnostic is one entry of a semanticDiag/syntaxDiag/suggestionDiag
// event body, in the analyzer's native coordinate space.
type Diagnostic struct {
	Start              Position            `json:"start"`
	End                Position            `json:"end"`
	Text               string              `json:"text"`
	Code               int                 `json:"code"`
	Category            string             `json:"category"` // "error" | "warning" | "suggestion" | "message"
	ReportsUnnecessary bool                `json:"reportsUnnecessary"`
	ReportsDeprecated  bool                `json:"reportsDeprecated"`
	RelatedInformation []RelatedDiagnostic `json:"relatedInformation,omitempty"`
}

// RelatedDiagnostic is one {span, message} entry attached to a Diagnostic.
type RelatedDiagnostic struct {
	Span    FileSpan `json:"span"`
	Message string   `json:"message"`
}

// FileSpan is a Span qualified with the file it belongs to, used when a
// related location may point outside the diagnostic's own file.
type FileSpan struct {
	File  string `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DiagnosticEventBody is the body of a semanticDiag/syntaxDiag/suggestionDiag
// event: the file the diagnostics apply to, and the full replacement set
// for that (file, kind) pair.
type DiagnosticEventBody struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// DiagnosticKind identifies which of the three parallel diagnostic
// categories a given event or request concerns. The queue tracks one
// independent slot per (file, kind).
type DiagnosticKind string

const (
	DiagnosticKindSyntax     DiagnosticKind = "syntax"
	DiagnosticKindSemantic   DiagnosticKind = "semantic"
	DiagnosticKindSuggestion DiagnosticKind = "suggestion"
)

// eventKinds maps an event name to the diagnostic kind it carries.
var eventKinds = map[string]DiagnosticKind{
	"syntaxDiag":     DiagnosticKindSyntax,
	"semanticDiag":   DiagnosticKindSemantic,
	"suggestionDiag": DiagnosticKindSuggestion,
}

// KindForEvent reports which DiagnosticKind an event name carries, and
// whether the event is a diagnostic event at all.
func KindForEvent(name string) (DiagnosticKind, bool) {
	k, ok := eventKinds[name]
	return k, ok
}
