package analyzer

// FileRequestArgs names the file a whole-file command applies to.
type FileRequestArgs struct {
	File string `json:"file"`
}

// FileLocationRequestArgs names a (file, line, offset) triple, the
// argument shape of every position-addressed command (quickinfo,
// definition, references, rename, signatureHelp, ...).
type FileLocationRequestArgs struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
}

// FileRangeRequestArgs names a [start,end) span within a file, the
// argument shape of span-addressed commands (format, getCodeFixes,
// getApplicableRefactors, getEditsForRefactor).
type FileRangeRequestArgs struct {
	File        string `json:"file"`
	StartLine   int    `json:"startLine"`
	StartOffset int    `json:"startOffset"`
	EndLine     int    `json:"endLine"`
	EndOffset   int    `json:"endOffset"`
}

// OpenRequestArgs is the "open" notification's arguments.
type OpenRequestArgs struct {
	File             string     `json:"file"`
	FileContent      string     `json:"fileContent"`
	ScriptKindName   ScriptKind `json:"scriptKindName,omitempty"`
	ProjectRootPath  string     `json:"projectRootPath,omitempty"`
}

// ChangeRequestArgs is the "change" notification's arguments: a
// [start,end) replacement in 1-based positions. Callers always set an
// explicit span; a whole-document replacement spans from (1, 1) to
// EndOfFilePosition with InsertString holding the full new text.
type ChangeRequestArgs struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Offset      int    `json:"offset"`
	EndLine     int    `json:"endLine"`
	EndOffset   int    `json:"endOffset"`
	InsertString string `json:"insertString"`
}

// CloseRequestArgs is the "close" notification's arguments.
type CloseRequestArgs struct {
	File string `json:"file"`
}

// ConfigureRequestArgs is the "configure" request's arguments: analyzer
// host preferences and the format options tsfmt.json overrides.
type ConfigureRequestArgs struct {
	HostInfo      string         `json:"hostInfo,omitempty"`
	FormatOptions map[string]any `json:"formatOptions,omitempty"`
	Preferences   map[string]any `json:"preferences,omitempty"`
}

// RenameRequestArgs is the "rename" request's arguments.
type RenameRequestArgs struct {
	FileLocationRequestArgs
	FindInStrings  bool `json:"findInStrings,omitempty"`
	FindInComments bool `json:"findInComments,omitempty"`
}

// RenameInfo describes whether a rename is possible at the requested
// location, and what range to seed the editor's rename UI with.
type RenameInfo struct {
	CanRename          bool   `json:"canRename"`
	LocalizedErrorMessage string `json:"localizedErrorMessage,omitempty"`
	DisplayName        string `json:"displayName,omitempty"`
	TriggerSpan        Span   `json:"triggerSpan"`
}

// SpanGroup is one file's worth of rename/reference locations.
type SpanGroup struct {
	File    string          `json:"file"`
	Locs    []RenameTextSpan `json:"locs"`
}

// RenameTextSpan is one renameable occurrence within a SpanGroup's file.
type RenameTextSpan struct {
	Start         Position `json:"start"`
	End           Position `json:"end"`
	ContextStart  *Position `json:"contextStart,omitempty"`
	ContextEnd    *Position `json:"contextEnd,omitempty"`
}

// RenameResponseBody is the body of a "rename" response.
type RenameResponseBody struct {
	Info  RenameInfo  `json:"info"`
	Locs  []SpanGroup `json:"locs"`
}

// ReferencesResponseBody is the body of a "references" response.
type ReferencesResponseBody struct {
	Refs []ReferenceEntry `json:"refs"`
}

// ReferenceEntry is one reference/definition location the analyzer found.
type ReferenceEntry struct {
	File           string `json:"file"`
	Start          Position `json:"start"`
	End            Position `json:"end"`
	IsWriteAccess  bool   `json:"isWriteAccess"`
	IsDefinition   bool   `json:"isDefinition"`
}

// DefinitionInfo is one entry of a "definition"/"implementation"/
// "typeDefinition" response.
type DefinitionInfo struct {
	File  string `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DocumentHighlightsRequestArgs is the "documentHighlights" request's
// arguments: a position plus the set of open files to search.
type DocumentHighlightsRequestArgs struct {
	FileLocationRequestArgs
	FilesToSearch []string `json:"filesToSearch"`
}

// DocumentHighlightsItem groups one file's highlight spans.
type DocumentHighlightsItem struct {
	File           string                  `json:"file"`
	HighlightSpans []DocumentHighlightSpan `json:"highlightSpans"`
}

// DocumentHighlightSpan is one highlighted occurrence and its role.
type DocumentHighlightSpan struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
	Kind  string   `json:"kind"` // "none" | "definition" | "reference" | "writtenReference"
}

// NavtreeItem is one node of a "navtree" response: a recursive document
// symbol outline.
type NavtreeItem struct {
	Text        string        `json:"text"`
	Kind        string        `json:"kind"`
	KindModifiers string      `json:"kindModifiers,omitempty"`
	Spans       []Span        `json:"spans"`
	NameSpan    *Span         `json:"nameSpan,omitempty"`
	ChildItems  []NavtreeItem `json:"childItems,omitempty"`
}

// NavtoRequestArgs is the "navto" request's arguments: a fuzzy symbol
// search over the whole project (or one file, if CurrentFileOnly is set).
type NavtoRequestArgs struct {
	SearchValue     string `json:"searchValue"`
	File            string `json:"file,omitempty"`
	CurrentFileOnly bool   `json:"currentFileOnly,omitempty"`
	MaxResultCount  int    `json:"maxResultCount,omitempty"`
}

// NavtoItem is one "navto" search hit.
type NavtoItem struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	KindModifiers string `json:"kindModifiers,omitempty"`
	File          string `json:"file"`
	Start         Position `json:"start"`
	End           Position `json:"end"`
	ContainerName string `json:"containerName,omitempty"`
	ContainerKind string `json:"containerKind,omitempty"`
}

// QuickInfoResponseBody is the body of a "quickinfo" response.
type QuickInfoResponseBody struct {
	Kind          string              `json:"kind"`
	KindModifiers string              `json:"kindModifiers,omitempty"`
	Start         Position            `json:"start"`
	End           Position            `json:"end"`
	DisplayString string              `json:"displayString"`
	Documentation []SymbolDisplayPart `json:"documentation,omitempty"`
	Tags          []JSDocTagInfo      `json:"tags,omitempty"`
}

// SignatureHelpRequestArgs is the "signatureHelp" request's arguments.
type SignatureHelpRequestArgs struct {
	FileLocationRequestArgs
	TriggerReason *SignatureHelpTriggerReason `json:"triggerReason,omitempty"`
}

// SignatureHelpTriggerReason carries the editor's signature-help trigger
// character through to the analyzer's retrigger heuristics.
type SignatureHelpTriggerReason struct {
	Kind              string `json:"kind"`
	TriggerCharacter  string `json:"triggerCharacter,omitempty"`
}

// SignatureHelpItems is the body of a "signatureHelp" response.
type SignatureHelpItems struct {
	Items               []SignatureHelpItem `json:"items"`
	SelectedItemIndex   int                 `json:"selectedItemIndex"`
	ArgumentIndex       int                 `json:"argumentIndex"`
}

// SignatureHelpItem is one overload of a "signatureHelp" response.
type SignatureHelpItem struct {
	IsVariadic     bool                `json:"isVariadic"`
	PrefixDisplayParts []SymbolDisplayPart `json:"prefixDisplayParts"`
	SuffixDisplayParts []SymbolDisplayPart `json:"suffixDisplayParts"`
	SeparatorDisplayParts []SymbolDisplayPart `json:"separatorDisplayParts"`
	Parameters     []SignatureHelpParameter `json:"parameters"`
	Documentation  []SymbolDisplayPart `json:"documentation,omitempty"`
	Tags           []JSDocTagInfo      `json:"tags,omitempty"`
}

// SignatureHelpParameter is one parameter of a SignatureHelpItem.
type SignatureHelpParameter struct {
	Name          string              `json:"name"`
	DisplayParts  []SymbolDisplayPart `json:"displayParts"`
	Documentation []SymbolDisplayPart `json:"documentation,omitempty"`
}

// FormatRequestArgs is the "format" request's arguments.
type FormatRequestArgs struct {
	FileRangeRequestArgs
}

// FoldingRegion is one entry of a "getOutliningSpans" response.
type FoldingRegion struct {
	TextSpan    Span   `json:"textSpan"`
	Kind        string `json:"kind"`
}

// GetApplicableRefactorsArgs is the "getApplicableRefactors" request's
// arguments.
type GetApplicableRefactorsArgs struct {
	FileRangeRequestArgs
}

// ApplicableRefactorInfo is one entry of a "getApplicableRefactors"
// response: a named group of selectable refactoring actions.
type ApplicableRefactorInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Actions     []RefactorActionInfo `json:"actions"`
}

// RefactorActionInfo is one selectable action within an
// ApplicableRefactorInfo.
type RefactorActionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetEditsForRefactorArgs is the "getEditsForRefactor" request's arguments.
type GetEditsForRefactorArgs struct {
	FileRangeRequestArgs
	RefactorName string `json:"refactor"`
	ActionName   string `json:"action"`
}

// RefactorEditInfo is the body of a "getEditsForRefactor" response.
// RenameLocation, when present, names a position the client should put the
// cursor at and start a rename on (e.g. the identifier a freshly extracted
// variable or function needs a name for).
type RefactorEditInfo struct {
	Edits          []FileChange    `json:"edits"`
	RenameFilename string          `json:"renameFilename,omitempty"`
	RenameLocation *RenameLocation `json:"renameLocation,omitempty"`
}

// RenameLocation is a 1-based (line, offset) pair naming where a
// post-refactor rename should start, scoped to RefactorEditInfo.RenameFilename.
type RenameLocation struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// GetCodeFixesArgs is the "getCodeFixes" request's arguments.
type GetCodeFixesArgs struct {
	FileRangeRequestArgs
	ErrorCodes []int `json:"errorCodes"`
}

// CodeFixAction is one entry of a "getCodeFixes" response. Commands, when
// present, must be replayed against the analyzer via "applyCodeActionCommand"
// after Changes is applied — fixes like "add missing import from package"
// need a second round trip to actually resolve the package.
type CodeFixAction struct {
	FixName     string       `json:"fixName"`
	Description string       `json:"description"`
	Changes     []FileChange `json:"changes"`
	Commands    []any        `json:"commands,omitempty"`
	FixID       string       `json:"fixId,omitempty"`
}

// OrganizeImportsArgs is the "organizeImports" request's arguments.
type OrganizeImportsArgs struct {
	Scope OrganizeImportsScope `json:"scope"`
}

// OrganizeImportsScope names the single file organizeImports applies to.
type OrganizeImportsScope struct {
	Type string           `json:"type"`
	Args FileRequestArgs  `json:"args"`
}
