package convert

// Client-side command and request names the editor is contractually
// expected to implement (see the execute-command/custom-request external
// interface). The server only ever emits these as Command objects in a
// response, or issues the rename request itself — it never dispatches
// them through workspace/executeCommand.
const (
	// ClientCommandApplyCompletionCodeAction applies the follow-up code
	// actions attached to a resolved completion item.
	ClientCommandApplyCompletionCodeAction = "_typescript.applyCompletionCodeAction"

	// ClientCommandSelectRefactoring lets the user choose among more than
	// one action in a refactor group before the editor calls back into
	// workspace/executeCommand with the chosen action.
	ClientCommandSelectRefactoring = "_typescript.selectRefactoring"

	// ClientRequestRename has the same request/response shape as
	// textDocument/rename; the server issues it after a refactor's edits
	// carry a renameLocation, asking the editor to start an interactive
	// rename at that position.
	ClientRequestRename = "_typescript.rename"
)
