package langserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
)

// Command names this server registers with executeCommandProvider and
// actually dispatches in workspaceExecuteCommand. These mirror the
// analyzer host's own command vocabulary; editors that already speak
// typescript-language-features recognize them without configuration.
const (
	CommandApplyWorkspaceEdit = "_typescript.applyWorkspaceEdit"
	CommandApplyCodeAction    = "_typescript.applyCodeAction"
	CommandApplyRefactoring   = "_typescript.applyRefactoring"
	CommandOrganizeImports    = "_typescript.organizeImports"
)

func fileChangesToWorkspaceEdit(changes []analyzer.FileChange) protocol.WorkspaceEdit {
	edits := make(map[string][]protocol.TextEdit)
	for _, change := range changes {
		uri := convert.PathToURI(change.FileName)
		for _, tc := range change.TextChanges {
			rng := convert.FromAnalyzerSpan(tc.Span)
			edits[uri] = append(edits[uri], protocol.TextEdit{Range: toProtocolRangeValue(rng), NewText: tc.NewText})
		}
	}
	return protocol.WorkspaceEdit{Changes: edits}
}

// codeActionPayload is the opaque Command.Arguments[0] a quick-fix action
// carries through to CommandApplyCodeAction: the raw file edits plus any
// follow-up analyzer commands the fix still needs applied.
type codeActionPayload struct {
	Changes  []analyzer.FileChange `json:"changes"`
	Commands []any                 `json:"commands,omitempty"`
}

// textDocumentCodeAction composes three families of actions, in order:
// quick fixes for the diagnostics in range, the applicable refactors at
// that range, and a standing "Organize Imports" source action.
func (s *Server) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	s.mu.Lock()
	client := s.client
	path, err := convert.URIToPath(params.TextDocument.URI)
	_, hasDoc := s.docs[params.TextDocument.URI]
	s.mu.Unlock()
	if client == nil || err != nil {
		return nil, nil
	}
	if !hasDoc {
		return nil, errDocumentNotOpen
	}

	startAP := convert.ToAnalyzerPosition(docPosition(params.Range.Start))
	endAP := convert.ToAnalyzerPosition(docPosition(params.Range.End))
	rangeArgs := analyzer.FileRangeRequestArgs{
		File:        path,
		StartLine:   startAP.Line,
		StartOffset: startAP.Offset,
		EndLine:     endAP.Line,
		EndOffset:   endAP.Offset,
	}

	var actions []protocol.CodeAction

	s.interruptDiagnostics(func() {
		actions = append(actions, s.quickFixActions(client, rangeArgs, params.Context.Diagnostics)...)
		actions = append(actions, s.refactorActions(client, rangeArgs, params.TextDocument.URI)...)
	})

	organizeKind := protocol.CodeActionKindSourceOrganizeImports
	actions = append(actions, protocol.CodeAction{
		Title: "Organize Imports",
		Kind:  &organizeKind,
		Command: &protocol.Command{
			Title:     "Organize Imports",
			Command:   CommandOrganizeImports,
			Arguments: []any{params.TextDocument.URI},
		},
	})

	return actions, nil
}

// quickFixActions surfaces each getCodeFixes action as a CommandApplyCodeAction
// command rather than an inline Edit, since a fix's Commands (when present)
// must still be replayed against the analyzer after the text edits land.
func (s *Server) quickFixActions(client *analyzer.Client, rangeArgs analyzer.FileRangeRequestArgs, diags []protocol.Diagnostic) []protocol.CodeAction {
	var codes []int
	for _, d := range diags {
		if d.Code == nil {
			continue
		}
		if n, ok := d.Code.Value.(int); ok {
			codes = append(codes, n)
		} else if f, ok := d.Code.Value.(float64); ok {
			codes = append(codes, int(f))
		}
	}
	if len(codes) == 0 {
		return nil
	}

	body, err := client.Request(context.Background(), "getCodeFixes", analyzer.GetCodeFixesArgs{
		FileRangeRequestArgs: rangeArgs,
		ErrorCodes:           codes,
	}, nil)
	if err != nil {
		s.log.Debugf("tsls-bridge: getCodeFixes failed: %s", err)
		return nil
	}

	var fixes []analyzer.CodeFixAction
	if err := unmarshalInto(body, &fixes); err != nil {
		s.log.Warningf("tsls-bridge: getCodeFixes: malformed response: %s", err)
		return nil
	}

	quickFixKind := protocol.CodeActionKindQuickFix
	actions := make([]protocol.CodeAction, 0, len(fixes))
	for _, fix := range fixes {
		actions = append(actions, protocol.CodeAction{
			Title:       fix.Description,
			Kind:        &quickFixKind,
			Diagnostics: diags,
			Command: &protocol.Command{
				Title:     fix.Description,
				Command:   CommandApplyCodeAction,
				Arguments: []any{codeActionPayload{Changes: fix.Changes, Commands: fix.Commands}},
			},
		})
	}
	return actions
}

// refactorActions surfaces each getApplicableRefactors group. A group with
// exactly one action inlines directly as CommandApplyRefactoring; a group
// with more than one defers to the client's own refactor picker via
// ClientCommandSelectRefactoring, which the editor is expected to resolve
// back into a CommandApplyRefactoring call of its own.
func (s *Server) refactorActions(client *analyzer.Client, rangeArgs analyzer.FileRangeRequestArgs, uri string) []protocol.CodeAction {
	body, err := client.Request(context.Background(), "getApplicableRefactors", analyzer.GetApplicableRefactorsArgs{
		FileRangeRequestArgs: rangeArgs,
	}, nil)
	if err != nil {
		s.log.Debugf("tsls-bridge: getApplicableRefactors failed: %s", err)
		return nil
	}

	var infos []analyzer.ApplicableRefactorInfo
	if err := unmarshalInto(body, &infos); err != nil {
		s.log.Warningf("tsls-bridge: getApplicableRefactors: malformed response: %s", err)
		return nil
	}

	refactorKind := protocol.CodeActionKindRefactor
	var actions []protocol.CodeAction
	for _, info := range infos {
		if len(info.Actions) == 1 {
			action := info.Actions[0]
			title := fmt.Sprintf("%s: %s", info.Description, action.Description)
			actions = append(actions, protocol.CodeAction{
				Title: title,
				Kind:  &refactorKind,
				Command: &protocol.Command{
					Title:     title,
					Command:   CommandApplyRefactoring,
					Arguments: []any{uri, rangeArgs, info.Name, action.Name},
				},
			})
			continue
		}

		actionNames := make([]string, len(info.Actions))
		for i, action := range info.Actions {
			actionNames[i] = action.Name
		}
		actions = append(actions, protocol.CodeAction{
			Title: info.Description,
			Kind:  &refactorKind,
			Command: &protocol.Command{
				Title:     info.Description,
				Command:   convert.ClientCommandSelectRefactoring,
				Arguments: []any{uri, rangeArgs, info.Name, actionNames},
			},
		})
	}
	return actions
}

// workspaceExecuteCommand dispatches this server's four registered
// commands. Each resolves to a workspace/applyEdit request back to the
// client rather than mutating the document model directly, since only
// the editor can apply edits to buffers it hasn't handed the server yet.
// An unrecognized command is a programmer error, not a protocol failure:
// it is logged and the editor still receives a void success.
func (s *Server) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return nil, nil
	}

	switch params.Command {
	case CommandApplyWorkspaceEdit:
		return s.runApplyWorkspaceEdit(ctx, params.Arguments)
	case CommandApplyCodeAction:
		return s.runApplyCodeAction(ctx, client, params.Arguments)
	case CommandApplyRefactoring:
		return s.runApplyRefactoring(ctx, client, params.Arguments)
	case CommandOrganizeImports:
		return s.runOrganizeImports(ctx, client, params.Arguments)
	default:
		s.log.Warningf("tsls-bridge: unknown execute-command %q", params.Command)
		return nil, nil
	}
}

func (s *Server) runApplyWorkspaceEdit(ctx *glsp.Context, args []any) (any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("tsls-bridge: applyWorkspaceEdit requires a WorkspaceEdit argument")
	}
	var edit protocol.WorkspaceEdit
	if err := decodeAny(args[0], &edit); err != nil {
		return nil, err
	}
	return s.applyEdit(ctx, edit)
}

// runApplyCodeAction applies a quick fix's file edits, then forwards any
// follow-up analyzer commands it carries via applyCodeActionCommand.
func (s *Server) runApplyCodeAction(ctx *glsp.Context, client *analyzer.Client, args []any) (any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("tsls-bridge: applyCodeAction requires a codeActionPayload argument")
	}
	var payload codeActionPayload
	if err := decodeAny(args[0], &payload); err != nil {
		return nil, err
	}

	result, err := s.applyEdit(ctx, fileChangesToWorkspaceEdit(payload.Changes))
	if err != nil {
		return nil, err
	}

	for _, cmd := range payload.Commands {
		if _, reqErr := client.Request(context.Background(), "applyCodeActionCommand", map[string]any{"command": cmd}, nil); reqErr != nil {
			s.log.Debugf("tsls-bridge: applyCodeActionCommand follow-up failed: %s", reqErr)
		}
	}
	return result, nil
}

// runApplyRefactoring requests the refactor's edits, makes sure any file
// the refactor introduces exists on disk before the editor is asked to
// apply edits against it, then — if the refactor names a renameLocation —
// asks the client to start an interactive rename there.
func (s *Server) runApplyRefactoring(ctx *glsp.Context, client *analyzer.Client, args []any) (any, error) {
	if len(args) < 4 {
		return nil, fmt.Errorf("tsls-bridge: applyRefactoring requires [uri, range, refactorName, actionName]")
	}
	var rangeArgs analyzer.FileRangeRequestArgs
	if err := decodeAny(args[1], &rangeArgs); err != nil {
		return nil, err
	}
	refactorName, _ := args[2].(string)
	actionName, _ := args[3].(string)

	body, reqErr := client.Request(context.Background(), "getEditsForRefactor", analyzer.GetEditsForRefactorArgs{
		FileRangeRequestArgs: rangeArgs,
		RefactorName:         refactorName,
		ActionName:           actionName,
	}, nil)
	if reqErr != nil {
		return nil, reqErr
	}

	var info analyzer.RefactorEditInfo
	if err := unmarshalInto(body, &info); err != nil {
		return nil, err
	}

	if err := ensureFilesExist(info.Edits); err != nil {
		s.log.Warningf("tsls-bridge: applyRefactoring: %s", err)
	}

	result, err := s.applyEdit(ctx, fileChangesToWorkspaceEdit(info.Edits))
	if err != nil {
		return nil, err
	}

	if info.RenameLocation != nil {
		s.triggerClientRename(ctx, info.RenameFilename, *info.RenameLocation)
	}
	return result, nil
}

func (s *Server) runOrganizeImports(ctx *glsp.Context, client *analyzer.Client, args []any) (any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("tsls-bridge: organizeImports requires a document uri argument")
	}
	uri, _ := args[0].(string)
	path, err := convert.URIToPath(uri)
	if err != nil {
		return nil, err
	}

	body, reqErr := client.Request(context.Background(), "organizeImports", analyzer.OrganizeImportsArgs{
		Scope: analyzer.OrganizeImportsScope{Type: "file", Args: analyzer.FileRequestArgs{File: path}},
	}, nil)
	if reqErr != nil {
		return nil, reqErr
	}

	var changes []analyzer.FileChange
	if err := unmarshalInto(body, &changes); err != nil {
		return nil, err
	}
	return s.applyEdit(ctx, fileChangesToWorkspaceEdit(changes))
}

// ensureFilesExist creates an empty file (and its parent directories) for
// every edit target that doesn't already exist on disk — a refactor like
// "Move to a new file" produces edits against a file the editor has never
// opened, and a WorkspaceEdit can't address a document that isn't there.
func ensureFilesExist(changes []analyzer.FileChange) error {
	for _, change := range changes {
		if change.FileName == "" {
			continue
		}
		if _, err := os.Stat(change.FileName); err == nil || !os.IsNotExist(err) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(change.FileName), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(change.FileName, nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// triggerClientRename asks the editor to start an interactive rename at a
// refactor's renameLocation via the custom ClientRequestRename request.
// The server does not wait on a meaningful result — the rename itself
// plays out entirely in the editor.
func (s *Server) triggerClientRename(ctx *glsp.Context, fileName string, loc analyzer.RenameLocation) {
	if fileName == "" {
		return
	}
	pos := convert.FromAnalyzerPosition(analyzer.Position{Line: loc.Line, Offset: loc.Offset})
	params := protocol.RenameParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: convert.PathToURI(fileName)},
		Position:     protocol.Position{Line: protocol.UInteger(pos.Line), Character: protocol.UInteger(pos.Character)},
	}
	if _, err := ctx.Call(convert.ClientRequestRename, params); err != nil {
		s.log.Debugf("tsls-bridge: client rename follow-up failed: %s", err)
	}
}

func (s *Server) applyEdit(ctx *glsp.Context, edit protocol.WorkspaceEdit) (any, error) {
	result, err := ctx.Call("workspace/applyEdit", protocol.ApplyWorkspaceEditParams{Edit: edit})
	if err != nil {
		return nil, err
	}
	var applied protocol.ApplyWorkspaceEditResult
	if err := decodeAny(result, &applied); err != nil {
		return nil, err
	}
	return applied, nil
}
