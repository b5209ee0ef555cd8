package langserver

import (
	"os"
	"path/filepath"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
)

func TestFileChangesToWorkspaceEdit(t *testing.T) {
	changes := []analyzer.FileChange{
		{
			FileName: "/proj/a.ts",
			TextChanges: []analyzer.TextChange{
				{
					Span:    analyzer.Span{Start: analyzer.Position{Line: 1, Offset: 1}, End: analyzer.Position{Line: 1, Offset: 4}},
					NewText: "foo",
				},
			},
		},
	}

	edit := fileChangesToWorkspaceEdit(changes)
	edits, ok := edit.Changes["file:///proj/a.ts"]
	require.True(t, ok)
	require.Len(t, edits, 1)
	assert.Equal(t, "foo", edits[0].NewText)
	assert.Equal(t, uint32(0), uint32(edits[0].Range.Start.Line))
	assert.Equal(t, uint32(0), uint32(edits[0].Range.Start.Character))
}

func TestEnsureFilesExistCreatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "new", "file.ts")

	err := ensureFilesExist([]analyzer.FileChange{{FileName: target}})
	require.NoError(t, err)

	_, statErr := os.Stat(target)
	assert.NoError(t, statErr)
}

func TestEnsureFilesExistLeavesExistingFileAlone(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "existing.ts")
	require.NoError(t, os.WriteFile(target, []byte("already here"), 0o644))

	require.NoError(t, ensureFilesExist([]analyzer.FileChange{{FileName: target}}))

	contents, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "already here", string(contents))
}

func TestRunApplyWorkspaceEditRequiresArgument(t *testing.T) {
	s := newTestServer()
	_, err := s.runApplyWorkspaceEdit(nil, nil)
	assert.Error(t, err)
}

func TestWorkspaceExecuteCommandUnknownIsVoidSuccess(t *testing.T) {
	s := newTestServer()
	s.client = fakeClient()

	result, err := s.workspaceExecuteCommand(nil, &protocol.ExecuteCommandParams{Command: "tsls-bridge.notARealCommand"})
	assert.NoError(t, err)
	assert.Nil(t, result)
}
