package tsconfig

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
	"github.com/tliron/commonlog"
)

// FormatOptions mirrors the analyzer's "configure"-time format options
// (and a tsfmt.json file's shape, which is the same schema). Zero values
// are omitted from the wire request so the analyzer's own defaults apply
// to anything the workspace hasn't overridden.
type FormatOptions struct {
	TabSize                        *int  `json:"tabSize,omitempty"`
	IndentSize                     *int  `json:"indentSize,omitempty"`
	ConvertTabsToSpaces            *bool `json:"convertTabsToSpaces,omitempty"`
	InsertSpaceAfterCommaDelimiter *bool `json:"insertSpaceAfterCommaDelimiter,omitempty"`
	InsertSpaceAfterSemicolonInForStatements *bool `json:"insertSpaceAfterSemicolonInForStatements,omitempty"`
	InsertSpaceBeforeAndAfterBinaryOperators *bool `json:"insertSpaceBeforeAndAfterBinaryOperators,omitempty"`
	InsertSpaceAfterKeywordsInControlFlowStatements *bool `json:"insertSpaceAfterKeywordsInControlFlowStatements,omitempty"`
	InsertSpaceAfterFunctionKeywordForAnonymousFunctions *bool `json:"insertSpaceAfterFunctionKeywordForAnonymousFunctions,omitempty"`
	InsertSpaceBeforeFunctionParenthesis *bool `json:"insertSpaceBeforeFunctionParenthesis,omitempty"`
	PlaceOpenBraceOnNewLineForFunctions *bool `json:"placeOpenBraceOnNewLineForFunctions,omitempty"`
	PlaceOpenBraceOnNewLineForControlBlocks *bool `json:"placeOpenBraceOnNewLineForControlBlocks,omitempty"`
	SemicolonsOmit                *bool `json:"semicolons,omitempty"`
}

// LoadTSFmt reads and parses path (a tsfmt.json file) as JSON-with-comments.
// A missing file is not an error — the caller just keeps the analyzer's
// built-in defaults. A present-but-malformed file is logged and ignored,
// per the same reasoning: one bad config file should degrade formatting,
// not break the connection.
func LoadTSFmt(log commonlog.Logger, path string) (*FormatOptions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "tsconfig: read %s", path)
	}

	var opts FormatOptions
	if err := json.Unmarshal(jsonc.ToJSON(raw), &opts); err != nil {
		if log != nil {
			log.Warningf("tsconfig: ignoring malformed %s: %s", path, err)
		}
		return nil, nil
	}
	return &opts, nil
}

// WorkspaceSettings is the subset of an editor's
// workspace/didChangeConfiguration payload (or a settings.json file) this
// server understands.
type WorkspaceSettings struct {
	ServerPath string         `json:"serverPath,omitempty"`
	Format     *FormatOptions `json:"format,omitempty"`
}

// ParseWorkspaceSettings decodes a JSON-with-comments settings document.
func ParseWorkspaceSettings(raw []byte) (WorkspaceSettings, error) {
	var s WorkspaceSettings
	if err := json.Unmarshal(jsonc.ToJSON(raw), &s); err != nil {
		return WorkspaceSettings{}, errors.Wrap(err, "tsconfig: parse workspace settings")
	}
	return s, nil
}
