package langserver

import (
	"context"
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return nil, nil
	}
	if _, err := s.requireDocument(params.TextDocument.URI); err != nil {
		return nil, err
	}

	args, err := s.locationArgs(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, nil
	}

	var list *protocol.CompletionList
	s.interruptDiagnostics(func() {
		body, reqErr := client.Request(context.Background(), "completionInfo", args, nil)
		if reqErr != nil {
			s.log.Debugf("tsls-bridge: completionInfo failed: %s", reqErr)
			return
		}
		var info analyzer.CompletionInfo
		if err := unmarshalInto(body, &info); err != nil {
			s.log.Warningf("tsls-bridge: completionInfo: malformed response: %s", err)
			return
		}
		result := convert.ToCompletionList(info, params.TextDocument.URI, docPosition(params.Position))
		list = &result
	})
	return list, nil
}

// completionItemResolve replays the original completion request's
// location (carried in the item's opaque Data) to fetch
// completionEntryDetails, then fills in Detail, Documentation, and
// AdditionalTextEdits.
func (s *Server) completionItemResolve(ctx *glsp.Context, params *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil || params.Data == nil {
		return params, nil
	}

	raw, err := json.Marshal(params.Data)
	if err != nil {
		return params, nil
	}
	var data struct {
		URI       string `json:"uri"`
		Line      int    `json:"line"`
		Character int    `json:"character"`
		Name      string `json:"name"`
		Source    string `json:"source,omitempty"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return params, nil
	}

	path, err := convert.URIToPath(data.URI)
	if err != nil {
		return params, nil
	}
	ap := convert.ToAnalyzerPosition(document.Position{Line: data.Line, Character: data.Character})

	detailsArgs := map[string]any{
		"file":       path,
		"line":       ap.Line,
		"offset":     ap.Offset,
		"entryNames": []string{data.Name},
	}

	result := *params
	s.interruptDiagnostics(func() {
		body, reqErr := client.Request(context.Background(), "completionEntryDetails", detailsArgs, nil)
		if reqErr != nil {
			s.log.Debugf("tsls-bridge: completionEntryDetails failed: %s", reqErr)
			return
		}

		var details []analyzer.CompletionEntryDetails
		if err := unmarshalInto(body, &details); err != nil || len(details) == 0 {
			return
		}

		result = convert.ApplyCompletionDetails(result, details[0])
	})
	return &result, nil
}

func ref(item protocol.CompletionItem) *protocol.CompletionItem { return &item }
