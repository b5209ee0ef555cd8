package langserver

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
)

func (s *Server) textDocumentRename(ctx *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	s.mu.Lock()
	client := s.client
	path, err := convert.URIToPath(params.TextDocument.URI)
	s.mu.Unlock()
	if client == nil || err != nil {
		return nil, nil
	}
	if _, err := s.requireDocument(params.TextDocument.URI); err != nil {
		return nil, err
	}

	ap := convert.ToAnalyzerPosition(docPosition(params.Position))
	args := analyzer.RenameRequestArgs{
		FileLocationRequestArgs: analyzer.FileLocationRequestArgs{File: path, Line: ap.Line, Offset: ap.Offset},
	}

	// rename is not latency-sensitive enough to interrupt an in-flight
	// geterr round over, so it calls the analyzer client directly.
	body, reqErr := client.Request(context.Background(), "rename", args, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: rename failed: %s", reqErr)
		return nil, nil
	}
	var resp analyzer.RenameResponseBody
	if err := unmarshalInto(body, &resp); err != nil {
		s.log.Warningf("tsls-bridge: rename: malformed response: %s", err)
		return nil, nil
	}
	if !resp.Info.CanRename {
		return nil, nil
	}

	changes := make(map[string][]protocol.TextEdit)
	for _, group := range resp.Locs {
		uri := convert.PathToURI(group.File)
		for _, loc := range group.Locs {
			rng := convert.FromAnalyzerSpan(analyzer.Span{Start: loc.Start, End: loc.End})
			changes[uri] = append(changes[uri], protocol.TextEdit{
				Range:   toProtocolRangeValue(rng),
				NewText: params.NewName,
			})
		}
	}
	return &protocol.WorkspaceEdit{Changes: changes}, nil
}
