package langserver

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

func (s *Server) locationArgs(uri string, pos protocol.Position) (analyzer.FileLocationRequestArgs, error) {
	path, err := convert.URIToPath(uri)
	if err != nil {
		return analyzer.FileLocationRequestArgs{}, err
	}
	ap := convert.ToAnalyzerPosition(docPosition(pos))
	return analyzer.FileLocationRequestArgs{File: path, Line: ap.Line, Offset: ap.Offset}, nil
}

func docPosition(p protocol.Position) document.Position {
	return document.Position{Line: int(p.Line), Character: int(p.Character)}
}

func definitionEntriesToLocations(entries []analyzer.DefinitionInfo) []protocol.Location {
	locs := make([]protocol.Location, 0, len(entries))
	for _, e := range entries {
		rng := convert.FromAnalyzerSpan(analyzer.Span{Start: e.Start, End: e.End})
		locs = append(locs, protocol.Location{
			URI:   convert.PathToURI(e.File),
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(rng.Start.Line), Character: protocol.UInteger(rng.Start.Character)},
				End:   protocol.Position{Line: protocol.UInteger(rng.End.Line), Character: protocol.UInteger(rng.End.Character)},
			},
		})
	}
	return locs
}

// goToCommand backs definition/implementation/typeDefinition: none of
// these are latency-sensitive enough to interrupt an in-flight geterr
// round over, so they call the analyzer client directly.
func (s *Server) goToCommand(command string, ctx *glsp.Context, uri string, pos protocol.Position) (any, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return nil, nil
	}
	if _, err := s.requireDocument(uri); err != nil {
		return nil, err
	}

	args, err := s.locationArgs(uri, pos)
	if err != nil {
		return nil, nil
	}

	body, reqErr := client.Request(context.Background(), command, args, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: %s failed: %s", command, reqErr)
		return nil, nil
	}
	var entries []analyzer.DefinitionInfo
	if err := unmarshalInto(body, &entries); err != nil {
		s.log.Warningf("tsls-bridge: %s: malformed response: %s", command, err)
		return nil, nil
	}
	return definitionEntriesToLocations(entries), nil
}

func (s *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	return s.goToCommand("definition", ctx, params.TextDocument.URI, params.Position)
}

func (s *Server) textDocumentImplementation(ctx *glsp.Context, params *protocol.ImplementationParams) (any, error) {
	return s.goToCommand("implementation", ctx, params.TextDocument.URI, params.Position)
}

func (s *Server) textDocumentTypeDefinition(ctx *glsp.Context, params *protocol.TypeDefinitionParams) (any, error) {
	return s.goToCommand("typeDefinition", ctx, params.TextDocument.URI, params.Position)
}

func (s *Server) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
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

	// references is not latency-sensitive enough to interrupt an
	// in-flight geterr round over, so it calls the analyzer directly.
	body, reqErr := client.Request(context.Background(), "references", args, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: references failed: %s", reqErr)
		return nil, nil
	}
	var resp analyzer.ReferencesResponseBody
	if err := unmarshalInto(body, &resp); err != nil {
		s.log.Warningf("tsls-bridge: references: malformed response: %s", err)
		return nil, nil
	}

	var locs []protocol.Location
	for _, ref := range resp.Refs {
		if !params.Context.IncludeDeclaration && ref.IsDefinition {
			continue
		}
		rng := convert.FromAnalyzerSpan(analyzer.Span{Start: ref.Start, End: ref.End})
		locs = append(locs, protocol.Location{
			URI: convert.PathToURI(ref.File),
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(rng.Start.Line), Character: protocol.UInteger(rng.Start.Character)},
				End:   protocol.Position{Line: protocol.UInteger(rng.End.Line), Character: protocol.UInteger(rng.End.Character)},
			},
		})
	}
	return locs, nil
}

func highlightKind(k string) protocol.DocumentHighlightKind {
	switch k {
	case "writtenReference":
		return protocol.DocumentHighlightKindWrite
	case "reference":
		return protocol.DocumentHighlightKindRead
	default:
		return protocol.DocumentHighlightKindText
	}
}

func (s *Server) textDocumentDocumentHighlight(ctx *glsp.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	s.mu.Lock()
	client := s.client
	path, err := convert.URIToPath(params.TextDocument.URI)
	files := []string{path}
	s.mu.Unlock()
	if client == nil || err != nil {
		return nil, nil
	}
	if _, err := s.requireDocument(params.TextDocument.URI); err != nil {
		return nil, err
	}

	ap := convert.ToAnalyzerPosition(docPosition(params.Position))
	args := analyzer.DocumentHighlightsRequestArgs{
		FileLocationRequestArgs: analyzer.FileLocationRequestArgs{File: path, Line: ap.Line, Offset: ap.Offset},
		FilesToSearch:           files,
	}

	// documentHighlight is not latency-sensitive enough to interrupt an
	// in-flight geterr round over, so it calls the analyzer directly.
	body, reqErr := client.Request(context.Background(), "documentHighlights", args, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: documentHighlights failed: %s", reqErr)
		return nil, nil
	}
	var items []analyzer.DocumentHighlightsItem
	if err := unmarshalInto(body, &items); err != nil {
		s.log.Warningf("tsls-bridge: documentHighlights: malformed response: %s", err)
		return nil, nil
	}

	var highlights []protocol.DocumentHighlight
	for _, item := range items {
		if item.File != path {
			continue
		}
		for _, span := range item.HighlightSpans {
			rng := convert.FromAnalyzerSpan(analyzer.Span{Start: span.Start, End: span.End})
			kind := highlightKind(span.Kind)
			highlights = append(highlights, protocol.DocumentHighlight{
				Range: protocol.Range{
					Start: protocol.Position{Line: protocol.UInteger(rng.Start.Line), Character: protocol.UInteger(rng.Start.Character)},
					End:   protocol.Position{Line: protocol.UInteger(rng.End.Line), Character: protocol.UInteger(rng.End.Character)},
				},
				Kind: &kind,
			})
		}
	}
	return highlights, nil
}
