package langserver

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
)

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
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

	var hover *protocol.Hover
	s.interruptDiagnostics(func() {
		body, reqErr := client.Request(context.Background(), "quickinfo", args, nil)
		if reqErr != nil {
			s.log.Debugf("tsls-bridge: quickinfo failed: %s", reqErr)
			return
		}
		var info analyzer.QuickInfoResponseBody
		if err := unmarshalInto(body, &info); err != nil {
			s.log.Warningf("tsls-bridge: quickinfo: malformed response: %s", err)
			return
		}

		value := fmt.Sprintf("```typescript\n%s\n```", info.DisplayString)
		if doc := convert.RenderDocumentation(info.Documentation, info.Tags); doc != "" {
			value += "\n\n" + doc
		}

		rng := convert.FromAnalyzerSpan(analyzer.Span{Start: info.Start, End: info.End})
		hover = &protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value},
			Range: &protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(rng.Start.Line), Character: protocol.UInteger(rng.Start.Character)},
				End:   protocol.Position{Line: protocol.UInteger(rng.End.Line), Character: protocol.UInteger(rng.End.Character)},
			},
		}
	})
	return hover, nil
}
