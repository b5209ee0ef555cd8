package langserver

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
	"github.com/kelsorion/tsls-bridge/internal/document"
)

// textDocumentDocumentSymbol is not latency-sensitive enough to interrupt
// an in-flight geterr round over, so it calls the analyzer client
// directly rather than going through interruptDiagnostics.
func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
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

	body, reqErr := client.Request(context.Background(), "navtree", analyzer.FileRequestArgs{File: path}, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: navtree failed: %s", reqErr)
		return nil, nil
	}
	var root analyzer.NavtreeItem
	if err := unmarshalInto(body, &root); err != nil {
		s.log.Warningf("tsls-bridge: navtree: malformed response: %s", err)
		return nil, nil
	}

	// The root navtree node represents the file itself; its children are
	// the file's top-level symbols. Recursively flatten the tree into
	// SymbolInformation, naming each symbol's container after the text of
	// the navtree node it's nested under.
	symbols := flattenNavtree(root.ChildItems, "", params.TextDocument.URI)
	convert.SortSymbolInformation(symbols)
	return symbols, nil
}

func flattenNavtree(items []analyzer.NavtreeItem, containerName, uri string) []protocol.SymbolInformation {
	out := make([]protocol.SymbolInformation, 0, len(items))
	for _, item := range items {
		rng := spanRange(item.Spans)
		info := protocol.SymbolInformation{
			Name:     item.Text,
			Kind:     convert.SymbolKind(item.Kind),
			Location: protocol.Location{URI: uri, Range: toProtocolRangeValue(rng)},
		}
		if containerName != "" {
			container := containerName
			info.ContainerName = &container
		}
		out = append(out, info)
		if len(item.ChildItems) > 0 {
			out = append(out, flattenNavtree(item.ChildItems, item.Text, uri)...)
		}
	}
	return out
}

func spanRange(spans []analyzer.Span) document.Range {
	if len(spans) == 0 {
		return document.Range{}
	}
	return convert.FromAnalyzerSpan(spans[0])
}

// workspaceSymbol is not latency-sensitive enough to interrupt an
// in-flight geterr round over, so it calls the analyzer client directly.
func (s *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	s.mu.Lock()
	client := s.client
	files := s.openURIsLRU()
	s.mu.Unlock()
	if client == nil {
		return nil, nil
	}

	args := analyzer.NavtoRequestArgs{SearchValue: params.Query, MaxResultCount: 256}
	// navto searches the whole project once any file is open; fall back
	// to the most recently touched open file as a best-effort anchor when
	// the project has no tsconfig-discovered root of its own.
	if len(files) > 0 {
		if path, err := convert.URIToPath(files[len(files)-1]); err == nil {
			args.File = path
		}
	}

	body, reqErr := client.Request(context.Background(), "navto", args, nil)
	if reqErr != nil {
		s.log.Debugf("tsls-bridge: navto failed: %s", reqErr)
		return nil, nil
	}
	var items []analyzer.NavtoItem
	if err := unmarshalInto(body, &items); err != nil {
		s.log.Warningf("tsls-bridge: navto: malformed response: %s", err)
		return nil, nil
	}

	symbols := make([]protocol.SymbolInformation, 0, len(items))
	for _, item := range items {
		rng := convert.FromAnalyzerSpan(analyzer.Span{Start: item.Start, End: item.End})
		info := protocol.SymbolInformation{
			Name: item.Name,
			Kind: convert.SymbolKind(item.Kind),
			Location: protocol.Location{
				URI:   convert.PathToURI(item.File),
				Range: toProtocolRangeValue(rng),
			},
		}
		if item.ContainerName != "" {
			container := item.ContainerName
			info.ContainerName = &container
		}
		symbols = append(symbols, info)
	}
	convert.SortSymbolInformation(symbols)
	return symbols, nil
}
