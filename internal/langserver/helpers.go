package langserver

import (
	"encoding/json"

	"github.com/pkg/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/document"
)

// errDocumentNotOpen is the document-state precondition error (§7 category
// 2) surfaced to the editor when an operation addresses a URI the server
// has no open Document for — completion, hover, and friends all require
// the editor to have sent textDocument/didOpen first.
var errDocumentNotOpen = errors.New("tsls-bridge: document not open")

// requireDocument returns the open Document for uri, or errDocumentNotOpen
// if the editor never opened it (or has already closed it).
func (s *Server) requireDocument(uri string) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil, errDocumentNotOpen
	}
	return doc, nil
}

// toProtocolRangeValue converts a document.Range to a protocol.Range.
func toProtocolRangeValue(r document.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(r.Start.Line), Character: protocol.UInteger(r.Start.Character)},
		End:   protocol.Position{Line: protocol.UInteger(r.End.Line), Character: protocol.UInteger(r.End.Character)},
	}
}

// unmarshalInto decodes an analyzer response body into a concrete Go
// value. A nil body (a success response with no body, such as some
// notification-shaped requests) is treated as a no-op rather than an
// error.
func unmarshalInto(body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
