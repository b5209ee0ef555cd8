package langserver

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kelsorion/tsls-bridge/internal/analyzer"
	"github.com/kelsorion/tsls-bridge/internal/convert"
)

func (s *Server) textDocumentSignatureHelp(ctx *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	s.mu.Lock()
	client := s.client
	path, pathErr := convert.URIToPath(params.TextDocument.URI)
	s.mu.Unlock()
	if client == nil || pathErr != nil {
		return nil, nil
	}
	if _, err := s.requireDocument(params.TextDocument.URI); err != nil {
		return nil, err
	}

	ap := convert.ToAnalyzerPosition(docPosition(params.Position))
	args := analyzer.SignatureHelpRequestArgs{
		FileLocationRequestArgs: analyzer.FileLocationRequestArgs{File: path, Line: ap.Line, Offset: ap.Offset},
	}
	if params.Context != nil && params.Context.TriggerCharacter != nil {
		args.TriggerReason = &analyzer.SignatureHelpTriggerReason{
			Kind:             signatureTriggerReasonKind(params.Context.TriggerKind),
			TriggerCharacter: *params.Context.TriggerCharacter,
		}
	}

	var help *protocol.SignatureHelp
	s.interruptDiagnostics(func() {
		body, reqErr := client.Request(context.Background(), "signatureHelp", args, nil)
		if reqErr != nil {
			s.log.Debugf("tsls-bridge: signatureHelp failed: %s", reqErr)
			return
		}
		var items analyzer.SignatureHelpItems
		if err := unmarshalInto(body, &items); err != nil {
			s.log.Warningf("tsls-bridge: signatureHelp: malformed response: %s", err)
			return
		}
		if len(items.Items) == 0 {
			return
		}
		help = toSignatureHelp(items)
	})
	return help, nil
}

func toSignatureHelp(items analyzer.SignatureHelpItems) *protocol.SignatureHelp {
	sigs := make([]protocol.SignatureInformation, 0, len(items.Items))
	for _, item := range items.Items {
		label := displayPartsJoin(item.PrefixDisplayParts) + joinParameters(item.Parameters, item.SeparatorDisplayParts) + displayPartsJoin(item.SuffixDisplayParts)

		params := make([]protocol.ParameterInformation, 0, len(item.Parameters))
		for _, p := range item.Parameters {
			doc := convert.RenderDocumentation(p.Documentation, nil)
			info := protocol.ParameterInformation{Label: displayPartsJoin(p.DisplayParts)}
			if doc != "" {
				info.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: doc}
			}
			params = append(params, info)
		}

		sig := protocol.SignatureInformation{Label: label, Parameters: params}
		if doc := convert.RenderDocumentation(item.Documentation, item.Tags); doc != "" {
			sig.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: doc}
		}
		sigs = append(sigs, sig)
	}

	active := protocol.UInteger(items.SelectedItemIndex)
	activeParam := protocol.UInteger(items.ArgumentIndex)
	return &protocol.SignatureHelp{
		Signatures:      sigs,
		ActiveSignature: &active,
		ActiveParameter: &activeParam,
	}
}

// signatureTriggerReasonKind maps the LSP SignatureHelpTriggerKind to the
// analyzer's own triggerReason.kind vocabulary.
func signatureTriggerReasonKind(kind protocol.SignatureHelpTriggerKind) string {
	switch kind {
	case protocol.SignatureHelpTriggerKindTriggerCharacter:
		return "characterTyped"
	case protocol.SignatureHelpTriggerKindContentChange:
		return "retrigger"
	default:
		return "invoked"
	}
}

func displayPartsJoin(parts []analyzer.SymbolDisplayPart) string {
	var out string
	for _, p := range parts {
		out += p.Text
	}
	return out
}

func joinParameters(params []analyzer.SignatureHelpParameter, sep []analyzer.SymbolDisplayPart) string {
	separator := displayPartsJoin(sep)
	var out string
	for i, p := range params {
		if i > 0 {
			out += separator
		}
		out += displayPartsJoin(p.DisplayParts)
	}
	return out
}
