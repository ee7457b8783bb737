package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// DocumentSymbol handles textDocument/documentSymbol requests, producing
// the outline view: Let bindings as variables, fn definitions as functions
// with a fn(param, ...) detail, exports recursing into their wrapped
// statement.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Program == nil {
		return nil, nil
	}

	result := make([]any, 0, len(doc.Symbols))

	for _, sym := range doc.Symbols {
		kind := protocol.SymbolKindVariable
		if sym.Kind == "function" {
			kind = protocol.SymbolKindFunction
		}

		result = append(result, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           kind,
			Detail:         sym.Detail,
			Range:          spanToRange(sym.Span),
			SelectionRange: spanToRange(sym.Span),
		})
	}

	return result, nil
}
