package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
)

// Formatting handles textDocument/formatting requests by replacing the
// whole document with its canonical form. Unparseable documents are left
// untouched.
func (s *Server) Formatting(_ context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	s.logger.Debug("Formatting",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Program == nil {
		return nil, nil
	}

	formatted := kcl.Format(doc.Program)
	if formatted == doc.Text {
		return nil, nil
	}

	lastLine := doc.Lines.LineCount() - 1

	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: uint32(lastLine + 1), Character: 0}, //nolint:gosec
		},
		NewText: formatted,
	}}, nil
}
