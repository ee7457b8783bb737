package lsp

import (
	"context"
	"errors"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/analysis"
)

var errInvalidName = errors.New("new name is not a valid identifier")

// PrepareRename handles textDocument/prepareRename requests. The cursor
// must be on an identifier; its range is returned as the placeholder.
func (s *Server) PrepareRename(_ context.Context, params *protocol.PrepareRenameParams) (*protocol.Range, error) {
	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	pos := analysis.PositionToLexer(params.Position.Line, params.Position.Character)

	i := analysis.TokenAt(doc.Tokens, pos)
	if i < 0 || doc.Tokens[i].Type != kcl.TokenIdent {
		return nil, nil //nolint:nilnil
	}

	return rangePtr(spanToRange(doc.Tokens[i].Span())), nil
}

// Rename handles textDocument/rename requests. Replacement is deliberately
// global per document: every identifier token with the target text is
// rewritten, without scope analysis.
func (s *Server) Rename(_ context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	s.logger.Debug("Rename",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.String("newName", params.NewName))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	if !validIdent(params.NewName) {
		return nil, errInvalidName
	}

	pos := analysis.PositionToLexer(params.Position.Line, params.Position.Character)

	i := analysis.TokenAt(doc.Tokens, pos)
	if i < 0 || doc.Tokens[i].Type != kcl.TokenIdent {
		return nil, nil //nolint:nilnil
	}

	target := doc.Tokens[i].Value

	var edits []protocol.TextEdit

	for _, tok := range doc.Tokens {
		if tok.Type == kcl.TokenIdent && tok.Value == target {
			edits = append(edits, protocol.TextEdit{
				Range:   spanToRange(tok.Span()),
				NewText: params.NewName,
			})
		}
	}

	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			params.TextDocument.URI: edits,
		},
	}, nil
}

func validIdent(name string) bool {
	if name == "" || kcl.IsKeyword(name) {
		return false
	}

	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}

		if i > 0 && r >= '0' && r <= '9' {
			continue
		}

		return false
	}

	return true
}
