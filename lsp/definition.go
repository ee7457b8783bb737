package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/analysis"
)

// Definition handles textDocument/definition requests. Resolution is
// within the current document only: the first let/fn keyword followed by an
// identifier with the target name wins.
func (s *Server) Definition(_ context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	s.logger.Debug("Definition",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	pos := analysis.PositionToLexer(params.Position.Line, params.Position.Character)

	i := analysis.TokenAt(doc.Tokens, pos)
	if i < 0 || doc.Tokens[i].Type != kcl.TokenIdent {
		return nil, nil
	}

	target := doc.Tokens[i].Value

	if span, ok := findDefinition(doc.Tokens, target); ok {
		return []protocol.Location{{
			URI:   params.TextDocument.URI,
			Range: spanToRange(span),
		}}, nil
	}

	return nil, nil
}

// findDefinition scans tokens for the first Keyword(let|fn) followed by an
// identifier matching name, and returns that identifier's span. Bare
// assignments (name = expr) define names too and are scanned as a fallback.
func findDefinition(tokens []kcl.Token, name string) (kcl.Span, bool) {
	for i, tok := range tokens {
		if tok.Type != kcl.TokenKeyword || (tok.Value != "let" && tok.Value != "fn") {
			continue
		}

		if i+1 < len(tokens) &&
			tokens[i+1].Type == kcl.TokenIdent &&
			tokens[i+1].Value == name {
			return tokens[i+1].Span(), true
		}
	}

	for i, tok := range tokens {
		if tok.Type != kcl.TokenIdent || tok.Value != name {
			continue
		}

		if i+1 < len(tokens) &&
			tokens[i+1].Type == kcl.TokenSymbol && tokens[i+1].Value == "=" {
			return tok.Span(), true
		}
	}

	return kcl.Span{}, false
}
