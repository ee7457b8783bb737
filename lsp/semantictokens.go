package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/stdlib"
)

// The semantic token legend advertised in the server capabilities.
var (
	semanticTokenTypes = []string{
		"keyword", "number", "string", "operator", "variable", "function", "constant",
	}
	semanticTokenModifiers = []string{
		"declaration", "readonly", "defaultLibrary",
	}
)

// Indexes into semanticTokenTypes.
const (
	tokKeyword = iota
	tokNumber
	tokString
	tokOperator
	tokVariable
	tokFunction
	tokConstant
)

// Modifier bit masks, matching semanticTokenModifiers.
const (
	modDeclaration    = 1 << 0
	modReadonly       = 1 << 1
	modDefaultLibrary = 1 << 2
)

// SemanticTokensFull handles textDocument/semanticTokens/full. Every lexer
// token is emitted as a delta-encoded 5-tuple; identifiers are reclassified
// against the stdlib, the constant tables and the document's own
// definitions.
func (s *Server) SemanticTokensFull(_ context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	s.logger.Debug("SemanticTokensFull",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	declared := make(map[string]bool)
	for _, sym := range doc.Symbols {
		declared[sym.Name] = true
	}

	var data []uint32

	prevLine, prevCol := 1, 1

	for _, tok := range doc.Tokens {
		if tok.EOF() {
			break
		}

		typ, mods, ok := classifyToken(tok, declared)
		if !ok {
			continue
		}

		line, col := tok.Pos.Line, tok.Pos.Column

		deltaLine := line - prevLine

		deltaCol := col - 1
		if deltaLine == 0 {
			deltaCol = col - prevCol
		}

		data = append(data,
			uint32(deltaLine),        //nolint:gosec // token order is monotone
			uint32(deltaCol),         //nolint:gosec
			uint32(len(tok.Value)),   //nolint:gosec
			uint32(typ),              //nolint:gosec
			uint32(mods),             //nolint:gosec
		)

		prevLine, prevCol = line, col
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

func classifyToken(tok kcl.Token, declared map[string]bool) (typ, mods int, ok bool) {
	switch tok.Type {
	case kcl.TokenKeyword:
		return tokKeyword, 0, true
	case kcl.TokenNumber:
		return tokNumber, 0, true
	case kcl.TokenString:
		return tokString, 0, true
	case kcl.TokenOp, kcl.TokenSymbol, kcl.TokenPipe, kcl.TokenDoubleColon:
		return tokOperator, 0, true
	case kcl.TokenIdent:
		if _, isOp := stdlib.Lookup(tok.Value); isOp {
			return tokFunction, modDefaultLibrary, true
		}

		if _, isConst := stdlib.ConstantKind(tok.Value); isConst {
			return tokConstant, modReadonly | modDefaultLibrary, true
		}

		if declared[tok.Value] {
			return tokVariable, modDeclaration, true
		}

		return tokVariable, 0, true
	default:
		return 0, 0, false
	}
}

// SemanticTokensFullDelta is not supported; clients fall back to full.
func (s *Server) SemanticTokensFullDelta(_ context.Context, _ *protocol.SemanticTokensDeltaParams) (any, error) {
	return nil, nil
}

// SemanticTokensRange is not supported; clients fall back to full.
func (s *Server) SemanticTokensRange(_ context.Context, _ *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	return nil, nil //nolint:nilnil
}

// SemanticTokensRefresh handles workspace/semanticTokens/refresh.
func (s *Server) SemanticTokensRefresh(_ context.Context) error {
	return nil
}
