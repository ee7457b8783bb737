package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
)

// FoldingRanges handles textDocument/foldingRange requests. Every matched
// brace pair spanning more than one line folds; consecutive top-level
// imports fold as an imports region.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.logger.Debug("FoldingRanges",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	ranges := braceFolds(doc.Tokens)

	if doc.Program != nil {
		ranges = append(ranges, importFolds(doc.Program)...)
	}

	return ranges, nil
}

// braceFolds pairs every { with its matching } via a stack.
func braceFolds(tokens []kcl.Token) []protocol.FoldingRange {
	var (
		ranges []protocol.FoldingRange
		stack  []int
	)

	for _, tok := range tokens {
		if tok.Type != kcl.TokenSymbol {
			continue
		}

		switch tok.Value {
		case "{":
			stack = append(stack, tok.Pos.Line)
		case "}":
			if len(stack) == 0 {
				continue
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if tok.Pos.Line > open {
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: uint32(open - 1),         //nolint:gosec // 1-based to 0-based
					EndLine:   uint32(tok.Pos.Line - 1), //nolint:gosec
					Kind:      protocol.RegionFoldingRange,
				})
			}
		}
	}

	return ranges
}

// importFolds covers every consecutive run of top-level import statements
// that spans more than one line.
func importFolds(prog *kcl.Program) []protocol.FoldingRange {
	var (
		ranges      []protocol.FoldingRange
		first, last int
	)

	flush := func() {
		if first > 0 && last > first {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: uint32(first - 1), //nolint:gosec
				EndLine:   uint32(last - 1),  //nolint:gosec
				Kind:      protocol.ImportsFoldingRange,
			})
		}

		first, last = 0, 0
	}

	for _, stmt := range prog.Statements {
		switch stmt.(type) {
		case *kcl.ImportStmt, *kcl.ExportImportStmt:
			if first == 0 {
				first = stmt.Span().Start.Line
			}

			last = stmt.Span().End.Line
		default:
			flush()
		}
	}

	flush()

	return ranges
}
