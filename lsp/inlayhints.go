package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
)

// go.lsp.dev/protocol v0.12.0 predates the LSP 3.17 inlay hint types, so
// the method is served through the jsonrpc2 middleware in server.go with
// package-local parameter and result shapes.

const methodInlayHint = "textDocument/inlayHint"

// InlayHintParams is the textDocument/inlayHint request payload.
type InlayHintParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}

// InlayHint is a single inline annotation.
type InlayHint struct {
	Position protocol.Position `json:"position"`
	Label    string            `json:"label"`
	// Kind 2 is the LSP parameter-hint kind.
	Kind         int  `json:"kind,omitempty"`
	PaddingRight bool `json:"paddingRight,omitempty"`
}

// InlayHint computes ordinal-prefix hints for positional call arguments.
func (s *Server) InlayHint(_ context.Context, params *InlayHintParams) ([]InlayHint, error) {
	s.logger.Debug("InlayHint",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Program == nil {
		return nil, nil
	}

	var hints []InlayHint

	kcl.Walk(doc.Program, kcl.Visitor{
		EnterExpr: func(x kcl.Expr) bool {
			call, ok := x.(*kcl.CallExpr)
			if !ok {
				return true
			}

			ordinal := 0

			for _, arg := range call.Args {
				if !arg.Positional {
					continue
				}

				rng := spanToRange(arg.Value.Span())
				if rangesOverlap(rng, params.Range) {
					hints = append(hints, InlayHint{
						Position:     rng.Start,
						Label:        fmt.Sprintf("#%d:", ordinal),
						Kind:         2,
						PaddingRight: true,
					})
				}

				ordinal++
			}

			return true
		},
	})

	return hints, nil
}
