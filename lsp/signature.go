package lsp

import (
	"context"

	"github.com/alecthomas/participle/v2/lexer"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/analysis"
	"github.com/kclang/kcl-go/stdlib"
)

// SignatureHelp handles textDocument/signatureHelp requests: find the
// innermost unmatched ( before the cursor, read the identifier before it,
// and count top-level commas for the active parameter.
func (s *Server) SignatureHelp(_ context.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	s.logger.Debug("SignatureHelp",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	pos := analysis.PositionToLexer(params.Position.Line, params.Position.Character)

	callee, active, found := callSiteBefore(doc.Tokens, pos)
	if !found {
		return nil, nil //nolint:nilnil
	}

	sig, ok := stdlib.Lookup(callee)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	parameters := make([]protocol.ParameterInformation, len(sig.Params))
	for i, p := range sig.Params {
		parameters[i] = protocol.ParameterInformation{Label: p.Name}
	}

	if active >= len(sig.Params) && len(sig.Params) > 0 {
		active = len(sig.Params) - 1
	}

	return &protocol.SignatureHelp{
		Signatures: []protocol.SignatureInformation{{
			Label:      signatureLabel(callee, sig),
			Parameters: parameters,
		}},
		ActiveSignature: 0,
		ActiveParameter: uint32(active), //nolint:gosec // small counts
	}, nil
}

// callSiteBefore reconstructs the call context at pos from the token
// stream: the identifier before the innermost unmatched open paren and the
// number of top-level commas between that paren and the cursor. Commas
// inside nested brackets, braces and parens are ignored.
func callSiteBefore(tokens []kcl.Token, pos lexer.Position) (callee string, active int, found bool) {
	last := analysis.TokenBefore(tokens, pos)
	if last < 0 {
		return "", 0, false
	}

	depth := 0
	commas := 0

	for i := last; i >= 0; i-- {
		tok := tokens[i]
		if tok.Type != kcl.TokenSymbol {
			continue
		}

		switch tok.Value {
		case ")", "]", "}":
			depth++
		case "[", "{":
			if depth > 0 {
				depth--
			} else {
				// Crossed into an enclosing bracket: commas seen so far were
				// inside it and belong to a single argument.
				commas = 0
			}
		case ",":
			if depth == 0 {
				commas++
			}
		case "(":
			if depth > 0 {
				depth--

				continue
			}

			// Innermost unmatched paren; the callee precedes it.
			if i > 0 && tokens[i-1].Type == kcl.TokenIdent {
				name := tokens[i-1].Value

				// Qualified callee: ns::ident.
				if i > 2 && tokens[i-2].Type == kcl.TokenDoubleColon &&
					tokens[i-3].Type == kcl.TokenIdent {
					name = tokens[i-3].Value + "::" + name
				}

				return name, commas, true
			}

			// A grouping paren; its contents form one argument.
			commas = 0
		}
	}

	return "", 0, false
}
