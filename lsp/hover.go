package lsp

import (
	"context"
	"fmt"
	"strconv"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/analysis"
	"github.com/kclang/kcl-go/stdlib"
)

// Hover handles textDocument/hover requests by classifying the token under
// the cursor.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	pos := analysis.PositionToLexer(params.Position.Line, params.Position.Character)

	i := analysis.TokenAt(doc.Tokens, pos)
	if i < 0 {
		return nil, nil //nolint:nilnil
	}

	tok := doc.Tokens[i]

	content := hoverContent(doc, tok)
	if content == "" {
		return nil, nil //nolint:nilnil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
		Range: rangePtr(spanToRange(tok.Span())),
	}, nil
}

func hoverContent(doc *analysis.Document, tok kcl.Token) string {
	switch tok.Type {
	case kcl.TokenNumber:
		value := strconv.FormatFloat(tok.Number, 'f', -1, 64)
		if tok.Unit != "" {
			return fmt.Sprintf("**%s** %s", value, tok.Unit)
		}

		return "**" + value + "**"

	case kcl.TokenString:
		return fmt.Sprintf("`%q`", tok.Str)

	case kcl.TokenKeyword:
		return "**keyword** `" + tok.Value + "`"

	case kcl.TokenIdent:
		return hoverIdent(doc, tok.Value)

	default:
		return ""
	}
}

func hoverIdent(doc *analysis.Document, name string) string {
	if sig, ok := stdlib.Lookup(name); ok {
		return "```\n" + signatureLabel(name, sig) + "\n```"
	}

	if _, ok := stdlib.Planes[name]; ok {
		return fmt.Sprintf("**%s** - construction plane", name)
	}

	if value, ok := stdlib.Math[name]; ok {
		return fmt.Sprintf("**%s** = %v", name, value)
	}

	if stdlib.Units[name] {
		return fmt.Sprintf("**%s** - unit", name)
	}

	if _, ok := stdlib.Tags[name]; ok {
		return fmt.Sprintf("**%s** - edge reference", name)
	}

	for _, sym := range doc.Symbols {
		if sym.Name == name {
			if sym.Kind == "function" {
				return fmt.Sprintf("**%s** `%s`", name, sym.Detail)
			}

			return fmt.Sprintf("**%s** - variable", name)
		}
	}

	return ""
}
