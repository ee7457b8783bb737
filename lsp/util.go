package lsp

import (
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/kclang/kcl-go"
)

// spanToRange converts a kcl.Span to an LSP protocol.Range.
// kcl uses 1-based line/column, LSP uses 0-based.
func spanToRange(span kcl.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(max(0, span.Start.Line-1)),   //nolint:gosec // G115: values are small line numbers
			Character: uint32(max(0, span.Start.Column-1)), //nolint:gosec // G115: values are small column numbers
		},
		End: protocol.Position{
			Line:      uint32(max(0, span.End.Line-1)),   //nolint:gosec // G115: values are small line numbers
			Character: uint32(max(0, span.End.Column-1)), //nolint:gosec // G115: values are small column numbers
		},
	}
}

// URIToPath converts a document URI to a filesystem path.
func URIToPath(docURI protocol.DocumentURI) string {
	if strings.HasPrefix(string(docURI), "file://") {
		return uri.URI(docURI).Filename()
	}

	return string(docURI)
}

func rangePtr(r protocol.Range) *protocol.Range {
	return &r
}

// rangesOverlap checks if two ranges overlap.
func rangesOverlap(a, b protocol.Range) bool {
	if a.End.Line < b.Start.Line ||
		(a.End.Line == b.Start.Line && a.End.Character < b.Start.Character) {
		return false
	}

	if b.End.Line < a.Start.Line ||
		(b.End.Line == a.Start.Line && b.End.Character < a.Start.Character) {
		return false
	}

	return true
}
