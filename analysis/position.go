package analysis

import (
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/kclang/kcl-go"
)

// LineIndex maps byte offsets to line/column positions and back. Lines and
// columns are 1-based, matching participle's lexer.Position.
type LineIndex struct {
	// starts holds the byte offset of each line start.
	starts []int
	length int
}

// NewLineIndex scans source once for newline bytes.
func NewLineIndex(source string) *LineIndex {
	starts := []int{0}

	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineIndex{starts: starts, length: len(source)}
}

// PositionFor converts a byte offset into a position via binary search.
func (ix *LineIndex) PositionFor(offset int) lexer.Position {
	if offset < 0 {
		offset = 0
	}

	if offset > ix.length {
		offset = ix.length
	}

	line := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	}) - 1

	return lexer.Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - ix.starts[line] + 1,
	}
}

// OffsetFor converts a position back into a byte offset.
func (ix *LineIndex) OffsetFor(pos lexer.Position) int {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}

	if line >= len(ix.starts) {
		return ix.length
	}

	off := ix.starts[line] + pos.Column - 1
	if off > ix.length {
		off = ix.length
	}

	return off
}

// LineCount returns the number of lines in the source.
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}

// InSpan reports whether pos falls inside span. Both ends are inclusive so
// a cursor at either edge of an identifier still counts as "on" it.
func InSpan(span kcl.Span, pos lexer.Position) bool {
	if pos.Line < span.Start.Line ||
		(pos.Line == span.Start.Line && pos.Column < span.Start.Column) {
		return false
	}

	if pos.Line > span.End.Line ||
		(pos.Line == span.End.Line && pos.Column > span.End.Column) {
		return false
	}

	return true
}

// PositionToLexer converts LSP 0-based line/character to 1-based positions.
func PositionToLexer(line, character uint32) lexer.Position {
	return lexer.Position{
		Line:   int(line) + 1,
		Column: int(character) + 1,
	}
}

// TokenAt returns the index of the token whose span contains pos, or -1.
// EOF, whitespace and comments are never returned.
func TokenAt(tokens []kcl.Token, pos lexer.Position) int {
	for i, tok := range tokens {
		if tok.EOF() {
			break
		}

		if InSpan(tok.Span(), pos) {
			return i
		}
	}

	return -1
}

// TokenBefore returns the index of the last token that ends at or before
// pos, or -1.
func TokenBefore(tokens []kcl.Token, pos lexer.Position) int {
	best := -1

	for i, tok := range tokens {
		if tok.EOF() {
			break
		}

		if tok.End.Line < pos.Line ||
			(tok.End.Line == pos.Line && tok.End.Column <= pos.Column) {
			best = i
		}
	}

	return best
}

// WordAt extracts the identifier-like word around a column in a line of
// text. Used by services that operate on raw text.
func WordAt(line string, col int) string {
	if col > len(line) {
		col = len(line)
	}

	start := col
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}

	end := col
	for end < len(line) && isWordByte(line[end]) {
		end++
	}

	return strings.TrimSpace(line[start:end])
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
