package kcl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
// Exported for use in the analysis package and LSP token classification.
const (
	TokenEOF         lexer.TokenType = lexer.EOF
	TokenComment     lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenWhitespace                               // spaces, tabs, newlines
	TokenNumber                                   // numeric literal, optionally unit-suffixed
	TokenString                                   // quoted strings, either delimiter
	TokenIdent                                    // identifiers
	TokenKeyword                                  // let, fn, return, if, else
	TokenOp                                       // multi-char operators: == != <= >= .. ..<
	TokenPipe                                     // |>
	TokenDoubleColon                              // ::
	TokenSymbol                                   // any other single character
)

// keywords is the closed reserved-word set. true, false and nil lex as
// identifiers; the parser interprets them.
var keywords = map[string]bool{
	"let":    true,
	"fn":     true,
	"return": true,
	"if":     true,
	"else":   true,
}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool {
	return keywords[name]
}

// Keywords returns the reserved word set in a stable order.
func Keywords() []string {
	return []string{"let", "fn", "return", "if", "else"}
}

// Span represents a half-open range in source code.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// Token is a lexeme with its source span. Numbers additionally carry the
// parsed value and unit suffix; strings carry the unescaped value.
type Token struct {
	Type  lexer.TokenType
	Value string // raw source text
	Pos   lexer.Position
	End   lexer.Position

	// Number fields, valid when Type == TokenNumber.
	Number float64
	Unit   string

	// Str is the interpreted value when Type == TokenString.
	Str string
}

// Span returns the source span of the token.
func (t Token) Span() Span { return Span{Start: t.Pos, End: t.End} }

// EOF reports whether this is the end-of-input token.
func (t Token) EOF() bool { return t.Type == TokenEOF }

// TypeName returns a human-readable name for a token type.
func TypeName(typ lexer.TokenType) string {
	switch typ {
	case TokenEOF:
		return "EOF"
	case TokenComment:
		return "Comment"
	case TokenWhitespace:
		return "Whitespace"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenIdent:
		return "Ident"
	case TokenKeyword:
		return "Keyword"
	case TokenOp:
		return "Op"
	case TokenPipe:
		return "Pipe"
	case TokenDoubleColon:
		return "DoubleColon"
	case TokenSymbol:
		return "Symbol"
	default:
		return "Unknown"
	}
}
