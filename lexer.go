package kcl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// unitSuffixes is the closed unit set, longest first so that the scanner
// can do longest-match. Membership is case-sensitive.
var unitSuffixes = []string{"inch", "deg", "rad", "mm", "cm", "in", "ft", "yd", "m", "_", "?"}

// Lex tokenizes source into a token stream plus the trivia (comments and
// blank-line runs) found between syntactic tokens. The stream always
// terminates with an EOF token whose span is a zero-length point at the end
// of input. Unterminated strings and block comments are absorbed to EOF
// without error.
func Lex(source string) ([]Token, []TriviaItem) {
	l := &lexerState{input: source, line: 1, col: 1}

	// Shebang at offset 0 is consumed silently.
	if strings.HasPrefix(source, "#!") {
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}
	}

	var tokens []Token

	for {
		tok, ok := l.next()
		if !ok {
			break
		}

		tokens = append(tokens, tok)
	}

	pos := l.pos()
	tokens = append(tokens, Token{Type: TokenEOF, Pos: pos, End: pos})

	return tokens, l.trivia
}

// lexerState holds the cursor state for a single scan.
type lexerState struct {
	input  string
	offset int
	line   int
	col    int
	trivia []TriviaItem
}

// next returns the next syntactic token, collecting trivia along the way.
// Returns ok=false at end of input.
func (l *lexerState) next() (Token, bool) {
	for {
		l.skipWhitespace()

		if l.eof() {
			return Token{}, false
		}

		r := l.peek()

		// Line comment
		if r == '/' && l.peekAt(1) == '/' {
			start := l.pos()

			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

			l.addComment(start, false)

			continue
		}

		// Block comment - unterminated consumes to end of input.
		if r == '/' && l.peekAt(1) == '*' {
			start := l.pos()
			l.advance()
			l.advance()

			for !l.eof() {
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()

					break
				}

				l.advance()
			}

			l.addComment(start, true)

			continue
		}

		break
	}

	start := l.pos()
	r := l.peek()

	if r == '"' || r == '\'' {
		return l.scanString(start, r), true
	}

	if isDigit(r) {
		return l.scanNumber(start), true
	}

	if isIdentStart(r) {
		l.advance()

		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		tok := l.token(TokenIdent, start)
		if keywords[tok.Value] {
			tok.Type = TokenKeyword
		}

		return tok, true
	}

	// Multi-character operators, tested before single-char symbols.
	// ..< must precede .. so the longer form wins.
	switch {
	case l.match("|>"):
		l.advanceN(2)

		return l.token(TokenPipe, start), true
	case l.match("::"):
		l.advanceN(2)

		return l.token(TokenDoubleColon, start), true
	case l.match("..<"):
		l.advanceN(3)

		return l.token(TokenOp, start), true
	case l.match(".."), l.match("=="), l.match("!="), l.match("<="), l.match(">="):
		l.advanceN(2)

		return l.token(TokenOp, start), true
	}

	// Any other single character is a Symbol token.
	l.advance()

	return l.token(TokenSymbol, start), true
}

// skipWhitespace consumes spaces and records blank-line runs as trivia.
func (l *lexerState) skipWhitespace() {
	start := l.pos()
	newlines := 0

	for !l.eof() && isSpace(l.peek()) {
		if l.peek() == '\n' {
			newlines++
		}

		l.advance()
	}

	// Two newlines means one blank line separated the surrounding tokens.
	if newlines >= 2 {
		l.trivia = append(l.trivia, TriviaItem{
			Kind:  TriviaBlank,
			Blank: newlines - 1,
			Span:  Span{Start: start, End: l.pos()},
		})
	}
}

func (l *lexerState) addComment(start lexer.Position, block bool) {
	l.trivia = append(l.trivia, TriviaItem{
		Kind:  TriviaComment,
		Text:  l.input[start.Offset:l.offset],
		Block: block,
		Span:  Span{Start: start, End: l.pos()},
	})
}

func (l *lexerState) scanString(start lexer.Position, quote rune) Token {
	l.advance() // opening quote

	var b strings.Builder

	for !l.eof() {
		ch := l.peek()

		if ch == '\\' && l.peekAt(1) != 0 {
			l.advance()
			esc := l.advance()

			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '"', '\'':
				b.WriteRune(esc)
			default:
				// Unknown escapes pass through literally.
				b.WriteByte('\\')
				b.WriteRune(esc)
			}

			continue
		}

		if ch == quote {
			l.advance() // closing quote

			tok := l.token(TokenString, start)
			tok.Str = b.String()

			return tok
		}

		b.WriteRune(l.advance())
	}

	// Unterminated string runs to end of input silently.
	tok := l.token(TokenString, start)
	tok.Str = b.String()

	return tok
}

func (l *lexerState) scanNumber(start lexer.Position) Token {
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}

	// Single dot followed by at least one digit.
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()

		for !l.eof() && isDigit(l.peek()) {
			l.advance()
		}
	}

	digits := l.input[start.Offset:l.offset]

	// Unit suffix, longest match. The character after the suffix must not
	// be an identifier character, so 42mmx stays Number(42) + Ident(mmx).
	var unit string

	for _, u := range unitSuffixes {
		if !strings.HasPrefix(l.input[l.offset:], u) {
			continue
		}

		after, _ := utf8.DecodeRuneInString(l.input[l.offset+len(u):])
		if isIdentContinue(after) {
			continue
		}

		unit = u

		l.advanceN(len(u))

		break
	}

	tok := l.token(TokenNumber, start)
	tok.Number = parseFloat(digits)
	tok.Unit = unit

	return tok
}

// parseFloat parses a decimal literal already validated by the scanner.
func parseFloat(s string) float64 {
	var whole, frac float64

	div := 1.0
	inFrac := false

	for _, r := range s {
		if r == '.' {
			inFrac = true

			continue
		}

		d := float64(r - '0')
		if inFrac {
			div *= 10
			frac += d / div
		} else {
			whole = whole*10 + d
		}
	}

	return whole + frac
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{Offset: l.offset, Line: l.line, Column: l.col}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset + n
	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

func (l *lexerState) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexerState) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *lexerState) match(s string) bool {
	return strings.HasPrefix(l.input[l.offset:], s)
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) Token {
	return Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
		End:   l.pos(),
	}
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
