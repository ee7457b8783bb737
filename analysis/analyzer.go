package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/kclang/kcl-go"
)

// AnalyzedFile is the cached result of lexing, parsing and checking one
// document. Services treat it as an immutable snapshot.
type AnalyzedFile struct {
	Text    string
	Lines   *LineIndex
	Tokens  []kcl.Token
	Trivia  []kcl.TriviaItem
	Program *kcl.Program

	Diagnostics []Diagnostic
	Symbols     []Symbol

	// ParseErr is the parse failure, nil on success.
	ParseErr error
}

// Analyze lexes, parses and type-checks source text. Every failure is
// converted into diagnostics here; Analyze never returns an error.
func Analyze(text string) *AnalyzedFile {
	f := &AnalyzedFile{
		Text:  text,
		Lines: NewLineIndex(text),
	}

	f.Tokens, f.Trivia = kcl.Lex(text)

	prog, err := kcl.ParseTokens(f.Tokens, f.Trivia)
	if err != nil {
		f.ParseErr = err
		f.Diagnostics = append(f.Diagnostics, parseErrorDiagnostic(err, f.Tokens))

		return f
	}

	f.Program = prog
	f.Symbols = collectSymbols(prog, f.Tokens)

	if err := Check(prog); err != nil {
		f.Diagnostics = append(f.Diagnostics, Diagnostic{
			Span:     locateCheckError(err.Error(), prog, f.Tokens),
			Severity: SeverityError,
			Message:  err.Error(),
			Source:   "typecheck",
		})
	}

	// The let keyword is deprecated; warn on every occurrence.
	for _, tok := range f.Tokens {
		if tok.Type == kcl.TokenKeyword && tok.Value == "let" {
			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				Span:     tok.Span(),
				Severity: SeverityWarning,
				Message:  "The 'let' keyword is deprecated",
				Source:   "deprecated",
				Code:     "deprecated-let-keyword",
			})
		}
	}

	return f
}

// positionPattern matches the token index embedded in parser messages.
var positionPattern = regexp.MustCompile(`position (\d+)`)

// parseErrorDiagnostic recovers a source range from a parse error message:
// the indexed token's range when in bounds, the end of the last non-EOF
// token when past the stream, and a one-character range at the origin as a
// last resort.
func parseErrorDiagnostic(err error, tokens []kcl.Token) Diagnostic {
	diag := Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
		Source:   "parser",
	}

	span := kcl.Span{
		Start: lexer.Position{Line: 1, Column: 1},
		End:   lexer.Position{Line: 1, Column: 2},
	}

	if m := positionPattern.FindStringSubmatch(err.Error()); m != nil {
		n, _ := strconv.Atoi(m[1])

		switch {
		case n >= 0 && n < len(tokens) && !tokens[n].EOF():
			span = tokens[n].Span()
		case n >= len(tokens) || tokens[n].EOF():
			if last := lastSyntacticToken(tokens); last != nil {
				span = kcl.Span{Start: last.End, End: last.End}
			}
		}
	}

	diag.Span = span

	return diag
}

func lastSyntacticToken(tokens []kcl.Token) *kcl.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if !tokens[i].EOF() {
			return &tokens[i]
		}
	}

	return nil
}

// Identifier-extracting patterns for type-check messages, tried in order.
var (
	missingArgPattern  = regexp.MustCompile(`Missing argument '(\w+)' for operation '([\w:]+)'`)
	namedIdentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Unknown operation: ([\w:]+)`),
		regexp.MustCompile(`Unknown function: (\w+)`),
		regexp.MustCompile(`Unknown variable: (\w+)`),
		regexp.MustCompile(`Undefined: (\w+)`),
		regexp.MustCompile(`'([\w:]+)'`),
	}
)

// locateCheckError maps a type-check message back to a source range by
// looking up the named identifier among the document's tokens.
func locateCheckError(msg string, prog *kcl.Program, tokens []kcl.Token) kcl.Span {
	// Missing-argument errors point at the callee of the first call to the
	// named operation in AST order.
	if m := missingArgPattern.FindStringSubmatch(msg); m != nil {
		if call := kcl.FindCall(prog, m[2]); call != nil {
			return call.CalleeSpan
		}

		if span, ok := calleeTokenSpan(tokens, m[2]); ok {
			return span
		}
	}

	for _, pattern := range namedIdentPatterns {
		m := pattern.FindStringSubmatch(msg)
		if m == nil {
			continue
		}

		if span, ok := identTokenSpan(tokens, m[1]); ok {
			return span
		}
	}

	// Fallback: lowercase-match message words against identifier tokens,
	// keeping the last occurrence.
	span := kcl.Span{
		Start: lexer.Position{Line: 1, Column: 1},
		End:   lexer.Position{Line: 1, Column: 2},
	}

	words := make(map[string]bool)
	for _, word := range strings.Fields(msg) {
		words[strings.ToLower(strings.Trim(word, `'".,:()`))] = true
	}

	for _, tok := range tokens {
		if tok.Type == kcl.TokenIdent && words[strings.ToLower(tok.Value)] {
			span = tok.Span()
		}
	}

	return span
}

// calleeTokenSpan finds the first occurrence of name used as a callee,
// ignoring tokens on the left-hand side of an assignment.
func calleeTokenSpan(tokens []kcl.Token, name string) (kcl.Span, bool) {
	for i, tok := range tokens {
		if tok.Type != kcl.TokenIdent || tok.Value != name {
			continue
		}

		if isAssignmentLHS(tokens, i) {
			continue
		}

		if i+1 < len(tokens) && tokens[i+1].Type == kcl.TokenSymbol && tokens[i+1].Value == "(" {
			return tok.Span(), true
		}
	}

	return kcl.Span{}, false
}

// identTokenSpan finds the first identifier token with the given value that
// is not an assignment target. Qualified names (ns::ident) match the
// qualifying identifier.
func identTokenSpan(tokens []kcl.Token, name string) (kcl.Span, bool) {
	base := name
	if i := strings.Index(name, "::"); i >= 0 {
		base = name[:i]
	}

	for i, tok := range tokens {
		if tok.Type != kcl.TokenIdent || tok.Value != base {
			continue
		}

		if isAssignmentLHS(tokens, i) {
			continue
		}

		span := tok.Span()

		// Extend over ns::ident.
		if base != name && i+2 < len(tokens) &&
			tokens[i+1].Type == kcl.TokenDoubleColon &&
			tokens[i+2].Type == kcl.TokenIdent {
			span.End = tokens[i+2].End
		}

		return span, true
	}

	return kcl.Span{}, false
}

func isAssignmentLHS(tokens []kcl.Token, i int) bool {
	return i+1 < len(tokens) &&
		tokens[i+1].Type == kcl.TokenSymbol && tokens[i+1].Value == "="
}

// collectSymbols builds the outline from top-level statements.
func collectSymbols(prog *kcl.Program, tokens []kcl.Token) []Symbol {
	var symbols []Symbol

	for _, stmt := range prog.Statements {
		symbols = appendSymbol(symbols, stmt, tokens, false)
	}

	return symbols
}

func appendSymbol(symbols []Symbol, stmt kcl.Stmt, tokens []kcl.Token, exported bool) []Symbol {
	switch s := stmt.(type) {
	case *kcl.LetStmt:
		symbols = append(symbols, Symbol{
			Name:     s.Name,
			Kind:     "variable",
			Span:     nameSpanIn(tokens, s.Span(), s.Name),
			Exported: exported,
		})

	case *kcl.AssignStmt:
		symbols = append(symbols, Symbol{
			Name:     s.Name,
			Kind:     "variable",
			Span:     nameSpanIn(tokens, s.Span(), s.Name),
			Exported: exported,
		})

	case *kcl.FnDefStmt:
		names := make([]string, len(s.Params))
		for i, param := range s.Params {
			names[i] = param.Name
		}

		symbols = append(symbols, Symbol{
			Name:     s.Name,
			Kind:     "function",
			Span:     nameSpanIn(tokens, s.Span(), s.Name),
			Detail:   "fn(" + strings.Join(names, ", ") + ")",
			Exported: exported,
		})

	case *kcl.ExportStmt:
		symbols = appendSymbol(symbols, s.Inner, tokens, true)
	}

	return symbols
}

// nameSpanIn returns the span of the first identifier token with the given
// value inside a statement's span, falling back to the statement span.
func nameSpanIn(tokens []kcl.Token, within kcl.Span, name string) kcl.Span {
	for _, tok := range tokens {
		if tok.Pos.Offset < within.Start.Offset {
			continue
		}

		if tok.Pos.Offset >= within.End.Offset {
			break
		}

		if tok.Type == kcl.TokenIdent && tok.Value == name {
			return tok.Span()
		}
	}

	return within
}
