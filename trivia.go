package kcl

// TriviaKind distinguishes comments from blank-line runs.
type TriviaKind int

const (
	// TriviaComment is a line or block comment.
	TriviaComment TriviaKind = iota
	// TriviaBlank is a run of blank lines between tokens.
	TriviaBlank
)

// TriviaItem is a non-semantic piece of source preserved for formatting.
type TriviaItem struct {
	Kind TriviaKind
	// Text is the comment including its delimiters; empty for blank runs.
	Text string
	// Block is true for /* ... */ comments.
	Block bool
	// Blank is the number of blank lines in a TriviaBlank run.
	Blank int
	Span  Span
}

// StmtTrivia holds the trivia attached to a statement.
type StmtTrivia struct {
	// Leading trivia precedes the statement: comments on their own lines
	// and blank runs, in source order.
	Leading []TriviaItem
	// Trailing is a comment on the same line after the statement, or "".
	Trailing string
}

// attachTrivia distributes trivia items across the program's statements.
// A comment on the same line after a statement's end becomes its trailing
// comment; everything else attaches as leading trivia of the nearest
// following statement. Trivia after the last statement lands on
// Program.Trailing; a program with no statements keeps it all in Leading.
func attachTrivia(prog *Program, trivia []TriviaItem) {
	if len(trivia) == 0 {
		return
	}

	if len(prog.Statements) == 0 {
		prog.Leading = trivia

		return
	}

	remaining := trivia

	for i, stmt := range prog.Statements {
		// A comment starting on the line the previous statement ends on is
		// that statement's trailing comment, not our leading trivia.
		if i > 0 && len(remaining) > 0 {
			prev := prog.Statements[i-1]

			item := remaining[0]
			if item.Kind == TriviaComment &&
				item.Span.Start.Line == prev.Span().End.Line &&
				item.Span.Start.Offset >= prev.Span().End.Offset {
				prev.setTrailing(item.Text)

				remaining = remaining[1:]
			}
		}

		span := stmt.Span()

		var leading []TriviaItem

		for len(remaining) > 0 && remaining[0].Span.Start.Offset < span.Start.Offset {
			leading = append(leading, remaining[0])
			remaining = remaining[1:]
		}

		stmt.setLeading(leading)
	}

	// Trailing comment of the final statement, then file-level trailing.
	if len(remaining) > 0 {
		last := prog.Statements[len(prog.Statements)-1]

		item := remaining[0]
		if item.Kind == TriviaComment && item.Span.Start.Line == last.Span().End.Line {
			last.setTrailing(item.Text)

			remaining = remaining[1:]
		}
	}

	prog.Trailing = remaining
}
