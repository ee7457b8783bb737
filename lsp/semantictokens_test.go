package lsp_test

import (
	"context"
	"testing"

	"go.lsp.dev/protocol"
)

// decodeTokens turns the delta-encoded data back into absolute
// (line, char, length, type, modifiers) rows.
func decodeTokens(data []uint32) [][5]uint32 {
	var (
		rows       [][5]uint32
		line, char uint32
	)

	for i := 0; i+5 <= len(data); i += 5 {
		deltaLine, deltaChar := data[i], data[i+1]

		line += deltaLine
		if deltaLine == 0 {
			char += deltaChar
		} else {
			char = deltaChar
		}

		rows = append(rows, [5]uint32{line, char, data[i+2], data[i+3], data[i+4]})
	}

	return rows
}

func TestSemanticTokens_Classification(t *testing.T) {
	t.Parallel()

	server, _, uri := openDoc(t, "let x = box(width = 10mm, height = 2, depth = 3)\ny = PI")

	result, err := server.SemanticTokensFull(context.Background(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("SemanticTokensFull() error: %v", err)
	}

	if result == nil || len(result.Data)%5 != 0 {
		t.Fatal("expected 5-tuple encoded token data")
	}

	rows := decodeTokens(result.Data)
	if len(rows) == 0 {
		t.Fatal("expected at least one semantic token")
	}

	// Row 0 is the let keyword at (0,0) length 3.
	first := rows[0]
	if first[0] != 0 || first[1] != 0 || first[2] != 3 || first[3] != 0 {
		t.Errorf("first row = %v, want keyword let at 0:0 len 3", first)
	}

	// The box identifier is reclassified as function (type 5) with the
	// defaultLibrary modifier (bit 4); PI is a constant (type 6) with
	// readonly|defaultLibrary (bits 2|4).
	var sawBox, sawPI bool

	for _, row := range rows {
		if row[3] == 5 && row[4] == 4 && row[2] == 3 {
			sawBox = true
		}

		if row[3] == 6 && row[4] == 6 && row[2] == 2 {
			sawPI = true
		}
	}

	if !sawBox {
		t.Error("box should be a function token with defaultLibrary modifier")
	}

	if !sawPI {
		t.Error("PI should be a constant token with readonly|defaultLibrary modifiers")
	}
}

func TestSemanticTokens_DeclarationModifier(t *testing.T) {
	t.Parallel()

	server, _, uri := openDoc(t, "width = 10\nx = width")

	result, err := server.SemanticTokensFull(context.Background(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("SemanticTokensFull() error: %v", err)
	}

	rows := decodeTokens(result.Data)

	// Both width occurrences carry the declaration modifier: the
	// classification matches top-level names by text.
	declared := 0

	for _, row := range rows {
		if row[2] == 5 && row[3] == 4 && row[4] == 1 {
			declared++
		}
	}

	if declared != 2 {
		t.Errorf("expected 2 declared variable tokens for width, got %d", declared)
	}
}
