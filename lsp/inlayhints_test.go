package lsp_test

import (
	"context"
	"testing"

	"go.lsp.dev/protocol"

	"github.com/kclang/kcl-go/lsp"
)

func TestInlayHint_PositionalArguments(t *testing.T) {
	t.Parallel()

	server, _, uri := openDoc(t, "b = box(1, 2, 3)")

	hints, err := server.InlayHint(context.Background(), &lsp.InlayHintParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 99},
		},
	})
	if err != nil {
		t.Fatalf("InlayHint() error: %v", err)
	}

	if len(hints) != 3 {
		t.Fatalf("expected 3 hints, got %d", len(hints))
	}

	labels := []string{"#0:", "#1:", "#2:"}
	chars := []uint32{8, 11, 14}

	for i, hint := range hints {
		if hint.Label != labels[i] {
			t.Errorf("hint %d label = %q, want %q", i, hint.Label, labels[i])
		}

		if hint.Position.Character != chars[i] {
			t.Errorf("hint %d at char %d, want %d", i, hint.Position.Character, chars[i])
		}
	}
}

func TestInlayHint_NamedArgumentsGetNone(t *testing.T) {
	t.Parallel()

	server, _, uri := openDoc(t, "b = box(width = 1, height = 2, depth = 3)")

	hints, err := server.InlayHint(context.Background(), &lsp.InlayHintParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 99},
		},
	})
	if err != nil {
		t.Fatalf("InlayHint() error: %v", err)
	}

	if len(hints) != 0 {
		t.Errorf("named arguments should produce no hints, got %v", hints)
	}
}
