package lsp_test

import (
	"context"
	"testing"

	"go.lsp.dev/protocol"
)

func completionLabels(t *testing.T, text string) map[string]protocol.CompletionItemKind {
	t.Helper()

	server, _, uri := openDoc(t, text)

	list, err := server.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	labels := make(map[string]protocol.CompletionItemKind, len(list.Items))
	for _, item := range list.Items {
		labels[item.Label] = item.Kind
	}

	return labels
}

func TestCompletion_MergesAllSources(t *testing.T) {
	t.Parallel()

	labels := completionLabels(t, "myWidth = 10\nfn helper(@x) { return x }")

	tests := []struct {
		label string
		kind  protocol.CompletionItemKind
	}{
		{"box", protocol.CompletionItemKindFunction},
		{"startSketchOn", protocol.CompletionItemKindFunction},
		{"vector::add", protocol.CompletionItemKindFunction},
		{"XY", protocol.CompletionItemKindConstant},
		{"PI", protocol.CompletionItemKindConstant},
		{"mm", protocol.CompletionItemKindConstant},
		{"START", protocol.CompletionItemKindConstant},
		{"let", protocol.CompletionItemKindKeyword},
		{"fn", protocol.CompletionItemKindKeyword},
		{"myWidth", protocol.CompletionItemKindVariable},
		{"helper", protocol.CompletionItemKindFunction},
	}

	for _, tt := range tests {
		kind, ok := labels[tt.label]
		if !ok {
			t.Errorf("completion missing %q", tt.label)

			continue
		}

		if kind != tt.kind {
			t.Errorf("%q kind = %v, want %v", tt.label, kind, tt.kind)
		}
	}
}

func TestCompletion_ParseErrorDropsProgramNames(t *testing.T) {
	t.Parallel()

	labels := completionLabels(t, "myWidth = 10\nx = ")

	if _, ok := labels["myWidth"]; ok {
		t.Error("program names require a successful parse")
	}

	// Stdlib and keywords are still offered.
	if _, ok := labels["box"]; !ok {
		t.Error("stdlib names should survive parse errors")
	}

	if _, ok := labels["let"]; !ok {
		t.Error("keywords should survive parse errors")
	}
}

func TestCompletion_NoStdHidesRegistry(t *testing.T) {
	t.Parallel()

	labels := completionLabels(t, "@no_std\nx = 1")

	if _, ok := labels["box"]; ok {
		t.Error("no_std documents should not list stdlib operations")
	}

	if _, ok := labels["x"]; !ok {
		t.Error("program names should still be listed")
	}
}
