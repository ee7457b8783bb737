package lsp_test

import (
	"context"
	"testing"

	"go.lsp.dev/protocol"
)

func TestFoldingRanges_Braces(t *testing.T) {
	t.Parallel()

	source := "fn f() {\n  a = 1\n  return a\n}"
	server, _, uri := openDoc(t, source)

	ranges, err := server.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("FoldingRanges() error: %v", err)
	}

	if len(ranges) != 1 {
		t.Fatalf("expected 1 folding range, got %d", len(ranges))
	}

	if ranges[0].StartLine != 0 || ranges[0].EndLine != 3 {
		t.Errorf("range = %d-%d, want 0-3", ranges[0].StartLine, ranges[0].EndLine)
	}
}

func TestFoldingRanges_SingleLineBracesDoNotFold(t *testing.T) {
	t.Parallel()

	server, _, uri := openDoc(t, "o = { a = 1, b = 2 }")

	ranges, err := server.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("FoldingRanges() error: %v", err)
	}

	if len(ranges) != 0 {
		t.Errorf("single-line braces should not fold, got %v", ranges)
	}
}

func TestFoldingRanges_Imports(t *testing.T) {
	t.Parallel()

	source := "import \"./a.kcl\"\nimport \"./b.kcl\"\nimport \"./c.kcl\"\nx = 1"
	server, _, uri := openDoc(t, source)

	ranges, err := server.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("FoldingRanges() error: %v", err)
	}

	var imports *protocol.FoldingRange

	for i := range ranges {
		if ranges[i].Kind == protocol.ImportsFoldingRange {
			imports = &ranges[i]

			break
		}
	}

	if imports == nil {
		t.Fatal("expected an imports folding range")
	}

	if imports.StartLine != 0 || imports.EndLine != 2 {
		t.Errorf("imports range = %d-%d, want 0-2", imports.StartLine, imports.EndLine)
	}
}

func TestFoldingRanges_MidFileImportRun(t *testing.T) {
	t.Parallel()

	source := "x = 1\nimport \"./a.kcl\"\nimport \"./b.kcl\"\ny = 2\nimport \"./c.kcl\"\nimport \"./d.kcl\"\nimport \"./e.kcl\""
	server, _, uri := openDoc(t, source)

	ranges, err := server.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("FoldingRanges() error: %v", err)
	}

	var imports []protocol.FoldingRange

	for _, r := range ranges {
		if r.Kind == protocol.ImportsFoldingRange {
			imports = append(imports, r)
		}
	}

	// Every consecutive run folds, not just a leading one.
	if len(imports) != 2 {
		t.Fatalf("expected 2 import folds, got %d", len(imports))
	}

	if imports[0].StartLine != 1 || imports[0].EndLine != 2 {
		t.Errorf("first run = %d-%d, want 1-2", imports[0].StartLine, imports[0].EndLine)
	}

	if imports[1].StartLine != 4 || imports[1].EndLine != 6 {
		t.Errorf("second run = %d-%d, want 4-6", imports[1].StartLine, imports[1].EndLine)
	}
}
