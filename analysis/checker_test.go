package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclang/kcl-go"
	"github.com/kclang/kcl-go/analysis"
)

func check(t *testing.T, source string) error {
	t.Helper()

	prog, err := kcl.Parse(source)
	require.NoError(t, err, "source must parse: %s", source)

	return analysis.Check(prog)
}

func TestCheck_ValidPrograms(t *testing.T) {
	t.Parallel()

	sources := []string{
		"b = box(width = 10mm, height = 20mm, depth = 30mm)",
		"b = box(10, 20, 30)",
		"s = startSketchOn(XY) |> startProfile(at = [0, 0])",
		"r = sphere(radius = 5)",
		"x = 10mm + 5mm",
		"x = 10mm * 45deg",
		"p = [1, 2, 3]\nfirst = p[0]",
		"r = [0..5]",
		"o = { a = 1, b = 2 }\nv = o.a",
		"x = if 1 > 0 { 1 } else { 2 }",
		"fn add(@a, @b) { return a + b }\nr = add(1, 2)",
		"x = PI * 2",
		"plane = XY\ns = startSketchOn(plane)",
		"c = cone(radius = 5, height = 10)",
		"t = line(startSketchOn(XY) |> startProfile(at = [0, 0]), end = [1, 1], tag = $e)",
	}

	for _, source := range sources {
		assert.NoError(t, check(t, source), "source: %s", source)
	}
}

func TestCheck_MissingArgument(t *testing.T) {
	t.Parallel()

	err := check(t, "b = box(width = 10mm)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing argument")
	assert.Contains(t, err.Error(), "box")
}

func TestCheck_UnknownOperation(t *testing.T) {
	t.Parallel()

	err := check(t, "x = unknownOp()")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown operation: unknownOp")
}

func TestCheck_UnknownVariable(t *testing.T) {
	t.Parallel()

	err := check(t, "y = missing + 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown variable: missing")
}

func TestCheck_UnknownArgument(t *testing.T) {
	t.Parallel()

	err := check(t, "b = box(width = 1, height = 2, depth = 3, girth = 4)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown argument 'girth'")
}

func TestCheck_IncompatibleUnits(t *testing.T) {
	t.Parallel()

	err := check(t, "x = 10mm + 45deg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incompatible units")

	err = check(t, "x = 10mm < 45deg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incompatible units")

	// Multiplicative operators permit mixed units.
	assert.NoError(t, check(t, "x = 10mm * 45deg"))
}

func TestCheck_ArgumentKinds(t *testing.T) {
	t.Parallel()

	err := check(t, "s = startSketchOn(plane = 5)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects Plane")
}

func TestCheck_Fuse(t *testing.T) {
	t.Parallel()

	valid := "a = box(1, 2, 3)\nb = sphere(radius = 1)\nc = fuse(a, b)"
	assert.NoError(t, check(t, valid))

	err := check(t, "a = box(1, 2, 3)\nc = fuse(a)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuse requires at least 2 arguments")

	err = check(t, "c = fuse(1, 2)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects Shape")
}

func TestCheck_UserFunctionArity(t *testing.T) {
	t.Parallel()

	err := check(t, "fn add(@a, @b) { return a + b }\nr = add(1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add requires at least 2 arguments")
}

func TestCheck_UserFunctionExcessPositional(t *testing.T) {
	t.Parallel()

	err := check(t, "fn add(@a, @b) { return a + b }\nr = add(1, 2, 3, 4)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown argument '$2' for operation 'add'")
}

func TestCheck_PipeIntoUserFunction(t *testing.T) {
	t.Parallel()

	// The piped value fills the first parameter slot.
	assert.NoError(t, check(t, "fn double(@n) { return n * 2 }\nr = 3 |> double()"))

	// Piping plus positional arguments past the parameter list fails.
	err := check(t, "fn double(@n) { return n * 2 }\nr = 3 |> double(4)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown argument '$0' for operation 'double'")

	// User parameters are Scalar placeholders; a piped Sketch is rejected
	// just like an explicit one.
	err = check(t, "fn f(@a) { return a }\nx = startSketchOn(XY) |> f()")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Argument 'a' of f expects Scalar")

	// A parameterless function has no slot for the piped value.
	err = check(t, "fn one() { return 1 }\nx = 2 |> one()")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown argument 'piped' for operation 'one'")
}

func TestCheck_PipeFirstParameter(t *testing.T) {
	t.Parallel()

	// The piped value feeds the first parameter: a Sketch flows into
	// startProfile's sketch parameter.
	assert.NoError(t, check(t, "s = startSketchOn(XY) |> startProfile(at = [0, 0])"))

	// A Shape cannot flow into a Sketch-first operation.
	err := check(t, "b = box(1, 2, 3) |> startProfile(at = [0, 0])")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects Sketch")
}

func TestCheck_LexicalScoping(t *testing.T) {
	t.Parallel()

	// Parameters exist only inside the function body.
	err := check(t, "fn f(@a) { return a }\nx = a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown variable: a")

	// Outer bindings are visible inside the body.
	assert.NoError(t, check(t, "base = 2\nfn scale2(@n) { return n * base }\nr = scale2(3)"))
}

func TestCheck_IndexAndMember(t *testing.T) {
	t.Parallel()

	err := check(t, "o = { a = 1 }\nv = o[0]")
	require.Error(t, err, "indexing an object should fail")

	err = check(t, "p = [1, 2]\nv = p.x")
	require.Error(t, err, "member access on a point should fail")
}

func TestCheck_NoStd(t *testing.T) {
	t.Parallel()

	err := check(t, "@no_std\nb = box(1, 2, 3)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown operation: box")
}
