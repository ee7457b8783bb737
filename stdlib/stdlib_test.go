package stdlib_test

import (
	"math"
	"sort"
	"testing"

	"github.com/kclang/kcl-go/stdlib"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	sig, ok := stdlib.Lookup("box")
	if !ok {
		t.Fatal("box must be registered")
	}

	if sig.Returns != stdlib.KindShape {
		t.Errorf("box returns %v, want Shape", sig.Returns)
	}

	names := []string{"width", "height", "depth"}
	for i, param := range sig.Params {
		if param.Name != names[i] || param.Kind != stdlib.KindScalar {
			t.Errorf("param %d = %+v, want Scalar %s", i, param, names[i])
		}
	}

	if _, ok := stdlib.Lookup("vector::add"); !ok {
		t.Error("qualified names must resolve")
	}

	if _, ok := stdlib.Lookup("nope"); ok {
		t.Error("unknown names must not resolve")
	}
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	names := stdlib.Names()
	if !sort.StringsAreSorted(names) {
		t.Error("Names() must be sorted")
	}

	if len(names) < 30 {
		t.Errorf("registry unexpectedly small: %d operations", len(names))
	}
}

func TestConstantKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind stdlib.Kind
	}{
		{"XY", stdlib.KindPlane},
		{"XZ", stdlib.KindPlane},
		{"YZ", stdlib.KindPlane},
		{"PI", stdlib.KindScalar},
		{"TAU", stdlib.KindScalar},
		{"mm", stdlib.KindScalar},
		{"START", stdlib.KindTag},
		{"END", stdlib.KindTag},
	}

	for _, tt := range tests {
		kind, ok := stdlib.ConstantKind(tt.name)
		if !ok {
			t.Errorf("%s must be a constant", tt.name)

			continue
		}

		if kind != tt.kind {
			t.Errorf("%s kind = %v, want %v", tt.name, kind, tt.kind)
		}
	}

	if _, ok := stdlib.ConstantKind("nope"); ok {
		t.Error("unknown names must not be constants")
	}
}

func TestMathValues(t *testing.T) {
	t.Parallel()

	if stdlib.Math["PI"] != math.Pi {
		t.Error("PI value mismatch")
	}

	if stdlib.Math["TAU"] != 2*math.Pi {
		t.Error("TAU value mismatch")
	}
}
