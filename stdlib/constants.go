package stdlib

import "math"

// Planes are the built-in construction planes.
var Planes = map[string]Kind{
	"XY": KindPlane,
	"XZ": KindPlane,
	"YZ": KindPlane,
}

// Math are the built-in scalar constants with their values, shown in hover.
var Math = map[string]float64{
	"PI":  math.Pi,
	"E":   math.E,
	"TAU": 2 * math.Pi,
}

// Units are the unit symbols usable as identifiers (in @settings and type
// annotations).
var Units = map[string]bool{
	"mm":   true,
	"cm":   true,
	"m":    true,
	"in":   true,
	"inch": true,
	"ft":   true,
	"yd":   true,
	"deg":  true,
	"rad":  true,
}

// Tags are the sentinel edge references.
var Tags = map[string]Kind{
	"START": KindTag,
	"END":   KindTag,
}

// ConstantKind resolves a name against every constant table. The boolean
// reports whether the name is a constant at all.
func ConstantKind(name string) (Kind, bool) {
	if k, ok := Planes[name]; ok {
		return k, true
	}

	if _, ok := Math[name]; ok {
		return KindScalar, true
	}

	if Units[name] {
		return KindScalar, true
	}

	if k, ok := Tags[name]; ok {
		return k, true
	}

	return KindVoid, false
}

// ConstantNames returns every constant name grouped for completion:
// planes, math, units, tags.
func ConstantNames() (planes, mathNames, unitNames, tagNames []string) {
	for name := range Planes {
		planes = append(planes, name)
	}

	for name := range Math {
		mathNames = append(mathNames, name)
	}

	for name := range Units {
		unitNames = append(unitNames, name)
	}

	for name := range Tags {
		tagNames = append(tagNames, name)
	}

	return planes, mathNames, unitNames, tagNames
}
