package raster

import "strings"

// Features is the set of enabled pipeline stages. Bits are only ever added.
type Features uint8

const (
	Depth Features = 1 << iota // strict less-than depth test
	SRGB                       // linear → sRGB encode before quantizing
	Hyp                        // perspective-correct (hyperbolic) interpolation
	Cull                       // discard triangles with non-negative screen area
)

var featureNames = [...]struct {
	f    Features
	name string
}{
	{Depth, "depth"},
	{SRGB, "sRGB"},
	{Hyp, "hyp"},
	{Cull, "cull"},
}

// ParseFeature maps a scene keyword to its feature bit.
func ParseFeature(name string) (Features, bool) {
	for _, fn := range featureNames {
		if fn.name == name {
			return fn.f, true
		}
	}
	return 0, false
}

// Has reports whether every bit of x is enabled.
func (f Features) Has(x Features) bool {
	return f&x == x
}

func (f Features) String() string {
	var names []string
	for _, fn := range featureNames {
		if f.Has(fn.f) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
