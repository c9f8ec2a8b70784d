package raster

import "math"

// quantizeBias counters truncation of values like 0.2*255 that land just
// below an integer. Only the linear path uses it.
const quantizeBias = 1e-10

// LinearToSRGB applies the sRGB transfer function to a linear value in [0,1].
func LinearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return math.Min(1.055*math.Pow(c, 1.0/2.4)-0.055, 1.0)
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Quantize converts a clamped channel in [0,1] to 8 bits by truncation.
func Quantize(v float64, srgb bool) uint8 {
	if srgb {
		return uint8(v * 255)
	}
	return uint8(v*255 + quantizeBias)
}

// FinalizeColor clamps c, sRGB-encodes rgb when srgb is set, and quantizes.
func FinalizeColor(c Color, srgb bool) [4]uint8 {
	var out [4]uint8
	for k := 0; k < 4; k++ {
		v := clamp01(c[k])
		if srgb && k < 3 {
			v = LinearToSRGB(v)
		}
		out[k] = Quantize(v, srgb)
	}
	return out
}

// writePixel resolves one fragment: undoes the perspective pre-pass, runs the
// depth test and stores the finalized color.
func (r *Rasterizer) writePixel(x, y int, cur *attrs) {
	r.stats.Fragments++

	col := Color{cur[attrR], cur[attrG], cur[attrB], cur[attrA]}
	if r.features.Has(Hyp) {
		if invW := cur[attrW]; math.Abs(invW) > wEpsilon {
			for k := range col {
				col[k] /= invW
			}
		}
	}

	idx := y*r.fb.Width + x
	z := cur[attrZ]
	depth := r.features.Has(Depth)
	if depth && !(z < r.fb.ZBuf[idx]) {
		r.stats.DepthRejected++
		return
	}

	px := FinalizeColor(col, r.features.Has(SRGB))
	copy(r.fb.Color[idx*4:idx*4+4], px[:])
	if depth {
		r.fb.ZBuf[idx] = z
	}
	r.stats.Written++
}
