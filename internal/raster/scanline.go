package raster

import "math"

const (
	edgeEpsilon   = 1e-9  // minimum edge height that gets a non-zero step
	spanEpsilon   = 1e-9  // minimum span width that gets a non-zero step
	integerSnap   = 1e-10 // distance at which a left edge counts as on a column
	maxCoordinate = 1 << 30
)

// edgeStep returns the per-unit-y increment of every attribute from a to b.
// Horizontal edges step by zero.
func edgeStep(a, b *setupVertex) attrs {
	var s attrs
	dy := b.y - a.y
	if math.Abs(dy) < edgeEpsilon {
		return s
	}
	for k := range s {
		s[k] = (b.a[k] - a.a[k]) / dy
	}
	return s
}

// edgeEval evaluates an edge starting at base at scanline y.
func edgeEval(base *setupVertex, step *attrs, y float64) attrs {
	t := y - base.y
	var out attrs
	for k := range out {
		out[k] = base.a[k] + step[k]*t
	}
	return out
}

// spanStart picks the first covered column for a span whose left edge is at
// xl. A left edge lying on a column boundary includes that column.
func spanStart(xl float64) float64 {
	if rx := math.Round(xl); math.Abs(xl-rx) < integerSnap {
		return rx
	}
	return math.Ceil(xl)
}

// spanEnd is the last covered column for a span whose right edge is at xr.
func spanEnd(xr float64) float64 {
	return math.Ceil(xr) - 1
}

// clampCoord keeps a float coordinate inside a range an int can hold.
func clampCoord(v float64) int {
	if v < -maxCoordinate {
		return -maxCoordinate
	}
	if v > maxCoordinate {
		return maxCoordinate
	}
	return int(v)
}

// drawHalf scans one half of a sorted triangle. The upper half runs from
// v0 to v1 along the short edge v0→v1, the lower half from v1 to v2 along
// v1→v2; both use the long edge v0→v2. Row ranges are [ceil(base), ceil(tip)-1],
// so the halves partition the rows without sharing the middle one.
func (r *Rasterizer) drawHalf(tri *[3]setupVertex, upper bool) {
	var base1, tip1 *setupVertex
	base2, tip2 := &tri[0], &tri[2]
	if upper {
		base1, tip1 = &tri[0], &tri[1]
	} else {
		base1, tip1 = &tri[1], &tri[2]
	}
	if tip1.y-base1.y <= edgeEpsilon {
		return
	}

	step1 := edgeStep(base1, tip1)
	step2 := edgeStep(base2, tip2)

	yStart := math.Ceil(base1.y)
	yEnd := math.Ceil(tip1.y) - 1
	if yStart < 0 {
		yStart = 0
	}
	if last := float64(r.fb.Height - 1); yEnd > last {
		yEnd = last
	}
	if yEnd < yStart {
		return
	}

	for y := int(yStart); y <= int(yEnd); y++ {
		fy := float64(y)
		left := edgeEval(base1, &step1, fy)
		right := edgeEval(base2, &step2, fy)
		if left[attrX] > right[attrX] {
			left, right = right, left
		}
		r.drawSpan(y, &left, &right)
	}
}

// drawSpan fills the covered columns of row y between the left and right
// edge values, stepping every attribute linearly in x.
func (r *Rasterizer) drawSpan(y int, left, right *attrs) {
	xl, xr := left[attrX], right[attrX]
	dx := xr - xl
	if !(dx >= 0) {
		return
	}

	xs := spanStart(xl)
	xe := spanEnd(xr)
	if xe < xs {
		return
	}

	var cur, d attrs
	if dx > spanEpsilon {
		t0 := (xs - xl) / dx
		for k := range cur {
			cur[k] = left[k] + (right[k]-left[k])*t0
			d[k] = (right[k] - left[k]) / dx
		}
	} else {
		cur = *left
	}

	x0 := clampCoord(xs)
	x1 := clampCoord(xe)
	if xs < 0 {
		// Columns left of the image are stepped over in one go.
		for k := range cur {
			cur[k] -= d[k] * xs
		}
		x0 = 0
	}
	if x1 > r.fb.Width-1 {
		x1 = r.fb.Width - 1
	}

	for x := x0; x <= x1; x++ {
		r.writePixel(x, y, &cur)
		for k := range cur {
			cur[k] += d[k]
		}
	}
}
