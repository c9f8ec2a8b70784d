package raster

import "math"

// Slots of the interpolated attribute vector. Every vertex carries all of
// them; z and w are simply ignored when depth or hyp is off.
const (
	attrX = iota
	attrZ
	attrW // clip w, or 1/w once the hyp pre-pass ran
	attrR
	attrG
	attrB
	attrA
	attrCount
)

// areaEpsilon is the smallest |cross| a sorted triangle may have.
const areaEpsilon = 1e-9

type attrs [attrCount]float64

// setupVertex is a vertex after triangle setup: its screen y plus every
// quantity interpolated across the triangle.
type setupVertex struct {
	y float64
	a attrs
}

func signedArea(v0, v1, v2 *ScreenVertex) float64 {
	return (v1.X-v0.X)*(v2.Y-v0.Y) - (v2.X-v0.X)*(v1.Y-v0.Y)
}

// setupTriangle culls, orders the vertices top to bottom, rejects degenerate
// triangles and applies the perspective pre-pass. ok is false when nothing
// should be drawn.
func (r *Rasterizer) setupTriangle(v [3]ScreenVertex, col [3]Color) (tri [3]setupVertex, ok bool) {
	if r.features.Has(Cull) && signedArea(&v[0], &v[1], &v[2]) >= 0 {
		r.stats.Culled++
		return tri, false
	}

	for i := range v {
		tri[i] = setupVertex{
			y: v[i].Y,
			a: attrs{v[i].X, v[i].Z, v[i].W, col[i][0], col[i][1], col[i][2], col[i][3]},
		}
	}

	// Stable: equal y keeps submission order.
	if tri[0].y > tri[1].y {
		tri[0], tri[1] = tri[1], tri[0]
	}
	if tri[1].y > tri[2].y {
		tri[1], tri[2] = tri[2], tri[1]
	}
	if tri[0].y > tri[1].y {
		tri[0], tri[1] = tri[1], tri[0]
	}

	x0, y0 := tri[0].a[attrX], tri[0].y
	x1, y1 := tri[1].a[attrX], tri[1].y
	x2, y2 := tri[2].a[attrX], tri[2].y
	area := math.Abs((x1-x0)*(y2-y0) - (x2-x0)*(y1-y0))
	if !(area >= areaEpsilon) {
		r.stats.Degenerate++
		r.logger.Debug("raster: degenerate triangle", "area", area)
		return tri, false
	}

	if r.features.Has(Hyp) {
		for i := range tri {
			invW := 1.0 / tri[i].a[attrW]
			tri[i].a[attrW] = invW
			for k := attrR; k <= attrA; k++ {
				tri[i].a[k] *= invW
			}
		}
	}
	return tri, true
}
