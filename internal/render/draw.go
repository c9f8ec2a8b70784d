package render

import (
	"scene-rasterizer/internal/mathutil"
	"scene-rasterizer/internal/raster"
)

// color resolves the color of vertex i. Color and position buffers are
// joined by index; a missing color is opaque white.
func (r *Renderer) color(i int) raster.Color {
	if i < len(r.colors) {
		return r.colors[i]
	}
	return raster.White
}

func (r *Renderer) drawIndexed(i0, i1, i2 int) {
	pos := [3]mathutil.Vec4{r.positions[i0], r.positions[i1], r.positions[i2]}
	col := [3]raster.Color{r.color(i0), r.color(i1), r.color(i2)}
	r.rast.DrawTriangle(pos, col)
}

// drawArrays draws triangles from consecutive vertices. It stops at the
// first triangle that runs past the position buffer.
func (r *Renderer) drawArrays(first, count int) {
	for t := 0; t < count; t += 3 {
		i0 := first + t
		if i0 < 0 || i0+2 >= len(r.positions) {
			r.logger.Debug("render: drawArraysTriangles truncated", "first", first, "count", count, "at", t)
			return
		}
		r.drawIndexed(i0, i0+1, i0+2)
	}
}

// drawElements draws triangles whose vertex indices come from the element
// buffer. It stops at the first triangle whose indices run past either buffer.
func (r *Renderer) drawElements(count, first int) {
	for t := 0; t < count; t += 3 {
		e := first + t
		if e < 0 || e+2 >= len(r.elements) {
			r.logger.Debug("render: drawElementsTriangles truncated", "first", first, "count", count, "at", t)
			return
		}
		i0, i1, i2 := r.elements[e], r.elements[e+1], r.elements[e+2]
		if !r.validVertex(i0) || !r.validVertex(i1) || !r.validVertex(i2) {
			r.logger.Debug("render: element out of range", "indices", []int{i0, i1, i2}, "positions", len(r.positions))
			return
		}
		r.drawIndexed(i0, i1, i2)
	}
}

func (r *Renderer) validVertex(i int) bool {
	return i >= 0 && i < len(r.positions)
}
