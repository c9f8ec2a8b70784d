package raster

import "scene-rasterizer/internal/mathutil"

// wEpsilon replaces a clip w of exactly zero before the perspective divide.
const wEpsilon = 1e-20

// ScreenVertex is a projected vertex: pixel-space x/y, NDC z, and the clip w
// kept for perspective-correct interpolation.
type ScreenVertex struct {
	X, Y, Z, W float64
}

// Projector maps homogeneous positions to screen space through the active
// transform, the perspective divide and the viewport.
type Projector struct {
	Width, Height int

	transform    mathutil.Mat4
	hasTransform bool
}

// SetTransform replaces the active transform. It stays active until replaced.
func (p *Projector) SetTransform(m mathutil.Mat4) {
	p.transform = m
	p.hasTransform = true
}

// Transform returns the active transform, or identity if none was set.
func (p *Projector) Transform() mathutil.Mat4 {
	if !p.hasTransform {
		return mathutil.Mat4Identity()
	}
	return p.transform
}

// Clip applies the active transform to a raw position.
func (p *Projector) Clip(v mathutil.Vec4) mathutil.Vec4 {
	if !p.hasTransform {
		return v
	}
	return p.transform.MulVec4(v)
}

// Project transforms v and maps it to screen space. NDC y grows with screen
// y; callers wanting a top-left origin flip y themselves.
func (p *Projector) Project(v mathutil.Vec4) ScreenVertex {
	c := p.Clip(v)
	w := c[3]
	if w == 0 {
		w = wEpsilon
	}
	xn := c[0] / w
	yn := c[1] / w
	zn := c[2] / w
	return ScreenVertex{
		X: (xn + 1.0) * 0.5 * float64(p.Width),
		Y: (yn + 1.0) * 0.5 * float64(p.Height),
		Z: zn,
		W: w,
	}
}
