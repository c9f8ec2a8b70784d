package raster

import (
	"log/slog"

	"scene-rasterizer/internal/mathutil"
)

// Color is a linear RGBA color. Channels are not clamped until a pixel is written.
type Color [4]float64

// White is the color of a vertex that has no entry in the color buffer.
var White = Color{1, 1, 1, 1}

// Stats counts what happened to submitted triangles and their fragments.
type Stats struct {
	Triangles     int
	Culled        int
	Degenerate    int
	Fragments     int // covered on-screen pixels
	DepthRejected int
	Written       int
}

// Rasterizer owns one framebuffer and the pipeline state that applies to it.
// It is not safe for concurrent use.
type Rasterizer struct {
	fb       *FrameBuffer
	proj     Projector
	features Features
	stats    Stats
	logger   *slog.Logger
}

// New allocates a w×h framebuffer with every feature disabled and no transform.
func New(w, h int) *Rasterizer {
	fb := NewFrameBuffer(w, h)
	return &Rasterizer{
		fb:     fb,
		proj:   Projector{Width: fb.Width, Height: fb.Height},
		logger: slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger used for per-triangle diagnostics. nil silences it.
func (r *Rasterizer) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	r.logger = l
}

// Enable turns features on. There is no way to turn one off again.
func (r *Rasterizer) Enable(f Features) {
	r.features |= f
}

func (r *Rasterizer) Features() Features { return r.features }

// SetTransform replaces the active vertex transform.
func (r *Rasterizer) SetTransform(m mathutil.Mat4) {
	r.proj.SetTransform(m)
}

func (r *Rasterizer) FrameBuffer() *FrameBuffer { return r.fb }

func (r *Rasterizer) Stats() Stats { return r.stats }

// DrawTriangle projects three raw positions and rasterizes the triangle.
func (r *Rasterizer) DrawTriangle(pos [3]mathutil.Vec4, col [3]Color) {
	var sv [3]ScreenVertex
	for i := range pos {
		sv[i] = r.proj.Project(pos[i])
	}
	r.DrawScreenTriangle(sv, col)
}

// DrawScreenTriangle rasterizes an already projected triangle.
func (r *Rasterizer) DrawScreenTriangle(v [3]ScreenVertex, col [3]Color) {
	r.stats.Triangles++
	tri, ok := r.setupTriangle(v, col)
	if !ok {
		return
	}
	r.drawHalf(&tri, true)
	r.drawHalf(&tri, false)
}
