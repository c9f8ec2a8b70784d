package raster

import (
	"image/color"
	"testing"

	"scene-rasterizer/internal/mathutil"
)

var (
	red   = Color{1, 0, 0, 1}
	green = Color{0, 1, 0, 1}
	blue  = Color{0, 0, 1, 1}
)

func solid(c Color) [3]Color { return [3]Color{c, c, c} }

// fullScreen covers every pixel of the viewport at NDC depth z.
func fullScreen(z float64) [3]mathutil.Vec4 {
	return [3]mathutil.Vec4{
		{-1, -1, z, 1},
		{3, -1, z, 1},
		{-1, 3, z, 1},
	}
}

func countWritten(fb *FrameBuffer) int {
	n := 0
	for i := 3; i < len(fb.Color); i += 4 {
		if fb.Color[i] != 0 {
			n++
		}
	}
	return n
}

func TestNewFrameBuffer_Cleared(t *testing.T) {
	fb := NewFrameBuffer(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := fb.At(x, y); got != (color.NRGBA{}) {
				t.Errorf("At(%d,%d) = %v, want transparent", x, y, got)
			}
			if got := fb.Depth(x, y); got != ClearDepth {
				t.Errorf("Depth(%d,%d) = %v, want %v", x, y, got, ClearDepth)
			}
		}
	}
}

func TestNewFrameBuffer_SizeMatchesAllocation(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"negative", -3, 2, 0, 2},
		{"oversized", MaxDimension + 5, 1, MaxDimension, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer(tt.w, tt.h)
			if fb.Width != tt.wantW || fb.Height != tt.wantH {
				t.Fatalf("size = %dx%d, want %dx%d", fb.Width, fb.Height, tt.wantW, tt.wantH)
			}
			if len(fb.ZBuf) != fb.Width*fb.Height || len(fb.Color) != 4*fb.Width*fb.Height {
				t.Errorf("buffers hold %d/%d entries for %dx%d", len(fb.ZBuf), len(fb.Color), fb.Width, fb.Height)
			}
		})
	}
}

func TestDrawTriangle_FullCoverageWithDepth(t *testing.T) {
	r := New(2, 2)
	r.Enable(Depth)
	r.DrawTriangle(fullScreen(0.25), solid(White))

	fb := r.FrameBuffer()
	want := color.NRGBA{255, 255, 255, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := fb.At(x, y); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
			if got := fb.Depth(x, y); got != 0.25 {
				t.Errorf("Depth(%d,%d) = %v, want 0.25", x, y, got)
			}
		}
	}
	if s := r.Stats(); s.Written != 4 || s.DepthRejected != 0 {
		t.Errorf("Stats = %+v, want 4 written, 0 rejected", s)
	}
}

func TestDrawTriangle_DepthOrdering(t *testing.T) {
	tests := []struct {
		name   string
		depth  bool
		first  float64
		second float64
		want   color.NRGBA
	}{
		{"far then near with depth", true, 0.5, -0.5, color.NRGBA{0, 255, 0, 255}},
		{"near then far with depth", true, -0.5, 0.5, color.NRGBA{255, 0, 0, 255}},
		{"equal z keeps first", true, 0.1, 0.1, color.NRGBA{255, 0, 0, 255}},
		{"far then near without depth", false, 0.5, -0.5, color.NRGBA{0, 255, 0, 255}},
		{"near then far without depth", false, -0.5, 0.5, color.NRGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(2, 2)
			if tt.depth {
				r.Enable(Depth)
			}
			r.DrawTriangle(fullScreen(tt.first), solid(red))
			r.DrawTriangle(fullScreen(tt.second), solid(green))
			if got := r.FrameBuffer().At(0, 0); got != tt.want {
				t.Errorf("At(0,0) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawTriangle_WithoutDepthLeavesBufferUntouched(t *testing.T) {
	r := New(2, 2)
	r.DrawTriangle(fullScreen(-0.5), solid(red))
	if got := r.FrameBuffer().Depth(0, 0); got != ClearDepth {
		t.Errorf("Depth(0,0) = %v, want %v", got, ClearDepth)
	}
}

func TestDrawScreenTriangle_Cull(t *testing.T) {
	ccw := [3]ScreenVertex{{0, 0, 0, 1}, {4, 0, 0, 1}, {0, 4, 0, 1}} // cross = +16
	cw := [3]ScreenVertex{{0, 0, 0, 1}, {0, 4, 0, 1}, {4, 0, 0, 1}}  // cross = -16

	r := New(4, 4)
	r.Enable(Cull)
	r.DrawScreenTriangle(ccw, solid(red))
	if n := countWritten(r.FrameBuffer()); n != 0 {
		t.Fatalf("positive-area triangle should be culled, %d pixels written", n)
	}
	if r.Stats().Culled != 1 {
		t.Errorf("Culled = %d, want 1", r.Stats().Culled)
	}

	r.DrawScreenTriangle(cw, solid(red))
	if n := countWritten(r.FrameBuffer()); n == 0 {
		t.Error("negative-area triangle should survive culling")
	}

	// Without cull, both windings draw.
	r2 := New(4, 4)
	r2.DrawScreenTriangle(ccw, solid(red))
	if n := countWritten(r2.FrameBuffer()); n == 0 {
		t.Error("culling disabled: triangle should be drawn")
	}
}

func TestDrawScreenTriangle_ZeroAreaWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		v    [3]ScreenVertex
	}{
		{"collinear", [3]ScreenVertex{{0, 0, 0, 1}, {1, 1, 0, 1}, {3, 3, 0, 1}}},
		{"repeated vertex", [3]ScreenVertex{{1, 1, 0, 1}, {1, 1, 0, 1}, {3, 2, 0, 1}}},
		{"horizontal line", [3]ScreenVertex{{0, 2, 0, 1}, {2, 2, 0, 1}, {4, 2, 0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(4, 4)
			r.DrawScreenTriangle(tt.v, solid(red))
			if n := countWritten(r.FrameBuffer()); n != 0 {
				t.Errorf("%d pixels written, want 0", n)
			}
			if r.Stats().Degenerate != 1 {
				t.Errorf("Degenerate = %d, want 1", r.Stats().Degenerate)
			}
		})
	}
}

func TestDrawScreenTriangle_SharedEdgeCoveredOnce(t *testing.T) {
	r := New(4, 4)
	r.DrawScreenTriangle([3]ScreenVertex{{0, 0, 0, 1}, {4, 0, 0, 1}, {4, 4, 0, 1}}, solid(red))
	r.DrawScreenTriangle([3]ScreenVertex{{0, 0, 0, 1}, {4, 4, 0, 1}, {0, 4, 0, 1}}, solid(blue))

	if s := r.Stats(); s.Written != 16 {
		t.Errorf("Written = %d, want 16 (no gaps, no double coverage)", s.Written)
	}
	fb := r.FrameBuffer()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := color.NRGBA{255, 0, 0, 255}
			if x < y {
				want = color.NRGBA{0, 0, 255, 255}
			}
			if got := fb.At(x, y); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawScreenTriangle_UncoveredPixelsStayTransparent(t *testing.T) {
	r := New(4, 4)
	// Covers only the top-left corner pixel region.
	r.DrawScreenTriangle([3]ScreenVertex{{0, 0, 0, 1}, {2, 0, 0, 1}, {0, 2, 0, 1}}, solid(White))

	fb := r.FrameBuffer()
	covered := map[[2]int]bool{{0, 0}: true, {1, 0}: true, {0, 1}: true}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := fb.At(x, y)
			if covered[[2]int{x, y}] {
				if got.A != 255 {
					t.Errorf("At(%d,%d) = %v, want opaque", x, y, got)
				}
				continue
			}
			if got != (color.NRGBA{}) {
				t.Errorf("At(%d,%d) = %v, want transparent", x, y, got)
			}
		}
	}
}

func TestDrawScreenTriangle_PartiallyOffscreen(t *testing.T) {
	r := New(4, 4)
	r.DrawScreenTriangle([3]ScreenVertex{{-10, -10, 0, 1}, {20, -10, 0, 1}, {-10, 20, 0, 1}}, solid(green))
	if n := countWritten(r.FrameBuffer()); n != 16 {
		t.Errorf("%d pixels written, want 16", n)
	}
}

func TestDrawScreenTriangle_PerspectiveCorrect(t *testing.T) {
	// Flat top: row 0 spans v0 (x=0) to v1 (x=4).
	v := [3]ScreenVertex{{0, 0, 0, 2}, {4, 0, 0, 6}, {0, 4, 0, 4}}
	col := [3]Color{red, green, blue}

	hyp := New(4, 4)
	hyp.Enable(Hyp)
	hyp.DrawScreenTriangle(v, col)

	lin := New(4, 4)
	lin.DrawScreenTriangle(v, col)

	// At a vertex's own position the original color comes back.
	if got := hyp.FrameBuffer().At(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("hyp At(0,0) = %v, want pure red", got)
	}

	// Halfway along the top row the two modes disagree.
	h := hyp.FrameBuffer().At(2, 0)
	l := lin.FrameBuffer().At(2, 0)
	if !near(h.R, 191) || !near(h.G, 63) {
		t.Errorf("hyp At(2,0) = %v, want r≈191 g≈63", h)
	}
	if !near(l.R, 127) || !near(l.G, 127) {
		t.Errorf("linear At(2,0) = %v, want r≈127 g≈127", l)
	}
}

func TestDrawTriangle_ZeroWDoesNotPanic(t *testing.T) {
	r := New(4, 4)
	r.Enable(Depth | Hyp)
	r.DrawTriangle([3]mathutil.Vec4{{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 1, 0, 1}}, solid(red))
}

func TestEnable_Accumulates(t *testing.T) {
	r := New(1, 1)
	r.Enable(Depth)
	r.Enable(SRGB)
	r.Enable(Depth)
	if got := r.Features(); got != Depth|SRGB {
		t.Errorf("Features = %v, want depth|sRGB", got)
	}
}

func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -1 && d <= 1
}
