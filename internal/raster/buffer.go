package raster

import (
	"image"
	"image/color"
)

// ClearDepth is the initial depth of every pixel. It is larger than any
// normalized device z, so the first fragment at a pixel always passes.
const ClearDepth = 2.0

// MaxDimension bounds the width and height of a FrameBuffer.
const MaxDimension = 1 << 15

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, non-premultiplied, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, initialized to ClearDepth
}

// NewFrameBuffer allocates a fully transparent color buffer and a cleared
// z-buffer. Sizes are clamped to [0, MaxDimension].
func NewFrameBuffer(w, h int) *FrameBuffer {
	w = min(max(w, 0), MaxDimension)
	h = min(max(h, 0), MaxDimension)
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = ClearDepth
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
	}
}

// At returns the stored pixel at (x, y).
func (fb *FrameBuffer) At(x, y int) color.NRGBA {
	i := (y*fb.Width + x) * 4
	return color.NRGBA{R: fb.Color[i], G: fb.Color[i+1], B: fb.Color[i+2], A: fb.Color[i+3]}
}

// Depth returns the stored depth at (x, y).
func (fb *FrameBuffer) Depth(x, y int) float64 {
	return fb.ZBuf[y*fb.Width+x]
}

// Image copies the color buffer into a new NRGBA image. Row 0 of the
// buffer is row 0 of the image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
