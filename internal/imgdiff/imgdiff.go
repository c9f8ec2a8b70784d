// Package imgdiff compares a rendered frame against a reference image
// pixel by pixel.
package imgdiff

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// MaxSamples is how many differing pixels a Report lists.
const MaxSamples = 10

// ErrSizeMismatch is returned when the two images differ in dimensions.
var ErrSizeMismatch = errors.New("imgdiff: images have different sizes")

// PixelDiff is one differing pixel.
type PixelDiff struct {
	X, Y int
	A, B color.NRGBA
}

func (d PixelDiff) String() string {
	return fmt.Sprintf("(%d, %d): %v vs %v", d.X, d.Y, d.A, d.B)
}

// Report summarizes a comparison.
type Report struct {
	Width, Height int
	Differing     int
	Samples       []PixelDiff // first MaxSamples differences in row-major order
}

// Total is the number of compared pixels.
func (r *Report) Total() int { return r.Width * r.Height }

// Percent is the share of differing pixels, 0–100.
func (r *Report) Percent() float64 {
	if r.Total() == 0 {
		return 0
	}
	return 100 * float64(r.Differing) / float64(r.Total())
}

// Identical reports whether no pixel differs.
func (r *Report) Identical() bool { return r.Differing == 0 }

// Compare counts pixels whose RGBA values differ. Both images are indexed
// from their own bounds' origin.
func Compare(a, b *image.NRGBA) (*Report, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}

	r := &Report{Width: ab.Dx(), Height: ab.Dy()}
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			pa := a.NRGBAAt(ab.Min.X+x, ab.Min.Y+y)
			pb := b.NRGBAAt(bb.Min.X+x, bb.Min.Y+y)
			if pa == pb {
				continue
			}
			r.Differing++
			if len(r.Samples) < MaxSamples {
				r.Samples = append(r.Samples, PixelDiff{X: x, Y: y, A: pa, B: pb})
			}
		}
	}
	return r, nil
}

// DiffImage returns an opaque image holding the per-channel absolute RGB
// difference of a and b. Alpha is not compared.
func DiffImage(a, b *image.NRGBA) (*image.NRGBA, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, ErrSizeMismatch
	}
	out := image.NewNRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			pa := a.NRGBAAt(ab.Min.X+x, ab.Min.Y+y)
			pb := b.NRGBAAt(bb.Min.X+x, bb.Min.Y+y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: absDiff(pa.R, pb.R),
				G: absDiff(pa.G, pb.G),
				B: absDiff(pa.B, pb.B),
				A: 255,
			})
		}
	}
	return out, nil
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
