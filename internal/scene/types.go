package scene

import "scene-rasterizer/internal/mathutil"

// Command is one parsed line of a scene script.
type Command interface {
	// Line is the 1-based source line the command came from.
	Line() int
	Keyword() string
}

type pos struct{ line int }

func (p pos) Line() int { return p.line }

// PNG allocates the output image and names where it is written.
type PNG struct {
	pos
	Width, Height int
	Path          string
}

// Position replaces the position buffer.
type Position struct {
	pos
	Verts []mathutil.Vec4
}

// Color replaces the color buffer.
type Color struct {
	pos
	Colors [][4]float64
}

// Elements replaces the index buffer.
type Elements struct {
	pos
	Indices []int
}

// UniformMatrix sets the active column-major transform.
type UniformMatrix struct {
	pos
	Matrix mathutil.Mat4
}

// Enable turns on one pipeline feature ("depth", "sRGB", "hyp", "cull").
type Enable struct {
	pos
	Feature string
}

// DrawArrays draws Count/3 triangles from consecutive vertices starting at First.
type DrawArrays struct {
	pos
	First, Count int
}

// DrawElements draws Count/3 triangles from the index buffer starting at First.
type DrawElements struct {
	pos
	Count, First int
}

func (PNG) Keyword() string           { return "png" }
func (Position) Keyword() string      { return "position" }
func (Color) Keyword() string         { return "color" }
func (Elements) Keyword() string      { return "elements" }
func (UniformMatrix) Keyword() string { return "uniformMatrix" }
func (e Enable) Keyword() string      { return e.Feature }
func (DrawArrays) Keyword() string    { return "drawArraysTriangles" }
func (DrawElements) Keyword() string  { return "drawElementsTriangles" }

// Script is a parsed scene in submission order.
type Script struct {
	Commands []Command
	Ignored  []string // unrecognized keywords, in order of appearance
}
