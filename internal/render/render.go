// Package render executes parsed scene scripts against a software rasterizer.
package render

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"scene-rasterizer/internal/mathutil"
	"scene-rasterizer/internal/raster"
	"scene-rasterizer/internal/scene"
)

var (
	// ErrNoImage is returned when a script finishes without a png command.
	ErrNoImage = errors.New("render: no image generated")
	// ErrNoCanvas is returned when a draw command precedes png.
	ErrNoCanvas = errors.New("render: draw before png")
	// ErrCanvasSize is returned for a png command whose size is not in
	// [1, raster.MaxDimension].
	ErrCanvasSize = errors.New("render: bad canvas size")
)

// Result is the outcome of one executed script.
type Result struct {
	Image    *image.NRGBA
	Path     string // output path as written in the png command
	Features raster.Features
	Stats    raster.Stats
}

// Renderer holds the buffers and pipeline state of one scene. Feature flags
// and the transform may be set before png and carry over to the canvas it
// allocates.
type Renderer struct {
	logger *slog.Logger

	positions []mathutil.Vec4
	colors    []raster.Color
	elements  []int

	features     raster.Features
	transform    mathutil.Mat4
	hasTransform bool

	rast    *raster.Rasterizer
	outPath string
}

// New returns an empty renderer. A nil logger discards output.
func New(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{logger: logger}
}

// Run executes a parsed script from a fresh renderer.
func Run(s *scene.Script, logger *slog.Logger) (*Result, error) {
	r := New(logger)
	if err := r.Execute(s); err != nil {
		return nil, err
	}
	return r.Result()
}

// RunFile parses and executes the script at path.
func RunFile(path string, logger *slog.Logger) (*Result, error) {
	s, err := scene.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Run(s, logger)
}

// Execute applies every command of s in order.
func (r *Renderer) Execute(s *scene.Script) error {
	for _, kw := range s.Ignored {
		r.logger.Debug("render: ignoring keyword", "keyword", kw)
	}
	for _, cmd := range s.Commands {
		if err := r.Apply(cmd); err != nil {
			return fmt.Errorf("line %d: %w", cmd.Line(), err)
		}
	}
	return nil
}

// Apply executes a single command.
func (r *Renderer) Apply(cmd scene.Command) error {
	switch c := cmd.(type) {
	case scene.PNG:
		if c.Width <= 0 || c.Height <= 0 || c.Width > raster.MaxDimension || c.Height > raster.MaxDimension {
			return fmt.Errorf("%w: %dx%d", ErrCanvasSize, c.Width, c.Height)
		}
		r.rast = raster.New(c.Width, c.Height)
		r.rast.SetLogger(r.logger)
		r.rast.Enable(r.features)
		if r.hasTransform {
			r.rast.SetTransform(r.transform)
		}
		r.outPath = c.Path
		r.logger.Debug("render: canvas", "width", c.Width, "height", c.Height, "path", c.Path)

	case scene.Position:
		r.positions = c.Verts

	case scene.Color:
		r.colors = make([]raster.Color, len(c.Colors))
		for i, col := range c.Colors {
			r.colors[i] = raster.Color(col)
		}

	case scene.Elements:
		r.elements = c.Indices

	case scene.UniformMatrix:
		r.transform = c.Matrix
		r.hasTransform = true
		r.logger.Debug("render: transform", "identity", c.Matrix.IsIdentity())
		if r.rast != nil {
			r.rast.SetTransform(c.Matrix)
		}

	case scene.Enable:
		f, ok := raster.ParseFeature(c.Feature)
		if !ok {
			return fmt.Errorf("render: unknown feature %q", c.Feature)
		}
		r.features |= f
		if r.rast != nil {
			r.rast.Enable(f)
		}

	case scene.DrawArrays:
		if r.rast == nil {
			return ErrNoCanvas
		}
		r.drawArrays(c.First, c.Count)

	case scene.DrawElements:
		if r.rast == nil {
			return ErrNoCanvas
		}
		r.drawElements(c.Count, c.First)

	default:
		return fmt.Errorf("render: unsupported command %T", cmd)
	}
	return nil
}

// Result returns the rendered image. It fails with ErrNoImage if no png
// command was executed.
func (r *Renderer) Result() (*Result, error) {
	if r.rast == nil {
		return nil, ErrNoImage
	}
	st := r.rast.Stats()
	r.logger.Debug("render: done",
		"triangles", st.Triangles,
		"culled", st.Culled,
		"degenerate", st.Degenerate,
		"written", st.Written,
		"depth_rejected", st.DepthRejected,
	)
	return &Result{
		Image:    r.rast.FrameBuffer().Image(),
		Path:     r.outPath,
		Features: r.rast.Features(),
		Stats:    st,
	}, nil
}
