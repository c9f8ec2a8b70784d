package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"scene-rasterizer/internal/mathutil"
	"scene-rasterizer/internal/raster"
)

var (
	// ErrSyntax reports a malformed argument list.
	ErrSyntax = errors.New("scene: syntax error")
	// ErrComponents reports an unsupported components-per-vertex count or a
	// buffer whose length is not a whole number of vertices.
	ErrComponents = errors.New("scene: bad component count")
	// ErrMatrixArity reports a uniformMatrix without exactly 16 values.
	ErrMatrixArity = errors.New("scene: uniformMatrix needs 16 values")
)

// ParseFile reads and parses a scene script from disk.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse tokenizes a scene script. Blank lines are skipped and unknown
// keywords are recorded in Script.Ignored. The first malformed command
// aborts parsing.
func Parse(r io.Reader) (*Script, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	s := &Script{}
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, err := parseCommand(line, fields[0], fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if cmd == nil {
			s.Ignored = append(s.Ignored, fields[0])
			continue
		}
		s.Commands = append(s.Commands, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scene: read: %w", err)
	}
	return s, nil
}

func parseCommand(line int, key string, args []string) (Command, error) {
	p := pos{line}
	switch key {
	case "png":
		if len(args) < 3 {
			return nil, fmt.Errorf("%w: png wants <width> <height> <path>", ErrSyntax)
		}
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w: png width %q", ErrSyntax, args[0])
		}
		h, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: png height %q", ErrSyntax, args[1])
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("%w: png size %dx%d", ErrSyntax, w, h)
		}
		if w > raster.MaxDimension || h > raster.MaxDimension {
			return nil, fmt.Errorf("%w: png size %dx%d exceeds %d", ErrSyntax, w, h, raster.MaxDimension)
		}
		return PNG{pos: p, Width: w, Height: h, Path: args[2]}, nil

	case "position":
		size, nums, err := sizedFloats(key, args)
		if err != nil {
			return nil, err
		}
		if size < 2 || size > 4 {
			return nil, fmt.Errorf("%w: position size %d", ErrComponents, size)
		}
		if len(nums)%size != 0 {
			return nil, fmt.Errorf("%w: %d values is not a multiple of %d", ErrComponents, len(nums), size)
		}
		verts := make([]mathutil.Vec4, 0, len(nums)/size)
		for i := 0; i < len(nums); i += size {
			switch size {
			case 2:
				verts = append(verts, mathutil.Point2(nums[i], nums[i+1]))
			case 3:
				verts = append(verts, mathutil.Point3(nums[i], nums[i+1], nums[i+2]))
			default:
				verts = append(verts, mathutil.Vec4{nums[i], nums[i+1], nums[i+2], nums[i+3]})
			}
		}
		return Position{pos: p, Verts: verts}, nil

	case "color":
		size, nums, err := sizedFloats(key, args)
		if err != nil {
			return nil, err
		}
		if size != 3 && size != 4 {
			return nil, fmt.Errorf("%w: color size %d", ErrComponents, size)
		}
		if len(nums)%size != 0 {
			return nil, fmt.Errorf("%w: %d values is not a multiple of %d", ErrComponents, len(nums), size)
		}
		cols := make([][4]float64, 0, len(nums)/size)
		for i := 0; i < len(nums); i += size {
			c := [4]float64{nums[i], nums[i+1], nums[i+2], 1}
			if size == 4 {
				c[3] = nums[i+3]
			}
			cols = append(cols, c)
		}
		return Color{pos: p, Colors: cols}, nil

	case "elements":
		idx := make([]int, len(args))
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("%w: element %q", ErrSyntax, a)
			}
			idx[i] = v
		}
		return Elements{pos: p, Indices: idx}, nil

	case "uniformMatrix":
		nums, err := floats(args)
		if err != nil {
			return nil, err
		}
		m, ok := mathutil.Mat4FromSlice(nums)
		if !ok {
			return nil, fmt.Errorf("%w, got %d", ErrMatrixArity, len(nums))
		}
		return UniformMatrix{pos: p, Matrix: m}, nil

	case "depth", "sRGB", "hyp", "cull":
		return Enable{pos: p, Feature: key}, nil

	case "drawArraysTriangles":
		a, b, err := truncatedPair(key, args)
		if err != nil {
			return nil, err
		}
		return DrawArrays{pos: p, First: a, Count: b}, nil

	case "drawElementsTriangles":
		a, b, err := truncatedPair(key, args)
		if err != nil {
			return nil, err
		}
		return DrawElements{pos: p, Count: a, First: b}, nil
	}
	return nil, nil
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrSyntax, a)
		}
		out[i] = v
	}
	return out, nil
}

func sizedFloats(key string, args []string) (int, []float64, error) {
	if len(args) < 1 {
		return 0, nil, fmt.Errorf("%w: %s wants a component count", ErrSyntax, key)
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s component count %q", ErrSyntax, key, args[0])
	}
	nums, err := floats(args[1:])
	if err != nil {
		return 0, nil, err
	}
	return size, nums, nil
}

// truncatedPair reads two numbers that may be spelled as floats ("3.0") and
// truncates them toward zero.
func truncatedPair(key string, args []string) (int, int, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("%w: %s wants two arguments", ErrSyntax, key)
	}
	nums, err := floats(args[:2])
	if err != nil {
		return 0, 0, err
	}
	for _, v := range nums {
		if math.IsNaN(v) || math.Abs(v) > math.MaxInt32 {
			return 0, 0, fmt.Errorf("%w: %s argument %v out of range", ErrSyntax, key, v)
		}
	}
	return int(nums[0]), int(nums[1]), nil
}
