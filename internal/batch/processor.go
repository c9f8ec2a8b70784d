package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"scene-rasterizer/internal/imageio"
	"scene-rasterizer/internal/imgdiff"
	"scene-rasterizer/internal/postprocess"
	"scene-rasterizer/internal/render"
)

// ErrOutputTaken is reported for a scene whose output path was already
// claimed by another scene of the same run.
var ErrOutputTaken = errors.New("batch: output path already written by another scene")

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir string // where images go; empty keeps each png path as written
	RefDir    string // reference images to compare against; empty disables
	Thumbnail int    // edge of an extra downsampled copy; 0 disables
	Workers   int
	Progress  bool // draw a progress bar on stderr
	Logger    *slog.Logger
}

// DiffSummary is the comparison of one output with its reference image.
type DiffSummary struct {
	Reference string  `json:"reference"`
	Differing int     `json:"differing"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	Error     string  `json:"error,omitempty"`
}

// Result holds the outcome of processing one scene.
type Result struct {
	Scene     string       `json:"scene"`
	Output    string       `json:"output,omitempty"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Success   bool         `json:"success"`
	NoImage   bool         `json:"no_image,omitempty"`
	Error     string       `json:"error,omitempty"`
	Triangles int          `json:"triangles"`
	Written   int          `json:"pixels_written"`
	Elapsed   float64      `json:"elapsed_ms"`
	Diff      *DiffSummary `json:"diff,omitempty"`
}

// Discover lists the *.txt scene scripts in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}
	var scenes []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		scenes = append(scenes, filepath.Join(dir, e.Name()))
	}
	sort.Strings(scenes)
	return scenes, nil
}

// OutputPath decides where a scene's image is written. With outDir set only
// the base name of the png path is kept.
func OutputPath(pngPath, outDir string) string {
	if outDir == "" {
		return pngPath
	}
	return filepath.Join(outDir, filepath.Base(pngPath))
}

// outputClaims records which scene owns each output file of a run.
type outputClaims struct {
	mu    sync.Mutex
	owner map[string]string
}

func newOutputClaims() *outputClaims {
	return &outputClaims{owner: make(map[string]string)}
}

// claim reserves path for scene. A nil receiver accepts every path.
func (c *outputClaims) claim(path, scene string) error {
	if c == nil {
		return nil
	}
	key := filepath.Clean(path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.owner[key]; ok && prev != scene {
		return fmt.Errorf("%w: %s (%s)", ErrOutputTaken, path, prev)
	}
	c.owner[key] = scene
	return nil
}

// ThumbnailPath is the sibling path a thumbnail of out is written to.
func ThumbnailPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + ".thumb" + ext
}

// Run renders every scene using a worker pool. Each scene is rasterized by
// exactly one worker; results keep the order of scenes. A scene whose output
// path is already owned by another scene of the run fails with
// ErrOutputTaken and writes nothing.
func Run(cfg Config, scenes []string) []Result {
	total := len(scenes)
	results := make([]Result, total)
	if total == 0 {
		return results
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.Default(int64(total), "rendering")
	} else {
		bar = progressbar.DefaultSilent(int64(total), "rendering")
	}
	defer bar.Close()

	claims := newOutputClaims()
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = renderScene(cfg, scenes[idx], claims)
				bar.Add(1)
			}
		}()
	}

	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	return results
}

// RenderScene parses, rasterizes and saves one scene script, then compares
// it with its reference image when cfg.RefDir is set.
func RenderScene(cfg Config, scenePath string) Result {
	return renderScene(cfg, scenePath, nil)
}

func renderScene(cfg Config, scenePath string, claims *outputClaims) Result {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("scene", filepath.Base(scenePath))

	start := time.Now()
	res := Result{Scene: scenePath}

	out, err := render.RunFile(scenePath, logger)
	res.Elapsed = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		res.NoImage = errors.Is(err, render.ErrNoImage)
		res.Error = err.Error()
		logger.Warn("render failed", "err", err)
		return res
	}
	res.Triangles = out.Stats.Triangles
	res.Written = out.Stats.Written

	res.Output = OutputPath(out.Path, cfg.OutputDir)
	if err := claim(claims, scenePath, res.Output, cfg.Thumbnail > 0); err != nil {
		res.Error = err.Error()
		logger.Warn("output collision", "err", err)
		return res
	}
	if err := imageio.Save(res.Output, out.Image); err != nil {
		res.Error = err.Error()
		logger.Warn("save failed", "err", err)
		return res
	}
	logger.Debug("wrote image", "path", res.Output, "triangles", res.Triangles, "features", out.Features.String())

	if cfg.Thumbnail > 0 {
		res.Thumbnail = ThumbnailPath(res.Output)
		thumb := postprocess.Thumbnail(out.Image, cfg.Thumbnail)
		if err := imageio.Save(res.Thumbnail, thumb); err != nil {
			res.Error = err.Error()
			logger.Warn("thumbnail failed", "err", err)
			return res
		}
	}

	if cfg.RefDir != "" {
		res.Diff = compareReference(filepath.Join(cfg.RefDir, filepath.Base(out.Path)), out)
		if res.Diff != nil && res.Diff.Error == "" {
			logger.Debug("compared", "reference", res.Diff.Reference,
				"differing", res.Diff.Differing, "percent", res.Diff.Percent)
		}
	}

	res.Success = true
	return res
}

func claim(claims *outputClaims, scenePath, out string, thumb bool) error {
	if err := claims.claim(out, scenePath); err != nil {
		return err
	}
	if thumb {
		return claims.claim(ThumbnailPath(out), scenePath)
	}
	return nil
}

// compareReference returns nil when no reference exists for the scene.
func compareReference(refPath string, out *render.Result) *DiffSummary {
	if _, err := os.Stat(refPath); err != nil {
		return nil
	}
	d := &DiffSummary{Reference: refPath}
	ref, err := imageio.Load(refPath)
	if err != nil {
		d.Error = err.Error()
		return d
	}
	rep, err := imgdiff.Compare(ref, out.Image)
	if err != nil {
		d.Error = err.Error()
		return d
	}
	d.Differing = rep.Differing
	d.Total = rep.Total()
	d.Percent = rep.Percent()
	return d
}
