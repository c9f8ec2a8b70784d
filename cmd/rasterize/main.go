package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"scene-rasterizer/internal/batch"
	"scene-rasterizer/internal/config"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailed  = 1
	exitNoImage = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	configFile := flag.String("config", "", "Path to a JSON or YAML config file")
	batchDir := flag.String("batch", "", "Render every *.txt scene in this directory")
	refDir := flag.String("ref", "", "Directory of reference images to compare against")
	outputDir := flag.String("output", "", "Output directory (default: png paths as written)")
	manifest := flag.String("manifest", "", "Manifest path for batch mode (default: <output>/manifest.json)")
	workers := flag.Int("workers", 0, "Number of worker goroutines in batch mode (default: NumCPU)")
	thumb := flag.Int("thumb", 0, "Also write a thumbnail with this longest edge")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [scene.txt]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "With no scene argument the path is read from the file environment variable.")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return exitFailed
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		SceneDir:  *batchDir,
		OutputDir: *outputDir,
		RefDir:    *refDir,
		Manifest:  *manifest,
		Workers:   *workers,
		Thumbnail: *thumb,
		Verbose:   *verbose,
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	batchCfg := batch.Config{
		OutputDir: cfg.OutputDir,
		RefDir:    cfg.RefDir,
		Thumbnail: cfg.Thumbnail,
		Workers:   cfg.Workers,
		Logger:    logger,
	}

	if cfg.SceneDir != "" {
		return runBatch(cfg, batchCfg)
	}

	scenePath := flag.Arg(0)
	if scenePath == "" {
		scenePath = os.Getenv("file")
	}
	if scenePath == "" {
		fmt.Fprintln(os.Stderr, "Error: need a scene file (argument or file=...)")
		flag.Usage()
		return exitFailed
	}
	return runSingle(batchCfg, scenePath)
}

func runSingle(cfg batch.Config, scenePath string) int {
	r := batch.RenderScene(cfg, scenePath)
	if r.NoImage {
		fmt.Fprintln(os.Stderr, "Error: no image generated")
		return exitNoImage
	}
	if !r.Success {
		fmt.Fprintf(os.Stderr, "Error: %s\n", r.Error)
		return exitFailed
	}
	fmt.Println("Wrote", r.Output)
	if r.Diff != nil {
		printDiff(r.Diff)
	}
	return exitOK
}

func runBatch(cfg config.Config, batchCfg batch.Config) int {
	scenes, err := batch.Discover(cfg.SceneDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailed
	}
	if len(scenes) == 0 {
		fmt.Println("No scenes to render.")
		return exitOK
	}

	fmt.Printf("Scenes: %d, Workers: %d\n", len(scenes), cfg.Workers)
	if cfg.OutputDir != "" {
		fmt.Printf("Output: %s\n", cfg.OutputDir)
	}
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	batchCfg.Progress = true
	results := batch.Run(batchCfg, scenes)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	sum := batch.Summarize(results)
	fmt.Printf("Rendered: %d/%d\n", sum.Rendered, len(scenes))

	if sum.Failed > 0 {
		fmt.Printf("\nFailed (%d):\n", sum.Failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			fmt.Printf("  %s: %s\n", r.Scene, r.Error)
			if shown++; shown == 20 {
				break
			}
		}
	}

	for _, r := range results {
		if r.Diff != nil {
			fmt.Printf("  %s: ", r.Scene)
			printDiff(r.Diff)
		}
	}

	if cfg.Manifest != "" {
		if err := batch.WriteManifest(cfg.Manifest, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", cfg.Manifest)
		}
	}

	if sum.Failed > 0 {
		return exitFailed
	}
	return exitOK
}

func printDiff(d *batch.DiffSummary) {
	if d.Error != "" {
		fmt.Printf("compare with %s failed: %s\n", d.Reference, d.Error)
		return
	}
	fmt.Printf("%d of %d pixels differ from %s (%.2f%%)\n", d.Differing, d.Total, d.Reference, d.Percent)
}
