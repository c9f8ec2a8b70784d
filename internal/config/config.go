package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir" yaml:"base_dir"`
	SceneDir  string `json:"scene_dir" yaml:"scene_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	RefDir    string `json:"ref_dir" yaml:"ref_dir"`
	Manifest  string `json:"manifest" yaml:"manifest"`

	// Render settings
	Workers   int    `json:"workers" yaml:"workers"`
	Thumbnail int    `json:"thumbnail" yaml:"thumbnail"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
}

// Load reads a JSON or YAML config file, chosen by extension, and returns
// Config. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// A relative base dir is relative to the config file itself.
	if cfg.BaseDir != "" && !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SceneDir  string
	OutputDir string
	RefDir    string
	Manifest  string
	Workers   int
	Thumbnail int
	Verbose   bool
}

// Resolve applies CLI overrides and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.SceneDir != "" {
		c.SceneDir = flags.SceneDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.RefDir != "" {
		c.RefDir = flags.RefDir
	}
	if flags.Manifest != "" {
		c.Manifest = flags.Manifest
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Thumbnail > 0 {
		c.Thumbnail = flags.Thumbnail
	}
	if flags.Verbose {
		c.LogLevel = "debug"
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		c.SceneDir = c.join(c.SceneDir)
		c.OutputDir = c.join(c.OutputDir)
		c.RefDir = c.join(c.RefDir)
		c.Manifest = c.join(c.Manifest)
	}

	if c.Manifest == "" && c.OutputDir != "" {
		c.Manifest = filepath.Join(c.OutputDir, "manifest.json")
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) join(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Level maps LogLevel to a slog level. Unknown names mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
