// Package config holds the preview tool's settings and the flag
// parsing that fills them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
)

// Config carries one invocation of the preview tool. What the tool
// does is decided by OutputPath's extension: .mp4 bakes and encodes a
// clip, .png renders a still at At, .txt writes the ffmpeg filter,
// and empty prints the filter to stdout.
type Config struct {
	ProjectPath string
	InputPath   string
	Page        int
	OutputPath  string
	Width       int
	Height      int
	FPS         int
	DPI         int
	Duration    float64
	At          float64
	ShareURL    string
	Quality     int
	Workers     int
	Suggest     bool
	Regions     int
	Watch       bool
	Verbose     bool
}

// FromFlags parses args into a validated Config.
func FromFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("olive-preview", flag.ContinueOnError)
	cfg := &Config{}

	fs.StringVar(&cfg.ProjectPath, "project", "", "path to the camera project yaml")
	fs.StringVar(&cfg.InputPath, "input", "", "path to a pdf, an image, or a directory of images")
	fs.IntVar(&cfg.Page, "page", 0, "page index to preview")
	fs.StringVar(&cfg.OutputPath, "output", "", "output path: .mp4 clip, .png still, .txt filter; empty prints the filter")
	fs.IntVar(&cfg.Width, "width", 1280, "output width")
	fs.IntVar(&cfg.Height, "height", 720, "output height")
	preset := fs.String("preset", "", "format preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	fs.IntVar(&cfg.FPS, "fps", 30, "output frame rate")
	fs.IntVar(&cfg.DPI, "dpi", 300, "page render resolution")
	fs.Float64Var(&cfg.Duration, "duration", 0, "clip length in seconds (0 uses the camera path length)")
	fs.Float64Var(&cfg.At, "at", 0, "time of a still render in seconds")
	fs.StringVar(&cfg.ShareURL, "share-url", "", "stamp a QR code linking here onto still renders")
	fs.IntVar(&cfg.Quality, "quality", 0, "video quality (0 auto, x264: CRF 1-51, VideoToolbox: bitrate = Q*100kbit/s)")
	fs.IntVar(&cfg.Workers, "workers", 0, "render workers (0 sizes the pool by host resources)")
	fs.BoolVar(&cfg.Suggest, "suggest", false, "detect page regions and plant a camera path before rendering")
	fs.IntVar(&cfg.Regions, "regions", 0, "cap on detected regions when suggesting (0 uses the detector default)")
	fs.BoolVar(&cfg.Watch, "watch", false, "re-render whenever the project file changes")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch *preset {
	case "16:9":
		cfg.Width, cfg.Height = 1280, 720
	case "9:16":
		cfg.Width, cfg.Height = 720, 1280
	case "4:5":
		cfg.Width, cfg.Height = 1080, 1350
	}

	// yuv420p needs even dimensions.
	if cfg.Width%2 != 0 {
		cfg.Width++
	}
	if cfg.Height%2 != 0 {
		cfg.Height++
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no mode of the tool could run with.
func (c *Config) Validate() error {
	if c.ProjectPath == "" {
		return errors.New("project path is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("invalid dpi %d", c.DPI)
	}
	if c.Page < 0 {
		return fmt.Errorf("invalid page %d", c.Page)
	}
	if c.Duration < 0 {
		return fmt.Errorf("invalid duration %v", c.Duration)
	}
	if c.At < 0 {
		return fmt.Errorf("invalid still time %v", c.At)
	}
	if c.Suggest && c.InputPath == "" {
		return errors.New("suggest needs an input document")
	}
	if c.NeedsPixels() && c.InputPath == "" {
		return fmt.Errorf("rendering %s needs an input document", c.OutputPath)
	}
	return nil
}

// NeedsPixels reports whether OutputPath asks for rendered page pixels
// rather than just the filter expression.
func (c *Config) NeedsPixels() bool {
	switch strings.ToLower(filepath.Ext(c.OutputPath)) {
	case ".png", ".mp4":
		return true
	}
	return false
}
