// Command olive-preview renders animated camera previews of document
// pages. It loads a keyframed camera from a project file, optionally
// plants a suggested path over detected page regions, and writes the
// result as an mp4 clip, a png still or a raw ffmpeg filter.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/imfaisalpk/olive/internal/config"
	"github.com/imfaisalpk/olive/internal/director"
	"github.com/imfaisalpk/olive/internal/effects"
	"github.com/imfaisalpk/olive/internal/engine"
	"github.com/imfaisalpk/olive/internal/project"
	"github.com/imfaisalpk/olive/internal/renderer"
	"github.com/imfaisalpk/olive/internal/source"
	"github.com/imfaisalpk/olive/internal/system"
	"github.com/imfaisalpk/olive/internal/timecode"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString()[:8])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("preview failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if cfg.Suggest {
		if err := suggestPath(cfg, log); err != nil {
			return err
		}
	}
	if err := renderOnce(ctx, cfg, log); err != nil {
		return err
	}
	if cfg.Watch {
		return watch(ctx, cfg, log)
	}
	return nil
}

// seconds quantizes a float flag to a millisecond-exact rational time.
func seconds(s float64) timecode.Rational {
	return timecode.New(int64(s*1000+0.5), 1000)
}

// suggestPath detects regions on the requested page, plants a camera
// path over them and writes the project file back.
func suggestPath(cfg *config.Config, log *slog.Logger) error {
	src, err := source.Open(cfg.InputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	page, err := src.RenderPage(cfg.Page, cfg.DPI)
	if err != nil {
		return err
	}

	det := director.DefaultDetectorOptions()
	if cfg.Regions > 0 {
		det.MaxRegions = cfg.Regions
	}
	regions := director.DetectRegions(page, det)
	log.Info("regions detected", "page", cfg.Page, "count", len(regions))

	rows, cam, err := loadOrCreateCamera(cfg.ProjectPath)
	if err != nil {
		return err
	}

	opts := director.DefaultSuggestOptions()
	opts.Total = cfg.Duration
	if err := director.Suggest(cam, regions, opts); err != nil {
		return err
	}

	if err := project.Write(rows, cfg.ProjectPath); err != nil {
		return err
	}
	log.Info("camera path written", "project", cfg.ProjectPath,
		"keys", len(cam.Zoom.Keyframes()), "seconds", cam.Duration().Float())
	return nil
}

// loadOrCreateCamera reads the project's camera row, starting a fresh
// one when the file or the row does not exist yet.
func loadOrCreateCamera(path string) ([]*effects.Row, *director.Camera, error) {
	rows, err := project.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		cam := director.NewCamera()
		return []*effects.Row{cam.Row}, cam, nil
	}
	if err != nil {
		return nil, nil, err
	}
	cam, err := director.FindCamera(rows)
	if errors.Is(err, director.ErrNoCamera) {
		cam = director.NewCamera()
		return append(rows, cam.Row), cam, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return rows, cam, nil
}

func renderOnce(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	rows, err := project.Read(cfg.ProjectPath)
	if err != nil {
		return err
	}
	cam, err := director.FindCamera(rows)
	if err != nil {
		return err
	}
	dur := clipDuration(cfg, cam)

	switch strings.ToLower(filepath.Ext(cfg.OutputPath)) {
	case ".mp4":
		return renderClip(ctx, cfg, cam, dur, log)
	case ".png":
		return renderStill(cfg, cam, log)
	case ".txt":
		filter := renderer.ZoomPanFilter(cam, dur, cfg.FPS, cfg.Width, cfg.Height)
		if err := os.WriteFile(cfg.OutputPath, []byte(filter+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write filter file: %w", err)
		}
		log.Info("filter written", "path", cfg.OutputPath)
		return nil
	case "":
		fmt.Println(renderer.ZoomPanFilter(cam, dur, cfg.FPS, cfg.Width, cfg.Height))
		return nil
	default:
		return fmt.Errorf("unsupported output %q", cfg.OutputPath)
	}
}

// clipDuration picks the clip length: the flag wins, then the camera
// path, then a five second fallback for static cameras.
func clipDuration(cfg *config.Config, cam *director.Camera) timecode.Rational {
	if cfg.Duration > 0 {
		return seconds(cfg.Duration)
	}
	if dur := cam.Duration(); !dur.IsZero() {
		return dur
	}
	return timecode.New(5, 1)
}

func renderPage(cfg *config.Config) (image.Image, error) {
	src, err := source.Open(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.RenderPage(cfg.Page, cfg.DPI)
}

func renderStill(cfg *config.Config, cam *director.Camera, log *slog.Logger) error {
	page, err := renderPage(cfg)
	if err != nil {
		return err
	}

	st := cam.StateAt(seconds(cfg.At))
	frame := renderer.Compose(page, st, cfg.Width, cfg.Height, nil)
	if cfg.ShareURL != "" {
		if err := renderer.StampQR(frame, cfg.ShareURL, 0); err != nil {
			return err
		}
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create still file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, frame); err != nil {
		return fmt.Errorf("failed to encode still: %w", err)
	}
	log.Info("still written", "path", cfg.OutputPath, "at", cfg.At)
	return nil
}

func renderClip(ctx context.Context, cfg *config.Config, cam *director.Camera, dur timecode.Rational, log *slog.Logger) error {
	page, err := renderPage(cfg)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = system.RenderWorkers(cfg.Width, cfg.Height)
	}

	frames, err := engine.NewBaker(workers, log).Bake(ctx, page, cam, dur, cfg.FPS, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	name := renderer.BestH264Encoder(ctx)
	if name != "libx264" {
		log.Info("hardware encoder found", "encoder", name)
	}
	quality := cfg.Quality
	if quality == 0 {
		switch name {
		case "h264_videotoolbox":
			quality = 75
		case "h264_nvenc":
			quality = 28
		default:
			quality = 23
		}
	}

	enc := &renderer.Encoder{Name: name, Quality: quality}
	if err := enc.EncodeFrames(ctx, frames, cfg.FPS, cfg.OutputPath); err != nil {
		return err
	}
	log.Info("clip written", "path", cfg.OutputPath, "frames", len(frames), "seconds", dur.Float())
	return nil
}

// watch re-renders the output whenever the project file changes.
func watch(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors that save atomically replace the
	// file, and a watch on the old inode goes stale.
	dir := filepath.Dir(cfg.ProjectPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	debounce := system.NewDebouncer(300*time.Millisecond, nil, func() {
		log.Info("project changed, re-rendering")
		if err := renderOnce(ctx, cfg, log); err != nil {
			log.Error("render failed", "err", err)
		}
	})
	defer debounce.Stop()

	target := filepath.Clean(cfg.ProjectPath)
	log.Info("watching", "project", cfg.ProjectPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("fs event", "op", ev.Op.String(), "name", ev.Name)
			debounce.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)
		}
	}
}
