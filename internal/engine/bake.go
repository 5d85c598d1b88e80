// Package engine pre-renders camera paths into in-memory frame
// sequences that the encoder can stream to ffmpeg.
package engine

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/imfaisalpk/olive/internal/director"
	"github.com/imfaisalpk/olive/internal/renderer"
	"github.com/imfaisalpk/olive/internal/timecode"
)

// Baker renders every frame of a camera path over a single page image.
// Frames are independent of each other, so the work fans out across
// Workers goroutines.
type Baker struct {
	Workers int
	Log     *slog.Logger
}

func NewBaker(workers int, log *slog.Logger) *Baker {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Baker{Workers: workers, Log: log}
}

// Bake samples the camera at every frame of dur and composes the page
// into w by h frames. Frame times are exact rationals, so baking a
// loaded project reproduces the same frames on every run. The camera
// is only read; callers must not mutate it while a bake runs.
func (b *Baker) Bake(ctx context.Context, page image.Image, cam *director.Camera, dur timecode.Rational, fps, w, h int) ([]*image.RGBA, error) {
	n := renderer.FrameCount(dur, fps)
	workers := b.Workers
	if workers > n {
		workers = n
	}
	b.Log.Info("baking frames", "frames", n, "fps", fps, "workers", workers)

	frames := make([]*image.RGBA, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st := cam.StateAt(timecode.FromFrame(int64(i), fps))
			frames[i] = renderer.Compose(page, st, w, h, draw.ApproxBiLinear)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to bake frames: %w", err)
	}
	return frames, nil
}
