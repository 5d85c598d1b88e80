package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/image/draw"

	"github.com/imfaisalpk/olive/internal/director"
	"github.com/imfaisalpk/olive/internal/renderer"
	"github.com/imfaisalpk/olive/internal/timecode"
)

func sec(n int64) timecode.Rational { return timecode.New(n, 1) }

func quietBaker(workers int) *Baker {
	return NewBaker(workers, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// gradientPage makes every pixel distinct so composing a different
// camera state yields different bytes.
func gradientPage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), A: 255})
		}
	}
	return img
}

func TestBakeFrameCount(t *testing.T) {
	page := gradientPage(96, 96)
	cam := director.NewCamera()

	frames, err := quietBaker(3).Bake(context.Background(), page, cam, sec(1), 12, 48, 36)
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	if len(frames) != 12 {
		t.Fatalf("Expected 12 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f == nil {
			t.Fatalf("Frame %d is nil", i)
		}
		if f.Bounds().Dx() != 48 || f.Bounds().Dy() != 36 {
			t.Errorf("Frame %d: expected 48x36, got %dx%d", i, f.Bounds().Dx(), f.Bounds().Dy())
		}
	}
	// A static camera renders the same frame every time.
	for i := 1; i < len(frames); i++ {
		if !bytes.Equal(frames[i].Pix, frames[0].Pix) {
			t.Errorf("Frame %d differs from frame 0 under a static camera", i)
		}
	}
}

func TestBakeMatchesSerialCompose(t *testing.T) {
	page := gradientPage(120, 90)
	cam := director.NewCamera()
	cam.Zoom.SetKeyframing(true, sec(0))
	cam.Zoom.Set(sec(0), 1)
	cam.Zoom.Set(sec(1), 2)

	const fps, w, h = 8, 64, 48
	frames, err := quietBaker(4).Bake(context.Background(), page, cam, sec(1), fps, w, h)
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	if len(frames) != fps {
		t.Fatalf("Expected %d frames, got %d", fps, len(frames))
	}
	for i, f := range frames {
		st := cam.StateAt(timecode.FromFrame(int64(i), fps))
		want := renderer.Compose(page, st, w, h, draw.ApproxBiLinear)
		if f.Bounds() != want.Bounds() {
			t.Fatalf("Frame %d: bounds %v, want %v", i, f.Bounds(), want.Bounds())
		}
		if !bytes.Equal(f.Pix, want.Pix) {
			t.Errorf("Frame %d does not match a serial compose", i)
		}
	}
	// The zoom animates, so frames must actually differ.
	if bytes.Equal(frames[0].Pix, frames[fps-1].Pix) {
		t.Error("Expected first and last frame to differ under an animated camera")
	}
}

func TestBakeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, err := quietBaker(2).Bake(ctx, gradientPage(32, 32), director.NewCamera(), sec(2), 10, 32, 32)
	if err == nil {
		t.Fatal("Expected error from cancelled bake, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
	if frames != nil {
		t.Errorf("Expected nil frames on failure, got %d", len(frames))
	}
}

func TestNewBakerDefaults(t *testing.T) {
	b := NewBaker(0, nil)
	if b.Workers != 1 {
		t.Errorf("Expected 1 worker, got %d", b.Workers)
	}
	if b.Log == nil {
		t.Error("Expected a default logger")
	}
}
