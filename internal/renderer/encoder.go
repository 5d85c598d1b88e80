package renderer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/image/draw"
)

// Encoder writes RGBA frames into an H.264 file through ffmpeg.
type Encoder struct {
	Name    string // ffmpeg encoder name, libx264 when empty
	Quality int    // crf, cq or bitrate seed depending on the encoder
}

// BestH264Encoder probes ffmpeg once for hardware H.264 support and
// falls back to libx264.
func BestH264Encoder(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		return "libx264"
	}
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// EncodeFrames pipes frames into ffmpeg as raw RGBA and encodes them
// to path. All frames must share one size.
func (e *Encoder) EncodeFrames(ctx context.Context, frames []*image.RGBA, fps int, path string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	b := frames[0].Bounds()

	cmd := exec.CommandContext(ctx, "ffmpeg", e.buildArgs(b.Dx(), b.Dy(), fps, path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	bw := bufio.NewWriterSize(stdin, 1<<20)
	var writeErr error
	for _, frame := range frames {
		if writeErr = writeRawRGBA(bw, frame); writeErr != nil {
			break
		}
	}
	if writeErr == nil {
		writeErr = bw.Flush()
	}
	stdin.Close()

	// Always reap the child; a broken pipe means ffmpeg already died
	// and its stderr says why.
	waitErr := cmd.Wait()
	if writeErr != nil {
		return fmt.Errorf("write raw error: %w%s", writeErr, stderrTail(stderr.Bytes()))
	}
	if waitErr != nil {
		return fmt.Errorf("ffmpeg wait error: %w%s", waitErr, stderrTail(stderr.Bytes()))
	}
	return nil
}

// stderrTail formats the last lines of ffmpeg's stderr for an error
// message; the tail is where ffmpeg states the actual failure.
func stderrTail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return ": " + strings.Join(lines, " | ")
}

func (e *Encoder) buildArgs(w, h, fps int, path string) []string {
	name := e.Name
	if name == "" {
		name = "libx264"
	}
	quality := e.Quality
	if quality == 0 {
		quality = 23
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", name,
	}
	switch name {
	case "h264_videotoolbox":
		args = append(args, "-b:v", fmt.Sprintf("%dk", quality*100))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default:
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}
	return append(args, "-movflags", "+faststart", path)
}

// writeRawRGBA streams the pixel rows exactly as ffmpeg expects them:
// tightly packed, origin at zero.
func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min.X != 0 || bounds.Min.Y != 0 {
		tmp := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(tmp, tmp.Bounds(), img, bounds.Min, draw.Src)
		img = tmp
	}
	_, err := w.Write(img.Pix)
	return err
}
