package renderer

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// StampQR draws a QR code for url into the bottom right corner of
// frame, inset by an eighth of its own size. size <= 0 picks a sixth
// of the frame height.
func StampQR(frame *image.RGBA, url string, size int) error {
	if size <= 0 {
		size = frame.Bounds().Dy() / 6
	}
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to build QR code: %w", err)
	}
	img := q.Image(size)

	b := frame.Bounds()
	margin := size / 8
	at := image.Rect(b.Max.X-size-margin, b.Max.Y-size-margin, b.Max.X-margin, b.Max.Y-margin)
	draw.Draw(frame, at, img, img.Bounds().Min, draw.Over)
	return nil
}
