// Package renderer turns a camera state or a camera path into output:
// composed frames, ffmpeg zoompan filter strings, and encoded video.
package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/imfaisalpk/olive/internal/director"
)

// Compose renders the camera's view of a page into a w by h frame. At
// zoom 1 the whole page is visible, letterboxed on black when aspects
// differ; higher zoom narrows the view around the camera center,
// clamped so the view never leaves the page. A nil scaler picks
// CatmullRom, the right choice for stills; bakes pass ApproxBiLinear
// for speed.
func Compose(page image.Image, st director.State, w, h int, scaler draw.Scaler) *image.RGBA {
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	pb := page.Bounds()
	pw, ph := float64(pb.Dx()), float64(pb.Dy())
	if pw == 0 || ph == 0 || w <= 0 || h <= 0 {
		return dst
	}

	zoom := st.Zoom
	if zoom < 1 {
		zoom = 1
	}

	// The base view is the smallest frame-shaped window containing the
	// whole page; zoom shrinks it.
	frameAspect := float64(w) / float64(h)
	viewW, viewH := pw, pw/frameAspect
	if viewH < ph {
		viewH = ph
		viewW = ph * frameAspect
	}
	viewW /= zoom
	viewH /= zoom

	cx := clampCenter(st.CX*pw, viewW, pw)
	cy := clampCenter(st.CY*ph, viewH, ph)

	scale := float64(w) / viewW
	x0 := cx - viewW/2
	y0 := cy - viewH/2

	dstRect := image.Rect(
		int(math.Round(-x0*scale)),
		int(math.Round(-y0*scale)),
		int(math.Round((pw-x0)*scale)),
		int(math.Round((ph-y0)*scale)),
	)
	scaler.Scale(dst, dstRect, page, pb, draw.Src, nil)
	return dst
}

// clampCenter keeps a view of extent view centered at c inside a page
// of extent page. A view wider than the page sits centered on it.
func clampCenter(c, view, page float64) float64 {
	if view >= page {
		return page / 2
	}
	half := view / 2
	if c < half {
		return half
	}
	if c > page-half {
		return page - half
	}
	return c
}
