package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/imfaisalpk/olive/internal/director"
	"github.com/imfaisalpk/olive/internal/effects"
	"github.com/imfaisalpk/olive/internal/keyframe"
	"github.com/imfaisalpk/olive/internal/timecode"
)

// sample is one point of a piecewise linear filter expression.
type sample struct {
	frame int
	value float64
}

// bezierSteps is how many linear pieces stand in for one bezier gap in
// an exported expression.
const bezierSteps = 8

// ZoomPanFilter renders the camera path as an ffmpeg zoompan filter
// over a single input still: piecewise linear expressions in the
// output frame number. Hold gaps snap one frame before the next key;
// bezier gaps are subdivided into linear pieces sampled off the real
// curve.
func ZoomPanFilter(cam *director.Camera, dur timecode.Rational, fps, w, h int) string {
	frames := FrameCount(dur, fps)

	z := expression(fieldSamples(cam.Zoom, 1, fps))
	cx := expression(fieldSamples(cam.CX, 0.5, fps))
	cy := expression(fieldSamples(cam.CY, 0.5, fps))

	// zoompan positions the view by its top left corner in input
	// pixels; the fields animate the center as a page fraction.
	x := fmt.Sprintf("iw*(%s)-iw/zoom/2", cx)
	y := fmt.Sprintf("ih*(%s)-ih/zoom/2", cy)

	return fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=%d:s=%dx%d:fps=%d",
		z, x, y, frames, w, h, fps)
}

// FrameCount returns the number of output frames covering dur, at
// least one.
func FrameCount(dur timecode.Rational, fps int) int {
	f := dur.Mul(timecode.New(int64(fps), 1))
	if f.Num <= 0 {
		return 1
	}
	return int((f.Num + f.Den - 1) / f.Den)
}

func frameOf(t timecode.Rational, fps int) int {
	return int(math.Round(t.Float() * float64(fps)))
}

// fieldSamples flattens a field's curve into (frame, value) points.
// Between consecutive points the exported expression blends linearly.
// Disabled fields export their neutral value, matching what StateAt
// feeds the compositor.
func fieldSamples(f *effects.DoubleField, neutral float64, fps int) []sample {
	if !f.Enabled() {
		return []sample{{0, neutral}}
	}
	keys := f.Keyframes()
	if len(keys) == 0 {
		return []sample{{0, f.At(timecode.Rational{})}}
	}

	var out []sample
	add := func(fr int, v float64) {
		if n := len(out); n > 0 {
			if fr < out[n-1].frame {
				return
			}
			if fr == out[n-1].frame {
				out[n-1].value = v
				return
			}
		}
		out = append(out, sample{fr, v})
	}

	for i, k := range keys {
		v := f.At(k.Time)
		add(frameOf(k.Time, fps), v)
		if i == len(keys)-1 {
			break
		}
		next := keys[i+1]
		switch k.Interp {
		case keyframe.Hold:
			add(frameOf(next.Time, fps)-1, v)
		case keyframe.Bezier:
			gap := next.Time.Sub(k.Time)
			for s := 1; s < bezierSteps; s++ {
				tt := k.Time.Add(gap.Mul(timecode.New(int64(s), bezierSteps)))
				add(frameOf(tt, fps), f.At(tt))
			}
		}
	}
	return out
}

// expression builds the nested if(lte(on,...)) chain ffmpeg evaluates
// per output frame.
func expression(samples []sample) string {
	if len(samples) == 1 {
		return fmt.Sprintf("%.6f", samples[0].value)
	}

	var b strings.Builder
	for i := 0; i < len(samples)-1; i++ {
		from, to := samples[i], samples[i+1]
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "if(lte(on,%d),%.6f+(on-%d)/%d*(%.6f-%.6f)",
			to.frame, from.value, from.frame, to.frame-from.frame, to.value, from.value)
	}
	fmt.Fprintf(&b, ",%.6f", samples[len(samples)-1].value)
	b.WriteString(strings.Repeat(")", len(samples)-1))
	return b.String()
}
