package director

import (
	"fmt"
	"math"
	"sort"

	"github.com/imfaisalpk/olive/internal/effects"
	"github.com/imfaisalpk/olive/internal/keyframe"
	"github.com/imfaisalpk/olive/internal/timecode"
)

// SuggestOptions shape the camera path Suggest plants.
type SuggestOptions struct {
	Intro   timecode.Rational // full view time before the first move
	Dwell   timecode.Rational // time spent reading each region
	Travel  timecode.Rational // time moving between regions
	Total   float64           // clip length in seconds; when set, overrides Dwell
	MaxZoom float64
	Fill    float64 // fraction of the view a framed region may fill
}

// DefaultSuggestOptions returns a watchable pace: a one second intro,
// two seconds on each region, one second between them.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		Intro:   timecode.FromSeconds(1),
		Dwell:   timecode.FromSeconds(2),
		Travel:  timecode.FromSeconds(1),
		MaxZoom: 3,
		Fill:    0.9,
	}
}

const (
	minDwellSeconds = 1.0
	maxDwellSeconds = 3.0
)

// Regions whose top edges sit within this fraction of the page height
// count as one row when sorting into reading order.
const rowThreshold = 0.02

// Suggest replaces the camera's animation with a path over regions in
// reading order: hold the full page, ease into each region, dwell on
// it, and pull back to the full page at the end. Every planted key
// lands on an exact rational time.
func Suggest(cam *Camera, regions []Region, opts SuggestOptions) error {
	if len(regions) == 0 {
		return fmt.Errorf("no regions to frame")
	}
	ordered := readingOrder(regions)

	dwell := opts.Dwell
	if opts.Total > 0 {
		dwell = fitDwell(opts.Total, opts, len(ordered))
	}

	// Start over from the full page: static defaults first, then the
	// group switch seeds the hold key at time zero. The field switches
	// are forced off one by one so a row whose group flag disagrees
	// with its fields still loses its old path.
	start := timecode.Rational{}
	cam.Row.SetTime(start)
	cam.Row.SetKeyframing(false)
	for _, f := range []*effects.DoubleField{cam.Zoom, cam.CX, cam.CY} {
		f.SetKeyframing(false, start)
	}
	cam.Zoom.Set(start, 1)
	cam.CX.Set(start, 0.5)
	cam.CY.Set(start, 0.5)
	cam.Row.SetKeyframing(true)

	full := State{Zoom: 1, CX: 0.5, CY: 0.5}
	cam.plant(start, full, keyframe.Hold)

	t := opts.Intro
	cam.plant(t, full, keyframe.Bezier)

	for _, r := range ordered {
		st := frame(r, opts)
		t = t.Add(opts.Travel)
		cam.plant(t, st, keyframe.Hold)
		t = t.Add(dwell)
		cam.plant(t, st, keyframe.Bezier)
	}

	t = t.Add(opts.Travel)
	cam.plant(t, full, keyframe.Linear)
	return nil
}

// plant keys all three camera fields at t with one interpolation type.
// Arrivals are holds so the camera rests on a region; departures are
// beziers so travel eases in and out.
func (c *Camera) plant(t timecode.Rational, st State, interp keyframe.Interp) {
	c.Zoom.Set(t, st.Zoom)
	c.CX.Set(t, st.CX)
	c.CY.Set(t, st.CY)
	for _, f := range []*effects.DoubleField{c.Zoom, c.CX, c.CY} {
		f.SetInterpAt(t, interp)
	}
}

// frame picks the camera state that shows r: zoomed to fill most of
// the view, centered on the region, pulled back inside the page edges.
func frame(r Region, opts SuggestOptions) State {
	z := zoomFor(r, opts)
	cx, cy := r.Center()
	half := 1 / (2 * z)
	return State{
		Zoom: z,
		CX:   clamp(cx, half, 1-half),
		CY:   clamp(cy, half, 1-half),
	}
}

// zoomFor fits the region into the view with breathing room, clamped
// to a range that never pixelates the page.
func zoomFor(r Region, opts SuggestOptions) float64 {
	if r.W <= 0 || r.H <= 0 {
		return 1
	}
	z := math.Min(opts.Fill/r.W, opts.Fill/r.H)
	if z < 1 {
		z = 1
	}
	if z > opts.MaxZoom {
		z = opts.MaxZoom
	}
	return z
}

// readingOrder sorts regions top to bottom, left to right.
func readingOrder(regions []Region) []Region {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if d := sorted[i].Y - sorted[j].Y; math.Abs(d) > rowThreshold {
			return d < 0
		}
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// fitDwell spreads a requested clip length across the regions, clamped
// to a watchable pace and quantized to milliseconds so key times stay
// exact.
func fitDwell(total float64, opts SuggestOptions, n int) timecode.Rational {
	overhead := opts.Intro.Float() + opts.Travel.Float()*float64(n+1)
	available := total - overhead
	if available <= 0 {
		available = total
	}
	dwell := available / float64(n)
	if dwell < minDwellSeconds {
		dwell = minDwellSeconds
	}
	if dwell > maxDwellSeconds {
		dwell = maxDwellSeconds
	}
	return timecode.New(int64(dwell*1000+0.5), 1000)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
