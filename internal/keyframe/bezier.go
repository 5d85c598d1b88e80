package keyframe

import (
	"math"

	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

const (
	// solveTolerance is the fixed tolerance of the time-axis inversion,
	// the one numerical approximation in the engine.
	solveTolerance = 1e-6
	solveMaxIter   = 64
)

// bezierValue evaluates the cubic between keys[i] and keys[i+1] at
// time t. Bezier easing is defined for scalars only; colors and the
// discrete kinds take the linear path with plain progress d.
func bezierValue(keys []Keyframe, i int, t timecode.Rational, d float64) value.Value {
	before, after := keys[i], keys[i+1]
	if before.Value.Kind() != value.KindNumber || after.Value.Kind() != value.KindNumber {
		return value.Lerp(before.Value, after.Value, d)
	}

	t0, t1 := before.Time.Float(), after.Time.Float()
	v0, v1 := before.Value.Float(), after.Value.Float()

	// Control points in (time, value) space. Handle X uses the valid
	// offsets so evaluation never sees an overlapping handle, and the
	// control times are clamped into the gap to keep the time axis
	// single-valued whatever sign the raw offsets carry.
	x1 := clampf(t0+ValidHandleX(keys, i, true), t0, t1)
	y1 := v0 + before.PostY
	x2 := clampf(t1+ValidHandleX(keys, i+1, false), t0, t1)
	y2 := v1 + after.PreY

	u := solveCubicX(t0, x1, x2, t1, t.Float())
	return value.Number(cubicAt(v0, y1, y2, v1, u))
}

// solveCubicX inverts the time axis of the cubic by bisection: with
// both control times inside [x0, x3] the axis is monotone, so the
// parameter u with X(u) == x is unique.
func solveCubicX(x0, x1, x2, x3, x float64) float64 {
	lo, hi := 0.0, 1.0
	for iter := 0; iter < solveMaxIter; iter++ {
		mid := (lo + hi) / 2
		xm := cubicAt(x0, x1, x2, x3, mid)
		if math.Abs(xm-x) < solveTolerance {
			return mid
		}
		if xm < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// cubicAt evaluates a one-dimensional cubic bezier at parameter u.
func cubicAt(p0, p1, p2, p3, u float64) float64 {
	inv := 1 - u
	return inv*inv*inv*p0 + 3*inv*inv*u*p1 + 3*inv*u*u*p2 + u*u*u*p3
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
