package keyframe

import (
	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

// Resolve computes the value of an ordered keyframe sequence at time t.
// Queries outside the keyed range extrapolate flat to the nearest key,
// so a single-key sequence answers every query with that key's value.
// Resolve is a pure read and runs in O(log n); it is called at least
// once per rendered frame.
func Resolve(keys []Keyframe, t timecode.Rational) value.Value {
	if len(keys) == 0 {
		return value.Value{}
	}

	if t.Cmp(keys[0].Time) <= 0 {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t.Cmp(keys[last].Time) >= 0 {
		return keys[last].Value
	}

	i := search(keys, t)
	if keys[i].Time.Equal(t) {
		// Landing exactly on a key returns it regardless of how the
		// surrounding gaps interpolate.
		return keys[i].Value
	}

	before, after := keys[i-1], keys[i]

	// Progress across the gap, guarded against a zero-length gap even
	// though the ordering invariant should rule one out.
	d := 0.0
	if span := after.Time.Sub(before.Time).Float(); span != 0 {
		d = t.Sub(before.Time).Float() / span
	}

	switch before.Interp {
	case Hold:
		return before.Value
	case Bezier:
		return bezierValue(keys, i-1, t, d)
	default:
		return value.Lerp(before.Value, after.Value, d)
	}
}
