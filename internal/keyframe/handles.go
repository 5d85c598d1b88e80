package keyframe

import "math"

// ValidHandleX returns the evaluation-safe X offset for a handle of
// keys[i]: the post handle when post is true, otherwise the pre handle.
//
// Raw offsets are stored unconstrained and may reach past the adjacent
// key, which would make the curve multi-valued in time. When the two
// handles sharing a gap together exceed it, both are scaled by the same
// factor so their extents sum to exactly the gap; scaling them
// independently would distort the curve's symmetry. The open side of a
// boundary key has nothing to overlap and is returned raw.
//
// This is a pure read. Stored offsets are never rewritten, so moving or
// deleting a neighbor later re-derives validity from the new geometry
// instead of a previously baked value.
func ValidHandleX(keys []Keyframe, i int, post bool) float64 {
	var raw, partner, gap float64
	if post {
		raw = keys[i].PostX
		if i+1 >= len(keys) {
			return raw
		}
		partner = keys[i+1].PreX
		gap = keys[i+1].Time.Sub(keys[i].Time).Float()
	} else {
		raw = keys[i].PreX
		if i == 0 {
			return raw
		}
		partner = keys[i-1].PostX
		gap = keys[i].Time.Sub(keys[i-1].Time).Float()
	}

	combined := math.Abs(raw) + math.Abs(partner)
	if combined <= gap {
		return raw
	}
	return raw * (gap / combined)
}
