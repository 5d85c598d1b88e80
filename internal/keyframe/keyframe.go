package keyframe

import (
	"fmt"
	"sort"

	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

// Interp selects how the gap after a keyframe is traversed.
type Interp uint8

const (
	Linear Interp = iota
	Bezier
	Hold
)

var interpNames = map[Interp]string{
	Linear: "linear",
	Bezier: "bezier",
	Hold:   "hold",
}

func (i Interp) String() string {
	if name, ok := interpNames[i]; ok {
		return name
	}
	return fmt.Sprintf("interp(%d)", uint8(i))
}

// ParseInterp reads the String form back.
func ParseInterp(s string) (Interp, error) {
	for i, name := range interpNames {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation type %q", s)
}

// Keyframe is one sample of a parameter: a value pinned to an exact
// time, plus the bezier handle offsets shaping the curve on either
// side. Handle offsets are relative to the key, X in seconds and Y in
// value units; pre handles point left (negative X), post handles right.
// Raw offsets are stored as entered and constrained only on read, see
// ValidHandleX.
type Keyframe struct {
	Time   timecode.Rational
	Value  value.Value
	Interp Interp

	PreX, PreY   float64
	PostX, PostY float64
}

// search returns the index of the first key at or after t.
func search(keys []Keyframe, t timecode.Rational) int {
	return sort.Search(len(keys), func(i int) bool {
		return !keys[i].Time.Less(t)
	})
}

// Find returns the index of the key at exactly t, or -1.
func Find(keys []Keyframe, t timecode.Rational) int {
	i := search(keys, t)
	if i < len(keys) && keys[i].Time.Equal(t) {
		return i
	}
	return -1
}

// Insert adds k to the sequence, keeping ascending time order. A key
// already present at the same time is replaced, never duplicated.
func Insert(keys []Keyframe, k Keyframe) []Keyframe {
	i := search(keys, k.Time)
	if i < len(keys) && keys[i].Time.Equal(k.Time) {
		keys[i] = k
		return keys
	}
	keys = append(keys, Keyframe{})
	copy(keys[i+1:], keys[i:])
	keys[i] = k
	return keys
}

// Sort orders keys ascending by time and drops duplicate times, keeping
// the last entry for each time. Used when accepting a whole sequence
// from outside, e.g. a project file or an undo snapshot.
func Sort(keys []Keyframe) []Keyframe {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Less(sorted[j].Time)
	})

	out := sorted[:0]
	for _, k := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(k.Time) {
			out[n-1] = k
			continue
		}
		out = append(out, k)
	}
	return out
}
