package keyframe

import (
	"math"
	"testing"

	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

func sec(s int64) timecode.Rational {
	return timecode.FromSeconds(s)
}

func numKey(t int64, v float64, in Interp) Keyframe {
	return Keyframe{Time: sec(t), Value: value.Number(v), Interp: in}
}

func TestResolveExtrapolatesFlat(t *testing.T) {
	keys := []Keyframe{
		numKey(1, 10, Linear),
		numKey(2, 20, Linear),
		numKey(3, 30, Linear),
	}

	if got := Resolve(keys, sec(0)).Float(); got != 10 {
		t.Errorf("Before first key: expected 10, got %v", got)
	}
	if got := Resolve(keys, sec(10)).Float(); got != 30 {
		t.Errorf("After last key: expected 30, got %v", got)
	}
	if got := Resolve(keys, timecode.New(-5, 2)).Float(); got != 10 {
		t.Errorf("Negative time: expected 10, got %v", got)
	}
}

func TestResolveLinearExactness(t *testing.T) {
	keys := []Keyframe{
		numKey(0, 0, Linear),
		numKey(10, 100, Linear),
	}

	got := Resolve(keys, sec(5)).Float()
	if math.Abs(got-50.0) > 1e-9 {
		t.Errorf("Expected 50.0, got %v", got)
	}

	// Quarter points too, at exact rational times.
	if got := Resolve(keys, timecode.New(5, 2)).Float(); math.Abs(got-25.0) > 1e-9 {
		t.Errorf("Expected 25.0, got %v", got)
	}
}

func TestResolveHoldSemantics(t *testing.T) {
	keys := []Keyframe{
		numKey(0, 1, Hold),
		numKey(10, 2, Hold),
	}

	if got := Resolve(keys, sec(5)).Float(); got != 1 {
		t.Errorf("Mid-gap: expected 1, got %v", got)
	}
	if got := Resolve(keys, timecode.New(9999, 1000)).Float(); got != 1 {
		t.Errorf("Just before snap: expected 1, got %v", got)
	}
	if got := Resolve(keys, sec(10)).Float(); got != 2 {
		t.Errorf("At second key: expected 2, got %v", got)
	}
}

func TestResolveInteriorExactHit(t *testing.T) {
	// Landing exactly on an interior key must return that key's value
	// even when the gap before it holds.
	keys := []Keyframe{
		numKey(0, 1, Hold),
		numKey(5, 7, Hold),
		numKey(10, 2, Hold),
	}

	if got := Resolve(keys, sec(5)).Float(); got != 7 {
		t.Errorf("Expected 7, got %v", got)
	}
}

func TestResolveSingleKey(t *testing.T) {
	keys := []Keyframe{numKey(3, 42, Bezier)}

	times := []timecode.Rational{sec(-100), sec(0), sec(3), sec(1000)}
	for _, at := range times {
		if got := Resolve(keys, at).Float(); got != 42 {
			t.Errorf("At %s: expected 42, got %v", at, got)
		}
	}
}

func TestResolveDuplicateTimesDoNotDivideByZero(t *testing.T) {
	// Duplicate times cannot be built through Insert; construct the
	// slice directly to prove a corrupt sequence still answers.
	keys := []Keyframe{
		numKey(0, 1, Linear),
		{Time: sec(5), Value: value.Number(10), Interp: Linear},
		{Time: sec(5), Value: value.Number(20), Interp: Linear},
		numKey(10, 2, Linear),
	}

	got := Resolve(keys, sec(5))
	if got.Float() != 10 && got.Float() != 20 {
		t.Errorf("Expected one of the duplicate keys' values, got %v", got.Float())
	}
}

func TestResolveNonNumericLinearHolds(t *testing.T) {
	keys := []Keyframe{
		{Time: sec(0), Value: value.Text("intro"), Interp: Linear},
		{Time: sec(10), Value: value.Text("outro"), Interp: Linear},
	}

	if got := Resolve(keys, sec(5)).Text(); got != "intro" {
		t.Errorf("Expected intro, got %q", got)
	}
	if got := Resolve(keys, sec(10)).Text(); got != "outro" {
		t.Errorf("Expected outro, got %q", got)
	}
}

func TestResolveColorBlendsPerChannel(t *testing.T) {
	keys := []Keyframe{
		{Time: sec(0), Value: value.Color(value.Opaque(0, 0, 0)), Interp: Linear},
		{Time: sec(10), Value: value.Color(value.Opaque(1, 0.5, 0)), Interp: Linear},
	}

	c := Resolve(keys, sec(5)).Color()
	if math.Abs(c.R-0.5) > 1e-9 || math.Abs(c.G-0.25) > 1e-9 || math.Abs(c.B) > 1e-9 {
		t.Errorf("Expected (0.5, 0.25, 0), got (%v, %v, %v)", c.R, c.G, c.B)
	}
}

func TestResolveMatchesLinearScan(t *testing.T) {
	// The binary search must agree with a straight scan over a long
	// sequence at awkward rational query times.
	var keys []Keyframe
	for i := int64(0); i < 100; i++ {
		keys = append(keys, numKey(i, float64(i*i), Linear))
	}

	queries := []timecode.Rational{
		timecode.New(1, 3), timecode.New(97, 2), timecode.New(199, 4),
		sec(0), sec(99), timecode.New(5000, 101),
	}

	for _, q := range queries {
		want := scanResolve(keys, q)
		got := Resolve(keys, q).Float()
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("At %s: expected %v, got %v", q, want, got)
		}
	}
}

// scanResolve is an O(n) reference implementation.
func scanResolve(keys []Keyframe, t timecode.Rational) float64 {
	if t.Cmp(keys[0].Time) <= 0 {
		return keys[0].Value.Float()
	}
	if t.Cmp(keys[len(keys)-1].Time) >= 0 {
		return keys[len(keys)-1].Value.Float()
	}
	for i := 0; i < len(keys)-1; i++ {
		if !keys[i].Time.Less(t) {
			continue
		}
		if t.Cmp(keys[i+1].Time) > 0 {
			continue
		}
		span := keys[i+1].Time.Sub(keys[i].Time).Float()
		d := t.Sub(keys[i].Time).Float() / span
		a, b := keys[i].Value.Float(), keys[i+1].Value.Float()
		return a + (b-a)*d
	}
	return keys[len(keys)-1].Value.Float()
}

func TestInsertKeepsOrderAndReplacesDuplicates(t *testing.T) {
	var keys []Keyframe
	order := []int64{5, 1, 9, 3, 7, 1, 5}
	for i, at := range order {
		keys = Insert(keys, numKey(at, float64(i), Linear))
	}

	if len(keys) != 5 {
		t.Fatalf("Expected 5 keys after duplicate inserts, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if !keys[i-1].Time.Less(keys[i].Time) {
			t.Fatalf("Keys out of order at %d: %s >= %s", i, keys[i-1].Time, keys[i].Time)
		}
	}

	// The later insert at t=1 (index 5) replaced the earlier one.
	if i := Find(keys, sec(1)); i < 0 || keys[i].Value.Float() != 5 {
		t.Errorf("Expected replacement value 5 at t=1")
	}
	if i := Find(keys, sec(4)); i != -1 {
		t.Errorf("Expected -1 for absent time, got %d", i)
	}
}

func TestSortDropsDuplicatesKeepingLast(t *testing.T) {
	keys := []Keyframe{
		numKey(5, 1, Linear),
		numKey(0, 2, Linear),
		numKey(5, 3, Linear),
		numKey(2, 4, Linear),
	}

	sorted := Sort(keys)
	if len(sorted) != 3 {
		t.Fatalf("Expected 3 keys, got %d", len(sorted))
	}
	if i := Find(sorted, sec(5)); sorted[i].Value.Float() != 3 {
		t.Errorf("Expected the later duplicate to win, got %v", sorted[i].Value.Float())
	}
}

func TestInterpStringRoundTrip(t *testing.T) {
	for _, in := range []Interp{Linear, Bezier, Hold} {
		back, err := ParseInterp(in.String())
		if err != nil {
			t.Fatalf("ParseInterp(%q) failed: %v", in.String(), err)
		}
		if back != in {
			t.Errorf("Expected %v, got %v", in, back)
		}
	}
	if _, err := ParseInterp("cubic"); err == nil {
		t.Error("Expected error for unknown interpolation name")
	}
}
