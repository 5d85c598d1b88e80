package keyframe

import (
	"math"
	"testing"
)

func TestValidHandleXSharedGapScaling(t *testing.T) {
	// Raw extents sum to 12 over a gap of 10: both handles scale by
	// the same 10/12 factor so their extents sum to exactly the gap.
	keys := []Keyframe{
		{Time: sec(0), Interp: Bezier, PostX: 8},
		{Time: sec(10), Interp: Bezier, PreX: -4},
	}

	post := ValidHandleX(keys, 0, true)
	pre := ValidHandleX(keys, 1, false)

	scale := 10.0 / 12.0
	if math.Abs(post-8*scale) > 1e-9 {
		t.Errorf("Expected post %v, got %v", 8*scale, post)
	}
	if math.Abs(pre-(-4*scale)) > 1e-9 {
		t.Errorf("Expected pre %v, got %v", -4*scale, pre)
	}
	if sum := math.Abs(post) + math.Abs(pre); math.Abs(sum-10) > 1e-9 {
		t.Errorf("Expected extents to sum to the gap, got %v", sum)
	}

	// Raw offsets are never rewritten.
	if keys[0].PostX != 8 || keys[1].PreX != -4 {
		t.Errorf("Raw offsets changed: post=%v pre=%v", keys[0].PostX, keys[1].PreX)
	}
}

func TestValidHandleXWithinGapUntouched(t *testing.T) {
	keys := []Keyframe{
		{Time: sec(0), Interp: Bezier, PostX: 3},
		{Time: sec(10), Interp: Bezier, PreX: -4},
	}

	if got := ValidHandleX(keys, 0, true); got != 3 {
		t.Errorf("Expected 3, got %v", got)
	}
	if got := ValidHandleX(keys, 1, false); got != -4 {
		t.Errorf("Expected -4, got %v", got)
	}
}

func TestValidHandleXSingleSidedOverflowCapsAtGap(t *testing.T) {
	keys := []Keyframe{
		{Time: sec(0), Interp: Bezier, PostX: 25},
		{Time: sec(10), Interp: Bezier, PreX: 0},
	}

	if got := ValidHandleX(keys, 0, true); math.Abs(got-10) > 1e-9 {
		t.Errorf("Expected cap at gap 10, got %v", got)
	}
}

func TestValidHandleXBoundaryOpenSidesAreRaw(t *testing.T) {
	keys := []Keyframe{
		{Time: sec(0), Interp: Bezier, PreX: -1000, PostX: 2},
		{Time: sec(10), Interp: Bezier, PreX: -2, PostX: 1000},
	}

	if got := ValidHandleX(keys, 0, false); got != -1000 {
		t.Errorf("First key's pre side has no neighbor: expected -1000, got %v", got)
	}
	if got := ValidHandleX(keys, 1, true); got != 1000 {
		t.Errorf("Last key's post side has no neighbor: expected 1000, got %v", got)
	}
}

func TestValidHandleXRecalculatesAfterNeighborMove(t *testing.T) {
	keys := []Keyframe{
		{Time: sec(0), Interp: Bezier, PostX: 8},
		{Time: sec(10), Interp: Bezier, PreX: -4},
	}

	before := ValidHandleX(keys, 0, true)

	// Widen the gap: the same raw offsets now fit and come back raw.
	keys[1].Time = sec(20)
	after := ValidHandleX(keys, 0, true)

	if math.Abs(before-8*10.0/12.0) > 1e-9 {
		t.Errorf("Expected scaled offset before the move, got %v", before)
	}
	if after != 8 {
		t.Errorf("Expected raw offset after the move, got %v", after)
	}
}

func TestValidHandleXMiddleKeyConstrainedPerSide(t *testing.T) {
	// A middle key faces a different partner on each side; the two
	// sides scale independently of each other.
	keys := []Keyframe{
		{Time: sec(0), Interp: Bezier, PostX: 9},
		{Time: sec(10), Interp: Bezier, PreX: -9, PostX: 1},
		{Time: sec(30), Interp: Bezier, PreX: -2},
	}

	leftPre := ValidHandleX(keys, 1, false)
	rightPost := ValidHandleX(keys, 1, true)

	// Left gap 10 against post 9: combined 18, scale 10/18.
	if math.Abs(leftPre-(-9*10.0/18.0)) > 1e-9 {
		t.Errorf("Expected %v, got %v", -9*10.0/18.0, leftPre)
	}
	// Right gap 20 against pre 2: combined 3 fits, raw survives.
	if rightPost != 1 {
		t.Errorf("Expected 1, got %v", rightPost)
	}
}

func TestValidHandleXNegativeGapExtentSigns(t *testing.T) {
	// Sign of the stored offset survives scaling.
	keys := []Keyframe{
		{Time: sec(0), Interp: Bezier, PostX: 30},
		{Time: sec(10), Interp: Bezier, PreX: -30},
	}

	post := ValidHandleX(keys, 0, true)
	pre := ValidHandleX(keys, 1, false)
	if post <= 0 {
		t.Errorf("Post handle should stay positive, got %v", post)
	}
	if pre >= 0 {
		t.Errorf("Pre handle should stay negative, got %v", pre)
	}
	if math.Abs(post-5) > 1e-9 || math.Abs(pre+5) > 1e-9 {
		t.Errorf("Expected symmetric split of the gap, got post=%v pre=%v", post, pre)
	}
}
