package timecode

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Rational is an exact timestamp expressed as Num/Den seconds.
// Keyframes are looked up by exact time match, so timestamps must
// compare exactly; float64 drifts across edit and reload cycles.
// The zero value is the timeline origin.
type Rational struct {
	Num int64
	Den int64
}

// New returns num/den in canonical form: Den positive, fraction
// reduced, zero stored as 0/1. A zero denominator panics, matching
// the division it stands for.
func New(num, den int64) Rational {
	if den == 0 {
		panic("timecode: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Rational{0, 1}
	}
	g := gcd(abs(num), den)
	return Rational{num / g, den / g}
}

// FromSeconds returns a whole number of seconds.
func FromSeconds(s int64) Rational {
	return Rational{s, 1}
}

// FromFrame returns the timestamp of a frame index at an integer frame
// rate. Frame 90 at 30 fps is exactly 3 seconds.
func FromFrame(frame int64, fps int) Rational {
	return New(frame, int64(fps))
}

// canonical normalizes a Rational that may have been built directly,
// e.g. decoded from a file.
func (r Rational) canonical() Rational {
	if r.Den == 0 {
		return Rational{0, 1}
	}
	return New(r.Num, r.Den)
}

// Cmp returns -1, 0 or 1 as r is less than, equal to or greater than o.
// The cross products are compared in 128 bits, so extreme terms read
// from a project file cannot wrap int64 and misorder keys.
func (r Rational) Cmp(o Rational) int {
	a, b := r.canonical(), o.canonical()
	lhi, llo := mul128(a.Num, b.Den)
	rhi, rlo := mul128(b.Num, a.Den)
	switch {
	case lhi < rhi:
		return -1
	case lhi > rhi:
		return 1
	case llo < rlo:
		return -1
	case llo > rlo:
		return 1
	default:
		return 0
	}
}

// mul128 returns x*y as a signed 128-bit value split into a high and a
// low half.
func mul128(x, y int64) (hi int64, lo uint64) {
	neg := (x < 0) != (y < 0)
	ux, uy := uint64(x), uint64(y)
	if x < 0 {
		ux = -ux
	}
	if y < 0 {
		uy = -uy
	}
	h, l := bits.Mul64(ux, uy)
	if neg {
		h, l = ^h, ^l+1
		if l == 0 {
			h++
		}
	}
	return int64(h), l
}

// Equal reports exact equality.
func (r Rational) Equal(o Rational) bool {
	return r.Cmp(o) == 0
}

// Less reports whether r is strictly before o.
func (r Rational) Less(o Rational) bool {
	return r.Cmp(o) < 0
}

// Add returns r + o. The common denominator is reduced by its GCD
// before multiplying, so sums over large media timebases stay inside
// int64.
func (r Rational) Add(o Rational) Rational {
	a, b := r.canonical(), o.canonical()
	g := gcd(a.Den, b.Den)
	return New(a.Num*(b.Den/g)+b.Num*(a.Den/g), a.Den/g*b.Den)
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) Rational {
	a, b := r.canonical(), o.canonical()
	g := gcd(a.Den, b.Den)
	return New(a.Num*(b.Den/g)-b.Num*(a.Den/g), a.Den/g*b.Den)
}

// Mul returns r * o, cross-reducing the factors first.
func (r Rational) Mul(o Rational) Rational {
	a, b := r.canonical(), o.canonical()
	g1 := gcd(abs(a.Num), b.Den)
	g2 := gcd(abs(b.Num), a.Den)
	return New((a.Num/g1)*(b.Num/g2), (a.Den/g2)*(b.Den/g1))
}

// Float converts to seconds as float64. Lossy; for geometry and
// progress math only, never for key identity.
func (r Rational) Float() float64 {
	c := r.canonical()
	return float64(c.Num) / float64(c.Den)
}

// IsZero reports whether r is the timeline origin.
func (r Rational) IsZero() bool {
	return r.Num == 0
}

// String formats r as "num/den", or just "num" for whole seconds.
func (r Rational) String() string {
	c := r.canonical()
	if c.Den == 1 {
		return strconv.FormatInt(c.Num, 10)
	}
	return fmt.Sprintf("%d/%d", c.Num, c.Den)
}

// Parse reads the String form back: "3", "-7/2", "1001/30000".
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, fmt.Errorf("parse timecode: empty string")
	}
	num, denStr, found := strings.Cut(s, "/")
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse timecode %q: %w", s, err)
	}
	if !found {
		return Rational{n, 1}, nil
	}
	d, err := strconv.ParseInt(denStr, 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse timecode %q: %w", s, err)
	}
	if d == 0 {
		return Rational{}, fmt.Errorf("parse timecode %q: zero denominator", s)
	}
	return New(n, d), nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
