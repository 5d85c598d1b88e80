package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGBA is a color with float64 channels in [0, 1]. Channels stay float
// so interpolation does not quantize until a frame is actually drawn.
type RGBA struct {
	R, G, B, A float64
}

// Opaque returns a fully opaque color.
func Opaque(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Lerp blends two colors per channel at progress t.
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	return RGBA{
		R: lerp(c.R, o.R, t),
		G: lerp(c.G, o.G, t),
		B: lerp(c.B, o.B, t),
		A: lerp(c.A, o.A, t),
	}
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c RGBA) Hex() string {
	r, g, b, a := channelByte(c.R), channelByte(c.G), channelByte(c.B), channelByte(c.A)
	if a == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// ParseHex reads #rrggbb or #rrggbbaa, with or without the leading #.
func ParseHex(s string) (RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return RGBA{}, fmt.Errorf("parse color %q: expected 6 or 8 hex digits", s)
	}
	n, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	if len(h) == 6 {
		n = n<<8 | 0xff
	}
	return RGBA{
		R: float64(n>>24&0xff) / 255,
		G: float64(n>>16&0xff) / 255,
		B: float64(n>>8&0xff) / 255,
		A: float64(n&0xff) / 255,
	}, nil
}

// channelByte quantizes a channel to one byte, clamping out-of-range
// values produced by overshooting interpolation handles.
func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 255))
}
