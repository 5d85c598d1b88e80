package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfaisalpk/olive/internal/keyframe"
	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

func TestDoubleFieldLinearBlend(t *testing.T) {
	row := NewRow("camera")
	zoom := NewDouble(row, "zoom", 1)
	zoom.SetKeyframing(true, sec(0))

	zoom.Set(sec(0), 0)
	zoom.Set(sec(10), 100)

	assert.Equal(t, 50.0, zoom.At(sec(5)))
	assert.Equal(t, 25.0, zoom.At(timecode.New(5, 2)))
}

func TestDoubleFieldRangeClamps(t *testing.T) {
	row := NewRow("camera")
	zoom := NewDouble(row, "zoom", 1)
	zoom.SetRange(1, 8)

	zoom.Set(sec(0), 120)
	assert.Equal(t, 8.0, zoom.At(sec(0)))

	zoom.Set(sec(0), -3)
	assert.Equal(t, 1.0, zoom.At(sec(0)))

	// Value handles can push the curve outside the keyed values; the
	// range bounds the read side too.
	zoom.SetKeyframing(true, sec(0))
	zoom.Set(sec(0), 2)
	zoom.Set(sec(10), 2)
	require.True(t, zoom.SetInterpAt(sec(0), keyframe.Bezier))
	require.True(t, zoom.SetHandlesAt(sec(0), 0, 0, 3, 100))
	assert.Equal(t, 8.0, zoom.At(sec(5)))
}

func TestAsDouble(t *testing.T) {
	row := NewRow("camera")
	row.AddField("zoom", value.KindNumber, value.Number(2))
	row.AddField("label", value.KindText, value.Text("wide"))

	d, err := AsDouble(row.Field("zoom"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.Get())

	_, err = AsDouble(row.Field("label"))
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestColorFieldBlendsPerChannel(t *testing.T) {
	row := NewRow("title")
	tint := NewColor(row, "tint", value.Opaque(0, 0, 0))
	tint.SetKeyframing(true, sec(0))

	tint.Set(sec(0), value.Opaque(0, 0, 0))
	tint.Set(sec(10), value.RGBA{R: 1, G: 0.5, B: 0, A: 1})

	got := tint.At(sec(5))
	assert.InDelta(t, 0.5, got.R, 1e-12)
	assert.InDelta(t, 0.25, got.G, 1e-12)
	assert.InDelta(t, 0.0, got.B, 1e-12)
	assert.InDelta(t, 1.0, got.A, 1e-12)
}

func TestTextFieldHoldsBetweenKeys(t *testing.T) {
	row := NewRow("title")
	caption := NewText(row, "caption", "")
	caption.SetKeyframing(true, sec(0))

	caption.Set(sec(0), "intro")
	caption.Set(sec(10), "outro")

	// Text cannot blend, so the earlier key answers until the next one.
	assert.Equal(t, "intro", caption.At(sec(0)))
	assert.Equal(t, "intro", caption.At(sec(9)))
	assert.Equal(t, "outro", caption.At(sec(10)))
	assert.Equal(t, "outro", caption.At(sec(99)))
}

func TestBoolFieldHoldsBetweenKeys(t *testing.T) {
	row := NewRow("title")
	visible := NewBool(row, "visible", false)
	visible.SetKeyframing(true, sec(0))

	visible.Set(sec(2), true)
	visible.Set(sec(8), false)

	assert.False(t, visible.At(sec(0)), "seeded with the persistent value")
	assert.True(t, visible.At(sec(2)))
	assert.True(t, visible.At(sec(7)))
	assert.False(t, visible.At(sec(8)))
}

func TestComboFieldClampsIndex(t *testing.T) {
	row := NewRow("title")
	align := NewCombo(row, "align", []string{"left", "center", "right"}, 1)

	assert.Equal(t, 1, align.At(sec(0)))
	assert.Equal(t, "center", align.LabelAt(sec(0)))

	align.Set(sec(0), 10)
	assert.Equal(t, 2, align.At(sec(0)), "index clamps to the item list")
	assert.Equal(t, "right", align.LabelAt(sec(0)))

	align.Set(sec(0), -5)
	assert.Equal(t, 0, align.At(sec(0)))
	assert.Equal(t, []string{"left", "center", "right"}, align.Items())
}
