package effects

import (
	"fmt"

	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

// The typed field wrappers pin a field's kind at construction so reads
// and writes work in plain Go types with no error paths.

// DoubleField reads and writes float64 samples.
type DoubleField struct {
	*Field
	min, max float64
	ranged   bool
}

// NewDouble attaches a number field holding def to r.
func NewDouble(r *Row, name string, def float64) *DoubleField {
	return &DoubleField{Field: r.AddField(name, value.KindNumber, value.Number(def))}
}

// AsDouble views an existing field as a DoubleField, failing when the
// field holds another kind.
func AsDouble(f *Field) (*DoubleField, error) {
	if f.Kind() != value.KindNumber {
		return nil, fmt.Errorf("field %q: %w", f.Name(), ErrKindMismatch)
	}
	return &DoubleField{Field: f}, nil
}

// SetRange clamps every read and write to [min, max]. Bezier value
// handles can push the curve past the keyed values; the range bounds
// what callers see, not what is stored.
func (d *DoubleField) SetRange(min, max float64) {
	d.min, d.max = min, max
	d.ranged = true
}

func (d *DoubleField) clamp(v float64) float64 {
	if !d.ranged {
		return v
	}
	if v < d.min {
		return d.min
	}
	if v > d.max {
		return d.max
	}
	return v
}

// At resolves the field at time t.
func (d *DoubleField) At(t timecode.Rational) float64 {
	return d.clamp(d.ValueAt(t).Float())
}

// Get resolves the field at the row's current time.
func (d *DoubleField) Get() float64 {
	return d.clamp(d.Value().Float())
}

// Set writes v at time t.
func (d *DoubleField) Set(t timecode.Rational, v float64) {
	d.set(t, value.Number(d.clamp(v)))
}

// ColorField reads and writes RGBA samples.
type ColorField struct {
	*Field
}

// NewColor attaches a color field holding def to r.
func NewColor(r *Row, name string, def value.RGBA) *ColorField {
	return &ColorField{Field: r.AddField(name, value.KindColor, value.Color(def))}
}

// At resolves the field at time t.
func (c *ColorField) At(t timecode.Rational) value.RGBA {
	return c.ValueAt(t).Color()
}

// Set writes col at time t.
func (c *ColorField) Set(t timecode.Rational, col value.RGBA) {
	c.set(t, value.Color(col))
}

// TextField reads and writes string samples.
type TextField struct {
	*Field
}

// NewText attaches a text field holding def to r.
func NewText(r *Row, name string, def string) *TextField {
	return &TextField{Field: r.AddField(name, value.KindText, value.Text(def))}
}

// At resolves the field at time t.
func (f *TextField) At(t timecode.Rational) string {
	return f.ValueAt(t).Text()
}

// Set writes s at time t.
func (f *TextField) Set(t timecode.Rational, s string) {
	f.set(t, value.Text(s))
}

// BoolField reads and writes bool samples.
type BoolField struct {
	*Field
}

// NewBool attaches a bool field holding def to r.
func NewBool(r *Row, name string, def bool) *BoolField {
	return &BoolField{Field: r.AddField(name, value.KindBool, value.Bool(def))}
}

// At resolves the field at time t.
func (b *BoolField) At(t timecode.Rational) bool {
	return b.ValueAt(t).Bool()
}

// Set writes v at time t.
func (b *BoolField) Set(t timecode.Rational, v bool) {
	b.set(t, value.Bool(v))
}

// ComboField reads and writes an index into a fixed item list. Items
// must be non-empty.
type ComboField struct {
	*Field
	items []string
}

// NewCombo attaches an enum field to r, holding def as the selected
// index into items.
func NewCombo(r *Row, name string, items []string, def int) *ComboField {
	c := &ComboField{items: append([]string(nil), items...)}
	c.Field = r.AddField(name, value.KindEnum, value.Enum(c.clampIndex(def)))
	return c
}

// Items returns a copy of the item list.
func (c *ComboField) Items() []string {
	return append([]string(nil), c.items...)
}

func (c *ComboField) clampIndex(i int) int {
	if len(c.items) == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= len(c.items) {
		return len(c.items) - 1
	}
	return i
}

// At resolves the selected index at time t.
func (c *ComboField) At(t timecode.Rational) int {
	return c.clampIndex(c.ValueAt(t).Enum())
}

// LabelAt resolves the selected item text at time t.
func (c *ComboField) LabelAt(t timecode.Rational) string {
	if len(c.items) == 0 {
		return ""
	}
	return c.items[c.At(t)]
}

// Set selects index i at time t.
func (c *ComboField) Set(t timecode.Rational, i int) {
	c.set(t, value.Enum(c.clampIndex(i)))
}
