package effects

import (
	"github.com/google/uuid"

	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

// Row is a named group of fields sharing one playhead and one group
// keyframing switch, e.g. the camera parameters of a clip.
type Row struct {
	id         string
	name       string
	time       timecode.Rational
	keyframing bool
	fields     []*Field
}

// RowOption configures a Row at construction.
type RowOption func(*Row)

// WithID pins the row identity instead of generating one. Project
// loading uses it to keep identities stable across save and load.
func WithID(id string) RowOption {
	return func(r *Row) { r.id = id }
}

// WithKeyframing sets the group keyframing switch before any fields
// exist, so fields added later are seeded as animated.
func WithKeyframing(on bool) RowOption {
	return func(r *Row) { r.keyframing = on }
}

// WithTime sets the initial playhead.
func WithTime(t timecode.Rational) RowOption {
	return func(r *Row) { r.time = t }
}

// NewRow creates an empty row named name.
func NewRow(name string, opts ...RowOption) *Row {
	r := &Row{id: uuid.NewString(), name: name}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the row's identity.
func (r *Row) ID() string { return r.id }

// Name returns the row's display name.
func (r *Row) Name() string { return r.name }

// Time returns the playhead.
func (r *Row) Time() timecode.Rational { return r.time }

// SetTime moves the playhead. Moving it does not notify field
// callbacks; the playhead decides where reads and writes land, not
// what the stored animation is.
func (r *Row) SetTime(t timecode.Rational) { r.time = t }

// Keyframing reports the group switch.
func (r *Row) Keyframing() bool { return r.keyframing }

// SetKeyframing flips the group switch and every field with it, seeding
// and reading at the playhead. Fields already in the requested state
// are left alone.
func (r *Row) SetKeyframing(on bool) {
	if on == r.keyframing {
		return
	}
	r.keyframing = on
	for _, f := range r.fields {
		f.SetKeyframing(on, r.time)
	}
}

// AddField creates a field holding def and attaches it to the row.
// Field names are expected to be unique within a row. A field added
// while the group switch is on starts out animated, seeded at the
// current playhead.
func (r *Row) AddField(name string, kind value.Kind, def value.Value) *Field {
	f := newField(r, name, kind, def)
	if r.keyframing {
		f.SetKeyframing(true, r.time)
	}
	r.fields = append(r.fields, f)
	return f
}

// Field returns the field named name, or nil.
func (r *Row) Field(name string) *Field {
	for _, f := range r.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Fields returns the fields in the order they were added.
func (r *Row) Fields() []*Field {
	out := make([]*Field, len(r.fields))
	copy(out, r.fields)
	return out
}
