// Package effects models animatable parameters. A Row groups named
// Fields and carries the playhead; each Field is either static (one
// persistent value) or keyframed (a time-ordered keyframe sequence
// resolved through internal/keyframe). Mutations notify registered
// callbacks synchronously. Rows and fields are not safe for concurrent
// use.
package effects

import (
	"errors"
	"fmt"

	"github.com/imfaisalpk/olive/internal/keyframe"
	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

// ErrKindMismatch is returned when a value of the wrong kind is pushed
// into a field.
var ErrKindMismatch = errors.New("value kind does not match field kind")

// Field is one animatable parameter. While keyframing is off it holds a
// single persistent value; switching keyframing on seeds the sequence
// with that value, and switching it off reads the animated value back
// into the persistent slot before the keys are dropped. The enabled
// gate is separate from keyframing: a disabled field still answers
// queries, consumers just stop applying the answer.
type Field struct {
	row        *Row
	name       string
	kind       value.Kind
	persistent value.Value
	keys       []keyframe.Keyframe
	keyframing bool
	enabled    bool

	changeFns  []func()
	enabledFns []func(bool)
	keysFns    []func()
}

func newField(row *Row, name string, kind value.Kind, def value.Value) *Field {
	if def.Kind() != kind {
		panic("effects: default value kind mismatch for field " + name)
	}
	return &Field{row: row, name: name, kind: kind, persistent: def, enabled: true}
}

// Name returns the field's name, unique within its row.
func (f *Field) Name() string { return f.name }

// Kind returns the value kind every sample of this field carries.
func (f *Field) Kind() value.Kind { return f.kind }

// Keyframing reports whether the field is animated.
func (f *Field) Keyframing() bool { return f.keyframing }

// Enabled reports whether consumers should apply this field's value.
func (f *Field) Enabled() bool { return f.enabled }

// SetEnabled flips the gate consumers check before applying the field.
// Setting the state the field is already in notifies nobody.
func (f *Field) SetEnabled(on bool) {
	if on == f.enabled {
		return
	}
	f.enabled = on
	f.emitEnabledChange(on)
}

// Persistent returns the value used while keyframing is off. It is not
// updated by keyframe edits until keyframing is switched off again.
func (f *Field) Persistent() value.Value { return f.persistent }

// ValueAt resolves the field at time t. Static fields and fields whose
// keyframes were all removed answer with the persistent value. The
// enabled gate does not change the answer, only whether consumers use
// it.
func (f *Field) ValueAt(t timecode.Rational) value.Value {
	if !f.keyframing || len(f.keys) == 0 {
		return f.persistent
	}
	return keyframe.Resolve(f.keys, t)
}

// Value resolves the field at the row's current time.
func (f *Field) Value() value.Value {
	return f.ValueAt(f.row.time)
}

// SetValueAt writes v at time t: into the persistent slot when static,
// as a keyframe when animated. A keyframe already at t has its value
// updated in place, keeping its interpolation type and handles. Every
// accepted write notifies, even one that stores the value already held;
// undo machinery snapshots on the signal.
func (f *Field) SetValueAt(t timecode.Rational, v value.Value) error {
	if v.Kind() != f.kind {
		return fmt.Errorf("field %q: %w", f.name, ErrKindMismatch)
	}
	f.set(t, v)
	return nil
}

// set is SetValueAt after kind validation. The typed wrappers call it
// directly since their signatures cannot carry a wrong kind.
func (f *Field) set(t timecode.Rational, v value.Value) {
	if !f.keyframing {
		f.persistent = v
		f.emitChange()
		return
	}
	if i := keyframe.Find(f.keys, t); i >= 0 {
		f.keys[i].Value = v
		f.emitChange()
		return
	}
	f.keys = keyframe.Insert(f.keys, keyframe.Keyframe{Time: t, Value: v, Interp: keyframe.Linear})
	f.emitKeyframesChange()
	f.emitChange()
}

// SetKeyframing switches the field between static and animated at time
// at, usually the playhead. Enabling seeds one Linear key there holding
// the persistent value; disabling reads the animated value there back
// into the persistent slot before the keys go away, so static playback
// keeps showing what was on screen. Asking for the state the field is
// already in does nothing.
func (f *Field) SetKeyframing(on bool, at timecode.Rational) {
	if on == f.keyframing {
		return
	}
	if on {
		f.keyframing = true
		if len(f.keys) == 0 {
			f.keys = []keyframe.Keyframe{{Time: at, Value: f.persistent, Interp: keyframe.Linear}}
		}
	} else {
		v := f.ValueAt(at)
		f.keys = nil
		f.keyframing = false
		f.persistent = v
	}
	f.emitKeyframesChange()
}

// Keyframes returns a copy of the keyframe sequence in time order.
func (f *Field) Keyframes() []keyframe.Keyframe {
	out := make([]keyframe.Keyframe, len(f.keys))
	copy(out, f.keys)
	return out
}

// SetKeyframes replaces the whole sequence, ordering it and collapsing
// duplicate times. A non-empty sequence switches keyframing on, an
// empty one switches it off. Project loading and undo go through here.
func (f *Field) SetKeyframes(keys []keyframe.Keyframe) error {
	for _, k := range keys {
		if k.Value.Kind() != f.kind {
			return fmt.Errorf("field %q: keyframe at %s: %w", f.name, k.Time, ErrKindMismatch)
		}
	}
	f.keys = keyframe.Sort(keys)
	f.keyframing = len(f.keys) > 0
	f.emitKeyframesChange()
	f.emitChange()
	return nil
}

// RemoveKeyframeAt deletes the key at exactly t and reports whether one
// was there. Removing the last key leaves keyframing on; the field then
// answers with the persistent value until a key is set again.
func (f *Field) RemoveKeyframeAt(t timecode.Rational) bool {
	i := keyframe.Find(f.keys, t)
	if i < 0 {
		return false
	}
	f.keys = append(f.keys[:i], f.keys[i+1:]...)
	f.emitKeyframesChange()
	f.emitChange()
	return true
}

// SetInterpAt changes the interpolation type of the key at exactly t
// and reports whether one was there.
func (f *Field) SetInterpAt(t timecode.Rational, interp keyframe.Interp) bool {
	i := keyframe.Find(f.keys, t)
	if i < 0 {
		return false
	}
	if f.keys[i].Interp == interp {
		return true
	}
	f.keys[i].Interp = interp
	f.emitKeyframesChange()
	f.emitChange()
	return true
}

// SetHandlesAt replaces the bezier handle offsets of the key at exactly
// t and reports whether one was there. Offsets are stored raw; reads
// constrain them, see ValidHandleX.
func (f *Field) SetHandlesAt(t timecode.Rational, preX, preY, postX, postY float64) bool {
	i := keyframe.Find(f.keys, t)
	if i < 0 {
		return false
	}
	k := &f.keys[i]
	if k.PreX == preX && k.PreY == preY && k.PostX == postX && k.PostY == postY {
		return true
	}
	k.PreX, k.PreY, k.PostX, k.PostY = preX, preY, postX, postY
	f.emitKeyframesChange()
	f.emitChange()
	return true
}

// ValidHandleX returns the effective time offset of one handle of the
// key at index i, scaled down together with the facing neighbor handle
// when their extents overflow the gap between the two keys.
func (f *Field) ValidHandleX(i int, post bool) float64 {
	return keyframe.ValidHandleX(f.keys, i, post)
}

// OnChange registers fn to run after every effective value change.
func (f *Field) OnChange(fn func()) {
	f.changeFns = append(f.changeFns, fn)
}

// OnEnabledChange registers fn to run after SetEnabled actually flips
// the gate.
func (f *Field) OnEnabledChange(fn func(bool)) {
	f.enabledFns = append(f.enabledFns, fn)
}

// OnKeyframesChange registers fn to run after the keyframe sequence
// changes shape: keys added, removed, replaced or re-curved.
func (f *Field) OnKeyframesChange(fn func()) {
	f.keysFns = append(f.keysFns, fn)
}

func (f *Field) emitChange() {
	for _, fn := range f.changeFns {
		fn()
	}
}

func (f *Field) emitEnabledChange(on bool) {
	for _, fn := range f.enabledFns {
		fn(on)
	}
}

func (f *Field) emitKeyframesChange() {
	for _, fn := range f.keysFns {
		fn()
	}
}
