// Package project saves and loads effect rows as YAML. The file format
// is a plain snapshot: rows with their fields, each field with its
// persistent value and keyframe sequence, times as exact rationals.
package project

import (
	"errors"
	"fmt"

	"github.com/imfaisalpk/olive/internal/effects"
	"github.com/imfaisalpk/olive/internal/keyframe"
	"github.com/imfaisalpk/olive/internal/timecode"
	"github.com/imfaisalpk/olive/internal/value"
)

// Version is the project file version this build writes and accepts.
const Version = 1

// ErrVersion is returned when a project file carries another version.
var ErrVersion = errors.New("unsupported project version")

// Project is the root of a project file.
type Project struct {
	Version int   `yaml:"version"`
	Rows    []Row `yaml:"rows"`
}

// Row is one effect row in a project file.
type Row struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Keyframing bool    `yaml:"keyframing,omitempty"`
	Time       string  `yaml:"time,omitempty"`
	Fields     []Field `yaml:"fields"`
}

// Field is one animatable parameter in a project file. Fields are
// enabled unless marked disabled; keyframing state is implied by the
// keyframe list.
type Field struct {
	Name       string     `yaml:"name"`
	Kind       string     `yaml:"kind"`
	Disabled   bool       `yaml:"disabled,omitempty"`
	Persistent any        `yaml:"persistent"`
	Keyframes  []Keyframe `yaml:"keyframes,omitempty"`
}

// Keyframe is one keyframe in a project file. Time is an exact
// rational, "5/2" or "3". Interp defaults to linear, handles to zero.
type Keyframe struct {
	Time   string    `yaml:"time"`
	Value  any       `yaml:"value"`
	Interp string    `yaml:"interp,omitempty"`
	Pre    []float64 `yaml:"pre,flow,omitempty"`
	Post   []float64 `yaml:"post,flow,omitempty"`
}

// Snapshot captures rows into their file form.
func Snapshot(rows []*effects.Row) *Project {
	p := &Project{Version: Version}
	for _, row := range rows {
		pr := Row{ID: row.ID(), Name: row.Name(), Keyframing: row.Keyframing()}
		if !row.Time().IsZero() {
			pr.Time = row.Time().String()
		}
		for _, f := range row.Fields() {
			pf := Field{
				Name:       f.Name(),
				Kind:       f.Kind().String(),
				Disabled:   !f.Enabled(),
				Persistent: f.Persistent().Primitive(),
			}
			for _, k := range f.Keyframes() {
				pk := Keyframe{Time: k.Time.String(), Value: k.Value.Primitive()}
				if k.Interp != keyframe.Linear {
					pk.Interp = k.Interp.String()
				}
				if k.PreX != 0 || k.PreY != 0 {
					pk.Pre = []float64{k.PreX, k.PreY}
				}
				if k.PostX != 0 || k.PostY != 0 {
					pk.Post = []float64{k.PostX, k.PostY}
				}
				pf.Keyframes = append(pf.Keyframes, pk)
			}
			pr.Fields = append(pr.Fields, pf)
		}
		p.Rows = append(p.Rows, pr)
	}
	return p
}

// Restore rebuilds live rows from their file form.
func Restore(p *Project) ([]*effects.Row, error) {
	if p.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, p.Version)
	}
	rows := make([]*effects.Row, 0, len(p.Rows))
	for _, pr := range p.Rows {
		row, err := restoreRow(pr)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", pr.Name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func restoreRow(pr Row) (*effects.Row, error) {
	opts := make([]effects.RowOption, 0, 3)
	if pr.ID != "" {
		opts = append(opts, effects.WithID(pr.ID))
	}
	if pr.Keyframing {
		opts = append(opts, effects.WithKeyframing(true))
	}
	if pr.Time != "" {
		t, err := timecode.Parse(pr.Time)
		if err != nil {
			return nil, fmt.Errorf("time: %w", err)
		}
		opts = append(opts, effects.WithTime(t))
	}
	row := effects.NewRow(pr.Name, opts...)
	for _, pf := range pr.Fields {
		if err := restoreField(row, pf); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func restoreField(row *effects.Row, pf Field) error {
	kind, err := value.ParseKind(pf.Kind)
	if err != nil {
		return fmt.Errorf("field %q: %w", pf.Name, err)
	}
	def, err := value.FromPrimitive(kind, pf.Persistent)
	if err != nil {
		return fmt.Errorf("field %q: persistent: %w", pf.Name, err)
	}
	f := row.AddField(pf.Name, kind, def)

	keys := make([]keyframe.Keyframe, 0, len(pf.Keyframes))
	for i, pk := range pf.Keyframes {
		k, err := restoreKeyframe(kind, pk)
		if err != nil {
			return fmt.Errorf("field %q: keyframe %d: %w", pf.Name, i, err)
		}
		keys = append(keys, k)
	}
	// SetKeyframes also overwrites the seed key a group-keyframed row
	// plants in AddField, so loading never invents keys.
	if err := f.SetKeyframes(keys); err != nil {
		return fmt.Errorf("field %q: %w", pf.Name, err)
	}
	if pf.Disabled {
		f.SetEnabled(false)
	}
	return nil
}

func restoreKeyframe(kind value.Kind, pk Keyframe) (keyframe.Keyframe, error) {
	var k keyframe.Keyframe

	t, err := timecode.Parse(pk.Time)
	if err != nil {
		return k, err
	}
	v, err := value.FromPrimitive(kind, pk.Value)
	if err != nil {
		return k, err
	}
	interp := keyframe.Linear
	if pk.Interp != "" {
		if interp, err = keyframe.ParseInterp(pk.Interp); err != nil {
			return k, err
		}
	}

	k = keyframe.Keyframe{Time: t, Value: v, Interp: interp}
	if err := handlePair(pk.Pre, &k.PreX, &k.PreY); err != nil {
		return k, fmt.Errorf("pre handle: %w", err)
	}
	if err := handlePair(pk.Post, &k.PostX, &k.PostY); err != nil {
		return k, fmt.Errorf("post handle: %w", err)
	}
	return k, nil
}

func handlePair(p []float64, x, y *float64) error {
	switch len(p) {
	case 0:
	case 2:
		*x, *y = p[0], p[1]
	default:
		return fmt.Errorf("expected two offsets, got %d", len(p))
	}
	return nil
}
