// Package director builds camera paths over document pages: it finds
// the readable regions of a page and plants an animated camera row
// that visits them the way a narrator would.
package director

import (
	"errors"
	"fmt"

	"github.com/imfaisalpk/olive/internal/effects"
	"github.com/imfaisalpk/olive/internal/timecode"
)

// Field names a camera row carries in a project file.
const (
	FieldZoom = "zoom"
	FieldCX   = "cx"
	FieldCY   = "cy"
)

// ErrNoCamera is returned when no row of a project binds as a camera.
var ErrNoCamera = errors.New("no camera row in project")

// Camera is the animatable viewpoint over a page: a zoom factor plus
// the view center in page fractions. Zoom 1 centered at (0.5, 0.5) is
// the full page.
type Camera struct {
	Row  *effects.Row
	Zoom *effects.DoubleField
	CX   *effects.DoubleField
	CY   *effects.DoubleField
}

// NewCamera builds a camera row at the full page view.
func NewCamera(opts ...effects.RowOption) *Camera {
	row := effects.NewRow("camera", opts...)
	cam := &Camera{
		Row:  row,
		Zoom: effects.NewDouble(row, FieldZoom, 1),
		CX:   effects.NewDouble(row, FieldCX, 0.5),
		CY:   effects.NewDouble(row, FieldCY, 0.5),
	}
	cam.applyRanges()
	return cam
}

// FromRow views an existing row as a camera, binding its zoom and
// center fields.
func FromRow(row *effects.Row) (*Camera, error) {
	cam := &Camera{Row: row}
	for _, bind := range []struct {
		name  string
		field **effects.DoubleField
	}{
		{FieldZoom, &cam.Zoom},
		{FieldCX, &cam.CX},
		{FieldCY, &cam.CY},
	} {
		f := row.Field(bind.name)
		if f == nil {
			return nil, fmt.Errorf("row %q: missing field %q", row.Name(), bind.name)
		}
		d, err := effects.AsDouble(f)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", row.Name(), err)
		}
		*bind.field = d
	}
	cam.applyRanges()
	return cam, nil
}

func (c *Camera) applyRanges() {
	c.Zoom.SetRange(1, 8)
	c.CX.SetRange(0, 1)
	c.CY.SetRange(0, 1)
}

// FindCamera returns the first row that binds as a camera.
func FindCamera(rows []*effects.Row) (*Camera, error) {
	for _, row := range rows {
		if cam, err := FromRow(row); err == nil {
			return cam, nil
		}
	}
	return nil, ErrNoCamera
}

// State is the camera at one instant.
type State struct {
	Zoom float64
	CX   float64
	CY   float64
}

// StateAt resolves the camera at time t. Fields that are not animated
// answer with their persistent values, so a fresh camera is the full
// page everywhere. Disabled fields are not applied at all: the axis
// stays at its full-view value, which mutes one axis of a move without
// touching its keys.
func (c *Camera) StateAt(t timecode.Rational) State {
	st := State{Zoom: 1, CX: 0.5, CY: 0.5}
	if c.Zoom.Enabled() {
		st.Zoom = c.Zoom.At(t)
	}
	if c.CX.Enabled() {
		st.CX = c.CX.At(t)
	}
	if c.CY.Enabled() {
		st.CY = c.CY.At(t)
	}
	return st
}

// Duration returns the time of the last keyframe across the camera
// fields: the natural clip length of a planted path.
func (c *Camera) Duration() timecode.Rational {
	var last timecode.Rational
	for _, f := range c.Row.Fields() {
		keys := f.Keyframes()
		if len(keys) == 0 {
			continue
		}
		if t := keys[len(keys)-1].Time; last.Less(t) {
			last = t
		}
	}
	return last
}
