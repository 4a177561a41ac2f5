// seehuhn.de/go/roto - rotoscoping masks and paint strokes
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package bezier implements the geometry of roto shapes: a sequence of
// animated cubic Bezier control points together with a parallel sequence
// of feather points.
//
// Feather point i always belongs to control point i, and both sequences
// always have the same length. All points of a shape share the same
// keyframe times.
//
// A Bezier is not safe for concurrent modification. Callers are expected
// to hold the lock of the item owning the shape. Read-only methods,
// including [Bezier.IsClockwise], may be called concurrently.
package bezier

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"seehuhn.de/go/geom/vec"
)

// Bezier is an animated cubic Bezier spline with a feather outline.
type Bezier struct {
	points        []*ControlPoint
	featherPoints []*ControlPoint

	finished bool // the last point connects back to the first
	open     bool // rendered as a stroke instead of a filled shape

	autoOrientation bool

	// orientMu guards the orientation cache, which is filled lazily by
	// readers.
	orientMu          sync.Mutex
	clockwise         map[float64]bool // time -> orientation, animated shapes
	staticClockwise   bool
	staticOrientValid bool
}

// New returns an empty shape. If open is set, the curve is drawn as a
// stroke rather than filled.
func New(open bool) *Bezier {
	return &Bezier{
		open:            open,
		autoOrientation: true,
		clockwise:       make(map[float64]bool),
	}
}

// Len returns the number of control points.
func (b *Bezier) Len() int {
	return len(b.points)
}

// At returns control point i.
// It panics if i is out of range.
func (b *Bezier) At(i int) *ControlPoint {
	if i < 0 || i >= len(b.points) {
		panic(fmt.Sprintf("bezier: control point index %d out of range [0,%d)", i, len(b.points)))
	}
	return b.points[i]
}

// FeatherAt returns feather point i.
// It panics if i is out of range.
func (b *Bezier) FeatherAt(i int) *ControlPoint {
	if i < 0 || i >= len(b.featherPoints) {
		panic(fmt.Sprintf("bezier: feather point index %d out of range [0,%d)", i, len(b.featherPoints)))
	}
	return b.featherPoints[i]
}

// IsFinished reports whether the curve is closed.
func (b *Bezier) IsFinished() bool {
	return b.finished
}

// SetFinished marks the curve as closed or not closed.
func (b *Bezier) SetFinished(finished bool) {
	b.finished = finished
	b.invalidateOrientation()
}

// IsOpen reports whether the curve is an open, stroked curve.
func (b *Bezier) IsOpen() bool {
	return b.open
}

// AddPoint appends a new control point at p, together with a feather
// point at the same place. If the shape is animated, the new point gets
// keyframes at all existing keyframe times.
func (b *Bezier) AddPoint(p vec.Vec2) int {
	b.InsertPoint(len(b.points), p)
	return len(b.points) - 1
}

// InsertPoint inserts a new control point at p before index i.
// Index len(b) appends the point.
func (b *Bezier) InsertPoint(i int, p vec.Vec2) {
	if i < 0 || i > len(b.points) {
		panic(fmt.Sprintf("bezier: insert index %d out of range [0,%d]", i, len(b.points)))
	}
	cp := NewControlPoint(p)
	fp := NewControlPoint(p)
	for _, t := range b.KeyframeTimes() {
		cp.setKeyframe(t)
		fp.setKeyframe(t)
	}
	b.points = slices.Insert(b.points, i, cp)
	b.featherPoints = slices.Insert(b.featherPoints, i, fp)
	b.invalidateOrientation()
}

// RemovePoint removes control point i and its feather point.
func (b *Bezier) RemovePoint(i int) {
	b.At(i)
	b.points = slices.Delete(b.points, i, i+1)
	b.featherPoints = slices.Delete(b.featherPoints, i, i+1)
	b.invalidateOrientation()
}

// MovePoint moves control point i and its feather point by d at time t.
func (b *Bezier) MovePoint(i int, t float64, d vec.Vec2) {
	b.prepareEdit(t)
	b.At(i).Translate(t, d)
	b.FeatherAt(i).Translate(t, d)
	b.invalidateOrientation()
}

// MoveFeatherPoint moves only feather point i by d at time t.
func (b *Bezier) MoveFeatherPoint(i int, t float64, d vec.Vec2) {
	b.prepareEdit(t)
	b.FeatherAt(i).Translate(t, d)
}

// SetTangents sets the absolute handle positions of control point i at
// time t. The handles of the feather point get the same offsets relative
// to the feather point.
func (b *Bezier) SetTangents(i int, t float64, left, right vec.Vec2) {
	b.prepareEdit(t)
	cp := b.At(i)
	fp := b.FeatherAt(i)
	p := cp.Position(t)
	f := fp.Position(t)
	cp.SetTangents(t, left, right)
	fp.SetTangents(t, f.Add(left.Sub(p)), f.Add(right.Sub(p)))
	b.invalidateOrientation()
}

// SetFeatherTangents sets the absolute handle positions of feather point i
// at time t.
func (b *Bezier) SetFeatherTangents(i int, t float64, left, right vec.Vec2) {
	b.prepareEdit(t)
	b.FeatherAt(i).SetTangents(t, left, right)
}

// prepareEdit keys all points at t before an edit of an animated shape,
// so that all points keep sharing the same keyframe times.
func (b *Bezier) prepareEdit(t float64) {
	if len(b.points) > 0 && b.points[0].IsAnimated() && !b.HasKeyframeAt(t) {
		b.SetKeyframe(t)
	}
}

// KeyframeTimes returns the keyframe times of the shape.
func (b *Bezier) KeyframeTimes() []float64 {
	if len(b.points) == 0 {
		return nil
	}
	return b.points[0].KeyframeTimes()
}

// HasKeyframeAt reports whether the shape has a keyframe at time t.
func (b *Bezier) HasKeyframeAt(t float64) bool {
	if len(b.points) == 0 {
		return false
	}
	return b.points[0].HasKeyframeAt(t)
}

// SetKeyframe adds a keyframe at time t to all control and feather points,
// freezing their current positions.
func (b *Bezier) SetKeyframe(t float64) {
	for i := range b.points {
		b.points[i].setKeyframe(t)
		b.featherPoints[i].setKeyframe(t)
	}
	b.invalidateOrientation()
}

// RemoveKeyframe removes the keyframe at time t from all points.
func (b *Bezier) RemoveKeyframe(t float64) {
	for i := range b.points {
		b.points[i].removeKeyframe(t)
		b.featherPoints[i].removeKeyframe(t)
	}
	b.invalidateOrientation()
}

// Points returns the control point positions at time t.
func (b *Bezier) Points(t float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(b.points))
	for i, cp := range b.points {
		res[i] = cp.Position(t)
	}
	return res
}

// FeatherPositions returns the feather point positions at time t.
func (b *Bezier) FeatherPositions(t float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(b.featherPoints))
	for i, fp := range b.featherPoints {
		res[i] = fp.Position(t)
	}
	return res
}

// Clone returns a deep copy of the shape.
func (b *Bezier) Clone() *Bezier {
	b.orientMu.Lock()
	defer b.orientMu.Unlock()
	c := &Bezier{
		points:            make([]*ControlPoint, len(b.points)),
		featherPoints:     make([]*ControlPoint, len(b.featherPoints)),
		finished:          b.finished,
		open:              b.open,
		autoOrientation:   b.autoOrientation,
		clockwise:         make(map[float64]bool, len(b.clockwise)),
		staticClockwise:   b.staticClockwise,
		staticOrientValid: b.staticOrientValid,
	}
	for i := range b.points {
		c.points[i] = b.points[i].Clone()
		c.featherPoints[i] = b.featherPoints[i].Clone()
	}
	maps.Copy(c.clockwise, b.clockwise)
	return c
}

// NewPolygon returns a finished, closed shape with straight edges through
// the given points.
func NewPolygon(pts ...vec.Vec2) *Bezier {
	b := New(false)
	for _, p := range pts {
		b.AddPoint(p)
	}
	b.finished = true
	return b
}
