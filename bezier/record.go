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

package bezier

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/roto/anim"
)

// ErrFeatherMismatch is returned by [FromRecord] when the number of feather
// points differs from the number of control points.
var ErrFeatherMismatch = errors.New("feather point count does not match control point count")

// ErrKeyframeMismatch is returned by [FromRecord] when the points of a
// shape are not keyed at the same times.
var ErrKeyframeMismatch = errors.New("points have different keyframe times")

// PointRecord is the serializable state of a [ControlPoint].
type PointRecord struct {
	X      anim.Record `json:"x"`
	Y      anim.Record `json:"y"`
	LeftX  anim.Record `json:"leftX"`
	LeftY  anim.Record `json:"leftY"`
	RightX anim.Record `json:"rightX"`
	RightY anim.Record `json:"rightY"`
}

// Record is the serializable state of a [Bezier].
type Record struct {
	Points          []PointRecord `json:"points"`
	FeatherPoints   []PointRecord `json:"featherPoints"`
	Finished        bool          `json:"finished"`
	Open            bool          `json:"open,omitempty"`
	AutoOrientation bool          `json:"autoOrientation"`
}

// Record returns the serializable state of the point.
func (cp *ControlPoint) Record() PointRecord {
	return PointRecord{
		X:      cp.x.Record(),
		Y:      cp.y.Record(),
		LeftX:  cp.leftX.Record(),
		LeftY:  cp.leftY.Record(),
		RightX: cp.rightX.Record(),
		RightY: cp.rightY.Record(),
	}
}

func pointFromRecord(r PointRecord) *ControlPoint {
	return &ControlPoint{
		x:      anim.FromRecord(r.X),
		y:      anim.FromRecord(r.Y),
		leftX:  anim.FromRecord(r.LeftX),
		leftY:  anim.FromRecord(r.LeftY),
		rightX: anim.FromRecord(r.RightX),
		rightY: anim.FromRecord(r.RightY),
	}
}

// Record returns the serializable state of the shape.
func (b *Bezier) Record() Record {
	r := Record{
		Points:          make([]PointRecord, len(b.points)),
		FeatherPoints:   make([]PointRecord, len(b.featherPoints)),
		Finished:        b.finished,
		Open:            b.open,
		AutoOrientation: b.autoOrientation,
	}
	for i := range b.points {
		r.Points[i] = b.points[i].Record()
		r.FeatherPoints[i] = b.featherPoints[i].Record()
	}
	return r
}

// FromRecord reconstructs a shape from its serialized state.
func FromRecord(r Record) (*Bezier, error) {
	if len(r.Points) != len(r.FeatherPoints) {
		return nil, fmt.Errorf("bezier: %d points, %d feather points: %w",
			len(r.Points), len(r.FeatherPoints), ErrFeatherMismatch)
	}
	b := New(r.Open)
	b.finished = r.Finished
	b.autoOrientation = r.AutoOrientation
	for i := range r.Points {
		b.points = append(b.points, pointFromRecord(r.Points[i]))
		b.featherPoints = append(b.featherPoints, pointFromRecord(r.FeatherPoints[i]))
	}
	if err := b.checkKeyframes(); err != nil {
		return nil, err
	}
	return b, nil
}

// checkKeyframes verifies that all curves of all points share the keyframe
// times of the first point.
func (b *Bezier) checkKeyframes() error {
	if len(b.points) == 0 {
		return nil
	}
	times := b.points[0].KeyframeTimes()
	same := func(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }
	for _, list := range [][]*ControlPoint{b.points, b.featherPoints} {
		for i, cp := range list {
			for _, c := range cp.curves() {
				if !slices.EqualFunc(c.KeyframeTimes(), times, same) {
					return fmt.Errorf("bezier: point %d: %w", i, ErrKeyframeMismatch)
				}
			}
		}
	}
	return nil
}
