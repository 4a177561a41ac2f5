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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/anim"
)

// ControlPoint is an animated point of a Bezier curve, together with its
// two tangent handles. The handles are stored as absolute positions, not as
// offsets from the point.
type ControlPoint struct {
	x, y           *anim.Curve
	leftX, leftY   *anim.Curve
	rightX, rightY *anim.Curve
}

// NewControlPoint returns a static control point at p with both tangent
// handles on the point.
func NewControlPoint(p vec.Vec2) *ControlPoint {
	return &ControlPoint{
		x:      anim.NewCurve(p.X),
		y:      anim.NewCurve(p.Y),
		leftX:  anim.NewCurve(p.X),
		leftY:  anim.NewCurve(p.Y),
		rightX: anim.NewCurve(p.X),
		rightY: anim.NewCurve(p.Y),
	}
}

func (cp *ControlPoint) curves() [6]*anim.Curve {
	return [6]*anim.Curve{cp.x, cp.y, cp.leftX, cp.leftY, cp.rightX, cp.rightY}
}

// Position returns the position of the point at time t.
func (cp *ControlPoint) Position(t float64) vec.Vec2 {
	return vec.Vec2{X: cp.x.ValueAt(t), Y: cp.y.ValueAt(t)}
}

// LeftTangent returns the position of the left (incoming) handle at time t.
func (cp *ControlPoint) LeftTangent(t float64) vec.Vec2 {
	return vec.Vec2{X: cp.leftX.ValueAt(t), Y: cp.leftY.ValueAt(t)}
}

// RightTangent returns the position of the right (outgoing) handle at time t.
func (cp *ControlPoint) RightTangent(t float64) vec.Vec2 {
	return vec.Vec2{X: cp.rightX.ValueAt(t), Y: cp.rightY.ValueAt(t)}
}

// KeyframeTimes returns the keyframe times of the point.
func (cp *ControlPoint) KeyframeTimes() []float64 {
	return cp.x.KeyframeTimes()
}

// HasKeyframeAt reports whether the point has a keyframe at time t.
func (cp *ControlPoint) HasKeyframeAt(t float64) bool {
	return cp.x.HasKeyframeAt(t)
}

// IsAnimated reports whether the point has at least one keyframe.
func (cp *ControlPoint) IsAnimated() bool {
	return cp.x.NumKeyframes() > 0
}

// SetPosition moves the point to p at time t. The tangent handles move
// along with the point.
func (cp *ControlPoint) SetPosition(t float64, p vec.Vec2) {
	d := p.Sub(cp.Position(t))
	cp.Translate(t, d)
}

// Translate moves the point and its handles by d at time t.
func (cp *ControlPoint) Translate(t float64, d vec.Vec2) {
	for i, c := range cp.curves() {
		delta := d.X
		if i%2 == 1 {
			delta = d.Y
		}
		setAt(c, t, c.ValueAt(t)+delta)
	}
}

// SetTangents sets the absolute positions of both handles at time t.
func (cp *ControlPoint) SetTangents(t float64, left, right vec.Vec2) {
	setAt(cp.leftX, t, left.X)
	setAt(cp.leftY, t, left.Y)
	setAt(cp.rightX, t, right.X)
	setAt(cp.rightY, t, right.Y)
}

// setKeyframe freezes the current values at time t into keyframes.
func (cp *ControlPoint) setKeyframe(t float64) {
	for _, c := range cp.curves() {
		c.SetKeyframe(t, c.ValueAt(t))
	}
}

func (cp *ControlPoint) removeKeyframe(t float64) {
	for _, c := range cp.curves() {
		c.RemoveKeyframe(t)
	}
}

// Clone returns a deep copy of the point.
func (cp *ControlPoint) Clone() *ControlPoint {
	return &ControlPoint{
		x:      cp.x.Clone(),
		y:      cp.y.Clone(),
		leftX:  cp.leftX.Clone(),
		leftY:  cp.leftY.Clone(),
		rightX: cp.rightX.Clone(),
		rightY: cp.rightY.Clone(),
	}
}

// setAt changes the value of c at time t: animated curves get a keyframe,
// static curves get a new static value.
func setAt(c *anim.Curve, t, v float64) {
	if c.NumKeyframes() > 0 {
		c.SetKeyframe(t, v)
	} else {
		c.SetValue(v)
	}
}
