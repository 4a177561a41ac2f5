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

package roto

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/bezier"
	"seehuhn.de/go/roto/internal/xform"
)

// Shape is a drawable item with a bezier outline.
type Shape struct {
	Item
	Drawable

	curve *bezier.Bezier
}

func (s *Shape) drawable() *Drawable { return &s.Drawable }

// Curve returns the outline of the shape. Reading it requires the read
// lock of the shape, modifying it must happen inside [Context.Edit].
func (s *Shape) Curve() *bezier.Bezier {
	return s.curve
}

// IsActivated reports whether the shape is rendered at time t.
func (s *Shape) IsActivated(t float64) bool {
	return s.ctx.IsActivated(s, t)
}

// TransformAt returns the transformation of the shape at time t.
func (s *Shape) TransformAt(t float64) matrix.Matrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Transform.At(t)
}

// BoundingBox returns the bounding box of the shape at time t, after
// transformation, including the feather.
func (s *Shape) BoundingBox(t float64) (rect.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.Transform.At(t)
	shape, feather := s.curve.FlattenPaired(t, m, 0.5)
	if len(shape) == 0 {
		return rect.Rect{}, false
	}
	p0 := xform.Apply(m, shape[0])
	bbox := rect.Rect{LLx: p0.X, LLy: p0.Y, URx: p0.X, URy: p0.Y}
	for _, list := range [][]vec.Vec2{shape, feather} {
		for _, p := range list {
			q := xform.Apply(m, p)
			bbox.Add(q.X, q.Y)
		}
	}

	// The padding is given in item units, the box is in output units.
	d := max(s.FeatherDist.ValueAt(t), 0)
	if s.curve.IsOpen() {
		d = s.Brush.Size.ValueAt(t) / 2
	}
	d *= max(math.Hypot(m[0], m[1]), math.Hypot(m[2], m[3]))
	bbox.LLx -= d
	bbox.LLy -= d
	bbox.URx += d
	bbox.URy += d
	return bbox, true
}

// AddPoint appends a control point to the outline of the shape and
// returns its index.
func (s *Shape) AddPoint(p vec.Vec2) (int, error) {
	var idx int
	err := s.ctx.Edit(s, func() {
		idx = s.curve.AddPoint(p)
	})
	return idx, err
}

// Close marks the outline as finished.
func (s *Shape) Close() error {
	return s.ctx.Edit(s, func() {
		s.curve.SetFinished(true)
	})
}

// MovePoint moves the control point i and its feather point by d at
// time t.
func (s *Shape) MovePoint(i int, t float64, d vec.Vec2) error {
	return s.ctx.Edit(s, func() {
		s.curve.MovePoint(i, t, d)
	})
}

// NewPolygon adds a finished shape with straight edges between the given
// corners to parent. A nil parent means the root layer.
func (c *Context) NewPolygon(parent *Layer, corners ...vec.Vec2) *Shape {
	s := c.NewShape(parent, false)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editLocked(&s.Item, func() {
		s.curve = bezier.NewPolygon(corners...)
	})
	return s
}
