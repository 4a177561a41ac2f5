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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/raster"
)

// segment is a single cubic Bezier piece, in shape coordinates.
type segment struct {
	p0, p1, p2, p3 vec.Vec2
}

// isClosed reports whether the outline wraps around from the last point
// back to the first.
func (b *Bezier) isClosed() bool {
	return b.finished && !b.open
}

// numSteps returns the number of line segments used to approximate s.
// Segments with both handles on their end points are straight lines.
func (s segment) numSteps(m matrix.Matrix, flatness float64) int {
	if s.p1 == s.p0 && s.p2 == s.p3 {
		return 1
	}
	return raster.CubicSegments(s.p0, s.p1, s.p2, s.p3, m, flatness)
}

func segmentsOf(pts []*ControlPoint, t float64, closed bool) []segment {
	n := len(pts)
	if n < 2 {
		return nil
	}
	count := n - 1
	if closed {
		count = n
	}
	res := make([]segment, count)
	for i := range count {
		a := pts[i]
		b := pts[(i+1)%n]
		res[i] = segment{
			p0: a.Position(t),
			p1: a.RightTangent(t),
			p2: b.LeftTangent(t),
			p3: b.Position(t),
		}
	}
	return res
}

// Flatten approximates the outline at time t by a polygon, in shape
// coordinates. The number of vertices is chosen so that the error after
// transformation by m is at most flatness device pixels.
//
// For closed shapes, the first vertex is not repeated at the end.
func (b *Bezier) Flatten(t float64, m matrix.Matrix, flatness float64) []vec.Vec2 {
	shape, _ := b.flatten(t, m, flatness, false)
	return shape
}

// FlattenPaired approximates both the outline and the feather outline at
// time t. Corresponding segments are sampled at identical curve
// parameters, so that vertex i of feather lies opposite vertex i of
// shape. Both slices have the same length.
func (b *Bezier) FlattenPaired(t float64, m matrix.Matrix, flatness float64) (shape, feather []vec.Vec2) {
	return b.flatten(t, m, flatness, true)
}

func (b *Bezier) flatten(t float64, m matrix.Matrix, flatness float64, paired bool) (shape, feather []vec.Vec2) {
	switch len(b.points) {
	case 0:
		return nil, nil
	case 1:
		shape = []vec.Vec2{b.points[0].Position(t)}
		if paired {
			feather = []vec.Vec2{b.featherPoints[0].Position(t)}
		}
		return shape, feather
	}

	closed := b.isClosed()
	segs := segmentsOf(b.points, t, closed)
	var fSegs []segment
	if paired {
		fSegs = segmentsOf(b.featherPoints, t, closed)
	}

	for i, s := range segs {
		n := s.numSteps(m, flatness)
		if paired {
			n = max(n, fSegs[i].numSteps(m, flatness))
		}
		for k := range n {
			u := float64(k) / float64(n)
			shape = append(shape, raster.EvalCubic(s.p0, s.p1, s.p2, s.p3, u))
			if paired {
				f := fSegs[i]
				feather = append(feather, raster.EvalCubic(f.p0, f.p1, f.p2, f.p3, u))
			}
		}
	}
	if !closed {
		shape = append(shape, segs[len(segs)-1].p3)
		if paired {
			feather = append(feather, fSegs[len(fSegs)-1].p3)
		}
	}
	return shape, feather
}

// Path returns the outline at time t as a path in shape coordinates.
func (b *Bezier) Path(t float64) *path.Data {
	p := &path.Data{}
	if len(b.points) == 0 {
		return p
	}
	p = p.MoveTo(b.points[0].Position(t))
	for _, s := range segmentsOf(b.points, t, b.isClosed()) {
		p = p.CubeTo(s.p1, s.p2, s.p3)
	}
	if b.isClosed() {
		p = p.Close()
	}
	return p
}

// BoundingBox returns a rectangle containing the outline and the feather
// outline at time t, including all tangent handles. The second return
// value is false if the shape has no points.
func (b *Bezier) BoundingBox(t float64) (rect.Rect, bool) {
	if len(b.points) == 0 {
		return rect.Rect{}, false
	}
	p0 := b.points[0].Position(t)
	bbox := rect.Rect{LLx: p0.X, LLy: p0.Y, URx: p0.X, URy: p0.Y}
	for _, list := range [][]*ControlPoint{b.points, b.featherPoints} {
		for _, cp := range list {
			for _, p := range []vec.Vec2{cp.Position(t), cp.LeftTangent(t), cp.RightTangent(t)} {
				bbox.Add(p.X, p.Y)
			}
		}
	}
	return bbox, true
}
