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

// Package feather builds and rasterizes the soft edge around a shape.
//
// The feather is a band of quadrilaterals between the shape outline (the
// inner line, full opacity) and the feather outline pushed outwards by the
// feather distance (the outer line, zero opacity). Within the band, alpha
// falls off from the inner to the outer line as controlled by the falloff
// parameter.
package feather

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/internal/xform"
)

// maxMiter limits the length of the miter vectors at sharp corners, in
// multiples of the feather distance.
const maxMiter = 4

// Mesh is a closed band of quadrilaterals in device coordinates.
// Quad i has the corners Inner[i], Inner[i+1], Outer[i+1] and Outer[i],
// with indices taken modulo the length.
type Mesh struct {
	Inner []vec.Vec2
	Outer []vec.Vec2
}

// Build constructs the feather mesh for a closed shape.
//
// The slices shape and feather must be paired samples of the outline and
// the feather outline, in shape coordinates, as returned by
// [bezier.Bezier.FlattenPaired]. Each feather vertex is moved outwards by
// distance along the miter normal of the feather outline. The clockwise
// flag gives the orientation of the shape and determines which side is
// outside. Finally, both lines are transformed to device space by m.
//
// Build returns nil if fewer than three vertices are given.
func Build(shape, feather []vec.Vec2, distance float64, clockwise bool, m matrix.Matrix) *Mesh {
	n := len(shape)
	if n < 3 || len(feather) != n {
		return nil
	}

	outer := Offset(feather, distance, clockwise)
	mesh := &Mesh{
		Inner: make([]vec.Vec2, n),
		Outer: make([]vec.Vec2, n),
	}
	for i := range n {
		mesh.Inner[i] = xform.Apply(m, shape[i])
		mesh.Outer[i] = xform.Apply(m, outer[i])
	}
	return mesh
}

// Offset moves every vertex of the closed polygon poly by distance along
// its outward miter normal. For clockwise polygons (in a y-down coordinate
// system), the outward side is to the left of the direction of travel.
// Negative distances move the vertices inwards.
func Offset(poly []vec.Vec2, distance float64, clockwise bool) []vec.Vec2 {
	n := len(poly)
	res := make([]vec.Vec2, n)
	if distance == 0 {
		copy(res, poly)
		return res
	}

	sign := 1.0
	if !clockwise {
		sign = -1
	}
	for i, p := range poly {
		prev, okPrev := distinctNeighbour(poly, i, -1)
		next, okNext := distinctNeighbour(poly, i, +1)
		if !okPrev || !okNext {
			res[i] = p
			continue
		}
		nIn := edgeNormal(prev, p, sign)
		nOut := edgeNormal(p, next, sign)
		res[i] = p.Add(miter(nIn, nOut).Mul(distance))
	}
	return res
}

// distinctNeighbour walks from vertex i in direction step until it finds
// a vertex at a different position.
func distinctNeighbour(poly []vec.Vec2, i, step int) (vec.Vec2, bool) {
	n := len(poly)
	for k := 1; k < n; k++ {
		q := poly[((i+step*k)%n+n)%n]
		if q != poly[i] {
			return q, true
		}
	}
	return vec.Vec2{}, false
}

// edgeNormal returns the outward unit normal of the edge a-b.
func edgeNormal(a, b vec.Vec2, sign float64) vec.Vec2 {
	d := b.Sub(a)
	l := d.Length()
	return vec.Vec2{X: sign * d.Y / l, Y: -sign * d.X / l}
}

// miter combines the unit normals of two adjacent edges into a miter
// vector, whose projection onto either normal has length one.
func miter(n1, n2 vec.Vec2) vec.Vec2 {
	s := n1.Add(n2)
	l := s.Length()
	if l < 1e-9 {
		// the outline folds back on itself
		return n2
	}
	u := s.Mul(1 / l)
	cos := u.X*n2.X + u.Y*n2.Y
	scale := float64(maxMiter)
	if cos > 1.0/maxMiter {
		scale = 1 / cos
	}
	return u.Mul(scale)
}

// Alpha returns the feather opacity at relative position t ∈ [0, 1]
// across the band, where t = 1 on the inner line and t = 0 on the outer
// line.
//
// For falloff ≥ 1 the ramp is linear. Smaller values steepen the
// transition around the middle of the band, approaching a step as
// falloff tends to zero. Alpha is always 1/2 halfway across the band.
func Alpha(t, falloff float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	if falloff >= 1 {
		return t
	}
	p := math.Inf(1)
	if falloff > 0 {
		p = 1 / falloff
	}
	// t^p / (t^p + (1-t)^p), written to avoid underflow for large p
	return 1 / (1 + math.Pow((1-t)/t, p))
}
