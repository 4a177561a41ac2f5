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

// Package xform has the few affine helpers which seehuhn.de/go/geom does
// not provide: mapping of [vec.Vec2] values, shears and signed areas.
//
// Transformations are composed with [matrix.Matrix.Mul], where A.Mul(B)
// first applies A and then B.
package xform

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Apply transforms the point p by m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	x, y := m.Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

// ApplyLinear transforms the vector v by the linear part of m.
func ApplyLinear(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// Skew returns a shear by kx along the x-axis and ky along the y-axis.
// If xFirst is set, the x-shear is applied before the y-shear.
func Skew(kx, ky float64, xFirst bool) matrix.Matrix {
	sx := matrix.Matrix{1, 0, kx, 1, 0, 0}
	sy := matrix.Matrix{1, ky, 0, 1, 0, 0}
	if xFirst {
		return sx.Mul(sy)
	}
	return sy.Mul(sx)
}

// SignedArea returns the signed area of the closed polygon pts.
// In a coordinate system with the y-axis pointing down, the area is
// positive for clockwise polygons.
func SignedArea(pts []vec.Vec2) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	prev := pts[n-1]
	for _, p := range pts {
		sum += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return sum / 2
}
