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

package bezulate

import (
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/internal/xform"
)

// collinearEps is the relative tolerance below which three vertices are
// treated as collinear.
const collinearEps = 1e-12

// Triangulate splits the simple polygon patch into triangles by ear
// clipping. The result holds consecutive vertex triples, each with the
// orientation of patch. A polygon with n vertices gives at most n-2
// triangles; collinear vertices are removed without emitting a triangle.
func Triangulate(patch []vec.Vec2) []vec.Vec2 {
	n := len(patch)
	if n < 3 {
		return nil
	}
	sign := 1.0
	if xform.SignedArea(patch) < 0 {
		sign = -1
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	tris := make([]vec.Vec2, 0, 3*(n-2))
	for len(idx) > 3 {
		m := len(idx)
		clipped := false
		for k := 0; k < m; k++ {
			a := patch[idx[(k+m-1)%m]]
			b := patch[idx[k]]
			c := patch[idx[(k+1)%m]]

			turn := sign * cross(b.Sub(a), c.Sub(b))
			scale := b.Sub(a).Length() * c.Sub(b).Length()
			if turn <= collinearEps*scale {
				if turn >= -collinearEps*scale {
					// collinear: drop b, no area is lost
					idx = append(idx[:k], idx[k+1:]...)
					clipped = true
					break
				}
				continue // reflex
			}
			if containsOther(patch, idx, k, a, b, c, sign) {
				continue
			}
			tris = append(tris, a, b, c)
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// numerically degenerate remainder: fall back to a fan
			for k := 1; k+1 < len(idx); k++ {
				tris = append(tris, patch[idx[0]], patch[idx[k]], patch[idx[k+1]])
			}
			return tris
		}
	}

	a, b, c := patch[idx[0]], patch[idx[1]], patch[idx[2]]
	if cross(b.Sub(a), c.Sub(b)) != 0 {
		tris = append(tris, a, b, c)
	}
	return tris
}

// containsOther reports whether any remaining vertex other than the ear
// a, b, c lies inside or on the boundary of the triangle.
func containsOther(patch []vec.Vec2, idx []int, k int, a, b, c vec.Vec2, sign float64) bool {
	m := len(idx)
	for l := range m {
		if l == k || l == (k+m-1)%m || l == (k+1)%m {
			continue
		}
		p := patch[idx[l]]
		if p == a || p == b || p == c {
			continue
		}
		d1 := sign * cross(b.Sub(a), p.Sub(a))
		d2 := sign * cross(c.Sub(b), p.Sub(b))
		d3 := sign * cross(a.Sub(c), p.Sub(c))
		if d1 >= 0 && d2 >= 0 && d3 >= 0 {
			return true
		}
	}
	return false
}
