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

package feather

import (
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/raster"
)

// Rasterize renders the feather band. For every pixel touched by a mesh
// triangle, emit receives the pixel coverage multiplied by the falloff
// alpha at the pixel centre. Pixels on edges shared by two triangles are
// reported once per triangle; callers accumulate the values.
//
// The rasterizer's CTM is reset to the identity, since the mesh is
// already in device space.
func (m *Mesh) Rasterize(r *raster.Rasterizer, falloff float64, emit raster.EmitFunc) {
	if m == nil {
		return
	}
	r.CTM = matrix.Identity

	var buf []float32
	n := len(m.Inner)
	for i := range n {
		j := (i + 1) % n
		tris := [2]triangle{
			newTriangle(m.Inner[i], m.Inner[j], m.Outer[j], 1, 1, 0),
			newTriangle(m.Inner[i], m.Outer[j], m.Outer[i], 1, 0, 0),
		}
		for _, tri := range tris {
			if !tri.ok {
				continue
			}
			r.FillTriangles(tri.v[:], func(y, xMin int, coverage []float32) {
				buf = slices.Grow(buf[:0], len(coverage))[:len(coverage)]
				py := float64(y) + 0.5
				for k, c := range coverage {
					t := tri.interpolate(float64(xMin+k)+0.5, py)
					buf[k] = c * float32(Alpha(t, falloff))
				}
				emit(y, xMin, buf)
			})
		}
	}
}

// triangle is a mesh triangle with a scalar attribute at each corner.
type triangle struct {
	v  [3]vec.Vec2
	t  [3]float64
	ok bool

	// barycentric setup
	det                    float64
	x2, y2                 float64
	d12x, d12y, d20x, d20y float64
}

func newTriangle(a, b, c vec.Vec2, ta, tb, tc float64) triangle {
	tri := triangle{
		v: [3]vec.Vec2{a, b, c},
		t: [3]float64{ta, tb, tc},
	}
	tri.det = (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if tri.det == 0 {
		return tri
	}
	tri.x2, tri.y2 = c.X, c.Y
	tri.d12x, tri.d12y = c.X-b.X, b.Y-c.Y
	tri.d20x, tri.d20y = a.X-c.X, c.Y-a.Y
	tri.ok = true
	return tri
}

// interpolate returns the attribute at (x, y), clamped to [0, 1].
func (tri *triangle) interpolate(x, y float64) float64 {
	dx := x - tri.x2
	dy := y - tri.y2
	l0 := (tri.d12y*dx + tri.d12x*dy) / tri.det
	l1 := (tri.d20y*dx + tri.d20x*dy) / tri.det
	l2 := 1 - l0 - l1
	t := l0*tri.t[0] + l1*tri.t[1] + l2*tri.t[2]
	return min(max(t, 0), 1)
}
