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

// Package bezulate decomposes the interior of a closed outline into simple
// polygon patches and triangles.
//
// Self-intersecting outlines are split at their crossings until every
// patch is a simple polygon. Each patch can then be ear-clipped into
// triangles. Degenerate input (fewer than three distinct vertices, or
// zero area) results in no output.
package bezulate

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/internal/logging"
	"seehuhn.de/go/roto/internal/xform"
)

// minPatchArea is the smallest absolute area of a patch which is kept.
const minPatchArea = 1e-9

// Patches splits the closed polygon poly into simple polygons.
//
// The signed areas of the patches add up to the signed area of poly.
// Each patch keeps the orientation of the part of poly it was cut from.
func Patches(poly []vec.Vec2) [][]vec.Vec2 {
	var res [][]vec.Vec2
	var dropped int
	var rec func(p []vec.Vec2)
	rec = func(p []vec.Vec2) {
		p = dedupe(p)
		if len(p) < 3 {
			dropped++
			return
		}
		if a, b, ok := splitFirstCrossing(p); ok {
			rec(a)
			rec(b)
			return
		}
		if math.Abs(xform.SignedArea(p)) < minPatchArea {
			dropped++
			return
		}
		res = append(res, p)
	}
	rec(poly)

	if dropped > 0 {
		logging.Logger().Debug("bezulate: dropped degenerate patches",
			"vertices", len(poly), "patches", len(res), "dropped", dropped)
	}
	return res
}

// Bezulate decomposes the interior of the closed polygon poly into
// triangles. The result holds consecutive vertex triples.
func Bezulate(poly []vec.Vec2) []vec.Vec2 {
	var tris []vec.Vec2
	for _, patch := range Patches(poly) {
		tris = append(tris, Triangulate(patch)...)
	}
	return tris
}

// dedupe removes consecutive duplicate vertices, including a last vertex
// which repeats the first one.
func dedupe(p []vec.Vec2) []vec.Vec2 {
	res := make([]vec.Vec2, 0, len(p))
	for _, v := range p {
		if len(res) > 0 && res[len(res)-1] == v {
			continue
		}
		res = append(res, v)
	}
	for len(res) > 1 && res[len(res)-1] == res[0] {
		res = res[:len(res)-1]
	}
	return res
}

// splitFirstCrossing looks for the first pair of non-adjacent edges which
// intersect. If one is found, p is cut into two loops at the intersection
// point. Both loops have fewer vertices than p.
func splitFirstCrossing(p []vec.Vec2) (a, b []vec.Vec2, ok bool) {
	n := len(p)
	for i := 0; i < n; i++ {
		p0, p1 := p[i], p[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // edges n-1 and 0 share a vertex
			}
			q0, q1 := p[j], p[(j+1)%n]
			x, hit := intersect(p0, p1, q0, q1)
			if !hit {
				continue
			}

			// a: p[0..i], x, p[j+1..n-1]
			a = make([]vec.Vec2, 0, n-(j-i)+1)
			a = append(a, p[:i+1]...)
			a = append(a, x)
			a = append(a, p[j+1:]...)

			// b: x, p[i+1..j]
			b = make([]vec.Vec2, 0, j-i+1)
			b = append(b, x)
			b = append(b, p[i+1:j+1]...)
			return a, b, true
		}
	}
	return nil, nil, false
}

// intersect returns the intersection point of the segments p0-p1 and
// q0-q1. Parallel segments never intersect.
func intersect(p0, p1, q0, q1 vec.Vec2) (vec.Vec2, bool) {
	r := p1.Sub(p0)
	s := q1.Sub(q0)
	den := cross(r, s)
	if den == 0 {
		return vec.Vec2{}, false
	}
	d := q0.Sub(p0)
	t := cross(d, s) / den
	u := cross(d, r) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return vec.Vec2{}, false
	}
	return p0.Add(r.Mul(t)), true
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
