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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/internal/xform"
)

// orientationFlatness is the tolerance, in shape units, of the outline
// used to find the orientation of shapes whose control polygon has no area.
const orientationFlatness = 0.25

// maxCachedOrientations bounds the per-time orientation cache of animated
// shapes.
const maxCachedOrientations = 256

// IsClockwise reports whether the outline at time t winds clockwise, in a
// coordinate system where the y-axis points down.
//
// The orientation is taken from the control polygon. If the control
// polygon has no area, for example for a shape with two curved segments,
// the flattened outline is used instead. Results are cached per time.
func (b *Bezier) IsClockwise(t float64) bool {
	if len(b.points) < 2 {
		return false
	}

	animated := b.points[0].IsAnimated()
	b.orientMu.Lock()
	defer b.orientMu.Unlock()
	if !animated {
		if !b.staticOrientValid {
			b.staticClockwise = b.computeClockwise(t)
			b.staticOrientValid = true
		}
		return b.staticClockwise
	}

	cw, ok := b.clockwise[t]
	if !ok {
		cw = b.cacheClockwise(t)
	}
	return cw
}

// RefreshOrientation recomputes the cached orientation for time t, even if
// automatic recomputation is disabled.
func (b *Bezier) RefreshOrientation(t float64) {
	if len(b.points) < 2 {
		return
	}
	animated := b.points[0].IsAnimated()
	b.orientMu.Lock()
	defer b.orientMu.Unlock()
	if !animated {
		b.staticClockwise = b.computeClockwise(t)
		b.staticOrientValid = true
		return
	}
	b.cacheClockwise(t)
}

// cacheClockwise computes the orientation at time t and stores it.
// The caller must hold orientMu.
func (b *Bezier) cacheClockwise(t float64) bool {
	if len(b.clockwise) >= maxCachedOrientations {
		clear(b.clockwise)
	}
	cw := b.computeClockwise(t)
	b.clockwise[t] = cw
	return cw
}

// SetAutoRecomputeOrientation controls whether geometry edits invalidate
// the cached orientation.
func (b *Bezier) SetAutoRecomputeOrientation(auto bool) {
	b.autoOrientation = auto
}

// AutoRecomputeOrientation reports whether geometry edits invalidate the
// cached orientation.
func (b *Bezier) AutoRecomputeOrientation() bool {
	return b.autoOrientation
}

func (b *Bezier) invalidateOrientation() {
	if !b.autoOrientation {
		return
	}
	b.orientMu.Lock()
	defer b.orientMu.Unlock()
	clear(b.clockwise)
	b.staticOrientValid = false
}

func (b *Bezier) computeClockwise(t float64) bool {
	area := xform.SignedArea(b.Points(t))
	if area == 0 {
		outline, _ := b.flatten(t, matrix.Identity, orientationFlatness, false)
		area = xform.SignedArea(outline)
	}
	return area > 0
}

// FindControlPointNearby returns the index of the first control point
// whose position at time t, transformed by m, lies inside the square of
// half-width acceptance around q. If no point qualifies, it returns
// -1, false.
func (b *Bezier) FindControlPointNearby(q vec.Vec2, acceptance float64, t float64, m matrix.Matrix) (int, bool) {
	return findNearby(b.points, q, acceptance, t, m)
}

// FindFeatherPointNearby is like [Bezier.FindControlPointNearby], but
// searches the feather points.
func (b *Bezier) FindFeatherPointNearby(q vec.Vec2, acceptance float64, t float64, m matrix.Matrix) (int, bool) {
	return findNearby(b.featherPoints, q, acceptance, t, m)
}

func findNearby(pts []*ControlPoint, q vec.Vec2, acceptance float64, t float64, m matrix.Matrix) (int, bool) {
	for i, cp := range pts {
		p := xform.Apply(m, cp.Position(t))
		if math.Abs(p.X-q.X) <= acceptance && math.Abs(p.Y-q.Y) <= acceptance {
			return i, true
		}
	}
	return -1, false
}
