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

package xform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func TestSkewOrder(t *testing.T) {
	p := vec.Vec2{X: 1, Y: 1}

	// x-shear first: (1, 1) -> (3, 1) -> (3, 4)
	q := Apply(Skew(2, 1, true), p)
	assert.InDelta(t, 3.0, q.X, 1e-12)
	assert.InDelta(t, 4.0, q.Y, 1e-12)

	// y-shear first: (1, 1) -> (1, 2) -> (5, 2)
	q = Apply(Skew(2, 1, false), p)
	assert.InDelta(t, 5.0, q.X, 1e-12)
	assert.InDelta(t, 2.0, q.Y, 1e-12)
}

func TestApply(t *testing.T) {
	m := matrix.Scale(2, 2).Translate(10, 0)
	p := Apply(m, vec.Vec2{X: 1, Y: 1})
	assert.InDelta(t, 12.0, p.X, 1e-12)
	assert.InDelta(t, 2.0, p.Y, 1e-12)

	v := ApplyLinear(m, vec.Vec2{X: 1, Y: 1})
	assert.InDelta(t, 2.0, v.X, 1e-12)
	assert.InDelta(t, 2.0, v.Y, 1e-12)
}

func TestSignedArea(t *testing.T) {
	square := []vec.Vec2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	assert.InDelta(t, 10000.0, SignedArea(square), 1e-9)

	rev := []vec.Vec2{square[3], square[2], square[1], square[0]}
	assert.InDelta(t, -10000.0, SignedArea(rev), 1e-9)
}
