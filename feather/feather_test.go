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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/internal/xform"
	"seehuhn.de/go/roto/raster"
)

var square = []vec.Vec2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}

func TestAlpha(t *testing.T) {
	assert.Equal(t, 0.0, Alpha(-1, 1))
	assert.Equal(t, 1.0, Alpha(2, 1))

	// linear for falloff 1 and above
	for _, f := range []float64{1, 2.5, 5} {
		assert.InDelta(t, 0.3, Alpha(0.3, f), 1e-12)
	}

	// half alpha at half distance
	for _, f := range []float64{0.001, 0.2, 0.5, 1, 5} {
		assert.InDelta(t, 0.5, Alpha(0.5, f), 1e-12, "falloff %g", f)
	}

	// small falloff approaches a step
	assert.Less(t, Alpha(0.4, 0.01), 1e-6)
	assert.Greater(t, Alpha(0.6, 0.01), 1-1e-6)

	// monotone
	prev := 0.0
	for i := 1; i <= 100; i++ {
		a := Alpha(float64(i)/100, 0.3)
		assert.GreaterOrEqual(t, a, prev)
		prev = a
	}
}

func TestOffsetSquare(t *testing.T) {
	out := Offset(square, 10, true)
	assert.InDelta(t, -10, out[0].X, 1e-9)
	assert.InDelta(t, -10, out[0].Y, 1e-9)
	assert.InDelta(t, 110, out[2].X, 1e-9)
	assert.InDelta(t, 110, out[2].Y, 1e-9)

	// a counter-clockwise polygon must still grow
	rev := []vec.Vec2{square[3], square[2], square[1], square[0]}
	out = Offset(rev, 10, false)
	assert.InDelta(t, -14400.0, xform.SignedArea(out), 1e-6)
}

func TestOffsetMiterLimit(t *testing.T) {
	// a very sharp spike
	poly := []vec.Vec2{{X: 0, Y: 0}, {X: 100, Y: 1}, {X: 0, Y: 2}}
	require.Greater(t, xform.SignedArea(poly), 0.0)
	out := Offset(poly, 1, true)
	d := out[1].Sub(poly[1]).Length()
	assert.LessOrEqual(t, d, maxMiter+1e-9)
}

func TestBuildDegenerate(t *testing.T) {
	assert.Nil(t, Build(square[:2], square[:2], 10, true, matrix.Identity))
	assert.Nil(t, Build(square, square[:3], 10, true, matrix.Identity))

	var m *Mesh
	called := false
	m.Rasterize(raster.NewRasterizer(rect.Rect{URx: 10, URy: 10}), 1, func(int, int, []float32) {
		called = true
	})
	assert.False(t, called)
}

func TestMeshRamp(t *testing.T) {
	mesh := Build(square, square, 10, true, matrix.Translate(10, 10))
	require.NotNil(t, mesh)

	const w, h = 120, 120
	acc := make([]float32, w*h)
	r := raster.NewRasterizer(rect.Rect{URx: w, URy: h})
	mesh.Rasterize(r, 1, func(y, xMin int, cov []float32) {
		for i, c := range cov {
			acc[y*w+xMin+i] += c
		}
	})

	// above the top edge, alpha ramps linearly from 1 at y=10 to 0 at y=0
	for y := range 10 {
		want := (float64(y) + 0.5) / 10
		assert.InDelta(t, want, acc[y*w+60], 1e-3, "y=%d", y)
	}
	// the interior is not touched by the feather band
	assert.InDelta(t, 0, acc[60*w+60], 1e-6)
}
