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

package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticCurve(t *testing.T) {
	c := NewCurve(3)
	assert.Equal(t, 3.0, c.ValueAt(-10))
	assert.Equal(t, 3.0, c.ValueAt(10))
	assert.Empty(t, c.KeyframeTimes())
}

func TestLinearInterpolation(t *testing.T) {
	c := NewCurve(0)
	c.SetKeyframe(10, 100)
	c.SetKeyframe(0, 0)

	assert.Equal(t, []float64{0, 10}, c.KeyframeTimes())
	assert.InDelta(t, 0.0, c.ValueAt(-5), 1e-12)
	assert.InDelta(t, 25.0, c.ValueAt(2.5), 1e-12)
	assert.InDelta(t, 100.0, c.ValueAt(15), 1e-12)

	c.Interp = Constant
	assert.InDelta(t, 0.0, c.ValueAt(9.9), 1e-12)
	assert.InDelta(t, 100.0, c.ValueAt(10), 1e-12)
}

func TestKeyframeReplaceAndRemove(t *testing.T) {
	c := NewCurve(0)
	c.SetKeyframe(1, 5)
	c.SetKeyframe(1+TimeEpsilon/2, 7)
	assert.Equal(t, 1, c.NumKeyframes())
	assert.Equal(t, 7.0, c.ValueAt(1))
	assert.True(t, c.HasKeyframeAt(1))

	assert.False(t, c.RemoveKeyframe(2))
	assert.True(t, c.RemoveKeyframe(1))
	assert.Equal(t, 0, c.NumKeyframes())

	// the last removed keyframe becomes the static value
	assert.Equal(t, 7.0, c.ValueAt(100))
}

func TestClone(t *testing.T) {
	c := NewCurve(1)
	c.SetKeyframe(0, 2)
	d := c.Clone()
	d.SetKeyframe(0, 3)
	assert.Equal(t, 2.0, c.ValueAt(0))
	assert.Equal(t, 3.0, d.ValueAt(0))
}
