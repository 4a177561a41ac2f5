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
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/internal/xform"
)

func square() *Bezier {
	return NewPolygon(
		vec.Vec2{X: 0, Y: 0},
		vec.Vec2{X: 100, Y: 0},
		vec.Vec2{X: 100, Y: 100},
		vec.Vec2{X: 0, Y: 100},
	)
}

func TestAtOutOfRange(t *testing.T) {
	b := square()
	assert.Panics(t, func() { b.At(-1) })
	assert.Panics(t, func() { b.At(4) })
	assert.Panics(t, func() { b.FeatherAt(4) })
	assert.NotPanics(t, func() { b.At(3) })
}

func TestEmptyShape(t *testing.T) {
	b := New(false)
	assert.False(t, b.IsClockwise(0))
	assert.Empty(t, b.KeyframeTimes())
	assert.False(t, b.HasKeyframeAt(0))
	assert.Empty(t, b.Flatten(0, matrix.Identity, 0.25))
	_, ok := b.BoundingBox(0)
	assert.False(t, ok)
}

func TestFeatherParallel(t *testing.T) {
	b := square()
	b.InsertPoint(1, vec.Vec2{X: 50, Y: -10})
	b.RemovePoint(0)
	assert.Equal(t, b.Len(), len(b.FeatherPositions(0)))
	assert.Equal(t, vec.Vec2{X: 50, Y: -10}, b.FeatherAt(0).Position(0))
}

func TestKeyframesShared(t *testing.T) {
	b := square()
	b.SetKeyframe(0)
	b.MovePoint(2, 10, vec.Vec2{X: 20, Y: 0})

	// the edit at t=10 keyed every point
	for i := range b.Len() {
		assert.Equal(t, []float64{0, 10}, b.At(i).KeyframeTimes())
		assert.Equal(t, []float64{0, 10}, b.FeatherAt(i).KeyframeTimes())
	}
	assert.Equal(t, 100.0, b.At(2).Position(0).X)
	assert.Equal(t, 120.0, b.At(2).Position(10).X)
	assert.Equal(t, 110.0, b.At(2).Position(5).X)

	// a point added later shares the keyframe times
	b.AddPoint(vec.Vec2{X: -5, Y: 50})
	assert.Equal(t, []float64{0, 10}, b.At(4).KeyframeTimes())

	b.RemoveKeyframe(10)
	assert.Equal(t, []float64{0}, b.KeyframeTimes())
}

func TestOrientation(t *testing.T) {
	b := square()
	assert.True(t, b.IsClockwise(0))

	rev := NewPolygon(b.Points(0)[3], b.Points(0)[2], b.Points(0)[1], b.Points(0)[0])
	assert.False(t, rev.IsClockwise(0))
}

func TestOrientationInsertInvariant(t *testing.T) {
	b := square()
	before := b.IsClockwise(0)

	// midpoints and small outward bumps keep the area sign
	b.InsertPoint(1, vec.Vec2{X: 50, Y: 0})
	b.InsertPoint(3, vec.Vec2{X: 110, Y: 50})
	assert.Equal(t, before, b.IsClockwise(0))
}

func TestOrientationNoAutoRecompute(t *testing.T) {
	b := square()
	require.True(t, b.IsClockwise(0))
	b.SetAutoRecomputeOrientation(false)

	// mirror the shape; the cached value survives
	for i := range b.Len() {
		p := b.At(i).Position(0)
		b.MovePoint(i, 0, vec.Vec2{X: -2 * p.X, Y: 0})
	}
	assert.True(t, b.IsClockwise(0))
	b.RefreshOrientation(0)
	assert.False(t, b.IsClockwise(0))
}

func TestOrientationPerKeyframe(t *testing.T) {
	b := square()
	b.SetKeyframe(0)
	b.SetKeyframe(10)
	for i := range b.Len() {
		p := b.At(i).Position(10)
		b.MovePoint(i, 10, vec.Vec2{X: -2 * p.X, Y: 0})
	}
	assert.True(t, b.IsClockwise(0))
	assert.True(t, b.IsClockwise(4))
	assert.False(t, b.IsClockwise(6))
	assert.False(t, b.IsClockwise(10))
}

// TestOrientationBetweenKeyframes checks that the orientation is computed
// at the requested time, not at the nearest keyframe.
func TestOrientationBetweenKeyframes(t *testing.T) {
	b := square()
	b.SetKeyframe(0)
	b.SetKeyframe(10)
	for i := range b.Len() {
		p := b.At(i).Position(10)
		b.MovePoint(i, 10, vec.Vec2{X: -4 * p.X, Y: 0})
	}

	// the width is 100 - 40t, so the winding flips at t = 2.5
	assert.True(t, b.IsClockwise(2))
	assert.False(t, b.IsClockwise(3))
	assert.False(t, b.IsClockwise(4))
	assert.True(t, b.IsClockwise(0))
}

// lens returns a closed shape with two control points whose curved
// segments bulge up and down.
func lens(clockwise bool) *Bezier {
	b := New(false)
	b.AddPoint(vec.Vec2{X: 0, Y: 50})
	b.AddPoint(vec.Vec2{X: 100, Y: 50})
	up, down := 0.0, 100.0
	if !clockwise {
		up, down = down, up
	}
	b.SetTangents(0, 0, vec.Vec2{X: 0, Y: down}, vec.Vec2{X: 0, Y: up})
	b.SetTangents(1, 0, vec.Vec2{X: 100, Y: up}, vec.Vec2{X: 100, Y: down})
	b.SetFinished(true)
	return b
}

func TestOrientationTwoPoints(t *testing.T) {
	assert.True(t, lens(true).IsClockwise(0))
	assert.False(t, lens(false).IsClockwise(0))

	// straight segments enclose nothing
	b := New(false)
	b.AddPoint(vec.Vec2{X: 0, Y: 0})
	b.AddPoint(vec.Vec2{X: 10, Y: 10})
	b.SetFinished(true)
	assert.False(t, b.IsClockwise(0))
}

func TestFindNearby(t *testing.T) {
	b := NewPolygon(
		vec.Vec2{X: 0, Y: 0},
		vec.Vec2{X: 10, Y: 0},
		vec.Vec2{X: 11, Y: 0},
		vec.Vec2{X: 10, Y: 10},
	)

	idx, ok := b.FindControlPointNearby(vec.Vec2{X: 10.5, Y: 0}, 1, 0, matrix.Identity)
	assert.True(t, ok)
	assert.Equal(t, 1, idx) // both 1 and 2 qualify; lowest index wins

	idx, ok = b.FindControlPointNearby(vec.Vec2{X: 50, Y: 50}, 1, 0, matrix.Identity)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)

	// the transform is applied before the comparison
	m := matrix.Scale(2, 2)
	idx, ok = b.FindControlPointNearby(vec.Vec2{X: 20, Y: 20}, 0.5, 0, m)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	b.MoveFeatherPoint(0, 0, vec.Vec2{X: -5, Y: -5})
	idx, ok = b.FindFeatherPointNearby(vec.Vec2{X: -5, Y: -5}, 0.1, 0, matrix.Identity)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestFlattenStraight(t *testing.T) {
	b := square()
	poly := b.Flatten(0, matrix.Identity, 0.25)
	assert.Equal(t, b.Points(0), poly)

	shape, feather := b.FlattenPaired(0, matrix.Identity, 0.25)
	assert.Equal(t, len(shape), len(feather))
}

func TestFlattenPairedCurved(t *testing.T) {
	b := square()
	// bend the feather outline only
	b.SetFeatherTangents(0, 0, vec.Vec2{X: -30, Y: 0}, vec.Vec2{X: 30, Y: -30})
	shape, feather := b.FlattenPaired(0, matrix.Identity, 0.25)
	assert.Equal(t, len(shape), len(feather))
	assert.Greater(t, len(shape), 4)
	assert.InDelta(t, 10000, xform.SignedArea(shape), 1e-9)
}

func TestOpenFlatten(t *testing.T) {
	b := New(true)
	b.AddPoint(vec.Vec2{X: 0, Y: 0})
	b.AddPoint(vec.Vec2{X: 10, Y: 0})
	b.SetFinished(true)
	poly := b.Flatten(0, matrix.Identity, 0.25)
	assert.Equal(t, []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}, poly)
}

func TestRecordRoundTrip(t *testing.T) {
	b := square()
	b.SetKeyframe(0)
	b.MovePoint(1, 5, vec.Vec2{X: 3, Y: 4})
	b.MoveFeatherPoint(2, 5, vec.Vec2{X: 7, Y: 7})

	data, err := json.Marshal(b.Record())
	require.NoError(t, err)
	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	c, err := FromRecord(rec)
	require.NoError(t, err)

	for _, tm := range []float64{0, 2.5, 5} {
		assert.Equal(t, b.Points(tm), c.Points(tm))
		assert.Equal(t, b.FeatherPositions(tm), c.FeatherPositions(tm))
	}
	assert.Equal(t, b.IsFinished(), c.IsFinished())

	rec.FeatherPoints = rec.FeatherPoints[:1]
	_, err = FromRecord(rec)
	assert.True(t, errors.Is(err, ErrFeatherMismatch))
}

func TestRecordKeyframeMismatch(t *testing.T) {
	b := square()
	b.SetKeyframe(0)
	b.MovePoint(1, 5, vec.Vec2{X: 3, Y: 4})

	// a hand-edited record where one feather curve lost a keyframe
	rec := b.Record()
	keys := rec.FeatherPoints[2].LeftY.Keys
	rec.FeatherPoints[2].LeftY.Keys = keys[:len(keys)-1]
	_, err := FromRecord(rec)
	assert.ErrorIs(t, err, ErrKeyframeMismatch)

	// static shapes have no keyframes at all
	_, err = FromRecord(square().Record())
	assert.NoError(t, err)
}
