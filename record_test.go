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

package roto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/anim"
	"seehuhn.de/go/roto/bezier"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/paint"
)

func sampleContext(t *testing.T) *Context {
	t.Helper()
	c := NewContext()
	l := c.NewLayer(nil)
	s := c.NewPolygon(l,
		vec.Vec2{X: 10, Y: 10}, vec.Vec2{X: 50, Y: 10}, vec.Vec2{X: 30, Y: 40})
	require.NoError(t, c.Edit(s, func() {
		s.Operator = blend.Xor
		s.Color[1].SetKeyframe(0, 0.25)
		s.Color[1].SetKeyframe(10, 0.75)
		s.Transform.Rotate.SetValue(15)
		s.LifeTime = LifeTimeToEnd
		s.LifeTimeFrame = 3
		s.MotionBlur = MotionBlur{Samples: 4, Shutter: 1, Type: ShutterEnd}
		s.Curve().SetKeyframe(0)
		s.Curve().MovePoint(1, 5, vec.Vec2{X: 3, Y: 0})
	}))

	st := c.NewStroke(nil, paint.Smear)
	require.NoError(t, st.AppendPoint(1, 2, 0.5, 0.1))
	require.NoError(t, st.AppendPoint(3, 4, 0.75, 0.2))
	require.NoError(t, c.Edit(st, func() { st.Brush.PressureSize = true }))
	c.SetLocked(st, true)
	c.SetMotionBlur(BlurGlobal, MotionBlur{Samples: 3, Shutter: 0.5})
	return c
}

func TestContextRoundTrip(t *testing.T) {
	c := sampleContext(t)
	rec := c.Save()

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded ContextRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	c2, err := LoadContext(decoded)
	require.NoError(t, err)
	data2, err := json.Marshal(c2.Save())
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(data2))

	mode, mb := c2.MotionBlur()
	assert.Equal(t, BlurGlobal, mode)
	assert.Equal(t, 3, mb.Samples)

	s := c2.ByName("Bezier1").(*Shape)
	assert.Equal(t, blend.Xor, s.Operator)
	assert.Equal(t, 0.5, s.ColorAt(5)[1])
	assert.Equal(t, []float64{0, 5}, s.Curve().KeyframeTimes())
	assert.True(t, s.IsActivated(3))
	assert.False(t, s.IsActivated(2))

	st := c2.ByName("Smear1").(*Stroke)
	assert.Equal(t, paint.Smear, st.Tool())
	assert.True(t, st.IsLocked())
	bbox, ok := st.BoundingBox()
	require.True(t, ok)
	assert.Equal(t, 3.0, bbox.URx)
}

func TestShapeLoad(t *testing.T) {
	c := sampleContext(t)
	src := c.ByName("Bezier1").(*Shape)
	rec := src.Save()

	dst := c.NewShape(nil, false)
	require.NoError(t, dst.Load(rec))
	assert.Equal(t, "Bezier2", dst.Name())
	assert.NotEqual(t, src.ID(), dst.ID())
	assert.Equal(t, src.Curve().Points(5), dst.Curve().Points(5))
	assert.Equal(t, src.TransformAt(5), dst.TransformAt(5))

	bad := rec
	bad.Operator = blend.Operator(99)
	assert.ErrorIs(t, dst.Load(bad), blend.ErrUnknownOperator)

	bad = rec
	bad.Curve.FeatherPoints = bad.Curve.FeatherPoints[:1]
	assert.ErrorIs(t, dst.Load(bad), bezier.ErrFeatherMismatch)
}

func TestStrokeLoadMismatch(t *testing.T) {
	c := sampleContext(t)
	st := c.ByName("Smear1").(*Stroke)
	rec := st.Save()
	rec.SubStrokes[0].Pressure = anim.Record{
		Value: 1,
		Keys:  []anim.Keyframe{{Time: 0.1, Value: 1}},
	}
	other := c.NewStroke(nil, paint.Draw)
	assert.ErrorIs(t, other.Load(rec), ErrSubStrokeMismatch)

	rec = st.Save()
	rec.Tool = paint.Tool(42)
	assert.ErrorIs(t, other.Load(rec), paint.ErrUnknownTool)

	_, err := LoadContext(ContextRecord{Root: LayerRecord{
		Children: []ChildRecord{{Stroke: &rec}},
	}})
	assert.ErrorIs(t, err, paint.ErrUnknownTool)
}

func TestLoadIntoLocked(t *testing.T) {
	c := sampleContext(t)
	shape := c.ByName("Bezier1").(*Shape)
	stroke := c.ByName("Smear1").(*Stroke)
	shapeRec := shape.Save()
	strokeRec := stroke.Save()

	c.SetLocked(shape, true)
	assert.ErrorIs(t, shape.Load(shapeRec), ErrLocked)
	c.SetLocked(shape, false)
	assert.NoError(t, shape.Load(shapeRec))

	// a locked layer locks its children
	l := c.NewLayer(nil)
	dst := c.NewStroke(l, paint.Draw)
	c.SetLocked(l, true)
	age := c.Age()
	assert.ErrorIs(t, dst.Load(strokeRec), ErrLocked)
	assert.Equal(t, age, c.Age())
	assert.Equal(t, paint.Draw, dst.Tool())
}

func TestLoadContextDuplicateIDs(t *testing.T) {
	c := sampleContext(t)
	rec := c.Save()
	rec.Root.Children = append(rec.Root.Children, rec.Root.Children...)

	c2, err := LoadContext(rec)
	require.NoError(t, err)
	assert.Len(t, c2.Root().Children(), 4)
	assert.Len(t, c2.Drawables(), 4)
}
