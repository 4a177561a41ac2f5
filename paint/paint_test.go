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

package paint

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/imgbuf"
)

func line(x0, y0, x1, y1 float64, n int) SubStroke {
	s := make(SubStroke, n+1)
	for i := range s {
		u := float64(i) / float64(n)
		s[i] = Sample{
			Pos:      vec.Vec2{X: x0 + u*(x1-x0), Y: y0 + u*(y1-y0)},
			Pressure: 1,
		}
	}
	return s
}

func TestDotCount(t *testing.T) {
	cases := []struct {
		length, spacing, size float64
	}{
		{100, 0.1, 25},
		{100, 0.3, 10},
		{37, 0.25, 8},
		{5, 0.5, 20},
		{0, 0.1, 25},
	}
	for _, c := range cases {
		b := DefaultBrush()
		b.Spacing = c.spacing
		b.Size = c.size
		dots := b.Dots([]SubStroke{line(0, 0, c.length, 0, 7)})
		want := int(math.Floor(c.length/(c.spacing*c.size))) + 1
		assert.Len(t, dots, want, "L=%g s=%g d=%g", c.length, c.spacing, c.size)
	}
}

func TestDotPositions(t *testing.T) {
	b := DefaultBrush()
	dots := b.Dots([]SubStroke{line(10, 10, 10, 30, 3)})
	require.Len(t, dots, 9)
	for k, dot := range dots {
		assert.InDelta(t, 10, dot.Center.X, 1e-9)
		assert.InDelta(t, 10+2.5*float64(k), dot.Center.Y, 1e-9)
		assert.Equal(t, 12.5, dot.Radius)
	}
}

func TestSpacingRestartsPerSubStroke(t *testing.T) {
	b := DefaultBrush()
	strokes := []SubStroke{
		line(0, 0, 11, 0, 1),
		line(0, 50, 11, 50, 1),
	}
	dots := b.Dots(strokes)
	require.Len(t, dots, 10)
	assert.Equal(t, vec.Vec2{X: 0, Y: 50}, dots[5].Center)
}

func TestVisiblePortion(t *testing.T) {
	b := DefaultBrush()
	b.VisibleEnd = 0.5
	dots := b.Dots([]SubStroke{line(0, 0, 100, 0, 4)})
	assert.Len(t, dots, 21)

	// measured over the concatenated length of all sub-strokes
	b.VisibleStart, b.VisibleEnd = 0.51, 1
	dots = b.Dots([]SubStroke{line(0, 0, 50, 0, 1), line(0, 10, 50, 10, 1)})
	require.Len(t, dots, 20)
	for _, dot := range dots {
		assert.Equal(t, 10.0, dot.Center.Y)
	}

	b.VisibleStart, b.VisibleEnd = 0.6, 0.6
	assert.Empty(t, b.Dots([]SubStroke{line(0, 0, 100, 0, 4)}))
}

func TestPressure(t *testing.T) {
	s := SubStroke{
		{Pos: vec.Vec2{X: 0, Y: 0}, Pressure: 0},
		{Pos: vec.Vec2{X: 10, Y: 0}, Pressure: 1},
	}
	b := DefaultBrush()
	b.Size = 20
	b.Spacing = 0.25
	b.PressureSize = true
	b.PressureOpacity = true
	b.PressureHardness = true
	dots := b.Dots([]SubStroke{s})
	require.Len(t, dots, 3)
	assert.InDelta(t, 0.5, dots[1].Opacity, 1e-9)
	assert.InDelta(t, 5, dots[1].Radius, 1e-9)
	assert.InDelta(t, 0.1, dots[1].Hardness, 1e-9)

	b.PressureSize = false
	dots = b.Dots([]SubStroke{s})
	assert.Equal(t, 10.0, dots[0].Radius)
}

func TestPatternProfile(t *testing.T) {
	p := newPattern(10, 0.5, false)
	assert.Equal(t, float32(1), p.At(0))
	assert.Equal(t, float32(1), p.At(4.9))
	assert.InDelta(t, 0.5, p.At(7.5), 1e-3)
	assert.Equal(t, float32(0), p.At(11))
	prev := float32(2)
	for d := 0.0; d < 12; d += 0.1 {
		a := p.At(d)
		assert.LessOrEqual(t, a, prev)
		prev = a
	}

	hard := newPattern(10, 1, false)
	assert.InDelta(t, 0.5, hard.At(10), 1e-6)
}

func TestDotCache(t *testing.T) {
	var c DotCache
	p1 := c.Get(10, 0.2, false)
	p2 := c.Get(10.01, 0.201, false)
	assert.Same(t, p1, p2)
	assert.Equal(t, 1, c.Len())

	p3 := c.Get(10, 0.2, true)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 2, c.Len())

	c.Invalidate()
	assert.Equal(t, 0, c.Len())
	assert.NotSame(t, p1, c.Get(10, 0.2, false))

	var nilCache *DotCache
	assert.NotNil(t, nilCache.Get(3, 0.5, false))
	assert.Equal(t, 0, nilCache.Len())
}

func overlappingDots() []Dot {
	dot := Dot{Center: vec.Vec2{X: 20, Y: 20}, Radius: 10, Hardness: 0.5, Opacity: 1}
	return []Dot{dot, dot}
}

func TestBuildUp(t *testing.T) {
	r := image.Rect(0, 0, 40, 40)
	b := DefaultBrush()
	b.Opacity = 0.5
	b.BuildUp = true

	single := imgbuf.NewMask(r)
	Rasterize(single, overlappingDots()[:1], &b, nil)
	double := imgbuf.NewMask(r)
	Rasterize(double, overlappingDots(), &b, nil)

	assert.InDelta(t, 0.5, single.At(20, 20), 1e-6)
	assert.Greater(t, double.At(20, 20), single.At(20, 20))
	assert.InDelta(t, 1, double.At(20, 20), 1e-6)
}

func TestNormalDoesNotExceedOpacity(t *testing.T) {
	r := image.Rect(0, 0, 40, 40)
	b := DefaultBrush()
	b.Opacity = 0.5
	b.BuildUp = false

	mask := imgbuf.NewMask(r)
	Rasterize(mask, overlappingDots(), &b, nil)
	assert.InDelta(t, 0.5, mask.At(20, 20), 1e-6)
	for _, v := range mask.Val {
		assert.LessOrEqual(t, v, float32(0.5+1e-6))
	}
	assert.Equal(t, float32(0), mask.At(0, 0))
}

func TestToolNames(t *testing.T) {
	for i := range numTools {
		tool := Tool(i)
		parsed, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, parsed)
	}
	_, err := ParseTool("eraser")
	assert.ErrorIs(t, err, ErrUnknownTool)

	assert.Equal(t, blend.ColorDodge, Dodge.Operator(blend.Over))
	assert.Equal(t, blend.ColorBurn, Burn.Operator(blend.Over))
	assert.Equal(t, blend.Multiply, Draw.Operator(blend.Multiply))
	assert.True(t, Reveal.NeedsSource())
	assert.False(t, Draw.NeedsSource())
}

func fullMask(r image.Rectangle) *imgbuf.Mask {
	m := imgbuf.NewMask(r)
	for i := range m.Val {
		m.Val[i] = 1
	}
	return m
}

func TestDrawLayer(t *testing.T) {
	r := image.Rect(0, 0, 4, 4)
	mask := imgbuf.NewMask(r)
	mask.Val[mask.Offset(1, 1)] = 0.5
	e := &Effect{Tool: Draw, Color: [3]float64{1, 0.5, 0}}
	layer := e.Layer(mask, nil)
	assert.Equal(t, blend.Pixel{0.5, 0.25, 0, 0.5}, layer.Pixel(1, 1))
	assert.Equal(t, blend.Pixel{}, layer.Pixel(2, 2))
}

func TestRevealLayer(t *testing.T) {
	r := image.Rect(0, 0, 4, 4)
	src := image.NewUniform(color.RGBA{R: 255, A: 255})
	e := &Effect{Tool: Reveal, Source: src}
	layer := e.Layer(fullMask(r), nil)
	assert.Equal(t, blend.Pixel{1, 0, 0, 1}, layer.Pixel(3, 3))

	e.Source = nil
	layer = e.Layer(fullMask(r), nil)
	assert.Equal(t, blend.Pixel{}, layer.Pixel(3, 3))
}

func TestCloneLayer(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(2, 2, color.RGBA{G: 255, A: 255})

	e := &Effect{
		Tool:         Clone,
		Source:       src,
		CloneMatrix:  matrix.Translate(5, 0),
		BlackOutside: true,
	}
	layer := e.Layer(fullMask(image.Rect(0, 0, 16, 16)), nil)
	got := layer.Pixel(7, 2)
	assert.InDelta(t, 1, got[1], 1e-3)
	assert.InDelta(t, 1, got[3], 1e-3)
	assert.InDelta(t, 0, layer.Pixel(2, 2)[3], 1e-3)
	assert.InDelta(t, 0, layer.Pixel(15, 15)[3], 1e-3)
}

func TestBlurUniform(t *testing.T) {
	src := image.NewUniform(color.RGBA{R: 128, G: 64, B: 32, A: 255})
	e := &Effect{Tool: Blur, Source: src, Strength: 15, Size: 25}
	layer := e.Layer(fullMask(image.Rect(10, 10, 20, 20)), nil)
	got := layer.Pixel(15, 15)
	assert.InDelta(t, 128.0/255, got[0], 2.0/255)
	assert.InDelta(t, 64.0/255, got[1], 2.0/255)
	assert.InDelta(t, 1, got[3], 2.0/255)
}

func TestSmearSingleDot(t *testing.T) {
	src := image.NewUniform(color.RGBA{B: 255, A: 255})
	dots := []Dot{{Center: vec.Vec2{X: 4, Y: 4}, Radius: 3, Hardness: 1, Opacity: 1}}
	e := &Effect{Tool: Smear, Source: src}
	layer := e.Layer(fullMask(image.Rect(0, 0, 8, 8)), dots)
	assert.Equal(t, blend.Pixel{0, 0, 1, 1}, layer.Pixel(4, 4))
}

func TestSmearDrags(t *testing.T) {
	// left half white, right half transparent
	src := image.NewRGBA(image.Rect(0, 0, 40, 10))
	for y := range 10 {
		for x := range 20 {
			src.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	dots := []Dot{
		{Center: vec.Vec2{X: 18, Y: 5}, Radius: 3, Hardness: 1, Opacity: 1},
		{Center: vec.Vec2{X: 22, Y: 5}, Radius: 3, Hardness: 1, Opacity: 1},
	}
	e := &Effect{Tool: Smear, Source: src}
	layer := e.Layer(fullMask(src.Rect), dots)
	assert.InDelta(t, 1, layer.Pixel(21, 5)[3], 1e-6)
	assert.Equal(t, float32(0), layer.Pixel(30, 5)[3])
}

func TestSmearLongDrag(t *testing.T) {
	// the drag between the dots is longer than the dot radius
	src := image.NewRGBA(image.Rect(0, 0, 60, 10))
	for y := range 10 {
		for x := range 17 {
			src.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	dots := []Dot{
		{Center: vec.Vec2{X: 16, Y: 5}, Radius: 3, Hardness: 1, Opacity: 1},
		{Center: vec.Vec2{X: 24, Y: 5}, Radius: 3, Hardness: 1, Opacity: 1},
	}
	e := &Effect{Tool: Smear, Source: src}
	layer := e.Layer(fullMask(src.Rect), dots)

	// (24, 5) pulls from (16, 5), which is white
	assert.InDelta(t, 1, layer.Pixel(24, 5)[3], 1e-6)
	assert.InDelta(t, 1, layer.Pixel(24, 5)[0], 1e-6)
	assert.Equal(t, float32(0), layer.Pixel(40, 5)[3])
}
