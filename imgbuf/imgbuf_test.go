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

package imgbuf

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"

	"seehuhn.de/go/roto/blend"
)

func TestPixelAccess(t *testing.T) {
	m := New(image.Rect(10, 20, 14, 22), RGBA)
	m.SetPixel(12, 21, blend.Pixel{0.1, 0.2, 0.3, 0.4})
	assert.Equal(t, blend.Pixel{0.1, 0.2, 0.3, 0.4}, m.Pixel(12, 21))
	assert.Equal(t, blend.Pixel{}, m.Pixel(0, 0))
	m.SetPixel(0, 0, blend.Pixel{1, 1, 1, 1}) // ignored
}

func TestDrawInterop(t *testing.T) {
	src := image.NewUniform(color.RGBA{R: 255, A: 255})
	m := New(image.Rect(0, 0, 3, 3), RGBA)
	draw.Draw(m, m.Rect, src, image.Point{}, draw.Src)
	assert.Equal(t, blend.Pixel{1, 0, 0, 1}, m.Pixel(1, 1))

	rgba := m.ToRGBA()
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(2, 2))

	back := FromImage(rgba, rgba.Rect)
	assert.Equal(t, m.Pix, back.Pix)
}

func TestExportDepth(t *testing.T) {
	m := New(image.Rect(0, 0, 1, 1), Alpha)
	m.SetPixel(0, 0, blend.Pixel{0.5, 0.5, 0.5, 0.5})

	a8, ok := m.Export(Depth8).(*image.Alpha)
	assert.True(t, ok)
	assert.Equal(t, uint8(128), a8.AlphaAt(0, 0).A)

	a16, ok := m.Export(Depth16).(*image.Alpha16)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x8000), a16.Alpha16At(0, 0).A)

	assert.Same(t, m, m.Export(DepthFloat))

	m.Components = RGB
	c := m.RGBA64At(0, 0)
	assert.Equal(t, uint16(0xffff), c.A)
	_, ok = m.Export(Depth16).(*image.RGBA64)
	assert.True(t, ok)
}

func TestMaskSpans(t *testing.T) {
	mask := NewMask(image.Rect(5, 5, 10, 10))
	mask.AddSpan(6, 3, []float32{1, 1, 0.5, 0.5, 0.5})
	assert.Equal(t, float32(0), mask.At(4, 6))
	assert.Equal(t, float32(0.5), mask.At(5, 6))
	assert.Equal(t, float32(0.5), mask.At(7, 6))
	assert.Equal(t, float32(0), mask.At(8, 6))

	mask.AddSpan(6, 5, []float32{0.75})
	mask.MaxSpan(6, 6, []float32{0.2})
	assert.Equal(t, float32(1.25), mask.At(5, 6))
	assert.Equal(t, float32(0.5), mask.At(6, 6))

	mask.AddSpan(20, 5, []float32{1}) // outside, ignored
	mask.Clamp()
	assert.Equal(t, float32(1), mask.At(5, 6))
}

func TestCompositeLayerBounded(t *testing.T) {
	r := image.Rect(0, 0, 2, 1)
	dst := New(r, RGBA)
	dst.Fill(blend.Pixel{0, 0, 1, 1})

	mask := NewMask(r)
	mask.Val[0] = 0.5
	layer := New(r, RGBA)
	layer.Paint(blend.Pixel{1, 0, 0, 1}, mask)

	dst.CompositeLayer(blend.Clear, layer, mask)
	assert.Equal(t, blend.Pixel{0, 0, 0.5, 0.5}, dst.Pixel(0, 0))
	assert.Equal(t, blend.Pixel{0, 0, 1, 1}, dst.Pixel(1, 0)) // untouched
}

func TestCompositeLayerUnbounded(t *testing.T) {
	r := image.Rect(0, 0, 2, 1)
	dst := New(r, RGBA)
	dst.Fill(blend.Pixel{0, 0, 1, 1})

	mask := NewMask(r)
	mask.Val[0] = 1
	layer := New(r, RGBA)
	layer.Paint(blend.Pixel{1, 0, 0, 1}, mask)

	dst.CompositeLayer(blend.DestIn, layer, mask)
	assert.Equal(t, blend.Pixel{0, 0, 1, 1}, dst.Pixel(0, 0))
	assert.Equal(t, blend.Pixel{}, dst.Pixel(1, 0)) // cleared outside the layer
}

func TestCompositeOverMatchesCoverage(t *testing.T) {
	r := image.Rect(0, 0, 1, 1)
	dst := New(r, RGBA)
	mask := NewMask(r)
	mask.Val[0] = 0.25
	layer := New(r, RGBA)
	layer.Paint(blend.Pixel{1, 1, 1, 1}, mask)
	dst.CompositeLayer(blend.Over, layer, mask)
	assert.InDelta(t, 0.25, dst.Pixel(0, 0)[3], 1e-6)
}
