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

// Package imgbuf provides the image buffers which masks and strokes are
// rendered into.
//
// An [Image] stores premultiplied RGBA values as float32 in [0, 1] for a
// rectangular region of interest. It implements [draw.Image], so that it
// can be used with the standard image packages, and can be converted to
// 8-bit and 16-bit images for output.
package imgbuf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"seehuhn.de/go/roto/blend"
)

// Components selects which channels of an image are meaningful.
type Components int

const (
	// RGBA images carry color and alpha.
	RGBA Components = iota

	// RGB images carry color only; alpha is treated as opaque on export.
	RGB

	// Alpha images carry only the alpha channel.
	Alpha
)

func (c Components) String() string {
	switch c {
	case RGBA:
		return "RGBA"
	case RGB:
		return "RGB"
	case Alpha:
		return "Alpha"
	default:
		return fmt.Sprintf("Components(%d)", int(c))
	}
}

// Depth is the bit depth used when exporting an image.
type Depth int

const (
	Depth8 Depth = iota
	Depth16
	DepthFloat
)

// Image is a premultiplied RGBA image with float32 channels.
type Image struct {
	// Pix holds four values per pixel. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*4].
	Pix    []float32
	Stride int
	Rect   image.Rectangle

	Components Components
}

// New allocates a transparent image covering r.
func New(r image.Rectangle, comps Components) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &Image{
		Pix:        make([]float32, 4*w*h),
		Stride:     4 * w,
		Rect:       r,
		Components: comps,
	}
}

// PixOffset returns the index of the first element of Pix for the pixel
// at (x, y).
func (m *Image) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*4
}

// Pixel returns the pixel at (x, y), or a transparent pixel outside the
// image.
func (m *Image) Pixel(x, y int) blend.Pixel {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return blend.Pixel{}
	}
	i := m.PixOffset(x, y)
	return blend.Pixel(m.Pix[i : i+4 : i+4])
}

// SetPixel sets the pixel at (x, y). Points outside the image are ignored.
func (m *Image) SetPixel(x, y int, p blend.Pixel) {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return
	}
	i := m.PixOffset(x, y)
	copy(m.Pix[i:i+4], p[:])
}

// Clear makes the image fully transparent.
func (m *Image) Clear() {
	clear(m.Pix)
}

// Fill sets every pixel to p.
func (m *Image) Fill(p blend.Pixel) {
	for i := 0; i < len(m.Pix); i += 4 {
		copy(m.Pix[i:i+4], p[:])
	}
}

// Scale multiplies all channels by f.
func (m *Image) Scale(f float32) {
	for i := range m.Pix {
		m.Pix[i] *= f
	}
}

// AddScaled adds f times src to m. Both images must have the same
// rectangle.
func (m *Image) AddScaled(src *Image, f float32) {
	if src.Rect != m.Rect {
		panic("imgbuf: AddScaled with mismatched rectangles")
	}
	for i, v := range src.Pix {
		m.Pix[i] += f * v
	}
}

// CopyFrom copies the overlapping part of src into m.
func (m *Image) CopyFrom(src *Image) {
	r := m.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.PixOffset(r.Min.X, y)
		j := src.PixOffset(r.Min.X, y)
		copy(m.Pix[i:i+4*r.Dx()], src.Pix[j:j+4*r.Dx()])
	}
}

// Clone returns a copy of m.
func (m *Image) Clone() *Image {
	c := New(m.Rect, m.Components)
	c.CopyFrom(m)
	return c
}

// ColorModel implements the [image.Image] interface.
func (m *Image) ColorModel() color.Model {
	return color.RGBA64Model
}

// Bounds implements the [image.Image] interface.
func (m *Image) Bounds() image.Rectangle {
	return m.Rect
}

// At implements the [image.Image] interface.
func (m *Image) At(x, y int) color.Color {
	return m.RGBA64At(x, y)
}

// RGBA64At implements the [image.RGBA64Image] interface.
func (m *Image) RGBA64At(x, y int) color.RGBA64 {
	p := m.Pixel(x, y)
	c := color.RGBA64{
		R: to16(p[0]),
		G: to16(p[1]),
		B: to16(p[2]),
		A: to16(p[3]),
	}
	switch m.Components {
	case RGB:
		c.A = 0xffff
	case Alpha:
		c.R, c.G, c.B = c.A, c.A, c.A
	}
	return c
}

// Set implements the [draw.Image] interface.
func (m *Image) Set(x, y int, c color.Color) {
	r, g, b, a := c.RGBA()
	m.SetPixel(x, y, blend.Pixel{
		float32(r) / 0xffff,
		float32(g) / 0xffff,
		float32(b) / 0xffff,
		float32(a) / 0xffff,
	})
}

// SetRGBA64 implements the [draw.RGBA64Image] interface.
func (m *Image) SetRGBA64(x, y int, c color.RGBA64) {
	m.Set(x, y, c)
}

var _ draw.RGBA64Image = (*Image)(nil)

// FromImage converts the part of img inside r into a new RGBA image.
func FromImage(img image.Image, r image.Rectangle) *Image {
	m := New(r, RGBA)
	b := r.Intersect(img.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m.Set(x, y, img.At(x, y))
		}
	}
	return m
}

func to16(v float32) uint16 {
	v = min(max(v, 0), 1)
	return uint16(v*0xffff + 0.5)
}

func to8(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*0xff + 0.5)
}
