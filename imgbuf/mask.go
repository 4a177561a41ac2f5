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

	"seehuhn.de/go/roto/blend"
)

// Mask is a single-channel coverage buffer.
type Mask struct {
	Val  []float32 // row-major, one value per pixel
	Rect image.Rectangle
}

// NewMask allocates an empty mask covering r.
func NewMask(r image.Rectangle) *Mask {
	w, h := max(r.Dx(), 0), max(r.Dy(), 0)
	return &Mask{
		Val:  make([]float32, w*h),
		Rect: r,
	}
}

// Offset returns the index in Val of the pixel at (x, y).
func (m *Mask) Offset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Rect.Dx() + (x - m.Rect.Min.X)
}

// At returns the coverage at (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) float32 {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return 0
	}
	return m.Val[m.Offset(x, y)]
}

// Reset clears the mask.
func (m *Mask) Reset() {
	clear(m.Val)
}

// AddSpan adds a row of coverage values. It has the signature of a
// rasterizer emit callback. Values outside the mask are ignored.
func (m *Mask) AddSpan(y, xMin int, coverage []float32) {
	lo, hi, ok := m.clipSpan(y, xMin, len(coverage))
	if !ok {
		return
	}
	row := m.Offset(0, y) // may be negative; only used with x >= Rect.Min.X
	for x := lo; x < hi; x++ {
		m.Val[row+x] += coverage[x-xMin]
	}
}

// MaxSpan combines a row of coverage values by taking the maximum.
func (m *Mask) MaxSpan(y, xMin int, coverage []float32) {
	lo, hi, ok := m.clipSpan(y, xMin, len(coverage))
	if !ok {
		return
	}
	row := m.Offset(0, y)
	for x := lo; x < hi; x++ {
		m.Val[row+x] = max(m.Val[row+x], coverage[x-xMin])
	}
}

func (m *Mask) clipSpan(y, xMin, n int) (lo, hi int, ok bool) {
	if y < m.Rect.Min.Y || y >= m.Rect.Max.Y {
		return 0, 0, false
	}
	lo = max(xMin, m.Rect.Min.X)
	hi = min(xMin+n, m.Rect.Max.X)
	return lo, hi, lo < hi
}

// Clamp limits all values to [0, 1].
func (m *Mask) Clamp() {
	for i, v := range m.Val {
		m.Val[i] = min(max(v, 0), 1)
	}
}

// Scale multiplies all values by f.
func (m *Mask) Scale(f float32) {
	for i := range m.Val {
		m.Val[i] *= f
	}
}

// AddScaled adds f times src to m. Both masks must have the same
// rectangle.
func (m *Mask) AddScaled(src *Mask, f float32) {
	if src.Rect != m.Rect {
		panic("imgbuf: AddScaled with mismatched rectangles")
	}
	for i, v := range src.Val {
		m.Val[i] += f * v
	}
}

// Paint adds color times mask to m, where the mask is nonzero.
// The result is the premultiplied image of a layer with the given
// color and coverage.
func (m *Image) Paint(color blend.Pixel, mask *Mask) {
	r := m.Rect.Intersect(mask.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.PixOffset(r.Min.X, y)
		j := mask.Offset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			if c := mask.Val[j]; c != 0 {
				for k := range 4 {
					m.Pix[i+k] += c * color[k]
				}
			}
			i += 4
			j++
		}
	}
}

// isUnbounded reports whether op changes the destination even where the
// source has zero coverage.
func isUnbounded(op blend.Operator) bool {
	switch op {
	case blend.In, blend.Out, blend.DestIn, blend.DestAtop:
		return true
	}
	return false
}

// CompositeLayer merges a rendered layer into m using op.
//
// The layer consists of a premultiplied image src, holding the layer color
// already multiplied by coverage, and the coverage mask itself. For most
// operators, the destination is only changed where the coverage is
// nonzero, and it is interpolated between the old value and the fully
// composited value according to coverage. The operators in, out, dest-in
// and dest-atop also clear the destination outside the layer.
//
// All three buffers are expected to cover the same rectangle; pixels of m
// outside src or mask are treated as having zero coverage.
func (m *Image) CompositeLayer(op blend.Operator, src *Image, mask *Mask) {
	unbounded := isUnbounded(op)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		i := m.PixOffset(m.Rect.Min.X, y)
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			cov := mask.At(x, y)
			var d blend.Pixel
			copy(d[:], m.Pix[i:i+4])

			var res blend.Pixel
			switch {
			case unbounded:
				res = op.Composite(src.Pixel(x, y), d)
			case cov <= 0:
				i += 4
				continue
			default:
				s := src.Pixel(x, y)
				inv := 1 / cov
				for k := range s {
					s[k] *= inv
				}
				full := op.Composite(s, d)
				for k := range res {
					res[k] = d[k] + cov*(full[k]-d[k])
				}
			}
			copy(m.Pix[i:i+4], res[:])
			i += 4
		}
	}
}

// CompositeImage merges the image src into m using op, treating src as a
// source with full coverage wherever it is defined.
func (m *Image) CompositeImage(op blend.Operator, src *Image) {
	r := m.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.PixOffset(r.Min.X, y)
		j := src.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			var s, d blend.Pixel
			copy(s[:], src.Pix[j:j+4])
			copy(d[:], m.Pix[i:i+4])
			res := op.Composite(s, d)
			copy(m.Pix[i:i+4], res[:])
			i += 4
			j += 4
		}
	}
}
