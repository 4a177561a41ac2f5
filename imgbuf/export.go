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
)

// Export converts m to a standard library image of the given depth.
//
// Alpha images become [image.Alpha] or [image.Alpha16], color images
// become [image.RGBA] or [image.RGBA64]. For [DepthFloat], m itself is
// returned.
func (m *Image) Export(depth Depth) image.Image {
	switch depth {
	case Depth8:
		if m.Components == Alpha {
			return m.ToAlpha()
		}
		return m.ToRGBA()
	case Depth16:
		if m.Components == Alpha {
			return m.ToAlpha16()
		}
		return m.ToRGBA64()
	default:
		return m
	}
}

// ToRGBA converts m to an 8-bit premultiplied image.
func (m *Image) ToRGBA() *image.RGBA {
	res := image.NewRGBA(m.Rect)
	m.each(func(x, y int, i int) {
		c := m.RGBA64At(x, y)
		j := res.PixOffset(x, y)
		res.Pix[j+0] = uint8(c.R >> 8)
		res.Pix[j+1] = uint8(c.G >> 8)
		res.Pix[j+2] = uint8(c.B >> 8)
		res.Pix[j+3] = uint8(c.A >> 8)
	})
	return res
}

// ToRGBA64 converts m to a 16-bit premultiplied image.
func (m *Image) ToRGBA64() *image.RGBA64 {
	res := image.NewRGBA64(m.Rect)
	m.each(func(x, y int, i int) {
		res.SetRGBA64(x, y, m.RGBA64At(x, y))
	})
	return res
}

// ToAlpha converts the alpha channel of m to an 8-bit image.
func (m *Image) ToAlpha() *image.Alpha {
	res := image.NewAlpha(m.Rect)
	m.each(func(x, y int, i int) {
		res.Pix[res.PixOffset(x, y)] = to8(m.Pix[i+3])
	})
	return res
}

// ToAlpha16 converts the alpha channel of m to a 16-bit image.
func (m *Image) ToAlpha16() *image.Alpha16 {
	res := image.NewAlpha16(m.Rect)
	m.each(func(x, y int, i int) {
		v := to16(m.Pix[i+3])
		j := res.PixOffset(x, y)
		res.Pix[j] = uint8(v >> 8)
		res.Pix[j+1] = uint8(v)
	})
	return res
}

// ToGray converts the alpha channel of m to an 8-bit gray image, the
// format used for coverage reference images.
func (m *Image) ToGray() *image.Gray {
	res := image.NewGray(m.Rect)
	m.each(func(x, y int, i int) {
		res.Pix[res.PixOffset(x, y)] = to8(m.Pix[i+3])
	})
	return res
}

func (m *Image) each(fn func(x, y int, i int)) {
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		i := m.PixOffset(m.Rect.Min.X, y)
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			fn(x, y, i)
			i += 4
		}
	}
}
