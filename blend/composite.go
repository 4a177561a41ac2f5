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

package blend

import "math"

// Pixel is a premultiplied RGBA color.
type Pixel [4]float32

// Composite combines the source pixel s with the destination pixel d.
func (op Operator) Composite(s, d Pixel) Pixel {
	sa, da := s[3], d[3]
	switch op {
	case Clear:
		return Pixel{}
	case Source:
		return s
	case Over:
		return lerp2(s, 1, d, 1-sa)
	case In:
		return scale(s, da)
	case Out:
		return scale(s, 1-da)
	case Atop:
		return lerp2(s, da, d, 1-sa)
	case Dest:
		return d
	case DestOver:
		return lerp2(s, 1-da, d, 1)
	case DestIn:
		return scale(d, sa)
	case DestOut:
		return scale(d, 1-sa)
	case DestAtop:
		return lerp2(s, 1-da, d, sa)
	case Xor:
		return lerp2(s, 1-da, d, 1-sa)
	case Add:
		var r Pixel
		for i := range r {
			r[i] = min(s[i]+d[i], 1)
		}
		return r
	case Saturate:
		if sa <= 0 {
			return d
		}
		return lerp2(s, min(1, (1-da)/sa), d, 1)
	}

	if sa <= 0 {
		return d
	}
	if da <= 0 {
		return s
	}

	// blend modes: unpremultiply, mix, recombine
	cs := [3]float32{s[0] / sa, s[1] / sa, s[2] / sa}
	cd := [3]float32{d[0] / da, d[1] / da, d[2] / da}
	var b [3]float32
	if op >= HSLHue {
		b = nonSeparable(op, cs, cd)
	} else {
		f := separable(op)
		for i := range b {
			b[i] = f(cs[i], cd[i])
		}
	}

	var r Pixel
	for i := range 3 {
		r[i] = s[i]*(1-da) + d[i]*(1-sa) + sa*da*b[i]
	}
	r[3] = sa + da - sa*da
	return r
}

func scale(p Pixel, f float32) Pixel {
	return Pixel{p[0] * f, p[1] * f, p[2] * f, p[3] * f}
}

func lerp2(s Pixel, fs float32, d Pixel, fd float32) Pixel {
	var r Pixel
	for i := range r {
		r[i] = s[i]*fs + d[i]*fd
	}
	return r
}

// separable returns the per-channel blend function B(cs, cd) for the
// separable blend modes, acting on unpremultiplied values.
func separable(op Operator) func(s, d float32) float32 {
	switch op {
	case Multiply:
		return func(s, d float32) float32 { return s * d }
	case Screen:
		return screen
	case Overlay:
		return func(s, d float32) float32 { return hardLight(d, s) }
	case Darken:
		return func(s, d float32) float32 { return min(s, d) }
	case Lighten:
		return func(s, d float32) float32 { return max(s, d) }
	case ColorDodge:
		return colorDodge
	case ColorBurn:
		return colorBurn
	case HardLight:
		return hardLight
	case SoftLight:
		return softLight
	case Difference:
		return func(s, d float32) float32 { return float32(math.Abs(float64(s - d))) }
	case Exclusion:
		return func(s, d float32) float32 { return s + d - 2*s*d }
	default:
		panic("blend: not a separable blend mode: " + op.String())
	}
}

func screen(s, d float32) float32 {
	return s + d - s*d
}

func hardLight(s, d float32) float32 {
	if s <= 0.5 {
		return d * 2 * s
	}
	return screen(2*s-1, d)
}

func colorDodge(s, d float32) float32 {
	switch {
	case d <= 0:
		return 0
	case s >= 1:
		return 1
	}
	return min(1, d/(1-s))
}

func colorBurn(s, d float32) float32 {
	switch {
	case d >= 1:
		return 1
	case s <= 0:
		return 0
	}
	return 1 - min(1, (1-d)/s)
}

func softLight(s, d float32) float32 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var dd float32
	if d <= 0.25 {
		dd = ((16*d-12)*d + 4) * d
	} else {
		dd = float32(math.Sqrt(float64(d)))
	}
	return d + (2*s-1)*(dd-d)
}
