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

// Non-separable blend modes, following the W3C "Compositing and Blending
// Level 1" recommendation, section 8.

func nonSeparable(op Operator, cs, cd [3]float32) [3]float32 {
	switch op {
	case HSLHue:
		return setLum(setSat(cs, sat(cd)), lum(cd))
	case HSLSaturation:
		return setLum(setSat(cd, sat(cs)), lum(cd))
	case HSLColor:
		return setLum(cs, lum(cd))
	default: // HSLLuminosity
		return setLum(cd, lum(cs))
	}
}

func lum(c [3]float32) float32 {
	return 0.30*c[0] + 0.59*c[1] + 0.11*c[2]
}

func sat(c [3]float32) float32 {
	return max(c[0], c[1], c[2]) - min(c[0], c[1], c[2])
}

func clipColor(c [3]float32) [3]float32 {
	l := lum(c)
	n := min(c[0], c[1], c[2])
	x := max(c[0], c[1], c[2])
	if n < 0 {
		for i := range c {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
	}
	if x > 1 {
		for i := range c {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}

func setLum(c [3]float32, l float32) [3]float32 {
	d := l - lum(c)
	return clipColor([3]float32{c[0] + d, c[1] + d, c[2] + d})
}

func setSat(c [3]float32, s float32) [3]float32 {
	// indices of the smallest, middle and largest component
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}

	var r [3]float32
	if c[hi] > c[lo] {
		r[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		r[hi] = s
	}
	return r
}
