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

// Package paint turns freehand stroke samples into stamped brush dots.
//
// A stroke consists of one or more sub-strokes, each a sequence of
// pressure-tagged positions. [Brush.Dots] walks the arc length of every
// sub-stroke and places a dot every Spacing×Size pixels. The dots are
// accumulated into a coverage mask by [Rasterize], using pre-computed dot
// profiles from a [DotCache], and [Effect.Layer] turns the coverage into
// the color layer of the stroke's tool.
package paint

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Sample is one recorded pen position.
type Sample struct {
	Pos      vec.Vec2
	Pressure float64
}

// SubStroke is the sequence of samples of one pen-down/pen-up cycle.
type SubStroke []Sample

// Length returns the arc length of the polyline through the samples.
func (s SubStroke) Length() float64 {
	var l float64
	for i := 1; i < len(s); i++ {
		l += s[i].Pos.Sub(s[i-1].Pos).Length()
	}
	return l
}

// Brush holds the parameters which control dot placement and shape.
// Lengths are in device pixels.
type Brush struct {
	Size     float64 // dot diameter
	Spacing  float64 // distance between dots, as a fraction of Size
	Hardness float64 // fraction of the radius with full alpha, in [0, 1]
	Opacity  float64

	PressureOpacity  bool
	PressureSize     bool
	PressureHardness bool
	BuildUp          bool

	// VisibleStart and VisibleEnd restrict the stroke to a range of the
	// cumulative arc length of all sub-strokes, as fractions in [0, 1].
	VisibleStart float64
	VisibleEnd   float64
}

// DefaultBrush returns the brush settings of a newly created stroke.
func DefaultBrush() Brush {
	return Brush{
		Size:         25,
		Spacing:      0.1,
		Hardness:     0.2,
		Opacity:      1,
		VisibleStart: 0,
		VisibleEnd:   1,

		PressureOpacity: true,
		BuildUp:         true,
	}
}

// Dot is a single brush stamp.
type Dot struct {
	Center   vec.Vec2
	Radius   float64
	Hardness float64
	Opacity  float64
}

// minDotStep is the smallest distance between dots, in pixels.
const minDotStep = 0.1

// step returns the arc length between consecutive dots.
func (b *Brush) step() float64 {
	return max(b.Spacing*b.Size, minDotStep)
}

// Dots returns the dots for the given sub-strokes.
//
// Along a sub-stroke of length L, dots are placed at the arc lengths
// 0, d, 2d, ... up to L, where d = Spacing×Size. Spacing restarts at the
// beginning of every sub-stroke. Dots outside the visible portion are
// omitted, and an empty visible portion gives no dots.
func (b *Brush) Dots(strokes []SubStroke) []Dot {
	lo, hi := clamp01(b.VisibleStart), clamp01(b.VisibleEnd)
	if hi <= lo {
		return nil
	}

	var total float64
	lengths := make([]float64, len(strokes))
	for i, s := range strokes {
		lengths[i] = s.Length()
		total += lengths[i]
	}
	eps := 1e-9 * max(total, 1)
	visLo, visHi := lo*total-eps, hi*total+eps

	step := b.step()
	var dots []Dot
	var offset float64
	for i, s := range strokes {
		if len(s) == 0 {
			continue
		}
		l := lengths[i]
		n := int(math.Floor(l/step+1e-9)) + 1

		seg := 1
		var segStart float64 // arc length at s[seg-1]
		for k := range n {
			d := float64(k) * step
			if g := offset + d; g < visLo || g > visHi {
				continue
			}

			for seg < len(s)-1 {
				segLen := s[seg].Pos.Sub(s[seg-1].Pos).Length()
				if segStart+segLen >= d {
					break
				}
				segStart += segLen
				seg++
			}

			var smp Sample
			if len(s) == 1 {
				smp = s[0]
			} else {
				smp = interpolate(s[seg-1], s[seg], d-segStart)
			}
			dots = append(dots, b.dotAt(smp))
		}
		offset += l
	}
	return dots
}

// interpolate returns the sample at arc length d past a, on the line
// towards b.
func interpolate(a, b Sample, d float64) Sample {
	segLen := b.Pos.Sub(a.Pos).Length()
	if segLen <= 0 {
		return a
	}
	u := min(max(d/segLen, 0), 1)
	return Sample{
		Pos:      a.Pos.Add(b.Pos.Sub(a.Pos).Mul(u)),
		Pressure: a.Pressure + u*(b.Pressure-a.Pressure),
	}
}

// dotAt applies the pressure modulation to a single dot.
func (b *Brush) dotAt(s Sample) Dot {
	p := clamp01(s.Pressure)
	dot := Dot{
		Center:   s.Pos,
		Radius:   b.Size / 2,
		Hardness: clamp01(b.Hardness),
		Opacity:  1,
	}
	if b.PressureSize {
		dot.Radius *= p
	}
	if b.PressureHardness {
		dot.Hardness *= p
	}
	if b.PressureOpacity {
		dot.Opacity = p
	}
	return dot
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
