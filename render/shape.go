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

package render

import (
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/bezulate"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/feather"
	"seehuhn.de/go/roto/imgbuf"
	"seehuhn.de/go/roto/internal/xform"
	"seehuhn.de/go/roto/paint"
)

// shapeFrame holds the geometry and parameters of a shape at one time,
// copied while the shape is read-locked.
type shapeFrame struct {
	op       blend.Operator
	color    blend.Pixel
	opacity  float32
	inverted bool

	// closed shapes
	m              matrix.Matrix
	shape, feather []vec.Vec2 // paired outline samples, in shape coordinates
	clockwise      bool
	distance       float64
	falloff        float64

	// open shapes
	open  bool
	brush paint.Brush
	path  paint.SubStroke // in device coordinates
}

// snapshotShape collects the state of s at time t. It returns nil for
// shapes which render nothing: shapes with fewer than two points, and
// closed shapes which are not finished yet.
func (r *Renderer) snapshotShape(s *roto.Shape, t float64) *shapeFrame {
	s.RLock()
	defer s.RUnlock()

	c := s.Curve()
	if c.Len() < 2 || !c.IsOpen() && !c.IsFinished() {
		return nil
	}

	col := s.ColorAt(t)
	f := &shapeFrame{
		op:       s.Operator,
		color:    blend.Pixel{float32(col[0]), float32(col[1]), float32(col[2]), 1},
		opacity:  float32(s.OpacityAt(t)),
		inverted: s.InvertedAt(t),
		open:     c.IsOpen(),
	}
	m := r.device(s.Transform.At(t))

	if f.open {
		f.brush = s.BrushAt(t)
		f.brush.Size *= r.scale()
		pts := c.Flatten(t, m, r.flatness())
		f.path = make(paint.SubStroke, len(pts))
		for i, p := range pts {
			f.path[i] = paint.Sample{Pos: xform.Apply(m, p), Pressure: 1}
		}
		return f
	}

	f.m = m
	f.shape, f.feather = c.FlattenPaired(t, m, r.flatness())
	f.clockwise = c.IsClockwise(t)
	f.distance = max(s.FeatherDist.ValueAt(t), 0)
	f.falloff = s.FalloffAt(t)
	return f
}

// rasterize renders the layer of one shape sample.
//
// Closed shapes get the coverage of the triangulated interior plus the
// feather band. Open shapes are stamped with the brush of the shape
// along the flattened curve, at full pressure.
func (r *Renderer) rasterize(f *shapeFrame, roi image.Rectangle) *layer {
	l := newLayer(f.op, roi)
	r.begin(roi)

	if f.open {
		dots := f.brush.Dots([]paint.SubStroke{f.path})
		paint.Rasterize(l.mask, dots, &f.brush, &r.dots)
	} else {
		dev := make([]vec.Vec2, len(f.shape))
		for i, p := range f.shape {
			dev[i] = xform.Apply(f.m, p)
		}
		r.rast.FillTriangles(bezulate.Bezulate(dev), l.mask.AddSpan)

		mesh := feather.Build(f.shape, f.feather, f.distance, f.clockwise, f.m)
		mesh.Rasterize(r.rast, f.falloff, l.mask.AddSpan)
		l.mask.Clamp()
	}

	if f.inverted {
		for i, v := range l.mask.Val {
			l.mask.Val[i] = 1 - v
		}
	}
	if !f.open {
		// the brush has applied the opacity for open shapes
		l.mask.Scale(f.opacity)
	}
	l.img.Paint(f.color, l.mask)
	return l
}

// shapeLayer renders s averaged over the given sample times.
func (r *Renderer) shapeLayer(s *roto.Shape, times []float64, roi image.Rectangle) *layer {
	return average(times, roi, func(t float64) *layer {
		f := r.snapshotShape(s, t)
		if f == nil {
			return nil
		}
		return r.rasterize(f, roi)
	})
}

// RenderShape renders s at time t and merges it into dst, using the
// motion-blur settings of the shape. Nothing is drawn if the shape is not
// activated at time t.
func (r *Renderer) RenderShape(dst *imgbuf.Image, s *roto.Shape, t float64) {
	if !s.IsActivated(t) {
		return
	}
	r.shapeLayer(s, sampleTimes(s, t), dst.Rect).composite(dst)
}
