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

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/imgbuf"
	"seehuhn.de/go/roto/internal/xform"
	"seehuhn.de/go/roto/paint"
)

// strokeFrame holds the samples and parameters of a stroke at one time,
// copied while the stroke is read-locked.
type strokeFrame struct {
	op     blend.Operator
	brush  paint.Brush
	subs   []paint.SubStroke // in device coordinates
	effect paint.Effect
	cache  *paint.DotCache

	source  roto.SourceType
	srcTime float64
}

func (r *Renderer) snapshotStroke(s *roto.Stroke, t float64) *strokeFrame {
	s.RLock()
	defer s.RUnlock()

	subs := s.SubStrokes()
	if len(subs) == 0 {
		return nil
	}

	m := r.device(s.Transform.At(t))
	f := &strokeFrame{
		op:      s.Operator,
		brush:   s.BrushAt(t),
		cache:   s.DotCache(),
		source:  s.Clone.Source,
		srcTime: s.Clone.SourceTime(t),
	}
	f.brush.Size *= r.scale()
	for _, ss := range subs {
		samples := ss.Samples()
		for i := range samples {
			samples[i].Pos = xform.Apply(m, samples[i].Pos)
		}
		f.subs = append(f.subs, samples)
	}

	tool := s.Tool()
	f.effect = paint.Effect{
		Tool:         tool,
		Color:        s.ColorAt(t),
		Strength:     s.Brush.Effect.ValueAt(t),
		Size:         f.brush.Size,
		BlackOutside: s.Clone.BlackOutside,
	}
	if tool == paint.Clone {
		// The clone transform is given at full resolution.
		k := r.scale()
		cm := matrix.Scale(1/k, 1/k).Mul(s.Clone.Transform.At(t))
		f.effect.CloneMatrix = cm.Scale(k, k)
		f.effect.Filter = s.Clone.Filter.Interpolator()
	}
	return f
}

// paintStroke renders the layer of one stroke sample. The destination is
// used as the source image for strokes painting from the foreground.
func (r *Renderer) paintStroke(f *strokeFrame, dst *imgbuf.Image) *layer {
	dots := f.brush.Dots(f.subs)
	if len(dots) == 0 {
		return nil
	}

	l := &layer{op: f.op, mask: imgbuf.NewMask(dst.Rect)}
	paint.Rasterize(l.mask, dots, &f.brush, f.cache)

	e := f.effect
	if e.Tool.NeedsSource() {
		e.Source = r.source(f, dst)
	}
	l.img = e.Layer(l.mask, dots)
	return l
}

func (r *Renderer) source(f *strokeFrame, dst *imgbuf.Image) image.Image {
	if f.source == roto.SourceForeground {
		return dst.Clone()
	}
	if r.Background == nil {
		return nil
	}
	return r.Background(f.srcTime)
}

// strokeLayer renders s averaged over the given sample times.
func (r *Renderer) strokeLayer(s *roto.Stroke, times []float64, dst *imgbuf.Image) *layer {
	return average(times, dst.Rect, func(t float64) *layer {
		f := r.snapshotStroke(s, t)
		if f == nil {
			return nil
		}
		return r.paintStroke(f, dst)
	})
}

// RenderStroke renders s at time t and merges it into dst, using the
// motion-blur settings of the stroke. Nothing is drawn if the stroke is
// not activated at time t.
func (r *Renderer) RenderStroke(dst *imgbuf.Image, s *roto.Stroke, t float64) {
	if !s.IsActivated(t) {
		return
	}
	r.strokeLayer(s, sampleTimes(s, t), dst).composite(dst)
}
