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

package roto

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/anim"
	"seehuhn.de/go/roto/paint"
)

// minSampleStep is the smallest distance between the timestamps of two
// consecutive pen samples.
const minSampleStep = 1e-6

// SubStroke is the recording of one pen-down/pen-up cycle. The three
// curves are keyed at identical timestamps.
type SubStroke struct {
	X, Y, Pressure *anim.Curve
}

func newSubStroke() *SubStroke {
	return &SubStroke{
		X:        anim.NewCurve(0),
		Y:        anim.NewCurve(0),
		Pressure: anim.NewCurve(1),
	}
}

// Len returns the number of samples.
func (ss *SubStroke) Len() int {
	return ss.X.NumKeyframes()
}

// Samples returns the recorded samples in time order.
func (ss *SubStroke) Samples() paint.SubStroke {
	xs, ys, ps := ss.X.Keyframes(), ss.Y.Keyframes(), ss.Pressure.Keyframes()
	res := make(paint.SubStroke, len(xs))
	for i := range xs {
		res[i] = paint.Sample{
			Pos:      vec.Vec2{X: xs[i].Value, Y: ys[i].Value},
			Pressure: ps[i].Value,
		}
	}
	return res
}

func (ss *SubStroke) clone() *SubStroke {
	return &SubStroke{
		X:        ss.X.Clone(),
		Y:        ss.Y.Clone(),
		Pressure: ss.Pressure.Clone(),
	}
}

// Stroke is a freehand paint stroke.
type Stroke struct {
	Item
	Drawable

	tool       paint.Tool
	subStrokes []*SubStroke
	drawing    bool // the last sub-stroke is still being recorded

	bbox    rect.Rect
	hasBBox bool

	cache paint.DotCache
}

func (s *Stroke) drawable() *Drawable { return &s.Drawable }

// Tool returns the paint tool of the stroke.
func (s *Stroke) Tool() paint.Tool {
	return s.tool
}

// DotCache returns the dot pattern cache of the stroke.
func (s *Stroke) DotCache() *paint.DotCache {
	return &s.cache
}

// IsActivated reports whether the stroke is rendered at time t.
func (s *Stroke) IsActivated(t float64) bool {
	return s.ctx.IsActivated(s, t)
}

// AppendPoint records a pen sample. If no sub-stroke is being recorded, a
// new one is started. Timestamps within a sub-stroke are forced to
// increase.
func (s *Stroke) AppendPoint(x, y, pressure, timestamp float64) error {
	return s.ctx.Edit(s, func() {
		if !s.drawing || len(s.subStrokes) == 0 {
			s.subStrokes = append(s.subStrokes, newSubStroke())
			s.drawing = true
		}
		ss := s.subStrokes[len(s.subStrokes)-1]
		if times := ss.X.KeyframeTimes(); len(times) > 0 {
			timestamp = max(timestamp, times[len(times)-1]+minSampleStep)
		}
		ss.X.SetKeyframe(timestamp, x)
		ss.Y.SetKeyframe(timestamp, y)
		ss.Pressure.SetKeyframe(timestamp, pressure)

		s.growBBox(vec.Vec2{X: x, Y: y})
	})
}

// EndSubStroke finishes the sub-stroke being recorded. The next call to
// AppendPoint starts a new one.
func (s *Stroke) EndSubStroke() error {
	return s.ctx.Edit(s, func() {
		s.drawing = false
	})
}

func (s *Stroke) growBBox(p vec.Vec2) {
	if !s.hasBBox {
		s.bbox = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
		s.hasBBox = true
		return
	}
	s.bbox.Add(p.X, p.Y)
}

// SubStrokes returns the sub-strokes of the stroke. The caller must hold
// the read lock of the stroke while using them.
func (s *Stroke) SubStrokes() []*SubStroke {
	return append([]*SubStroke(nil), s.subStrokes...)
}

// Samples returns a copy of the samples of all sub-strokes.
func (s *Stroke) Samples() []paint.SubStroke {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]paint.SubStroke, len(s.subStrokes))
	for i, ss := range s.subStrokes {
		res[i] = ss.Samples()
	}
	return res
}

// BoundingBox returns the bounding box of all recorded pen positions,
// before transformation and without the brush radius.
func (s *Stroke) BoundingBox() (rect.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bbox, s.hasBBox
}
