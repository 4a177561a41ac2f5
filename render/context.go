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
	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/imgbuf"
	"seehuhn.de/go/roto/internal/logging"
)

// RenderContext renders all activated items of c at time t into dst, in
// drawing order.
//
// If a neat render has been requested for c, RenderContext returns
// [ErrYield] without touching dst.
func (r *Renderer) RenderContext(dst *imgbuf.Image, c *roto.Context, t float64) error {
	if !c.BeginRender() {
		logging.Logger().Debug("render: yield", "time", t)
		return ErrYield
	}
	defer c.EndRender()

	r.renderContext(dst, c, t)
	return nil
}

// RenderContextNeat renders like [Renderer.RenderContext], but first waits
// for all ordinary renders of c to finish. While it runs, other renders
// of c yield.
func (r *Renderer) RenderContextNeat(dst *imgbuf.Image, c *roto.Context, t float64) {
	c.BeginNeatRender()
	defer c.EndNeatRender()

	r.renderContext(dst, c, t)
}

func (r *Renderer) renderContext(dst *imgbuf.Image, c *roto.Context, t float64) {
	var items []roto.DrawableItem
	for _, it := range c.Drawables() {
		if c.IsActivated(it, t) {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return
	}

	mode, mb := c.MotionBlur()
	if mode == roto.BlurPerShape {
		for _, it := range items {
			r.item(dst, it, sampleTimes(it, t))
		}
		return
	}

	// In global mode, the whole stack is rendered at every sample time
	// and the results are averaged, so that overlapping items blur
	// together.
	times := mb.SampleTimes(t)
	logging.Logger().Debug("render: global motion blur",
		"time", t, "samples", len(times), "items", len(items))
	if len(times) == 1 {
		for _, it := range items {
			r.item(dst, it, times)
		}
		return
	}

	base := dst.Clone()
	acc := imgbuf.New(dst.Rect, dst.Components)
	f := 1 / float32(len(times))
	for _, ts := range times {
		tmp := base.Clone()
		for _, it := range items {
			r.item(tmp, it, []float64{ts})
		}
		acc.AddScaled(tmp, f)
	}
	dst.CopyFrom(acc)
}

// item renders one drawable item, averaged over the given times, into dst.
func (r *Renderer) item(dst *imgbuf.Image, it roto.DrawableItem, times []float64) {
	switch it := it.(type) {
	case *roto.Shape:
		r.shapeLayer(it, times, dst.Rect).composite(dst)
	case *roto.Stroke:
		r.strokeLayer(it, times, dst).composite(dst)
	}
}

// sampleTimes returns the motion-blur sample times of a single item.
func sampleTimes(it roto.DrawableItem, t float64) []float64 {
	var mb roto.MotionBlur
	switch it := it.(type) {
	case *roto.Shape:
		it.RLock()
		mb = it.MotionBlur
		it.RUnlock()
	case *roto.Stroke:
		it.RLock()
		mb = it.MotionBlur
		it.RUnlock()
	default:
		return []float64{t}
	}
	return mb.SampleTimes(t)
}
