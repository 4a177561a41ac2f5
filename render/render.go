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

// Package render turns the shapes and strokes of a roto context into
// raster masks.
//
// Every drawable item is rendered into a layer: a coverage mask together
// with the premultiplied color painted through it. For motion blur, the
// layers of several time samples are averaged. The layer is then merged
// into the destination with the compositing operator of the item.
//
// A [Renderer] holds the buffers needed for this. Create one instance per
// worker and reuse it. Different renderers may render the same context
// concurrently.
package render

import (
	"errors"
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/imgbuf"
	"seehuhn.de/go/roto/paint"
	"seehuhn.de/go/roto/raster"
)

// ErrYield is returned by [Renderer.RenderContext] when a neat render is
// waiting for the context. The caller should discard the request and try
// again later.
var ErrYield = errors.New("render: yielding to a neat render")

// defaultFlatness is the curve approximation tolerance, in device pixels.
const defaultFlatness = 0.25

// Renderer renders roto items into image buffers.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	// MipmapLevel selects the output resolution. Geometry is scaled by
	// 2^-MipmapLevel before rasterization.
	MipmapLevel int

	// Flatness controls curve approximation accuracy in device pixels.
	// Must be positive.
	Flatness float64

	// Background returns the source image for the given frame, in device
	// coordinates. It is used by the reveal, clone, blur, sharpen and smear
	// tools when the stroke takes its pixels from the background. It may
	// be nil, in which case these strokes paint nothing.
	Background func(t float64) image.Image

	rast *raster.Rasterizer
	dots paint.DotCache // patterns for open bezier shapes
}

// NewRenderer returns a Renderer at full resolution with the default
// flatness.
func NewRenderer() *Renderer {
	return &Renderer{
		Flatness: defaultFlatness,
		rast:     raster.NewRasterizer(rect.Rect{}),
	}
}

// scale returns the factor from full resolution to device pixels.
func (r *Renderer) scale() float64 {
	return math.Ldexp(1, -r.MipmapLevel)
}

// device returns the matrix which maps item coordinates to device pixels,
// for an item transformation m.
func (r *Renderer) device(m matrix.Matrix) matrix.Matrix {
	s := r.scale()
	return m.Scale(s, s)
}

// begin prepares the rasterizer for output into roi.
func (r *Renderer) begin(roi image.Rectangle) {
	if r.rast == nil {
		r.rast = raster.NewRasterizer(rect.Rect{})
	}
	r.rast.Reset(rect.Rect{
		LLx: float64(roi.Min.X),
		LLy: float64(roi.Min.Y),
		URx: float64(roi.Max.X),
		URy: float64(roi.Max.Y),
	})
	if r.Flatness > 0 {
		r.rast.Flatness = r.Flatness
	}
}

func (r *Renderer) flatness() float64 {
	if r.Flatness > 0 {
		return r.Flatness
	}
	return defaultFlatness
}

// layer is the rendered contribution of one drawable item.
type layer struct {
	op   blend.Operator
	img  *imgbuf.Image // color times coverage, premultiplied
	mask *imgbuf.Mask
}

func newLayer(op blend.Operator, roi image.Rectangle) *layer {
	return &layer{
		op:   op,
		img:  imgbuf.New(roi, imgbuf.RGBA),
		mask: imgbuf.NewMask(roi),
	}
}

// accumulate adds f times l to acc.
func (acc *layer) accumulate(l *layer, f float32) {
	acc.img.AddScaled(l.img, f)
	acc.mask.AddScaled(l.mask, f)
}

// average renders one layer per sample time and returns their mean.
// Samples for which sample returns nil contribute nothing. If no sample
// produces a layer, the result is nil.
func average(times []float64, roi image.Rectangle, sample func(t float64) *layer) *layer {
	if len(times) == 1 {
		return sample(times[0])
	}

	var acc *layer
	f := 1 / float32(len(times))
	for _, t := range times {
		l := sample(t)
		if l == nil {
			continue
		}
		if acc == nil {
			acc = newLayer(l.op, roi)
		}
		acc.accumulate(l, f)
	}
	return acc
}

// composite merges l into dst.
func (l *layer) composite(dst *imgbuf.Image) {
	if l == nil {
		return
	}
	dst.CompositeLayer(l.op, l.img, l.mask)
}
