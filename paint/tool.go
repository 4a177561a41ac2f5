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

package paint

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/imgbuf"
	"seehuhn.de/go/roto/internal/logging"
)

// Tool selects what a stroke paints.
type Tool int

// The order of the tools is fixed and used in saved records.
const (
	Draw Tool = iota
	Blur
	Clone
	Sharpen
	Smear
	Reveal
	Dodge
	Burn

	numTools
)

var toolNames = [numTools]string{
	"draw", "blur", "clone", "sharpen", "smear", "reveal", "dodge", "burn",
}

// ErrUnknownTool is returned when parsing an unknown tool name.
var ErrUnknownTool = errors.New("unknown stroke tool")

func (t Tool) String() string {
	if t < 0 || t >= numTools {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Valid reports whether t is one of the defined tools.
func (t Tool) Valid() bool {
	return t >= 0 && t < numTools
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, error) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownTool)
}

// MarshalText implements [encoding.TextMarshaler].
func (t Tool) MarshalText() ([]byte, error) {
	if t < 0 || t >= numTools {
		return nil, fmt.Errorf("Tool(%d): %w", int(t), ErrUnknownTool)
	}
	return []byte(toolNames[t]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Tool) UnmarshalText(text []byte) error {
	v, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// NeedsSource reports whether the tool paints with pixels taken from the
// source image.
func (t Tool) NeedsSource() bool {
	switch t {
	case Blur, Clone, Sharpen, Smear, Reveal:
		return true
	}
	return false
}

// Operator returns the compositing operator used for strokes of this tool.
// Dodge and burn always use color-dodge and color-burn; all other tools
// use def.
func (t Tool) Operator(def blend.Operator) blend.Operator {
	switch t {
	case Dodge:
		return blend.ColorDodge
	case Burn:
		return blend.ColorBurn
	}
	return def
}

// Effect describes how the coverage of a stroke is turned into color.
type Effect struct {
	Tool     Tool
	Color    [3]float64
	Strength float64 // effect strength for blur and sharpen, in percent
	Size     float64 // brush size in device pixels

	// Source is the image painted by the source-based tools.
	// If it is nil, these tools paint nothing.
	Source image.Image

	// CloneMatrix maps source coordinates to device coordinates for the
	// clone tool.
	CloneMatrix matrix.Matrix

	// Filter resamples the source for the clone tool. If it is nil,
	// bilinear interpolation is used.
	Filter draw.Interpolator

	// BlackOutside makes the clone tool paint transparent black outside
	// the source image. Otherwise the source edges are extended.
	BlackOutside bool
}

// Layer returns the premultiplied color layer of a stroke: the effect
// color at every pixel, multiplied by the stroke coverage. The dots are
// used by the smear tool.
func (e *Effect) Layer(mask *imgbuf.Mask, dots []Dot) *imgbuf.Image {
	roi := mask.Rect
	res := imgbuf.New(roi, imgbuf.RGBA)

	if e.Tool.NeedsSource() && e.Source == nil {
		logging.Logger().Debug("paint: no source image", "tool", e.Tool)
		return res
	}

	var content *imgbuf.Image
	switch e.Tool {
	case Draw, Dodge, Burn:
		c := blend.Pixel{float32(e.Color[0]), float32(e.Color[1]), float32(e.Color[2]), 1}
		res.Paint(c, mask)
		return res
	case Reveal:
		content = imgbuf.FromImage(e.Source, roi)
	case Clone:
		content = e.cloneSource(roi)
	case Blur:
		content = e.blurSource(roi)
	case Sharpen:
		content = e.sharpenSource(roi)
	case Smear:
		content = smear(imgbuf.FromImage(e.Source, roi), dots)
	default:
		return res
	}

	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			cov := mask.At(x, y)
			if cov == 0 {
				continue
			}
			p := content.Pixel(x, y)
			for k := range p {
				p[k] *= cov
			}
			res.SetPixel(x, y, p)
		}
	}
	return res
}

// cloneSource resamples the source image into roi using the clone matrix.
func (e *Effect) cloneSource(roi image.Rectangle) *imgbuf.Image {
	src := e.Source
	m := e.CloneMatrix
	b := src.Bounds()
	if !e.BlackOutside {
		// The padded copy has its origin at (0, 0), with the source
		// pixel b.Min at (pad, pad).
		pad := max(roi.Dx(), roi.Dy())
		src = clone.Pad(src, pad, pad, clone.EdgeExtend)
		shift := float64(pad)
		m = matrix.Translate(float64(b.Min.X)-shift, float64(b.Min.Y)-shift).Mul(m)
	}

	dst := imgbuf.New(roi, imgbuf.RGBA)
	filter := e.Filter
	if filter == nil {
		filter = draw.BiLinear
	}
	s2d := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	filter.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)
	return dst
}

// effectPad returns the margin needed around roi so that a filter of the
// given radius sees real pixels at the roi border.
func effectPad(radius float64) int {
	return int(math.Ceil(3 * radius))
}

func (e *Effect) blurRadius() float64 {
	return max(e.Strength, 0) / 100 * e.Size
}

func (e *Effect) blurSource(roi image.Rectangle) *imgbuf.Image {
	radius := e.blurRadius()
	if radius <= 0 {
		return imgbuf.FromImage(e.Source, roi)
	}
	area := roi.Inset(-effectPad(radius))
	blurred := blur.Gaussian(crop(e.Source, area), radius)
	return uncrop(blurred, area.Min, roi)
}

func (e *Effect) sharpenSource(roi image.Rectangle) *imgbuf.Image {
	area := roi.Inset(-1)
	base := imgbuf.FromImage(e.Source, roi)
	sharp := uncrop(effect.Sharpen(crop(e.Source, area)), area.Min, roi)

	f := float32(min(max(e.Strength, 0)/100, 1))
	for i, v := range sharp.Pix {
		base.Pix[i] += f * (v - base.Pix[i])
	}
	return base
}

// crop copies the part of src inside r into a new image with origin (0, 0).
func crop(src image.Image, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Rect, src, r.Min, draw.Src)
	return dst
}

// uncrop is the inverse of crop: the top-left pixel of img is placed at
// origin, and the part inside roi is returned.
func uncrop(img image.Image, origin image.Point, roi image.Rectangle) *imgbuf.Image {
	res := imgbuf.New(roi, imgbuf.RGBA)
	shift := img.Bounds().Min.Sub(origin)
	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			res.Set(x, y, img.At(x+shift.X, y+shift.Y))
		}
	}
	return res
}

// smear drags the image content along the stroke: every dot pulls the
// pixels under the previous dot towards its own position.
func smear(img *imgbuf.Image, dots []Dot) *imgbuf.Image {
	for i := 1; i < len(dots); i++ {
		prev, cur := dots[i-1], dots[i]
		d := cur.Center.Sub(prev.Center)
		pat := newPattern(cur.Radius, cur.Hardness, false)

		r := cur.Radius + 1
		box := image.Rect(
			int(math.Floor(cur.Center.X-r)), int(math.Floor(cur.Center.Y-r)),
			int(math.Ceil(cur.Center.X+r)), int(math.Ceil(cur.Center.Y+r)),
		).Intersect(img.Rect)
		if box.Empty() {
			continue
		}

		// pixels are read from up to |d| away from the box
		pad := int(math.Ceil(math.Hypot(d.X, d.Y))) + 1
		snapshot := imgbuf.New(box.Inset(-pad).Intersect(img.Rect), imgbuf.RGBA)
		snapshot.CopyFrom(img)
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				a := pat.At(math.Hypot(float64(x)+0.5-cur.Center.X, float64(y)+0.5-cur.Center.Y))
				a *= float32(cur.Opacity)
				if a <= 0 {
					continue
				}
				from := snapshot.Pixel(
					int(math.Round(float64(x)-d.X)),
					int(math.Round(float64(y)-d.Y)))
				p := snapshot.Pixel(x, y)
				for k := range p {
					p[k] += a * (from[k] - p[k])
				}
				img.SetPixel(x, y, p)
			}
		}
	}
	return img
}
