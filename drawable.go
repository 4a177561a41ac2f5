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
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/roto/anim"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/internal/xform"
	"seehuhn.de/go/roto/paint"
)

// Transform holds the animated affine transform of a drawable item, or
// the clone transform of a stroke.
type Transform struct {
	TranslateX, TranslateY *anim.Curve
	Rotate                 *anim.Curve // degrees
	ScaleX, ScaleY         *anim.Curve
	UniformScale           bool // if set, ScaleX is used for both axes
	SkewX, SkewY           *anim.Curve
	SkewOrder              SkewOrder
	CenterX, CenterY       *anim.Curve

	// Extra is applied to points before the parametric transform.
	Extra matrix.Matrix
}

func newTransform() Transform {
	return Transform{
		TranslateX:   anim.NewCurve(0),
		TranslateY:   anim.NewCurve(0),
		Rotate:       anim.NewCurve(0),
		ScaleX:       anim.NewCurve(1),
		ScaleY:       anim.NewCurve(1),
		UniformScale: true,
		SkewX:        anim.NewCurve(0),
		SkewY:        anim.NewCurve(0),
		CenterX:      anim.NewCurve(0),
		CenterY:      anim.NewCurve(0),
		Extra:        matrix.Identity,
	}
}

// At returns the transformation matrix at time t. Points are first mapped
// by Extra, then moved so that the center is at the origin, scaled,
// skewed, rotated, and finally moved back and translated.
func (tr *Transform) At(t float64) matrix.Matrix {
	cx, cy := tr.CenterX.ValueAt(t), tr.CenterY.ValueAt(t)
	sx := tr.ScaleX.ValueAt(t)
	sy := tr.ScaleY.ValueAt(t)
	if tr.UniformScale {
		sy = sx
	}

	skew := xform.Skew(tr.SkewX.ValueAt(t), tr.SkewY.ValueAt(t), tr.SkewOrder == SkewXY)
	return tr.Extra.
		Translate(-cx, -cy).
		Scale(sx, sy).
		Mul(skew).
		RotateDeg(tr.Rotate.ValueAt(t)).
		Translate(tr.TranslateX.ValueAt(t)+cx, tr.TranslateY.ValueAt(t)+cy)
}

func (tr *Transform) clone() Transform {
	c := *tr
	for _, p := range []**anim.Curve{
		&c.TranslateX, &c.TranslateY, &c.Rotate, &c.ScaleX, &c.ScaleY,
		&c.SkewX, &c.SkewY, &c.CenterX, &c.CenterY,
	} {
		*p = (*p).Clone()
	}
	return c
}

// BrushParams holds the brush settings of a stroke. Shapes with an open
// bezier use them as well, for rendering the curve.
type BrushParams struct {
	Size     *anim.Curve // in pixels, [1, 1000]
	Spacing  *anim.Curve // fraction of the size, [0, 1]
	Hardness *anim.Curve // [0, 1]
	Effect   *anim.Curve // effect strength in percent, [0, 100]

	VisibleStart, VisibleEnd *anim.Curve

	PressureOpacity  bool
	PressureSize     bool
	PressureHardness bool
	BuildUp          bool
}

func newBrushParams() BrushParams {
	return BrushParams{
		Size:            anim.NewCurve(25),
		Spacing:         anim.NewCurve(0.1),
		Hardness:        anim.NewCurve(0.2),
		Effect:          anim.NewCurve(15),
		VisibleStart:    anim.NewCurve(0),
		VisibleEnd:      anim.NewCurve(1),
		PressureOpacity: true,
		BuildUp:         true,
	}
}

func (bp *BrushParams) clone() BrushParams {
	c := *bp
	for _, p := range []**anim.Curve{
		&c.Size, &c.Spacing, &c.Hardness, &c.Effect, &c.VisibleStart, &c.VisibleEnd,
	} {
		*p = (*p).Clone()
	}
	return c
}

// CloneParams describes where the clone and reveal tools take their
// pixels from.
type CloneParams struct {
	Transform    Transform
	Filter       Filter
	BlackOutside bool
	TimeOffset   *anim.Curve
	OffsetMode   TimeOffsetMode
	Source       SourceType
}

func newCloneParams() CloneParams {
	return CloneParams{
		Transform:    newTransform(),
		BlackOutside: true,
		TimeOffset:   anim.NewCurve(0),
		Source:       SourceBackground,
	}
}

// SourceTime returns the frame from which the source image is taken at
// time t.
func (cp *CloneParams) SourceTime(t float64) float64 {
	return cp.OffsetMode.SourceTime(t, cp.TimeOffset.ValueAt(t))
}

// Drawable holds the parameters shared by shapes and strokes.
//
// The fields must only be modified inside [Context.Edit].
type Drawable struct {
	Opacity        *anim.Curve // [0, 1]
	FeatherDist    *anim.Curve
	FeatherFalloff *anim.Curve // [MinFalloff, MaxFalloff]
	Inverted       *anim.Curve // > 0.5 means inverted
	Color          [3]*anim.Curve
	Operator       blend.Operator

	LifeTime      LifeTime
	LifeTimeFrame float64
	Activated     *anim.Curve // > 0.5 means active, used for LifeTimeCustom

	Transform  Transform
	MotionBlur MotionBlur
	Brush      BrushParams
	Clone      CloneParams

	// OverlayColor is the RGBA color used to draw the outline of the item
	// in previews. It does not affect the rendered mask.
	OverlayColor [4]float64
}

func newDrawable() Drawable {
	return Drawable{
		Opacity:        anim.NewCurve(1),
		FeatherDist:    anim.NewCurve(1.5),
		FeatherFalloff: anim.NewCurve(1),
		Inverted:       anim.NewCurve(0),
		Color:          [3]*anim.Curve{anim.NewCurve(1), anim.NewCurve(1), anim.NewCurve(1)},
		Operator:       blend.Over,
		LifeTime:       LifeTimeAll,
		Activated:      anim.NewCurve(1),
		Transform:      newTransform(),
		MotionBlur:     DefaultMotionBlur(),
		Brush:          newBrushParams(),
		Clone:          newCloneParams(),
		OverlayColor:   [4]float64{0.85, 0.67, 0.33, 1},
	}
}

func (d *Drawable) clone() Drawable {
	c := *d
	c.Opacity = d.Opacity.Clone()
	c.FeatherDist = d.FeatherDist.Clone()
	c.FeatherFalloff = d.FeatherFalloff.Clone()
	c.Inverted = d.Inverted.Clone()
	c.Activated = d.Activated.Clone()
	for i := range c.Color {
		c.Color[i] = d.Color[i].Clone()
	}
	c.Transform = d.Transform.clone()
	c.Brush = d.Brush.clone()
	c.Clone.Transform = d.Clone.Transform.clone()
	c.Clone.TimeOffset = d.Clone.TimeOffset.Clone()
	return c
}

// OpacityAt returns the opacity at time t, clamped to [0, 1].
func (d *Drawable) OpacityAt(t float64) float64 {
	return clamp01(d.Opacity.ValueAt(t))
}

// FalloffAt returns the feather falloff at time t, clamped to the valid
// range.
func (d *Drawable) FalloffAt(t float64) float64 {
	return clampFalloff(d.FeatherFalloff.ValueAt(t))
}

// InvertedAt reports whether the mask is inverted at time t.
func (d *Drawable) InvertedAt(t float64) bool {
	return d.Inverted.ValueAt(t) > 0.5
}

// ColorAt returns the RGB color at time t.
func (d *Drawable) ColorAt(t float64) [3]float64 {
	return [3]float64{
		d.Color[0].ValueAt(t),
		d.Color[1].ValueAt(t),
		d.Color[2].ValueAt(t),
	}
}

// activeAt applies the life-time rule at time t.
func (d *Drawable) activeAt(t float64) bool {
	switch d.LifeTime {
	case LifeTimeSingle:
		return t > d.LifeTimeFrame-anim.TimeEpsilon && t < d.LifeTimeFrame+anim.TimeEpsilon
	case LifeTimeFromStart:
		return t <= d.LifeTimeFrame+anim.TimeEpsilon
	case LifeTimeToEnd:
		return t >= d.LifeTimeFrame-anim.TimeEpsilon
	case LifeTimeCustom:
		return d.Activated.ValueAt(t) > 0.5
	default:
		return true
	}
}

// BrushAt returns the brush settings at time t, in the coordinate system
// of the item.
func (d *Drawable) BrushAt(t float64) paint.Brush {
	bp := &d.Brush
	return paint.Brush{
		Size:             min(max(bp.Size.ValueAt(t), 1), 1000),
		Spacing:          clamp01(bp.Spacing.ValueAt(t)),
		Hardness:         clamp01(bp.Hardness.ValueAt(t)),
		Opacity:          d.OpacityAt(t),
		PressureOpacity:  bp.PressureOpacity,
		PressureSize:     bp.PressureSize,
		PressureHardness: bp.PressureHardness,
		BuildUp:          bp.BuildUp,
		VisibleStart:     clamp01(bp.VisibleStart.ValueAt(t)),
		VisibleEnd:       clamp01(bp.VisibleEnd.ValueAt(t)),
	}
}

// DrawableItem is implemented by [*Shape] and [*Stroke].
type DrawableItem interface {
	Node
	drawable() *Drawable
}
