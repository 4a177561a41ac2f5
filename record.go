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
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/roto/anim"
	"seehuhn.de/go/roto/bezier"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/paint"
)

// ErrSubStrokeMismatch is returned when the x, y and pressure curves of a
// saved sub-stroke are not keyed at the same times.
var ErrSubStrokeMismatch = errors.New("sub-stroke curves have different keyframes")

// ItemRecord is the serializable state common to all items.
type ItemRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label,omitempty"`
	Activated bool      `json:"activated"`
	Locked    bool      `json:"locked,omitempty"`
}

// TransformRecord is the serializable state of a [Transform].
type TransformRecord struct {
	TranslateX   anim.Record   `json:"translateX"`
	TranslateY   anim.Record   `json:"translateY"`
	Rotate       anim.Record   `json:"rotate"`
	ScaleX       anim.Record   `json:"scaleX"`
	ScaleY       anim.Record   `json:"scaleY"`
	UniformScale bool          `json:"uniform"`
	SkewX        anim.Record   `json:"skewX"`
	SkewY        anim.Record   `json:"skewY"`
	SkewOrder    SkewOrder     `json:"skewOrder"`
	CenterX      anim.Record   `json:"centerX"`
	CenterY      anim.Record   `json:"centerY"`
	Extra        matrix.Matrix `json:"extraMatrix"`
}

// BrushRecord is the serializable state of [BrushParams].
type BrushRecord struct {
	Size             anim.Record `json:"size"`
	Spacing          anim.Record `json:"spacing"`
	Hardness         anim.Record `json:"hardness"`
	Effect           anim.Record `json:"effect"`
	VisibleStart     anim.Record `json:"visibleStart"`
	VisibleEnd       anim.Record `json:"visibleEnd"`
	PressureOpacity  bool        `json:"pressureOpacity"`
	PressureSize     bool        `json:"pressureSize"`
	PressureHardness bool        `json:"pressureHardness"`
	BuildUp          bool        `json:"buildUp"`
}

// CloneRecord is the serializable state of [CloneParams].
type CloneRecord struct {
	Transform    TransformRecord `json:"transform"`
	Filter       Filter          `json:"filter"`
	BlackOutside bool            `json:"blackOutside"`
	TimeOffset   anim.Record     `json:"timeOffset"`
	OffsetMode   TimeOffsetMode  `json:"timeOffsetMode"`
	Source       SourceType      `json:"source"`
}

// DrawableRecord is the serializable state of a [Drawable].
type DrawableRecord struct {
	Opacity        anim.Record     `json:"opacity"`
	FeatherDist    anim.Record     `json:"feather"`
	FeatherFalloff anim.Record     `json:"featherFallOff"`
	Inverted       anim.Record     `json:"inverted"`
	Color          [3]anim.Record  `json:"color"`
	Operator       blend.Operator  `json:"operator"`
	LifeTime       LifeTime        `json:"lifeTime"`
	LifeTimeFrame  float64         `json:"lifeTimeFrame"`
	ActiveCurve    anim.Record     `json:"activeCurve"`
	Transform      TransformRecord `json:"transform"`
	MotionBlur     MotionBlur      `json:"motionBlur"`
	Brush          BrushRecord     `json:"brush"`
	Clone          CloneRecord     `json:"clone"`
	OverlayColor   [4]float64      `json:"overlayColor"`
}

// ShapeRecord is the serializable state of a [Shape].
type ShapeRecord struct {
	ItemRecord
	DrawableRecord
	Curve bezier.Record `json:"curve"`
}

// SubStrokeRecord is the serializable state of a [SubStroke].
type SubStrokeRecord struct {
	X        anim.Record `json:"x"`
	Y        anim.Record `json:"y"`
	Pressure anim.Record `json:"pressure"`
}

// StrokeRecord is the serializable state of a [Stroke].
type StrokeRecord struct {
	ItemRecord
	DrawableRecord
	Tool       paint.Tool        `json:"tool"`
	SubStrokes []SubStrokeRecord `json:"subStrokes"`
}

// ChildRecord holds exactly one of its fields.
type ChildRecord struct {
	Layer  *LayerRecord  `json:"layer,omitempty"`
	Shape  *ShapeRecord  `json:"shape,omitempty"`
	Stroke *StrokeRecord `json:"stroke,omitempty"`
}

// LayerRecord is the serializable state of a [Layer] and its children.
type LayerRecord struct {
	ItemRecord
	Children []ChildRecord `json:"children"`
}

// ContextRecord is the serializable state of a [Context].
type ContextRecord struct {
	Root       LayerRecord `json:"root"`
	BlurMode   BlurMode    `json:"motionBlurMode"`
	MotionBlur MotionBlur  `json:"globalMotionBlur"`
}

func (it *Item) record() ItemRecord {
	return ItemRecord{
		ID:        it.id,
		Name:      it.name,
		Label:     it.label,
		Activated: it.activated,
		Locked:    it.locked,
	}
}

func (tr *Transform) record() TransformRecord {
	return TransformRecord{
		TranslateX:   tr.TranslateX.Record(),
		TranslateY:   tr.TranslateY.Record(),
		Rotate:       tr.Rotate.Record(),
		ScaleX:       tr.ScaleX.Record(),
		ScaleY:       tr.ScaleY.Record(),
		UniformScale: tr.UniformScale,
		SkewX:        tr.SkewX.Record(),
		SkewY:        tr.SkewY.Record(),
		SkewOrder:    tr.SkewOrder,
		CenterX:      tr.CenterX.Record(),
		CenterY:      tr.CenterY.Record(),
		Extra:        tr.Extra,
	}
}

func transformFromRecord(r TransformRecord) Transform {
	return Transform{
		TranslateX:   anim.FromRecord(r.TranslateX),
		TranslateY:   anim.FromRecord(r.TranslateY),
		Rotate:       anim.FromRecord(r.Rotate),
		ScaleX:       anim.FromRecord(r.ScaleX),
		ScaleY:       anim.FromRecord(r.ScaleY),
		UniformScale: r.UniformScale,
		SkewX:        anim.FromRecord(r.SkewX),
		SkewY:        anim.FromRecord(r.SkewY),
		SkewOrder:    r.SkewOrder,
		CenterX:      anim.FromRecord(r.CenterX),
		CenterY:      anim.FromRecord(r.CenterY),
		Extra:        r.Extra,
	}
}

func (d *Drawable) record() DrawableRecord {
	bp := &d.Brush
	return DrawableRecord{
		Opacity:        d.Opacity.Record(),
		FeatherDist:    d.FeatherDist.Record(),
		FeatherFalloff: d.FeatherFalloff.Record(),
		Inverted:       d.Inverted.Record(),
		Color:          [3]anim.Record{d.Color[0].Record(), d.Color[1].Record(), d.Color[2].Record()},
		Operator:       d.Operator,
		LifeTime:       d.LifeTime,
		LifeTimeFrame:  d.LifeTimeFrame,
		ActiveCurve:    d.Activated.Record(),
		Transform:      d.Transform.record(),
		MotionBlur:     d.MotionBlur,
		Brush: BrushRecord{
			Size:             bp.Size.Record(),
			Spacing:          bp.Spacing.Record(),
			Hardness:         bp.Hardness.Record(),
			Effect:           bp.Effect.Record(),
			VisibleStart:     bp.VisibleStart.Record(),
			VisibleEnd:       bp.VisibleEnd.Record(),
			PressureOpacity:  bp.PressureOpacity,
			PressureSize:     bp.PressureSize,
			PressureHardness: bp.PressureHardness,
			BuildUp:          bp.BuildUp,
		},
		Clone: CloneRecord{
			Transform:    d.Clone.Transform.record(),
			Filter:       d.Clone.Filter,
			BlackOutside: d.Clone.BlackOutside,
			TimeOffset:   d.Clone.TimeOffset.Record(),
			OffsetMode:   d.Clone.OffsetMode,
			Source:       d.Clone.Source,
		},
		OverlayColor: d.OverlayColor,
	}
}

func drawableFromRecord(r DrawableRecord) (Drawable, error) {
	if !r.Operator.Valid() {
		return Drawable{}, fmt.Errorf("operator %d: %w", int(r.Operator), blend.ErrUnknownOperator)
	}
	d := Drawable{
		Opacity:        anim.FromRecord(r.Opacity),
		FeatherDist:    anim.FromRecord(r.FeatherDist),
		FeatherFalloff: anim.FromRecord(r.FeatherFalloff),
		Inverted:       anim.FromRecord(r.Inverted),
		Operator:       r.Operator,
		LifeTime:       r.LifeTime,
		LifeTimeFrame:  r.LifeTimeFrame,
		Activated:      anim.FromRecord(r.ActiveCurve),
		Transform:      transformFromRecord(r.Transform),
		MotionBlur:     r.MotionBlur,
		Brush: BrushParams{
			Size:             anim.FromRecord(r.Brush.Size),
			Spacing:          anim.FromRecord(r.Brush.Spacing),
			Hardness:         anim.FromRecord(r.Brush.Hardness),
			Effect:           anim.FromRecord(r.Brush.Effect),
			VisibleStart:     anim.FromRecord(r.Brush.VisibleStart),
			VisibleEnd:       anim.FromRecord(r.Brush.VisibleEnd),
			PressureOpacity:  r.Brush.PressureOpacity,
			PressureSize:     r.Brush.PressureSize,
			PressureHardness: r.Brush.PressureHardness,
			BuildUp:          r.Brush.BuildUp,
		},
		Clone: CloneParams{
			Transform:    transformFromRecord(r.Clone.Transform),
			Filter:       r.Clone.Filter,
			BlackOutside: r.Clone.BlackOutside,
			TimeOffset:   anim.FromRecord(r.Clone.TimeOffset),
			OffsetMode:   r.Clone.OffsetMode,
			Source:       r.Clone.Source,
		},
		OverlayColor: r.OverlayColor,
	}
	for i := range d.Color {
		d.Color[i] = anim.FromRecord(r.Color[i])
	}
	return d, nil
}

// Save returns the serializable state of the shape.
func (s *Shape) Save() ShapeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ShapeRecord{
		ItemRecord:     s.Item.record(),
		DrawableRecord: s.Drawable.record(),
		Curve:          s.curve.Record(),
	}
}

// Load replaces the parameters and the outline of the shape by the saved
// state. The id and the script name of the shape are kept. On error, the
// shape is not modified. Locked shapes cannot be loaded into.
func (s *Shape) Load(r ShapeRecord) error {
	d, curve, err := shapeParts(r)
	if err != nil {
		return err
	}
	c := s.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockedLocked(&s.Item) {
		return fmt.Errorf("%s: %w", s.name, ErrLocked)
	}
	c.editLocked(&s.Item, func() {
		s.label = r.Label
		s.activated = r.Activated
		s.locked = r.Locked
		s.Drawable = d
		s.curve = curve
	})
	return nil
}

func shapeParts(r ShapeRecord) (Drawable, *bezier.Bezier, error) {
	d, err := drawableFromRecord(r.DrawableRecord)
	if err != nil {
		return Drawable{}, nil, fmt.Errorf("shape %q: %w", r.Name, err)
	}
	curve, err := bezier.FromRecord(r.Curve)
	if err != nil {
		return Drawable{}, nil, fmt.Errorf("shape %q: %w", r.Name, err)
	}
	return d, curve, nil
}

// Save returns the serializable state of the stroke.
func (s *Stroke) Save() StrokeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := make([]SubStrokeRecord, len(s.subStrokes))
	for i, ss := range s.subStrokes {
		subs[i] = SubStrokeRecord{
			X:        ss.X.Record(),
			Y:        ss.Y.Record(),
			Pressure: ss.Pressure.Record(),
		}
	}
	return StrokeRecord{
		ItemRecord:     s.Item.record(),
		DrawableRecord: s.Drawable.record(),
		Tool:           s.tool,
		SubStrokes:     subs,
	}
}

// Load replaces the parameters and the recorded samples of the stroke by
// the saved state. The id and the script name of the stroke are kept. On
// error, the stroke is not modified. Locked strokes cannot be loaded into.
func (s *Stroke) Load(r StrokeRecord) error {
	p, err := strokeParts(r)
	if err != nil {
		return err
	}
	c := s.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockedLocked(&s.Item) {
		return fmt.Errorf("%s: %w", s.name, ErrLocked)
	}
	c.editLocked(&s.Item, func() {
		s.label = r.Label
		s.activated = r.Activated
		s.locked = r.Locked
		s.setParts(p)
	})
	s.cache.Invalidate()
	return nil
}

type strokeState struct {
	drawable Drawable
	tool     paint.Tool
	subs     []*SubStroke
}

func strokeParts(r StrokeRecord) (*strokeState, error) {
	if !r.Tool.Valid() {
		return nil, fmt.Errorf("stroke %q: tool %d: %w", r.Name, int(r.Tool), paint.ErrUnknownTool)
	}
	d, err := drawableFromRecord(r.DrawableRecord)
	if err != nil {
		return nil, fmt.Errorf("stroke %q: %w", r.Name, err)
	}
	st := &strokeState{drawable: d, tool: r.Tool}
	for i, sr := range r.SubStrokes {
		tx, ty, tp := keyTimes(sr.X), keyTimes(sr.Y), keyTimes(sr.Pressure)
		if !slices.Equal(tx, ty) || !slices.Equal(tx, tp) {
			return nil, fmt.Errorf("stroke %q, sub-stroke %d: %w", r.Name, i, ErrSubStrokeMismatch)
		}
		st.subs = append(st.subs, &SubStroke{
			X:        anim.FromRecord(sr.X),
			Y:        anim.FromRecord(sr.Y),
			Pressure: anim.FromRecord(sr.Pressure),
		})
	}
	return st, nil
}

func keyTimes(r anim.Record) []float64 {
	res := make([]float64, len(r.Keys))
	for i, k := range r.Keys {
		res[i] = k.Time
	}
	slices.Sort(res)
	return res
}

func (s *Stroke) setParts(p *strokeState) {
	s.Drawable = p.drawable
	s.tool = p.tool
	s.subStrokes = p.subs
	s.drawing = false
	s.hasBBox = false
	for _, ss := range p.subs {
		for _, smp := range ss.Samples() {
			s.growBBox(smp.Pos)
		}
	}
}

// Save returns the serializable state of the layer and everything inside
// it.
func (l *Layer) Save() LayerRecord {
	c := l.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLayer(l)
}

func (c *Context) saveLayer(l *Layer) LayerRecord {
	l.mu.RLock()
	res := LayerRecord{ItemRecord: l.record()}
	children := slices.Clone(l.children)
	l.mu.RUnlock()

	for _, id := range children {
		switch n := c.items[id].(type) {
		case *Layer:
			lr := c.saveLayer(n)
			res.Children = append(res.Children, ChildRecord{Layer: &lr})
		case *Shape:
			sr := n.Save()
			res.Children = append(res.Children, ChildRecord{Shape: &sr})
		case *Stroke:
			sr := n.Save()
			res.Children = append(res.Children, ChildRecord{Stroke: &sr})
		}
	}
	return res
}

// Save returns the serializable state of the context.
func (c *Context) Save() ContextRecord {
	mode, mb := c.MotionBlur()
	return ContextRecord{
		Root:       c.root.Save(),
		BlurMode:   mode,
		MotionBlur: mb,
	}
}

// LoadContext creates a new context from its saved state. Item ids and
// script names are restored.
func LoadContext(r ContextRecord) (*Context, error) {
	c := &Context{
		items:      make(map[uuid.UUID]Node),
		names:      make(map[string]uuid.UUID),
		seq:        make(map[string]int),
		blurMode:   r.BlurMode,
		globalBlur: r.MotionBlur,
	}
	c.barrier.init()

	c.root = &Layer{}
	c.restoreItem(&c.root.Item, KindLayer, uuid.Nil, r.Root.ItemRecord)
	if err := c.loadChildren(c.root, r.Root.Children); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) restoreItem(it *Item, kind Kind, parent uuid.UUID, r ItemRecord) {
	it.id = r.ID
	if _, dup := c.items[it.id]; dup || it.id == uuid.Nil || (it != &c.root.Item && it.id == c.root.id) {
		it.id = uuid.New()
	}
	it.kind = kind
	it.ctx = c
	it.parent = parent
	it.name = r.Name
	if _, used := c.names[it.name]; used || it.name == "" {
		it.name = c.uniqueName(kind.String())
	}
	c.names[it.name] = it.id
	it.label = r.Label
	it.activated = r.Activated
	it.locked = r.Locked
}

func (c *Context) loadChildren(parent *Layer, children []ChildRecord) error {
	for _, ch := range children {
		var it *Item
		switch {
		case ch.Layer != nil:
			l := &Layer{}
			c.restoreItem(&l.Item, KindLayer, parent.id, ch.Layer.ItemRecord)
			c.items[l.id] = l
			if err := c.loadChildren(l, ch.Layer.Children); err != nil {
				return err
			}
			it = &l.Item
		case ch.Shape != nil:
			d, curve, err := shapeParts(*ch.Shape)
			if err != nil {
				return err
			}
			s := &Shape{Drawable: d, curve: curve}
			c.restoreItem(&s.Item, KindShape, parent.id, ch.Shape.ItemRecord)
			c.items[s.id] = s
			it = &s.Item
		case ch.Stroke != nil:
			p, err := strokeParts(*ch.Stroke)
			if err != nil {
				return err
			}
			s := &Stroke{}
			s.setParts(p)
			c.restoreItem(&s.Item, KindStroke, parent.id, ch.Stroke.ItemRecord)
			c.items[s.id] = s
			it = &s.Item
		default:
			continue
		}
		parent.children = append(parent.children, it.id)
	}
	return nil
}
