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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/paint"
)

// Scene defines a single rendering test: a context built from scratch and
// the frame at which it is rendered.
type Scene struct {
	Name   string  // lowercase a-z, 0-9 and _ only
	Width  int     // canvas width in pixels
	Height int     // canvas height in pixels
	Time   float64 // frame to render

	// Build adds the items of the scene to an empty context.
	Build func(c *roto.Context) error
}

// NewContext returns a fresh context holding the items of the scene.
func (s Scene) NewContext() (*roto.Context, error) {
	c := roto.NewContext()
	if err := s.Build(c); err != nil {
		return nil, err
	}
	return c, nil
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func rectangle(x1, y1, x2, y2 float64) []vec.Vec2 {
	return []vec.Vec2{pt(x1, y1), pt(x2, y1), pt(x2, y2), pt(x1, y2)}
}

// star returns the corners of a star with n points, alternating between
// the outer and the inner radius.
func star(cx, cy, outer, inner float64, n int) []vec.Vec2 {
	res := make([]vec.Vec2, 2*n)
	for i := range res {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := float64(i)*math.Pi/float64(n) - math.Pi/2
		res[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return res
}

// polygon adds a closed polygon with the given feather distance.
func polygon(c *roto.Context, parent *roto.Layer, feather float64, corners ...vec.Vec2) (*roto.Shape, error) {
	s := c.NewPolygon(parent, corners...)
	err := c.Edit(s, func() {
		s.FeatherDist.SetValue(feather)
	})
	return s, err
}

// ellipse adds a closed shape approximating an ellipse by four cubic
// segments.
func ellipse(c *roto.Context, parent *roto.Layer, cx, cy, rx, ry, feather float64) (*roto.Shape, error) {
	// magic number for circular arc approximation with cubic Bézier
	const k = 0.5522847498

	s := c.NewShape(parent, false)
	corners := []vec.Vec2{pt(cx, cy-ry), pt(cx+rx, cy), pt(cx, cy+ry), pt(cx-rx, cy)}
	handles := []vec.Vec2{pt(k*rx, 0), pt(0, k*ry), pt(-k*rx, 0), pt(0, -k*ry)}
	for _, p := range corners {
		if _, err := s.AddPoint(p); err != nil {
			return nil, err
		}
	}
	err := c.Edit(s, func() {
		b := s.Curve()
		for i, p := range corners {
			b.SetTangents(i, 0, p.Sub(handles[i]), p.Add(handles[i]))
		}
		b.SetFinished(true)
		s.FeatherDist.SetValue(feather)
	})
	return s, err
}

// stroke adds a paint stroke through the given points, with pressure 1
// and one time unit between samples.
func stroke(c *roto.Context, parent *roto.Layer, tool paint.Tool, size float64, pts ...vec.Vec2) (*roto.Stroke, error) {
	s := c.NewStroke(parent, tool)
	err := c.Edit(s, func() {
		s.Brush.Size.SetValue(size)
	})
	if err != nil {
		return nil, err
	}
	for i, p := range pts {
		if err := s.AppendPoint(p.X, p.Y, 1, float64(i)); err != nil {
			return nil, err
		}
	}
	return s, nil
}
