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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto"
)

var shapeScenes = []Scene{
	{
		Name:   "square",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 0, rectangle(12, 12, 52, 52)...)
			return err
		},
	},
	{
		Name:   "square_subpixel",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 0, rectangle(12.3, 12.7, 51.5, 44.25)...)
			return err
		},
	},
	{
		Name:   "triangle",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 0, pt(32, 6), pt(58, 56), pt(6, 56))
			return err
		},
	},
	{
		Name:   "triangle_clockwise",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 0, pt(32, 6), pt(6, 56), pt(58, 56))
			return err
		},
	},
	{
		Name:   "star",
		Width:  96,
		Height: 96,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 0, star(48, 48, 40, 16, 5)...)
			return err
		},
	},
	{
		Name:   "concave_comb",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 0,
				pt(8, 56), pt(8, 8), pt(24, 8), pt(24, 40), pt(40, 40),
				pt(40, 8), pt(56, 8), pt(56, 40), pt(72, 40), pt(72, 8),
				pt(88, 8), pt(88, 56))
			return err
		},
	},
	{
		Name:   "ellipse",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := ellipse(c, nil, 48, 32, 40, 24, 0)
			return err
		},
	},
	{
		Name:   "inverted",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			s, err := ellipse(c, nil, 32, 32, 20, 20, 0)
			if err != nil {
				return err
			}
			return c.Edit(s, func() {
				s.Inverted.SetValue(1)
			})
		},
	},
	{
		Name:   "colored_layers",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			l := c.NewLayer(nil)
			colors := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
			for i, col := range colors {
				x := 8 + 24*float64(i)
				s, err := polygon(c, l, 1, rectangle(x, 8, x+40, 56)...)
				if err != nil {
					return err
				}
				err = c.Edit(s, func() {
					for k, v := range col {
						s.Color[k].SetValue(v)
					}
					s.Opacity.SetValue(0.75)
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Name:   "open_curve",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			s := c.NewShape(nil, true)
			for _, p := range []vec.Vec2{pt(8, 48), pt(48, 16), pt(88, 48)} {
				if _, err := s.AddPoint(p); err != nil {
					return err
				}
			}
			return c.Edit(s, func() {
				s.Curve().SetTangents(1, 0, pt(32, 16), pt(64, 16))
				s.Brush.Size.SetValue(6)
			})
		},
	},
}
