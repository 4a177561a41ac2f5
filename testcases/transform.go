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
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/roto"
)

// transformed adds a 30×20 rectangle centred on the origin, with feather
// 1, and lets edit set up its transformation.
func transformed(c *roto.Context, edit func(tr *roto.Transform)) error {
	s, err := polygon(c, nil, 1, rectangle(-15, -10, 15, 10)...)
	if err != nil {
		return err
	}
	return c.Edit(s, func() {
		edit(&s.Transform)
	})
}

var transformScenes = []Scene{
	{
		Name:   "translate",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.TranslateX.SetValue(32)
				tr.TranslateY.SetValue(32)
			})
		},
	},
	{
		Name:   "scale_2x",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.ScaleX.SetValue(2)
				tr.TranslateX.SetValue(48)
				tr.TranslateY.SetValue(32)
			})
		},
	},
	{
		Name:   "scale_nonuniform",
		Width:  96,
		Height: 96,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.UniformScale = false
				tr.ScaleX.SetValue(0.5)
				tr.ScaleY.SetValue(3)
				tr.TranslateX.SetValue(48)
				tr.TranslateY.SetValue(48)
			})
		},
	},
	{
		Name:   "rotate_30deg",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.Rotate.SetValue(30)
				tr.TranslateX.SetValue(32)
				tr.TranslateY.SetValue(32)
			})
		},
	},
	{
		Name:   "rotate_about_center",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.CenterX.SetValue(-15)
				tr.CenterY.SetValue(-10)
				tr.Rotate.SetValue(45)
				tr.TranslateX.SetValue(32)
				tr.TranslateY.SetValue(32)
			})
		},
	},
	{
		Name:   "skew",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.SkewX.SetValue(0.5)
				tr.SkewY.SetValue(0.25)
				tr.SkewOrder = roto.SkewYX
				tr.TranslateX.SetValue(32)
				tr.TranslateY.SetValue(32)
			})
		},
	},
	{
		Name:   "extra_matrix",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.Extra = matrix.RotateDeg(90).Translate(32, 32)
			})
		},
	},
	{
		Name:   "animated_rotation",
		Width:  64,
		Height: 64,
		Time:   5,
		Build: func(c *roto.Context) error {
			return transformed(c, func(tr *roto.Transform) {
				tr.Rotate.SetKeyframe(0, 0)
				tr.Rotate.SetKeyframe(10, 90)
				tr.TranslateX.SetValue(32)
				tr.TranslateY.SetValue(32)
			})
		},
	},
}
