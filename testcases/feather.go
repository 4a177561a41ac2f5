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
	"seehuhn.de/go/roto"
)

var featherScenes = []Scene{
	{
		Name:   "square_10px",
		Width:  120,
		Height: 120,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 10, rectangle(10, 10, 110, 110)...)
			return err
		},
	},
	{
		Name:   "square_2px",
		Width:  120,
		Height: 120,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 2, rectangle(10.5, 10.5, 109.5, 109.5)...)
			return err
		},
	},
	{
		Name:   "falloff_steep",
		Width:  120,
		Height: 120,
		Build: func(c *roto.Context) error {
			s, err := polygon(c, nil, 12, rectangle(20, 20, 100, 100)...)
			if err != nil {
				return err
			}
			return c.Edit(s, func() {
				s.FeatherFalloff.SetValue(0.25)
			})
		},
	},
	{
		Name:   "falloff_soft",
		Width:  120,
		Height: 120,
		Build: func(c *roto.Context) error {
			s, err := polygon(c, nil, 12, rectangle(20, 20, 100, 100)...)
			if err != nil {
				return err
			}
			return c.Edit(s, func() {
				s.FeatherFalloff.SetValue(3)
			})
		},
	},
	{
		Name:   "star",
		Width:  128,
		Height: 128,
		Build: func(c *roto.Context) error {
			_, err := polygon(c, nil, 6, star(64, 64, 52, 24, 6)...)
			return err
		},
	},
	{
		Name:   "ellipse",
		Width:  128,
		Height: 96,
		Build: func(c *roto.Context) error {
			_, err := ellipse(c, nil, 64, 48, 48, 32, 8)
			return err
		},
	},
	{
		Name:   "moved_feather_point",
		Width:  120,
		Height: 120,
		Build: func(c *roto.Context) error {
			s, err := polygon(c, nil, 0, rectangle(20, 20, 100, 100)...)
			if err != nil {
				return err
			}
			return c.Edit(s, func() {
				s.Curve().MoveFeatherPoint(2, 0, pt(12, 12))
			})
		},
	},
}
