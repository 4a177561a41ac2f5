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

// sliding adds a 20×20 square at height y which moves 10 pixels to the
// right per frame, starting at x = 0 at time 0.
func sliding(c *roto.Context, y float64, mb roto.MotionBlur) error {
	s, err := polygon(c, nil, 0, rectangle(0, y, 20, y+20)...)
	if err != nil {
		return err
	}
	return c.Edit(s, func() {
		s.Transform.TranslateX.SetKeyframe(0, 0)
		s.Transform.TranslateX.SetKeyframe(4, 40)
		s.MotionBlur = mb
	})
}

var motionScenes = []Scene{
	{
		Name:   "no_blur",
		Width:  80,
		Height: 32,
		Time:   2,
		Build: func(c *roto.Context) error {
			return sliding(c, 6, roto.DefaultMotionBlur())
		},
	},
	{
		Name:   "per_shape_centered",
		Width:  80,
		Height: 32,
		Time:   2,
		Build: func(c *roto.Context) error {
			return sliding(c, 6, roto.MotionBlur{Samples: 9, Shutter: 1, Type: roto.ShutterCentered})
		},
	},
	{
		Name:   "per_shape_start",
		Width:  80,
		Height: 32,
		Time:   2,
		Build: func(c *roto.Context) error {
			return sliding(c, 6, roto.MotionBlur{Samples: 5, Shutter: 1, Type: roto.ShutterStart})
		},
	},
	{
		Name:   "per_shape_custom",
		Width:  80,
		Height: 32,
		Time:   2,
		Build: func(c *roto.Context) error {
			return sliding(c, 6, roto.MotionBlur{
				Samples:      5,
				Shutter:      0.5,
				Type:         roto.ShutterCustom,
				CustomOffset: -1,
			})
		},
	},
	{
		Name:   "global",
		Width:  80,
		Height: 64,
		Time:   2,
		Build: func(c *roto.Context) error {
			if err := sliding(c, 6, roto.DefaultMotionBlur()); err != nil {
				return err
			}
			if err := sliding(c, 38, roto.DefaultMotionBlur()); err != nil {
				return err
			}
			c.SetMotionBlur(roto.BlurGlobal, roto.MotionBlur{Samples: 7, Shutter: 1, Type: roto.ShutterEnd})
			return nil
		},
	},
}
