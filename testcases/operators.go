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
	"seehuhn.de/go/roto/blend"
)

// overlap adds a red square and, on top of it, a half transparent blue
// square composited with op.
func overlap(c *roto.Context, op blend.Operator) error {
	a, err := polygon(c, nil, 0, rectangle(8, 8, 40, 40)...)
	if err != nil {
		return err
	}
	err = c.Edit(a, func() {
		a.Color[1].SetValue(0)
		a.Color[2].SetValue(0)
	})
	if err != nil {
		return err
	}

	b, err := polygon(c, nil, 0, rectangle(24, 24, 56, 56)...)
	if err != nil {
		return err
	}
	return c.Edit(b, func() {
		b.Color[0].SetValue(0)
		b.Color[1].SetValue(0.5)
		b.Opacity.SetValue(0.75)
		b.Operator = op
	})
}

// operatorScenes contains one scene per compositing operator.
var operatorScenes = func() []Scene {
	var res []Scene
	for op := range blend.Operator(len(blend.Names)) {
		res = append(res, Scene{
			Name:   operatorSceneName(op),
			Width:  64,
			Height: 64,
			Build: func(c *roto.Context) error {
				return overlap(c, op)
			},
		})
	}
	return res
}()

// operatorSceneName turns an operator name like "HSL-hue" into a valid
// scene name.
func operatorSceneName(op blend.Operator) string {
	name := []byte(blend.Names[op])
	for i, b := range name {
		switch {
		case b == '-':
			name[i] = '_'
		case b >= 'A' && b <= 'Z':
			name[i] = b - 'A' + 'a'
		}
	}
	return string(name)
}

// layerScenes exercise nesting, activation and locking of layers.
var layerScenes = []Scene{
	{
		Name:   "nested",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			outer := c.NewLayer(nil)
			inner := c.NewLayer(outer)
			if _, err := polygon(c, outer, 1, rectangle(4, 4, 36, 36)...); err != nil {
				return err
			}
			_, err := polygon(c, inner, 1, rectangle(28, 28, 60, 60)...)
			return err
		},
	},
	{
		Name:   "deactivated",
		Width:  64,
		Height: 64,
		Build: func(c *roto.Context) error {
			l := c.NewLayer(nil)
			if _, err := polygon(c, nil, 1, rectangle(4, 4, 36, 36)...); err != nil {
				return err
			}
			if _, err := polygon(c, l, 1, rectangle(28, 28, 60, 60)...); err != nil {
				return err
			}
			c.SetGloballyActivated(l, false)
			return nil
		},
	},
	{
		Name:   "lifetime_single",
		Width:  64,
		Height: 64,
		Time:   3,
		Build: func(c *roto.Context) error {
			for i := range 3 {
				x := 4 + 20*float64(i)
				s, err := polygon(c, nil, 0, rectangle(x, 24, x+16, 40)...)
				if err != nil {
					return err
				}
				err = c.Edit(s, func() {
					s.LifeTime = roto.LifeTimeSingle
					s.LifeTimeFrame = float64(2 + i)
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	},
}
