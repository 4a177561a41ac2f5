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
	"seehuhn.de/go/roto/paint"
)

// grey adds a uniform grey square which painting tools can act on.
func grey(c *roto.Context, level float64, x1, y1, x2, y2 float64) error {
	s, err := polygon(c, nil, 0, rectangle(x1, y1, x2, y2)...)
	if err != nil {
		return err
	}
	return c.Edit(s, func() {
		for _, col := range s.Color {
			col.SetValue(level)
		}
	})
}

// foreground makes s read its source pixels from the image below it.
func foreground(c *roto.Context, s *roto.Stroke) error {
	return c.Edit(s, func() {
		s.Clone.Source = roto.SourceForeground
	})
}

var strokeScenes = []Scene{
	{
		Name:   "draw_line",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := stroke(c, nil, paint.Draw, 8, pt(8, 32), pt(48, 32), pt(88, 32))
			return err
		},
	},
	{
		Name:   "draw_pressure",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			s := c.NewStroke(nil, paint.Draw)
			err := c.Edit(s, func() {
				s.Brush.Size.SetValue(16)
				s.Brush.PressureSize = true
				s.Brush.PressureOpacity = false
			})
			if err != nil {
				return err
			}
			for i := range 9 {
				x := 8 + 10*float64(i)
				if err := s.AppendPoint(x, 32, 0.2+0.1*float64(i), float64(i)); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Name:   "draw_soft_substrokes",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			s, err := stroke(c, nil, paint.Draw, 12, pt(8, 16), pt(88, 16))
			if err != nil {
				return err
			}
			if err := s.EndSubStroke(); err != nil {
				return err
			}
			for i, p := range []struct{ x, y float64 }{{8, 48}, {48, 40}, {88, 48}} {
				if err := s.AppendPoint(p.x, p.y, 1, float64(10+i)); err != nil {
					return err
				}
			}
			return c.Edit(s, func() {
				s.Brush.Hardness.SetValue(0)
				s.Brush.BuildUp = false
			})
		},
	},
	{
		Name:   "visible_portion",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			s, err := stroke(c, nil, paint.Draw, 8, pt(8, 32), pt(88, 32))
			if err != nil {
				return err
			}
			return c.Edit(s, func() {
				s.Brush.VisibleStart.SetValue(0.25)
				s.Brush.VisibleEnd.SetValue(0.75)
			})
		},
	},
	{
		Name:   "blur_edge",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			if err := grey(c, 1, 0, 0, 48, 64); err != nil {
				return err
			}
			s, err := stroke(c, nil, paint.Blur, 24, pt(48, 8), pt(48, 56))
			if err != nil {
				return err
			}
			if err := foreground(c, s); err != nil {
				return err
			}
			return c.Edit(s, func() {
				s.Brush.Effect.SetValue(50)
			})
		},
	},
	{
		Name:   "sharpen",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			if _, err := ellipse(c, nil, 48, 32, 28, 20, 6); err != nil {
				return err
			}
			s, err := stroke(c, nil, paint.Sharpen, 20, pt(16, 32), pt(80, 32))
			if err != nil {
				return err
			}
			return foreground(c, s)
		},
	},
	{
		Name:   "smear",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			if err := grey(c, 1, 8, 8, 40, 56); err != nil {
				return err
			}
			s := c.NewStroke(nil, paint.Smear)
			err := c.Edit(s, func() {
				s.Brush.Size.SetValue(12)
				s.Clone.Source = roto.SourceForeground
			})
			if err != nil {
				return err
			}
			for x := 30.0; x <= 80; x += 2 {
				if err := s.AppendPoint(x, 32, 1, x); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Name:   "dodge_burn",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			if err := grey(c, 0.5, 0, 0, 96, 64); err != nil {
				return err
			}
			for i, tool := range []paint.Tool{paint.Dodge, paint.Burn} {
				y := 20 + 24*float64(i)
				s, err := stroke(c, nil, tool, 12, pt(8, y), pt(88, y))
				if err != nil {
					return err
				}
				err = c.Edit(s, func() {
					s.Clone.Source = roto.SourceForeground
					s.Brush.Effect.SetValue(60)
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Name:   "clone_offset",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			if _, err := ellipse(c, nil, 24, 32, 16, 16, 2); err != nil {
				return err
			}
			s, err := stroke(c, nil, paint.Clone, 20, pt(64, 16), pt(64, 48))
			if err != nil {
				return err
			}
			return c.Edit(s, func() {
				s.Clone.Source = roto.SourceForeground
				s.Clone.Transform.TranslateX.SetValue(-40)
				s.Clone.Filter = roto.FilterCatmullRom
			})
		},
	},
	{
		Name:   "reveal",
		Width:  96,
		Height: 64,
		Build: func(c *roto.Context) error {
			_, err := stroke(c, nil, paint.Reveal, 16, pt(8, 8), pt(48, 56), pt(88, 8))
			return err
		},
	},
}
