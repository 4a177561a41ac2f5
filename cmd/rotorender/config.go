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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/paint"
	"seehuhn.de/go/roto/testcases"
)

// Config describes a render job. It is read from a TOML file.
//
// The items to render come from a saved context (Context), a built-in
// test scene (Scene), and the shapes and strokes listed in the file, in
// this order.
type Config struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Frames Start, Start+Step, ..., up to and including End are rendered.
	Start float64 `toml:"start"`
	End   float64 `toml:"end"`
	Step  float64 `toml:"step"`

	// Output is a file name pattern which receives the frame number, for
	// example "out/mask_%04d.png".
	Output string `toml:"output"`

	Workers int  `toml:"workers"`
	Mipmap  int  `toml:"mipmap"`
	Depth   int  `toml:"depth"` // 8 or 16 bits per sample
	Alpha   bool `toml:"alpha"` // write a single-channel mask

	// Background is the file name pattern of the input plates seen by
	// reveal and clone strokes. It receives the frame number, like Output.
	Background string `toml:"background"`

	Context string `toml:"context"` // JSON file with a saved context
	Scene   string `toml:"scene"`   // "category_name" of a test scene

	MotionBlur *BlurConfig    `toml:"motion_blur"`
	Shapes     []ShapeConfig  `toml:"shape"`
	Strokes    []StrokeConfig `toml:"stroke"`
}

// BlurConfig sets the motion blur of the whole context.
type BlurConfig struct {
	Mode    string  `toml:"mode"` // "per-shape" or "global"
	Samples int     `toml:"samples"`
	Shutter float64 `toml:"shutter"`
	Type    string  `toml:"type"` // "centered", "start", "end" or "custom"
	Offset  float64 `toml:"offset"`
}

// KeyConfig is a keyframe of the transformation of an item.
type KeyConfig struct {
	Time   float64 `toml:"time"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Rotate float64 `toml:"rotate"` // degrees
	Scale  float64 `toml:"scale"`  // 0 means 1
}

// ShapeConfig describes a polygonal shape.
type ShapeConfig struct {
	Name     string          `toml:"name"`
	Points   [][2]float64    `toml:"points"`
	Open     bool            `toml:"open"`
	Feather  *float64        `toml:"feather"`
	Falloff  *float64        `toml:"falloff"`
	Opacity  *float64        `toml:"opacity"`
	Color    *[3]float64     `toml:"color"`
	Inverted bool            `toml:"inverted"`
	Operator *blend.Operator `toml:"operator"`
	Size     float64         `toml:"size"` // brush size of open shapes
	Keys     []KeyConfig     `toml:"key"`
}

// StrokeConfig describes a paint stroke. Each point is given as x, y and
// pressure; samples are one time unit apart.
type StrokeConfig struct {
	Name     string          `toml:"name"`
	Tool     paint.Tool      `toml:"tool"`
	Points   [][3]float64    `toml:"points"`
	Size     float64         `toml:"size"`
	Hardness *float64        `toml:"hardness"`
	Effect   *float64        `toml:"effect"`
	Color    *[3]float64     `toml:"color"`
	Operator *blend.Operator `toml:"operator"`
	Keys     []KeyConfig     `toml:"key"`
}

// LoadConfig reads and checks a configuration file.
func LoadConfig(fname string) (*Config, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := &Config{
		Step:    1,
		Workers: 1,
		Depth:   8,
	}
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return cfg, nil
}

var errNoOutput = errors.New("output pattern needs a frame number verb, like %04d")

func (cfg *Config) check() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Step <= 0 {
		return fmt.Errorf("invalid frame step %g", cfg.Step)
	}
	if cfg.End < cfg.Start {
		cfg.End = cfg.Start
	}
	if cfg.Output == "" || cfg.End > cfg.Start && !strings.Contains(cfg.Output, "%") {
		return errNoOutput
	}
	if cfg.Depth != 8 && cfg.Depth != 16 {
		return fmt.Errorf("invalid depth %d", cfg.Depth)
	}
	cfg.Workers = max(cfg.Workers, 1)
	cfg.Mipmap = max(cfg.Mipmap, 0)
	for i, s := range cfg.Shapes {
		if len(s.Points) < 2 {
			return fmt.Errorf("shape %d: need at least two points", i)
		}
	}
	for i, s := range cfg.Strokes {
		if len(s.Points) == 0 {
			return fmt.Errorf("stroke %d: no points", i)
		}
	}
	return nil
}

// Frames returns the times of all frames to render.
func (cfg *Config) Frames() []float64 {
	var res []float64
	for k := 0; ; k++ {
		t := cfg.Start + float64(k)*cfg.Step
		if t > cfg.End+1e-9 {
			break
		}
		res = append(res, t)
	}
	return res
}

// NewContext builds the context holding all items of the job.
func (cfg *Config) NewContext() (*roto.Context, error) {
	c, err := cfg.baseContext()
	if err != nil {
		return nil, err
	}

	if mb := cfg.MotionBlur; mb != nil {
		mode, settings, err := mb.settings()
		if err != nil {
			return nil, err
		}
		c.SetMotionBlur(mode, settings)
	}

	for i, sc := range cfg.Shapes {
		if err := sc.add(c); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}
	for i, sc := range cfg.Strokes {
		if err := sc.add(c); err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	return c, nil
}

func (cfg *Config) baseContext() (*roto.Context, error) {
	switch {
	case cfg.Context != "" && cfg.Scene != "":
		return nil, errors.New("context and scene cannot be used together")
	case cfg.Context != "":
		data, err := os.ReadFile(cfg.Context)
		if err != nil {
			return nil, err
		}
		var rec roto.ContextRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Context, err)
		}
		return roto.LoadContext(rec)
	case cfg.Scene != "":
		for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
			for _, sc := range testcases.All[category] {
				if category+"_"+sc.Name == cfg.Scene {
					return sc.NewContext()
				}
			}
		}
		return nil, fmt.Errorf("unknown scene %q", cfg.Scene)
	default:
		return roto.NewContext(), nil
	}
}

func (mb *BlurConfig) settings() (roto.BlurMode, roto.MotionBlur, error) {
	var mode roto.BlurMode
	switch mb.Mode {
	case "", "per-shape":
		mode = roto.BlurPerShape
	case "global":
		mode = roto.BlurGlobal
	default:
		return 0, roto.MotionBlur{}, fmt.Errorf("unknown motion blur mode %q", mb.Mode)
	}

	res := roto.MotionBlur{
		Samples:      mb.Samples,
		Shutter:      mb.Shutter,
		CustomOffset: mb.Offset,
	}
	switch mb.Type {
	case "", "centered":
		res.Type = roto.ShutterCentered
	case "start":
		res.Type = roto.ShutterStart
	case "end":
		res.Type = roto.ShutterEnd
	case "custom":
		res.Type = roto.ShutterCustom
	default:
		return 0, roto.MotionBlur{}, fmt.Errorf("unknown shutter type %q", mb.Type)
	}
	return mode, res, nil
}

func (sc *ShapeConfig) add(c *roto.Context) error {
	s := c.NewShape(nil, sc.Open)
	for _, p := range sc.Points {
		if _, err := s.AddPoint(vec.Vec2{X: p[0], Y: p[1]}); err != nil {
			return err
		}
	}
	if sc.Name != "" {
		if err := c.SetName(s, sc.Name); err != nil {
			return err
		}
	}
	return c.Edit(s, func() {
		s.Curve().SetFinished(true)
		setOptional(s.FeatherDist.SetValue, sc.Feather)
		setOptional(s.FeatherFalloff.SetValue, sc.Falloff)
		setOptional(s.Opacity.SetValue, sc.Opacity)
		if sc.Color != nil {
			for i, v := range sc.Color {
				s.Color[i].SetValue(v)
			}
		}
		if sc.Inverted {
			s.Inverted.SetValue(1)
		}
		if sc.Operator != nil {
			s.Operator = *sc.Operator
		}
		if sc.Size > 0 {
			s.Brush.Size.SetValue(sc.Size)
		}
		setKeys(&s.Transform, sc.Keys)
	})
}

func (sc *StrokeConfig) add(c *roto.Context) error {
	s := c.NewStroke(nil, sc.Tool)
	err := c.Edit(s, func() {
		if sc.Size > 0 {
			s.Brush.Size.SetValue(sc.Size)
		}
		setOptional(s.Brush.Hardness.SetValue, sc.Hardness)
		setOptional(s.Brush.Effect.SetValue, sc.Effect)
		if sc.Color != nil {
			for i, v := range sc.Color {
				s.Color[i].SetValue(v)
			}
		}
		if sc.Operator != nil {
			s.Operator = *sc.Operator
		}
		setKeys(&s.Transform, sc.Keys)
	})
	if err != nil {
		return err
	}
	if sc.Name != "" {
		if err := c.SetName(s, sc.Name); err != nil {
			return err
		}
	}
	for i, p := range sc.Points {
		if err := s.AppendPoint(p[0], p[1], p[2], float64(i)); err != nil {
			return err
		}
	}
	return nil
}

func setOptional(set func(float64), v *float64) {
	if v != nil {
		set(*v)
	}
}

func setKeys(tr *roto.Transform, keys []KeyConfig) {
	for _, k := range keys {
		scale := k.Scale
		if scale == 0 {
			scale = 1
		}
		tr.TranslateX.SetKeyframe(k.Time, k.X)
		tr.TranslateY.SetKeyframe(k.Time, k.Y)
		tr.Rotate.SetKeyframe(k.Time, k.Rotate)
		tr.ScaleX.SetKeyframe(k.Time, scale)
	}
}
