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
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/paint"
)

const job = `
width = 64
height = 48
start = 0.0
end = 2.0
output = "OUT/mask_%02d.png"
workers = 2

[motion_blur]
mode = "global"
samples = 3
shutter = 0.5

[[shape]]
name = "box"
points = [[8.0, 8.0], [40.0, 8.0], [40.0, 40.0], [8.0, 40.0]]
feather = 0.0
color = [1.0, 0.5, 0.0]
operator = "screen"

  [[shape.key]]
  time = 0.0
  x = 0.0

  [[shape.key]]
  time = 2.0
  x = 16.0

[[stroke]]
tool = "draw"
size = 6.0
points = [[4.0, 44.0, 1.0], [60.0, 44.0, 0.5]]
`

func writeJob(t *testing.T, text string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	fname := filepath.Join(dir, "job.toml")
	text = strings.ReplaceAll(text, "OUT", filepath.ToSlash(out))
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))
	return fname, out
}

func TestLoadConfig(t *testing.T) {
	fname, _ := writeJob(t, job)
	cfg, err := LoadConfig(fname)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2}, cfg.Frames())
	require.Len(t, cfg.Shapes, 1)
	require.NotNil(t, cfg.Shapes[0].Operator)
	assert.Equal(t, blend.Screen, *cfg.Shapes[0].Operator)
	assert.Len(t, cfg.Shapes[0].Keys, 2)
	require.Len(t, cfg.Strokes, 1)
	assert.Equal(t, paint.Draw, cfg.Strokes[0].Tool)

	c, err := cfg.NewContext()
	require.NoError(t, err)
	mode, mb := c.MotionBlur()
	assert.Equal(t, roto.BlurGlobal, mode)
	assert.Equal(t, 3, mb.Samples)
	assert.Len(t, c.Drawables(), 2)

	box, ok := c.ByName("box").(*roto.Shape)
	require.True(t, ok)
	assert.InDelta(t, 8, box.TransformAt(1)[4], 1e-9)
}

func TestLoadConfigErrors(t *testing.T) {
	// missing height, missing output, no frame verb, unknown field, bad depth
	for _, text := range []string{
		"width = 10\n",
		"width = 10\nheight = 10\n",
		"width = 10\nheight = 10\noutput = \"a.png\"\nend = 3.0\n",
		"width = 10\nheight = 10\noutput = \"a.png\"\ncolour = 1\n",
		"width = 10\nheight = 10\noutput = \"a.png\"\ndepth = 12\n",
	} {
		fname, _ := writeJob(t, text)
		_, err := LoadConfig(fname)
		assert.Error(t, err, text)
	}
}

func TestUnknownScene(t *testing.T) {
	cfg := &Config{Scene: "no_such_scene"}
	_, err := cfg.NewContext()
	assert.Error(t, err)

	cfg = &Config{Scene: "feather_square_10px"}
	c, err := cfg.NewContext()
	require.NoError(t, err)
	assert.Len(t, c.Drawables(), 1)
}

func TestRun(t *testing.T) {
	fname, out := writeJob(t, job)
	cfg, err := LoadConfig(fname)
	require.NoError(t, err)

	require.NoError(t, run(cfg, roto.Logger()))
	for _, name := range []string{"mask_00.png", "mask_01.png", "mask_02.png"} {
		img, err := imgio.Open(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

		_, _, _, a := img.At(24, 24).RGBA()
		assert.NotZero(t, a, name)
	}
}

func TestPlateCache(t *testing.T) {
	dir := t.TempDir()
	plate := image.NewRGBA(image.Rect(0, 0, 4, 4))
	plate.Set(1, 1, color.RGBA{R: 255, A: 255})
	require.NoError(t, imgio.Save(filepath.Join(dir, "plate_3.png"), plate, imgio.PNGEncoder()))

	pc := &plateCache{pattern: filepath.Join(dir, "plate_%d.png"), logger: roto.Logger()}
	img := pc.get(3.2)
	require.NotNil(t, img)
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Nil(t, pc.get(4))
	assert.Same(t, img, pc.get(3))
}
