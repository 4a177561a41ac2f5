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

package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/roto/internal/xform"
)

// approaches lists the thresholds which force the two fill strategies:
// 2D buffers (A) and the active edge list (B).
var approaches = []struct {
	name      string
	threshold int
}{
	{"A", 1 << 30},
	{"B", 0},
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// coverageGrid runs fill on a fresh rasterizer and collects the coverage
// values into a w×h grid.
func coverageGrid(w, h, threshold int, fill func(r *Rasterizer, emit EmitFunc)) []float32 {
	r := NewRasterizer(rect.Rect{URx: float64(w), URy: float64(h)})
	r.smallPathThreshold = threshold
	grid := make([]float32, w*h)
	fill(r, func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			grid[y*w+xMin+i] += c
		}
	})
	return grid
}

// TestTriangleCoverage verifies exact coverage values for a simple triangle.
// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	triangle := (&path.Data{}).
		MoveTo(pt(0, 0)).
		LineTo(pt(10, 0)).
		LineTo(pt(10, 1)).
		Close()

	for _, approach := range approaches {
		grid := coverageGrid(10, 1, approach.threshold, func(r *Rasterizer, emit EmitFunc) {
			r.FillNonZero(triangle, emit)
		})
		for x := range 10 {
			expected := float32(2*x+1) / 20
			if math.Abs(float64(grid[x]-expected)) > 1e-6 {
				t.Errorf("%s: pixel %d: expected coverage %.4f, got %.4f",
					approach.name, x, expected, grid[x])
			}
		}
	}
}

// TestTrianglesPartition checks that a square cut into two triangles of
// opposite orientation is covered exactly like the square itself.
func TestTrianglesPartition(t *testing.T) {
	a, b, c, d := pt(2.25, 1.5), pt(13.5, 1.5), pt(13.5, 12.75), pt(2.25, 12.75)
	tris := []vec.Vec2{a, b, c, a, d, c} // second triangle is reversed
	square := [][]vec.Vec2{{a, b, c, d}}

	for _, approach := range approaches {
		got := coverageGrid(16, 16, approach.threshold, func(r *Rasterizer, emit EmitFunc) {
			r.FillTriangles(tris, emit)
		})
		want := coverageGrid(16, 16, approach.threshold, func(r *Rasterizer, emit EmitFunc) {
			r.FillPolygons(square, emit)
		})
		for i := range want {
			if math.Abs(float64(got[i]-want[i])) > 1e-5 {
				t.Fatalf("%s: pixel (%d, %d): %g != %g",
					approach.name, i%16, i/16, got[i], want[i])
			}
		}
		if got[8*16+8] < 0.99999 {
			t.Errorf("%s: interior pixel has coverage %g", approach.name, got[8*16+8])
		}
	}
}

func TestPolygonHole(t *testing.T) {
	outer := []vec.Vec2{pt(0, 0), pt(20, 0), pt(20, 20), pt(0, 20)}
	inner := []vec.Vec2{pt(5, 5), pt(5, 15), pt(15, 15), pt(15, 5)} // reversed
	grid := coverageGrid(20, 20, 1<<30, func(r *Rasterizer, emit EmitFunc) {
		r.FillPolygons([][]vec.Vec2{outer, inner}, emit)
	})
	if grid[10*20+10] != 0 {
		t.Errorf("hole has coverage %g", grid[10*20+10])
	}
	if grid[2*20+2] != 1 {
		t.Errorf("ring has coverage %g", grid[2*20+2])
	}
}

func TestFillRules(t *testing.T) {
	star := fivePointStar(32, 32, 25)
	nonZero := coverageGrid(64, 64, 1<<30, func(r *Rasterizer, emit EmitFunc) {
		r.FillNonZero(star, emit)
	})
	evenOdd := coverageGrid(64, 64, 1<<30, func(r *Rasterizer, emit EmitFunc) {
		r.FillEvenOdd(star, emit)
	})
	centre := 32*64 + 32
	if nonZero[centre] != 1 {
		t.Errorf("nonzero: centre has coverage %g", nonZero[centre])
	}
	if evenOdd[centre] > 1e-5 {
		t.Errorf("even-odd: centre has coverage %g", evenOdd[centre])
	}
}

func TestClip(t *testing.T) {
	clip := rect.Rect{LLx: 4, LLy: 3, URx: 12, URy: 9}
	r := NewRasterizer(clip)
	big := [][]vec.Vec2{{pt(-10, -10), pt(30, -10), pt(30, 30), pt(-10, 30)}}
	count := 0
	r.FillPolygons(big, func(y, xMin int, coverage []float32) {
		if y < 3 || y >= 9 || xMin < 4 || xMin+len(coverage) > 12 {
			t.Errorf("span y=%d x=%d..%d outside the clip", y, xMin, xMin+len(coverage))
		}
		count += len(coverage)
	})
	if count != 8*6 {
		t.Errorf("got %d pixels, want %d", count, 8*6)
	}
}

// referenceCases are compared against golang.org/x/image/vector.
var referenceCases = []struct {
	name string
	path *path.Data
	ctm  matrix.Matrix // zero value means identity
}{
	{name: "triangle", path: (&path.Data{}).MoveTo(pt(10, 50)).LineTo(pt(32, 10)).LineTo(pt(54, 50)).Close()},
	{name: "rectangle", path: rectangle(10.3, 12.7, 51.6, 44.2)},
	{name: "star", path: fivePointStar(32, 32, 25)},
	{name: "circle", path: circle(32, 32, 28, false)},
	{name: "ring", path: ring(32, 32, 28, 16)},
	{name: "quadratic", path: (&path.Data{}).MoveTo(pt(8, 56)).QuadTo(pt(32, -20), pt(56, 56)).Close()},
	{
		name: "rotated",
		path: rectangle(-15, -10, 15, 10),
		ctm:  matrix.RotateDeg(30).Translate(32, 32),
	},
}

// TestAgainstVector compares the coverage of filled paths with the output
// of the x/image/vector rasterizer.
func TestAgainstVector(t *testing.T) {
	const w, h = 64, 64
	for _, tc := range referenceCases {
		ctm := tc.ctm
		if ctm == (matrix.Matrix{}) {
			ctm = matrix.Identity
		}
		ref := vectorReference(tc.path, ctm, w, h)

		for _, approach := range approaches {
			name := tc.name + "_" + approach.name
			t.Run(name, func(t *testing.T) {
				grid := coverageGrid(w, h, approach.threshold, func(r *Rasterizer, emit EmitFunc) {
					r.CTM = ctm
					r.Flatness = 0.05
					r.FillNonZero(tc.path, emit)
				})
				actual := make([]byte, w*h)
				for i, c := range grid {
					actual[i] = byte(max(0, min(255, int(c*256))))
				}
				if err := compareImages(name, ref, actual, w, h); err != nil {
					t.Error(err)
				}
			})
		}
	}
}

// vectorReference renders p with x/image/vector into an 8-bit coverage
// buffer.
func vectorReference(p *path.Data, m matrix.Matrix, w, h int) []byte {
	z := vector.NewRasterizer(w, h)
	f := func(v vec.Vec2) (float32, float32) {
		q := xform.Apply(m, v)
		return float32(q.X), float32(q.Y)
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			z.MoveTo(f(p.Coords[k]))
			k++
		case path.CmdLineTo:
			z.LineTo(f(p.Coords[k]))
			k++
		case path.CmdQuadTo:
			x1, y1 := f(p.Coords[k])
			x2, y2 := f(p.Coords[k+1])
			z.QuadTo(x1, y1, x2, y2)
			k += 2
		case path.CmdCubeTo:
			x1, y1 := f(p.Coords[k])
			x2, y2 := f(p.Coords[k+1])
			x3, y3 := f(p.Coords[k+2])
			z.CubeTo(x1, y1, x2, y2, x3, y3)
			k += 3
		case path.CmdClose:
			z.ClosePath()
		}
	}
	z.ClosePath()

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst.Pix
}

func compareImages(name string, expected, actual []byte, w, h int) error {
	total := w * h

	diffs := make([]int, total)
	for i := range total {
		diff := int(expected[i]) - int(actual[i])
		if diff < 0 {
			diff = -diff
		}
		diffs[i] = diff
	}
	sort.Ints(diffs)

	p80 := diffs[int(math.Round(0.80*float64(total-1)))]
	p95 := diffs[int(math.Round(0.95*float64(total-1)))]
	p99 := diffs[int(math.Round(0.99*float64(total-1)))]

	// At least 80% of pixels are identical, 95% of the differences are
	// below 64 and 99% are below 128.
	var failures []string
	if p80 > 0 {
		failures = append(failures, fmt.Sprintf("80th percentile diff is %d (want 0)", p80))
	}
	if p95 >= 64 {
		failures = append(failures, fmt.Sprintf("95th percentile diff is %d (want <64)", p95))
	}
	if p99 >= 128 {
		failures = append(failures, fmt.Sprintf("99th percentile diff is %d (want <128)", p99))
	}

	if len(failures) > 0 {
		_ = writeDiffImage(name, expected, actual, w, h)
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}

// writeDiffImage writes a three-panel image to debug/: the actual output,
// the difference (green where too low, red where too high) and the
// reference.
func writeDiffImage(name string, expected, actual []byte, w, h int) (err error) {
	if err := os.MkdirAll("debug", 0755); err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, w*3, h))
	for y := range h {
		for x := range w {
			i := y*w + x
			a, e := actual[i], expected[i]
			img.Set(x, y, color.RGBA{R: a, G: a, B: a, A: 255})

			var dc color.RGBA
			switch diff := int(e) - int(a); {
			case diff > 0:
				dc = color.RGBA{G: uint8(diff), A: 255}
			case diff < 0:
				dc = color.RGBA{R: uint8(-diff), A: 255}
			default:
				dc = color.RGBA{A: 255}
			}
			img.Set(x+w, y, dc)
			img.Set(x+2*w, y, color.RGBA{R: e, G: e, B: e, A: 255})
		}
	}

	f, err := os.Create(filepath.Join("debug", name+".png"))
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// fivePointStar builds a self-intersecting five-pointed star.
func fivePointStar(cx, cy, r float64) *path.Data {
	p := &path.Data{}
	for k, i := range []int{0, 2, 4, 1, 3} {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		v := pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
		if k == 0 {
			p = p.MoveTo(v)
		} else {
			p = p.LineTo(v)
		}
	}
	return p.Close()
}

// circle approximates a circle by four cubic Bézier segments.
func circle(cx, cy, r float64, clockwise bool) *path.Data {
	return addCircle(&path.Data{}, cx, cy, r, clockwise)
}

// ring builds an "O" shape: the outer circle runs counter-clockwise, the
// inner one clockwise.
func ring(cx, cy, outer, inner float64) *path.Data {
	p := addCircle(&path.Data{}, cx, cy, outer, false)
	return addCircle(p, cx, cy, inner, true)
}

func addCircle(p *path.Data, cx, cy, r float64, clockwise bool) *path.Data {
	// magic number for circular arc approximation with cubic Bézier
	const k = 0.5522847498
	kr := k * r

	s := 1.0
	if clockwise {
		s = -1
	}
	p = p.MoveTo(pt(cx, cy-r))
	p = p.CubeTo(pt(cx+s*kr, cy-r), pt(cx+s*r, cy-kr), pt(cx+s*r, cy))
	p = p.CubeTo(pt(cx+s*r, cy+kr), pt(cx+s*kr, cy+r), pt(cx, cy+r))
	p = p.CubeTo(pt(cx-s*kr, cy+r), pt(cx-s*r, cy+kr), pt(cx-s*r, cy))
	p = p.CubeTo(pt(cx-s*r, cy-kr), pt(cx-s*kr, cy-r), pt(cx, cy-r))
	return p.Close()
}
