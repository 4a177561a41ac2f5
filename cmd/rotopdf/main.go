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

// Command rotopdf draws the hard outlines of the test scenes into PDF files
// and optionally renders them to PNG using Ghostscript. The images show
// the shapes without feather and the strokes as round-capped lines of the
// brush width, which is useful to check the geometry of rendered masks.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/blend"
	"seehuhn.de/go/roto/internal/xform"
	"seehuhn.de/go/roto/testcases"
)

func main() {
	outDir := flag.String("o", "testdata/outline", "output directory")
	png := flag.Bool("png", false, "render the PDF files to PNG using Ghostscript")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(*outDir, *png); err != nil {
		logger.Error("rotopdf failed", "error", err)
		os.Exit(1)
	}
}

func run(outDir string, png bool) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			pdfPath := filepath.Join(outDir, name+".pdf")
			pngPath := filepath.Join(outDir, name+".png")

			c, err := sc.NewContext()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := generatePDF(sc, c, pdfPath); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if !png {
				continue
			}
			if err := renderPNG(pdfPath, pngPath); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

func generatePDF(sc testcases.Scene, c *roto.Context, pdfPath string) error {
	// Page size in points (1 point = 1 pixel at 72 DPI)
	paper := &pdf.Rectangle{
		URx: float64(sc.Width),
		URy: float64(sc.Height),
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// Black background, so that grey levels read as mask values.
	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(sc.Width), float64(sc.Height))
	page.Fill()

	// PDF origin is bottom-left; scenes assume top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(sc.Height)})

	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)

	for _, it := range c.Drawables() {
		if !c.IsActivated(it, sc.Time) {
			continue
		}
		switch it := it.(type) {
		case *roto.Shape:
			drawShape(page, it, sc)
		case *roto.Stroke:
			drawStroke(page, it, sc.Time)
		}
	}

	return page.Close()
}

// grey returns the level used for items composited with op: operators
// which remove coverage draw in black.
func grey(op blend.Operator) color.Color {
	switch op {
	case blend.Clear, blend.DestOut, blend.Out:
		return color.DeviceGray(0)
	default:
		return color.DeviceGray(1)
	}
}

func drawShape(page *document.Page, s *roto.Shape, sc testcases.Scene) {
	t := sc.Time

	s.RLock()
	b := s.Curve()
	if b.Len() < 2 || !b.IsOpen() && !b.IsFinished() {
		s.RUnlock()
		return
	}
	m := s.Transform.At(t)
	p := b.Path(t)
	open := b.IsOpen()
	inverted := s.InvertedAt(t)
	width := s.BrushAt(t).Size
	op := s.Operator
	s.RUnlock()

	if open {
		page.SetStrokeColor(grey(op))
		page.SetLineWidth(width)
		addPath(page, p, m)
		page.Stroke()
		return
	}

	page.SetFillColor(grey(op))
	addPath(page, p, m)
	if inverted {
		page.Rectangle(0, 0, float64(sc.Width), float64(sc.Height))
		page.FillEvenOdd()
	} else {
		page.Fill()
	}
}

func drawStroke(page *document.Page, s *roto.Stroke, t float64) {
	s.RLock()
	m := s.Transform.At(t)
	width := s.BrushAt(t).Size
	op := s.Operator
	s.RUnlock()

	page.SetStrokeColor(grey(op))
	page.SetLineWidth(width)
	for _, ss := range s.Samples() {
		if len(ss) == 0 {
			continue
		}
		p := &path.Data{}
		p = p.MoveTo(ss[0].Pos)
		for _, sample := range ss[1:] {
			p = p.LineTo(sample.Pos)
		}
		if len(ss) == 1 {
			p = p.LineTo(ss[0].Pos)
		}
		addPath(page, p, m)
		page.Stroke()
	}
}

// addPath appends p, transformed by m, to the current path of the page.
// Quadratic segments are converted to cubic ones, since PDF has no
// quadratic Bézier curves.
func addPath(page *document.Page, p *path.Data, m matrix.Matrix) {
	var buf [3]vec.Vec2
	for cmd, pts := range p.Iter().ToCubic() {
		pts = buf[:copy(buf[:], pts)]
		for i := range pts {
			pts[i] = xform.Apply(m, pts[i])
		}
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
}

func renderPNG(pdfPath, pngPath string) error {
	// -sDEVICE=pnggray: 8-bit grayscale
	// -r72: 72 DPI (1 point = 1 pixel)
	// -dGraphicsAlphaBits=4: 4x supersampling for anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
