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

// Command rotorender renders the masks described by a TOML job file to PNG
// images, one file per frame. Frames are rendered concurrently.
//
// Usage:
//
//	rotorender [-v] [-workers n] job.toml
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"

	"seehuhn.de/go/roto"
	"seehuhn.de/go/roto/imgbuf"
	"seehuhn.de/go/roto/render"
)

func main() {
	verbose := flag.Bool("v", false, "log render decisions")
	workers := flag.Int("workers", 0, "number of frames rendered in parallel (overrides the job file)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	roto.SetLogger(logger)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rotorender [-v] [-workers n] job.toml")
		os.Exit(2)
	}

	cfg, err := LoadConfig(flag.Arg(0))
	if err != nil {
		logger.Error("cannot read job", "error", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *Config, logger *slog.Logger) error {
	c, err := cfg.NewContext()
	if err != nil {
		return err
	}

	frames := cfg.Frames()
	logger.Info("rendering", "frames", len(frames), "workers", cfg.Workers)

	plates := &plateCache{pattern: cfg.Background, logger: logger}
	jobs := make(chan float64)
	errs := make(chan error, len(frames))

	var wg sync.WaitGroup
	for range min(cfg.Workers, len(frames)) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// a renderer is not safe for concurrent use
			r := render.NewRenderer()
			r.MipmapLevel = cfg.Mipmap
			if cfg.Background != "" {
				r.Background = plates.get
			}
			for t := range jobs {
				if err := renderFrame(r, c, cfg, t); err != nil {
					errs <- fmt.Errorf("frame %g: %w", t, err)
					continue
				}
				logger.Debug("frame done", "time", t)
			}
		}()
	}

	for _, t := range frames {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}

// renderFrame renders the frame at time t and writes it to disk.
func renderFrame(r *render.Renderer, c *roto.Context, cfg *Config, t float64) error {
	scale := math.Ldexp(1, -cfg.Mipmap)
	rect := image.Rect(0, 0,
		int(math.Ceil(float64(cfg.Width)*scale)),
		int(math.Ceil(float64(cfg.Height)*scale)))

	comps := imgbuf.RGBA
	if cfg.Alpha {
		comps = imgbuf.Alpha
	}
	dst := imgbuf.New(rect, comps)
	err := r.RenderContext(dst, c, t)
	if errors.Is(err, render.ErrYield) {
		r.RenderContextNeat(dst, c, t)
	} else if err != nil {
		return err
	}

	depth := imgbuf.Depth8
	if cfg.Depth == 16 {
		depth = imgbuf.Depth16
	}

	fname := frameName(cfg.Output, t)
	if dir := filepath.Dir(fname); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return imgio.Save(fname, dst.Export(depth), imgio.PNGEncoder())
}

// frameName inserts the frame number into pattern.
func frameName(pattern string, t float64) string {
	if !strings.Contains(pattern, "%") {
		return pattern
	}
	return fmt.Sprintf(pattern, int(math.Round(t)))
}

// plateCache loads the input plates used as background images. Frames
// which cannot be loaded are logged and left empty.
type plateCache struct {
	pattern string
	logger  *slog.Logger

	mu     sync.Mutex
	plates map[string]image.Image
}

func (pc *plateCache) get(t float64) image.Image {
	fname := frameName(pc.pattern, t)

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if img, ok := pc.plates[fname]; ok {
		return img
	}
	img, err := imgio.Open(fname)
	if err != nil {
		pc.logger.Warn("cannot load background", "file", fname, "error", err)
		img = nil
	}
	if pc.plates == nil {
		pc.plates = make(map[string]image.Image)
	}
	pc.plates[fname] = img
	return img
}
