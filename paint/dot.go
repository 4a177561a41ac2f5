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

package paint

import (
	"image"
	"math"
	"sync"

	"seehuhn.de/go/roto/imgbuf"
	"seehuhn.de/go/roto/internal/logging"
)

// profileStep is the resolution of a dot profile, in pixels.
const profileStep = 0.125

// Pattern is the pre-computed radial alpha profile of a dot.
//
// Alpha is 1 up to Hardness×Radius, then falls off along a cosine curve
// to 0 at Radius. The outer edge is anti-aliased over one pixel.
type Pattern struct {
	Radius   float64
	Hardness float64
	BuildUp  bool

	lut []float32 // alpha at distances 0, profileStep, 2·profileStep, ...
}

func newPattern(radius, hardness float64, buildUp bool) *Pattern {
	p := &Pattern{
		Radius:   radius,
		Hardness: hardness,
		BuildUp:  buildUp,
	}
	n := int(math.Ceil((radius+0.5)/profileStep)) + 2
	p.lut = make([]float32, n)
	for i := range p.lut {
		p.lut[i] = float32(p.eval(float64(i) * profileStep))
	}
	return p
}

func (p *Pattern) eval(d float64) float64 {
	r := p.Radius
	inner := p.Hardness * r

	var a float64
	switch {
	case d <= inner:
		a = 1
	case d >= r:
		a = 0
	default:
		a = 0.5 * (1 + math.Cos(math.Pi*(d-inner)/(r-inner)))
	}

	edge := min(max(r+0.5-d, 0), 1)
	return max(a, 0) * edge
}

// At returns the alpha at distance d from the dot center.
func (p *Pattern) At(d float64) float32 {
	x := d / profileStep
	i := int(x)
	if i >= len(p.lut)-1 {
		return 0
	}
	u := float32(x - float64(i))
	return p.lut[i] + u*(p.lut[i+1]-p.lut[i])
}

// patternKey identifies a cached pattern. Radius is quantized to 1/8 pixel
// and hardness to 1/64.
type patternKey struct {
	radius   int32
	hardness int32
	buildUp  bool
}

func keyFor(radius, hardness float64, buildUp bool) patternKey {
	return patternKey{
		radius:   int32(math.Round(radius * 8)),
		hardness: int32(math.Round(hardness * 64)),
		buildUp:  buildUp,
	}
}

// DotCache stores dot patterns for reuse across renders.
// It is safe for concurrent use. The zero value is ready to use.
type DotCache struct {
	mu       sync.Mutex
	patterns map[patternKey]*Pattern
}

// Get returns the pattern for the given dot shape, computing it if needed.
// A nil cache computes a fresh pattern on every call.
func (c *DotCache) Get(radius, hardness float64, buildUp bool) *Pattern {
	key := keyFor(radius, hardness, buildUp)
	qr := float64(key.radius) / 8
	qh := float64(key.hardness) / 64
	if c == nil {
		return newPattern(qr, qh, buildUp)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.patterns[key]; ok {
		return p
	}
	if c.patterns == nil {
		c.patterns = make(map[patternKey]*Pattern)
	}
	p := newPattern(qr, qh, buildUp)
	c.patterns[key] = p
	logging.Logger().Debug("paint: new dot pattern",
		"radius", qr, "hardness", qh, "buildUp", buildUp)
	return p
}

// Len returns the number of cached patterns.
func (c *DotCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.patterns)
}

// Invalidate drops all cached patterns. It must be called whenever the
// brush parameters change.
func (c *DotCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	clear(c.patterns)
	c.mu.Unlock()
}

// Rasterize stamps the dots into mask, which receives the stroke coverage.
// The mask must be empty on entry.
//
// In normal mode the dots are combined like "over" and the result is
// scaled by the brush opacity, so that overlapping dots never exceed that
// opacity. In build-up mode each dot adds its alpha times the opacity,
// and overlapping dots intensify up to full coverage.
func Rasterize(mask *imgbuf.Mask, dots []Dot, b *Brush, cache *DotCache) {
	opacity := float32(clamp01(b.Opacity))
	for _, dot := range dots {
		if dot.Radius <= 0 || dot.Opacity <= 0 {
			continue
		}
		pat := cache.Get(dot.Radius, dot.Hardness, b.BuildUp)
		stamp(mask, dot, pat, opacity, b.BuildUp)
	}
	if !b.BuildUp {
		mask.Scale(opacity)
	}
}

func stamp(mask *imgbuf.Mask, dot Dot, pat *Pattern, opacity float32, buildUp bool) {
	r := pat.Radius + 1
	box := image.Rect(
		int(math.Floor(dot.Center.X-r)), int(math.Floor(dot.Center.Y-r)),
		int(math.Ceil(dot.Center.X+r)), int(math.Ceil(dot.Center.Y+r)),
	).Intersect(mask.Rect)

	dotOpacity := float32(dot.Opacity)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := float64(y) + 0.5 - dot.Center.Y
		i := mask.Offset(box.Min.X, y)
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float64(x) + 0.5 - dot.Center.X
			a := pat.At(math.Hypot(dx, dy)) * dotOpacity
			if a > 0 {
				l := mask.Val[i]
				if buildUp {
					mask.Val[i] = min(1, l+a*opacity)
				} else {
					mask.Val[i] = l + a - l*a
				}
			}
			i++
		}
	}
}
