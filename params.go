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

package roto

import (
	"fmt"
	"math"

	"golang.org/x/image/draw"
)

// LifeTime selects the frames on which a drawable item is active.
type LifeTime int

const (
	LifeTimeAll       LifeTime = iota // all frames
	LifeTimeSingle                    // only the life-time frame
	LifeTimeFromStart                 // up to and including the life-time frame
	LifeTimeToEnd                     // from the life-time frame onwards
	LifeTimeCustom                    // controlled by the activated curve
)

func (l LifeTime) String() string {
	switch l {
	case LifeTimeAll:
		return "All"
	case LifeTimeSingle:
		return "Single"
	case LifeTimeFromStart:
		return "From start"
	case LifeTimeToEnd:
		return "To end"
	case LifeTimeCustom:
		return "Custom"
	}
	return fmt.Sprintf("LifeTime(%d)", int(l))
}

// SkewOrder selects whether the x or the y skew is applied first.
type SkewOrder int

const (
	SkewXY SkewOrder = iota
	SkewYX
)

// ShutterType anchors the motion-blur shutter interval relative to the
// current frame.
type ShutterType int

const (
	ShutterCentered ShutterType = iota // [t - s/2, t + s/2]
	ShutterStart                       // [t, t + s]
	ShutterEnd                         // [t - s, t]
	ShutterCustom                      // [t + offset, t + offset + s]
)

func (s ShutterType) String() string {
	switch s {
	case ShutterCentered:
		return "centered"
	case ShutterStart:
		return "start"
	case ShutterEnd:
		return "end"
	case ShutterCustom:
		return "custom"
	}
	return fmt.Sprintf("ShutterType(%d)", int(s))
}

// BlurMode selects how motion blur is computed for a whole context.
type BlurMode int

const (
	// BlurPerShape blurs every item with its own settings and composites
	// the blurred items. Overlapping items can show seams mid-blur.
	BlurPerShape BlurMode = iota

	// BlurGlobal renders all items at each time sample with the context
	// settings and averages the composited samples.
	BlurGlobal
)

func (m BlurMode) String() string {
	if m == BlurGlobal {
		return "global"
	}
	return "per-shape"
}

// MotionBlur holds the motion-blur settings of an item or a context.
type MotionBlur struct {
	Samples      int         `json:"samples"` // 0 or 1 disables blur
	Shutter      float64     `json:"shutter"` // in frames
	Type         ShutterType `json:"shutterType"`
	CustomOffset float64     `json:"customOffset,omitempty"`
}

// DefaultMotionBlur returns the settings of a new item: blur disabled,
// with a centered shutter of half a frame.
func DefaultMotionBlur() MotionBlur {
	return MotionBlur{
		Samples: 1,
		Shutter: 0.5,
		Type:    ShutterCentered,
	}
}

// TimeRange returns the interval during which the shutter is open for
// frame t.
func (mb MotionBlur) TimeRange(t float64) (start, end float64) {
	s := max(mb.Shutter, 0)
	switch mb.Type {
	case ShutterStart:
		return t, t + s
	case ShutterEnd:
		return t - s, t
	case ShutterCustom:
		return t + mb.CustomOffset, t + mb.CustomOffset + s
	default:
		return t - s/2, t + s/2
	}
}

// SampleTimes returns the times at which frame t is sampled. With at most
// one sample or a zero shutter, the result is just t. Otherwise the
// samples are spread evenly over the shutter interval, including both
// ends.
func (mb MotionBlur) SampleTimes(t float64) []float64 {
	start, end := mb.TimeRange(t)
	if mb.Samples <= 1 || end <= start {
		return []float64{t}
	}
	n := mb.Samples
	res := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range res {
		res[i] = start + float64(i)*step
	}
	res[n-1] = end
	return res
}

// TimeOffsetMode selects how the clone time offset is interpreted.
type TimeOffsetMode int

const (
	TimeOffsetRelative TimeOffsetMode = iota // source frame = t + offset
	TimeOffsetAbsolute                       // source frame = offset
)

// SourceTime returns the source frame used at time t.
func (m TimeOffsetMode) SourceTime(t, offset float64) float64 {
	if m == TimeOffsetAbsolute {
		return offset
	}
	return t + offset
}

// SourceType selects the image painted by reveal and clone strokes.
type SourceType int

const (
	// SourceForeground uses the image painted so far, below this stroke.
	SourceForeground SourceType = iota

	// SourceBackground uses the unpainted input image.
	SourceBackground
)

// Filter is the resampling filter used by the clone tool.
type Filter int

const (
	FilterBilinear Filter = iota
	FilterNearest
	FilterApproxBilinear
	FilterCatmullRom
)

// Interpolator returns the resampler which implements the filter.
func (f Filter) Interpolator() draw.Interpolator {
	switch f {
	case FilterNearest:
		return draw.NearestNeighbor
	case FilterApproxBilinear:
		return draw.ApproxBiLinear
	case FilterCatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// Limits of the feather falloff parameter.
const (
	MinFalloff = 0.001
	MaxFalloff = 5
)

func clampFalloff(f float64) float64 {
	if math.IsNaN(f) {
		return 1
	}
	return min(max(f, MinFalloff), MaxFalloff)
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
