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

// Package anim implements keyframed scalar parameters.
//
// The masking code only needs two things from an animated parameter: its
// value at a given time and the list of its keyframe times. These are
// captured by the [Scalar] interface. [Curve] is a small concrete
// implementation, sufficient for tests and for the command line tools.
package anim

import (
	"math"
	"slices"
)

// TimeEpsilon is the tolerance used when comparing keyframe times.
const TimeEpsilon = 1e-9

// Scalar is an animated scalar parameter.
type Scalar interface {
	// ValueAt returns the value of the parameter at time t.
	ValueAt(t float64) float64

	// KeyframeTimes returns the keyframe times in increasing order.
	KeyframeTimes() []float64
}

// Interpolation selects how values between two keyframes are computed.
type Interpolation int

const (
	// Linear interpolates linearly between neighbouring keyframes.
	Linear Interpolation = iota

	// Constant holds the value of the previous keyframe.
	Constant
)

// Keyframe is a single (time, value) pair of a [Curve].
type Keyframe struct {
	Time  float64 `json:"t"`
	Value float64 `json:"v"`
}

// Curve is a keyframed scalar value.
//
// A Curve without keyframes evaluates to its static value everywhere.
// Before the first and after the last keyframe, the curve holds the end
// values.
//
// A Curve is not safe for concurrent modification.
type Curve struct {
	Interp Interpolation

	static float64
	keys   []Keyframe // sorted by Time
}

// NewCurve returns a curve with the given static value and no keyframes.
func NewCurve(value float64) *Curve {
	return &Curve{static: value}
}

// ValueAt implements the [Scalar] interface.
func (c *Curve) ValueAt(t float64) float64 {
	n := len(c.keys)
	switch {
	case n == 0:
		return c.static
	case t <= c.keys[0].Time:
		return c.keys[0].Value
	case t >= c.keys[n-1].Time:
		return c.keys[n-1].Value
	}

	// the first keyframe with Time > t
	i, _ := slices.BinarySearchFunc(c.keys, t, func(k Keyframe, t float64) int {
		if k.Time <= t {
			return -1
		}
		return 1
	})
	k0, k1 := c.keys[i-1], c.keys[i]
	if c.Interp == Constant {
		return k0.Value
	}
	s := (t - k0.Time) / (k1.Time - k0.Time)
	return k0.Value + s*(k1.Value-k0.Value)
}

// KeyframeTimes implements the [Scalar] interface.
func (c *Curve) KeyframeTimes() []float64 {
	res := make([]float64, len(c.keys))
	for i, k := range c.keys {
		res[i] = k.Time
	}
	return res
}

// Keyframes returns a copy of the keyframes of the curve.
func (c *Curve) Keyframes() []Keyframe {
	return slices.Clone(c.keys)
}

// NumKeyframes returns the number of keyframes.
func (c *Curve) NumKeyframes() int {
	return len(c.keys)
}

// StaticValue returns the value used when the curve has no keyframes.
func (c *Curve) StaticValue() float64 {
	return c.static
}

// SetValue sets the static value of the curve.
// Existing keyframes are left untouched.
func (c *Curve) SetValue(v float64) {
	c.static = v
}

// SetKeyframe adds a keyframe at time t.
// An existing keyframe at the same time is replaced.
func (c *Curve) SetKeyframe(t, v float64) {
	i, found := c.find(t)
	if found {
		c.keys[i].Value = v
		return
	}
	c.keys = slices.Insert(c.keys, i, Keyframe{Time: t, Value: v})
}

// RemoveKeyframe removes the keyframe at time t, if any.
// The return value indicates whether a keyframe was removed.
func (c *Curve) RemoveKeyframe(t float64) bool {
	i, found := c.find(t)
	if !found {
		return false
	}
	if len(c.keys) == 1 {
		c.static = c.keys[0].Value
	}
	c.keys = slices.Delete(c.keys, i, i+1)
	return true
}

// HasKeyframeAt reports whether the curve has a keyframe at time t.
func (c *Curve) HasKeyframeAt(t float64) bool {
	_, found := c.find(t)
	return found
}

// Clone returns a deep copy of the curve.
func (c *Curve) Clone() *Curve {
	return &Curve{
		Interp: c.Interp,
		static: c.static,
		keys:   slices.Clone(c.keys),
	}
}

// Set replaces the static value and keyframes of c.
// The keyframes need not be sorted.
func (c *Curve) Set(static float64, keys []Keyframe) {
	c.static = static
	c.keys = c.keys[:0]
	for _, k := range keys {
		c.SetKeyframe(k.Time, k.Value)
	}
}

// find returns the index of the keyframe at time t, or the insertion
// position if there is none.
func (c *Curve) find(t float64) (int, bool) {
	i, _ := slices.BinarySearchFunc(c.keys, t, func(k Keyframe, t float64) int {
		if k.Time < t-TimeEpsilon {
			return -1
		}
		return 1
	})
	if i < len(c.keys) && math.Abs(c.keys[i].Time-t) <= TimeEpsilon {
		return i, true
	}
	return i, false
}

// Record is the serializable state of a [Curve].
type Record struct {
	Value  float64       `json:"value"`
	Interp Interpolation `json:"interp,omitempty"`
	Keys   []Keyframe    `json:"keys,omitempty"`
}

// Record returns the serializable state of the curve.
func (c *Curve) Record() Record {
	return Record{
		Value:  c.static,
		Interp: c.Interp,
		Keys:   c.Keyframes(),
	}
}

// FromRecord creates a curve from its serialized state.
func FromRecord(r Record) *Curve {
	c := &Curve{Interp: r.Interp}
	c.Set(r.Value, r.Keys)
	return c
}
