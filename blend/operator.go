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

// Package blend implements the compositing operators used to merge a shape
// or stroke into the mask rendered so far.
//
// The operators follow the cairo graphics library, in cairo's order. The
// numeric values of the [Operator] constants are stable and may be used as
// indices into [Names], for example by an operator picker in a user
// interface.
//
// All colors are premultiplied RGBA values in the range [0, 1].
package blend

import (
	"errors"
	"fmt"
)

// Operator is a compositing operator.
type Operator int

// The compositing operators, in cairo order.
const (
	Clear Operator = iota
	Source
	Over
	In
	Out
	Atop
	Dest
	DestOver
	DestIn
	DestOut
	DestAtop
	Xor
	Add
	Saturate
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion
	HSLHue
	HSLSaturation
	HSLColor
	HSLLuminosity

	numOperators
)

// Names lists the operator names, indexed by [Operator].
var Names = [numOperators]string{
	"clear", "source", "over", "in", "out", "atop",
	"dest", "dest-over", "dest-in", "dest-out", "dest-atop",
	"xor", "add", "saturate",
	"multiply", "screen", "overlay", "darken", "lighten",
	"color-dodge", "color-burn", "hard-light", "soft-light",
	"difference", "exclusion",
	"HSL-hue", "HSL-saturation", "HSL-color", "HSL-luminosity",
}

var hints = [numOperators]string{
	Clear:         "clear destination layer",
	Source:        "replace destination layer",
	Over:          "draw source layer on top of destination layer",
	In:            "draw source where there was destination content",
	Out:           "draw source where there was no destination content",
	Atop:          "draw source on top of destination content and only there",
	Dest:          "ignore the source",
	DestOver:      "draw destination on top of source",
	DestIn:        "leave destination only where there was source content",
	DestOut:       "leave destination only where there was no source content",
	DestAtop:      "leave destination on top of source content and only there",
	Xor:           "source and destination are shown where there is only one of them",
	Add:           "source and destination layers are accumulated",
	Saturate:      "like over, but assuming source and dest are disjoint geometries",
	Multiply:      "source and destination layers are multiplied; the result is at least as dark as the darker input",
	Screen:        "source and destination are complemented and multiplied; the result is at least as light as the lighter input",
	Overlay:       "multiplies or screens, depending on the lightness of the destination color",
	Darken:        "replaces the destination with the source if it is darker",
	Lighten:       "replaces the destination with the source if it is lighter",
	ColorDodge:    "brightens the destination color to reflect the source color",
	ColorBurn:     "darkens the destination color to reflect the source color",
	HardLight:     "multiplies or screens, dependent on source color",
	SoftLight:     "darkens or lightens, dependent on source color",
	Difference:    "takes the difference of the source and destination color",
	Exclusion:     "like difference, but with lower contrast",
	HSLHue:        "hue of the source with saturation and luminosity of the target",
	HSLSaturation: "saturation of the source with hue and luminosity of the target",
	HSLColor:      "hue and saturation of the source with luminosity of the target",
	HSLLuminosity: "luminosity of the source with hue and saturation of the target",
}

// ErrUnknownOperator is returned by [Parse] for names which do not denote
// an operator.
var ErrUnknownOperator = errors.New("unknown compositing operator")

// NumOperators is the number of compositing operators.
const NumOperators = int(numOperators)

// String returns the cairo name of the operator.
func (op Operator) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return Names[op]
}

// Hint returns a one-line description of the operator.
func (op Operator) Hint() string {
	if !op.Valid() {
		return ""
	}
	return hints[op]
}

// Valid reports whether op is one of the defined operators.
func (op Operator) Valid() bool {
	return op >= 0 && op < numOperators
}

// Parse returns the operator with the given name.
func Parse(name string) (Operator, error) {
	for i, n := range Names {
		if n == name {
			return Operator(i), nil
		}
	}
	return Over, fmt.Errorf("%q: %w", name, ErrUnknownOperator)
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (op Operator) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%d: %w", int(op), ErrUnknownOperator)
	}
	return []byte(Names[op]), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (op *Operator) UnmarshalText(text []byte) error {
	o, err := Parse(string(text))
	if err != nil {
		return err
	}
	*op = o
	return nil
}
