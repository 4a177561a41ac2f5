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

// Package roto models the items of a rotoscoping session: layers, bezier
// shapes and freehand paint strokes.
//
// All items are owned by a [Context]. Layers refer to their children, and
// items to their parent layer, by id only. Edits go through the context,
// which takes the context lock and the item's write lock and increments
// the age of the context. Renders (see package render) take the item read
// locks while they collect the geometry of a frame.
//
// Items can be converted to plain records for persistence with the Save
// methods, and restored with Load and [LoadContext].
package roto

import (
	"log/slog"

	"seehuhn.de/go/roto/internal/logging"
)

// SetLogger sets the logger used by all roto packages. Pass nil to disable
// logging, which is the default.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the logger used by all roto packages.
func Logger() *slog.Logger {
	return logging.Logger()
}
