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
	"sync"

	"github.com/google/uuid"
)

// Kind tags the concrete type of an item.
type Kind int

const (
	KindLayer Kind = iota
	KindShape
	KindStroke
)

func (k Kind) String() string {
	switch k {
	case KindLayer:
		return "layer"
	case KindShape:
		return "shape"
	case KindStroke:
		return "stroke"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsContainer reports whether items of this kind hold other items.
func (k Kind) IsContainer() bool { return k == KindLayer }

// IsDrawable reports whether items of this kind are rendered.
func (k Kind) IsDrawable() bool { return k == KindShape || k == KindStroke }

// IsStroke reports whether items of this kind are paint strokes.
func (k Kind) IsStroke() bool { return k == KindStroke }

// Item holds the state shared by layers, shapes and strokes.
//
// The parent is stored as an id. Only the owning [Context] can resolve it,
// and items never own their parents.
type Item struct {
	mu sync.RWMutex

	id     uuid.UUID
	kind   Kind
	ctx    *Context
	parent uuid.UUID // uuid.Nil for the root layer

	name      string // script name, unique within the context
	label     string
	activated bool
	locked    bool
}

// Node is implemented by all item types.
type Node interface {
	base() *Item
}

func (it *Item) base() *Item { return it }

// ID returns the unique id of the item.
func (it *Item) ID() uuid.UUID { return it.id }

// Kind returns the kind tag of the item.
func (it *Item) Kind() Kind { return it.kind }

// Context returns the context which owns the item.
func (it *Item) Context() *Context { return it.ctx }

// ParentID returns the id of the parent layer, or [uuid.Nil] for the root
// layer.
func (it *Item) ParentID() uuid.UUID {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.parent
}

// Name returns the script name of the item.
func (it *Item) Name() string {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.name
}

// Label returns the user-visible label of the item.
func (it *Item) Label() string {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.label
}

// IsGloballyActivated reports the activation flag of this item alone,
// without looking at the parent layers.
func (it *Item) IsGloballyActivated() bool {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.activated
}

// IsLocked reports whether the item itself is locked for editing.
func (it *Item) IsLocked() bool {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.locked
}

// RLock acquires the read lock of the item. Renders hold it while they
// take a snapshot of the item state.
func (it *Item) RLock() { it.mu.RLock() }

// RUnlock releases the read lock of the item.
func (it *Item) RUnlock() { it.mu.RUnlock() }

// Layer is an ordered container of items. Later children are drawn on
// top of earlier ones.
type Layer struct {
	Item

	children []uuid.UUID
}

// Children returns the ids of the child items, in drawing order.
func (l *Layer) Children() []uuid.UUID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]uuid.UUID(nil), l.children...)
}

func (l *Layer) indexOf(id uuid.UUID) int {
	for i, c := range l.children {
		if c == id {
			return i
		}
	}
	return -1
}
