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
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"seehuhn.de/go/roto/bezier"
	"seehuhn.de/go/roto/internal/logging"
	"seehuhn.de/go/roto/paint"
)

var (
	// ErrLocked is returned when editing an item which is locked, or
	// which is inside a locked layer.
	ErrLocked = errors.New("item is locked")

	// ErrNameInUse is returned when renaming an item to a script name
	// which is used by another item of the same context.
	ErrNameInUse = errors.New("name already in use")
)

// Context owns a tree of items, with a root layer at the top.
//
// All edits go through the context, which serializes them with the
// context lock and increments the age after every change. Renders only
// take the read locks of the items they draw, so that edits to one item
// do not block renders of other items.
type Context struct {
	mu    sync.Mutex
	items map[uuid.UUID]Node
	names map[string]uuid.UUID
	seq   map[string]int // per-prefix counters for generated names
	root  *Layer

	blurMode   BlurMode
	globalBlur MotionBlur

	age atomic.Uint64 // only incremented with mu held

	barrier barrier
}

// NewContext returns a context containing only an empty root layer.
func NewContext() *Context {
	c := &Context{
		items:      make(map[uuid.UUID]Node),
		names:      make(map[string]uuid.UUID),
		seq:        make(map[string]int),
		globalBlur: DefaultMotionBlur(),
	}
	c.barrier.init()
	c.root = &Layer{}
	c.initItem(&c.root.Item, KindLayer, uuid.Nil, "Layer")
	return c
}

// initItem registers a new item. The caller must hold c.mu, or be the
// only user of c.
func (c *Context) initItem(it *Item, kind Kind, parent uuid.UUID, prefix string) {
	it.id = uuid.New()
	it.kind = kind
	it.ctx = c
	it.parent = parent
	it.activated = true
	it.name = c.uniqueName(prefix)
	it.label = it.name
	c.names[it.name] = it.id
}

func (c *Context) uniqueName(prefix string) string {
	for {
		c.seq[prefix]++
		name := fmt.Sprintf("%s%d", prefix, c.seq[prefix])
		if _, used := c.names[name]; !used {
			return name
		}
	}
}

// Age returns a token which changes whenever an item of the context is
// modified. Callers may only compare ages for equality.
func (c *Context) Age() uint64 {
	return c.age.Load()
}

func (c *Context) bumpAge() {
	c.age.Add(1)
}

// Root returns the root layer.
func (c *Context) Root() *Layer {
	return c.root
}

// Lookup returns the item with the given id, or nil if there is none.
func (c *Context) Lookup(id uuid.UUID) Node {
	if id == c.root.id {
		return c.root
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[id]
}

// ByName returns the item with the given script name, or nil.
func (c *Context) ByName(name string) Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.names[name]
	if !ok {
		return nil
	}
	if id == c.root.id {
		return c.root
	}
	return c.items[id]
}

// layerOf resolves a parent layer. A nil layer means the root layer.
// The caller must hold c.mu.
func (c *Context) layerOf(l *Layer) *Layer {
	if l == nil {
		return c.root
	}
	if l.ctx != c {
		panic("roto: layer belongs to a different context")
	}
	return l
}

func (c *Context) attach(n Node, parent *Layer) {
	it := n.base()
	c.items[it.id] = n
	parent.mu.Lock()
	parent.children = append(parent.children, it.id)
	parent.mu.Unlock()
	c.bumpAge()
	logging.Logger().Debug("roto: item added", "kind", it.kind, "name", it.name)
}

// NewLayer adds an empty layer at the top of parent. A nil parent means
// the root layer.
func (c *Context) NewLayer(parent *Layer) *Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	parent = c.layerOf(parent)
	l := &Layer{}
	c.initItem(&l.Item, KindLayer, parent.id, "Layer")
	c.attach(l, parent)
	return l
}

// NewShape adds an empty shape at the top of parent. If open is set, the
// shape is an open curve which is drawn with the brush instead of being
// filled.
func (c *Context) NewShape(parent *Layer, open bool) *Shape {
	c.mu.Lock()
	defer c.mu.Unlock()
	parent = c.layerOf(parent)
	s := &Shape{
		Drawable: newDrawable(),
		curve:    bezier.New(open),
	}
	prefix := "Bezier"
	if open {
		prefix = "OpenBezier"
	}
	c.initItem(&s.Item, KindShape, parent.id, prefix)
	c.attach(s, parent)
	return s
}

// NewStroke adds an empty paint stroke at the top of parent.
func (c *Context) NewStroke(parent *Layer, tool paint.Tool) *Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	parent = c.layerOf(parent)
	s := &Stroke{
		Drawable: newDrawable(),
		tool:     tool,
	}
	s.Operator = tool.Operator(s.Operator)
	c.initItem(&s.Item, KindStroke, parent.id, toolPrefix(tool))
	c.attach(s, parent)
	return s
}

func toolPrefix(tool paint.Tool) string {
	name := tool.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Remove deletes the item and, for layers, everything inside it.
// The root layer cannot be removed. Remove reports whether an item was
// deleted.
func (c *Context) Remove(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.items[id]
	if !ok {
		return false
	}
	if parent := c.parentOf(n.base()); parent != nil {
		c.unlink(parent, id)
	}
	c.forget(n)
	c.bumpAge()
	return true
}

func (c *Context) unlink(parent *Layer, id uuid.UUID) {
	parent.mu.Lock()
	defer parent.mu.Unlock()
	if i := parent.indexOf(id); i >= 0 {
		parent.children = append(parent.children[:i], parent.children[i+1:]...)
	}
}

func (c *Context) forget(n Node) {
	it := n.base()
	if l, ok := n.(*Layer); ok {
		for _, child := range l.children {
			if cn, ok := c.items[child]; ok {
				c.forget(cn)
			}
		}
	}
	delete(c.items, it.id)
	delete(c.names, it.name)
}

// parentOf returns the parent layer of it, or nil for the root layer.
// The caller must hold c.mu.
func (c *Context) parentOf(it *Item) *Layer {
	if it.parent == uuid.Nil {
		return nil
	}
	if it.parent == c.root.id {
		return c.root
	}
	l, _ := c.items[it.parent].(*Layer)
	return l
}

// lockedLocked reports whether it or one of its ancestors is locked.
// The caller must hold c.mu.
func (c *Context) lockedLocked(it *Item) bool {
	for cur := it; cur != nil; {
		if cur.IsLocked() {
			return true
		}
		p := c.parentOf(cur)
		if p == nil {
			break
		}
		cur = &p.Item
	}
	return false
}

// IsLockedRecursive reports whether the item or one of its parent layers
// is locked.
func (c *Context) IsLockedRecursive(n Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockedLocked(n.base())
}

// Edit runs fn with exclusive access to the item n and increments the
// age of the context. Edits of locked items fail with [ErrLocked].
//
// If n is a stroke, its dot cache is invalidated. The function fn must not
// call methods of the context.
func (c *Context) Edit(n Node, fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := n.base()
	if c.lockedLocked(it) {
		return fmt.Errorf("%s: %w", it.name, ErrLocked)
	}
	c.editLocked(it, fn)
	if s, ok := n.(*Stroke); ok {
		s.cache.Invalidate()
	}
	return nil
}

func (c *Context) editLocked(it *Item, fn func()) {
	it.mu.Lock()
	fn()
	it.mu.Unlock()
	c.bumpAge()
}

// SetName changes the script name of an item.
func (c *Context) SetName(n Node, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := n.base()
	if id, used := c.names[name]; used && id != it.id {
		return fmt.Errorf("%q: %w", name, ErrNameInUse)
	}
	c.editLocked(it, func() {
		delete(c.names, it.name)
		it.name = name
		c.names[name] = it.id
	})
	return nil
}

// SetLabel changes the user-visible label of an item.
func (c *Context) SetLabel(n Node, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := n.base()
	c.editLocked(it, func() { it.label = label })
}

// SetGloballyActivated enables or disables an item. Disabling a layer
// disables everything inside it.
func (c *Context) SetGloballyActivated(n Node, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := n.base()
	c.editLocked(it, func() { it.activated = active })
}

// SetLocked locks or unlocks an item for editing. This works on locked
// items, too.
func (c *Context) SetLocked(n Node, locked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := n.base()
	c.editLocked(it, func() { it.locked = locked })
}

// IsActivated reports whether the drawable item is rendered at time t.
// This is false if the item or one of its parent layers is globally
// deactivated, and otherwise determined by the life time of the item.
func (c *Context) IsActivated(n DrawableItem, t float64) bool {
	c.mu.Lock()
	for cur := n.base(); cur != nil; {
		if !cur.IsGloballyActivated() {
			c.mu.Unlock()
			return false
		}
		p := c.parentOf(cur)
		if p == nil {
			break
		}
		cur = &p.Item
	}
	c.mu.Unlock()

	it := n.base()
	it.mu.RLock()
	defer it.mu.RUnlock()
	return n.drawable().activeAt(t)
}

// Drawables returns all shapes and strokes in drawing order: a depth-first
// walk of the layer tree, with later children on top.
func (c *Context) Drawables() []DrawableItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	var res []DrawableItem
	var walk func(l *Layer)
	walk = func(l *Layer) {
		for _, id := range l.Children() {
			switch n := c.items[id].(type) {
			case *Layer:
				walk(n)
			case DrawableItem:
				res = append(res, n)
			}
		}
	}
	walk(c.root)
	return res
}

// SetMotionBlur sets the motion-blur mode and the settings used in
// [BlurGlobal] mode.
func (c *Context) SetMotionBlur(mode BlurMode, mb MotionBlur) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blurMode = mode
	c.globalBlur = mb
	c.bumpAge()
}

// MotionBlur returns the motion-blur mode and the global settings.
func (c *Context) MotionBlur() (BlurMode, MotionBlur) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blurMode, c.globalBlur
}
