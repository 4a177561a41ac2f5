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
	"sync"

	"seehuhn.de/go/roto/internal/logging"
)

// barrier lets a neat render wait for ordinary renders to drain.
//
// A neat render sets must, then waits until no other neat render is
// running and no ordinary render is in flight. Ordinary renders which
// start while must or doing is set yield instead of running.
type barrier struct {
	mu   sync.Mutex
	cond *sync.Cond

	doing    bool // a neat render is running
	must     bool // a neat render is waiting to start
	waiting  int  // number of neat renders waiting
	inflight int  // number of ordinary renders running
}

func (b *barrier) init() {
	b.cond = sync.NewCond(&b.mu)
}

// BeginRender registers an ordinary render. It returns false if a neat
// render is pending or running; in this case the caller must not render
// and must not call [Context.EndRender].
func (c *Context) BeginRender() bool {
	b := &c.barrier
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.must || b.doing {
		return false
	}
	b.inflight++
	return true
}

// EndRender marks the end of an ordinary render started by a successful
// call to [Context.BeginRender].
func (c *Context) EndRender() {
	b := &c.barrier
	b.mu.Lock()
	b.inflight--
	if b.inflight < 0 {
		b.mu.Unlock()
		panic("roto: EndRender without BeginRender")
	}
	b.mu.Unlock()
	b.cond.Broadcast()
}

// BeginNeatRender blocks until all ordinary renders and all earlier neat
// renders have finished. New ordinary renders yield from the moment this
// method is called until the matching [Context.EndNeatRender].
func (c *Context) BeginNeatRender() {
	b := &c.barrier
	b.mu.Lock()
	defer b.mu.Unlock()

	b.waiting++
	b.must = true
	for b.doing || b.inflight > 0 {
		logging.Logger().Debug("roto: neat render waiting",
			"inflight", b.inflight, "doing", b.doing)
		b.cond.Wait()
	}
	b.waiting--
	b.must = b.waiting > 0
	b.doing = true
}

// EndNeatRender marks the end of a neat render.
func (c *Context) EndNeatRender() {
	b := &c.barrier
	b.mu.Lock()
	b.doing = false
	b.mu.Unlock()
	b.cond.Broadcast()
}

// IsDoingNeatRender reports whether a neat render is running.
func (c *Context) IsDoingNeatRender() bool {
	b := &c.barrier
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doing
}

// MustDoNeatRender reports whether a neat render is waiting to start.
func (c *Context) MustDoNeatRender() bool {
	b := &c.barrier
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.must
}
