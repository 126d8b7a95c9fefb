// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package item holds the live side of the system: named stateful items, the
// listeners observing their state writes, and the registry enumerating them.
package item

import (
	"slices"
	"sync"

	"github.com/tochemey/historian/state"
)

// StateListener receives live state writes on an item. A write that
// transitions the item to a different value is delivered as StateChanged; a
// write that re-sends the current value unchanged is delivered as
// StateUpdated. The two never fire for the same write.
type StateListener interface {
	// StateChanged is invoked after the item transitioned from oldState to
	// newState.
	StateChanged(it *Item, oldState, newState state.State)
	// StateUpdated is invoked after the item's current value was re-sent
	// unchanged.
	StateUpdated(it *Item, current state.State)
}

// Item is a named stateful entity whose writes are observed by attached
// state listeners. Items start out with the Undefined state and may belong
// to any number of groups.
type Item struct {
	mu        sync.RWMutex
	name      string
	groups    []string
	current   state.State
	listeners []StateListener
}

// New creates an item carrying the Undefined state. The optional group names
// declare which groups the item belongs to.
func New(name string, groups ...string) *Item {
	return &Item{
		name:    name,
		groups:  slices.Clone(groups),
		current: state.Undefined,
	}
}

// Name returns the unique item name.
func (x *Item) Name() string {
	return x.name
}

// Groups returns the names of the groups the item belongs to.
func (x *Item) Groups() []string {
	x.mu.RLock()
	groups := slices.Clone(x.groups)
	x.mu.RUnlock()
	return groups
}

// MemberOf reports whether the item belongs to the named group.
func (x *Item) MemberOf(group string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Contains(x.groups, group)
}

// State returns the current state.
func (x *Item) State() state.State {
	x.mu.RLock()
	current := x.current
	x.mu.RUnlock()
	return current
}

// SetState writes the given state and notifies the attached listeners.
// Listeners are invoked outside the item lock with a snapshot taken at write
// time.
func (x *Item) SetState(st state.State) {
	x.mu.Lock()
	previous := x.current
	x.current = st
	listeners := slices.Clone(x.listeners)
	x.mu.Unlock()

	if previous.Equal(st) {
		for _, listener := range listeners {
			listener.StateUpdated(x, st)
		}
		return
	}
	for _, listener := range listeners {
		listener.StateChanged(x, previous, st)
	}
}

// SetStateSilently writes the given state without notifying any listener.
// Used when replaying recorded history into the live state, where a
// notification would re-trigger a store of the value just read.
func (x *Item) SetStateSilently(st state.State) {
	x.mu.Lock()
	x.current = st
	x.mu.Unlock()
}

// SetStateIfUndefined writes the given state without notifying any listener,
// but only while the item still carries the Undefined state. The check and
// the write are a single atomic step, so a concurrent SetState either lands
// before (and wins) or after (and overwrites). It reports whether the write
// happened.
func (x *Item) SetStateIfUndefined(st state.State) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !state.IsUndefined(x.current) {
		return false
	}
	x.current = st
	return true
}

// AttachListener registers the given state listener. Attaching the same
// listener twice delivers every write twice.
func (x *Item) AttachListener(listener StateListener) {
	x.mu.Lock()
	x.listeners = append(x.listeners, listener)
	x.mu.Unlock()
}

// DetachListener removes the given state listener. Unknown listeners are
// ignored.
func (x *Item) DetachListener(listener StateListener) {
	x.mu.Lock()
	for i, attached := range x.listeners {
		if attached == listener {
			x.listeners = slices.Delete(x.listeners, i, i+1)
			break
		}
	}
	x.mu.Unlock()
}
