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

package item

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/tochemey/historian/errors"
)

// RegistryListener receives item lifecycle notifications from a Registry.
type RegistryListener interface {
	// ItemAdded is invoked after a new item was registered.
	ItemAdded(it *Item)
	// ItemRemoved is invoked after an item was deregistered.
	ItemRemoved(it *Item)
	// ItemReplaced is invoked after an item definition was swapped for a new
	// one under the same name.
	ItemReplaced(previous, updated *Item)
}

// Registry holds the set of known items. Lookups resolve against the live
// set; group membership is evaluated on demand and never cached.
type Registry interface {
	// Register adds a new item. It fails with ErrItemAlreadyRegistered when
	// the name is taken.
	Register(it *Item) error
	// Deregister removes the named item and returns it. It fails with
	// ErrItemNotFound when the name is unknown.
	Deregister(name string) (*Item, error)
	// Replace swaps the registered item carrying the given item's name for
	// the given definition and returns the previous one. It fails with
	// ErrItemNotFound when the name is unknown.
	Replace(it *Item) (*Item, error)
	// Item resolves an item by name. It fails with ErrItemNotFound when the
	// name is unknown.
	Item(name string) (*Item, error)
	// Items returns a snapshot of all registered items sorted by name.
	Items() []*Item
	// GroupMembers returns the registered items belonging to the named
	// group, sorted by name.
	GroupMembers(group string) []*Item
	// AttachListener registers the given lifecycle listener.
	AttachListener(listener RegistryListener)
	// DetachListener removes the given lifecycle listener.
	DetachListener(listener RegistryListener)
}

type registry struct {
	mu        sync.RWMutex
	items     map[string]*Item
	listeners []RegistryListener
}

// enforce compilation error
var _ Registry = (*registry)(nil)

// NewRegistry creates an empty in-memory Registry.
func NewRegistry() Registry {
	return &registry{
		items: make(map[string]*Item),
	}
}

func (x *registry) Register(it *Item) error {
	x.mu.Lock()
	if _, exists := x.items[it.Name()]; exists {
		x.mu.Unlock()
		return fmt.Errorf("%w: %s", errors.ErrItemAlreadyRegistered, it.Name())
	}
	x.items[it.Name()] = it
	listeners := slices.Clone(x.listeners)
	x.mu.Unlock()

	for _, listener := range listeners {
		listener.ItemAdded(it)
	}
	return nil
}

func (x *registry) Deregister(name string) (*Item, error) {
	x.mu.Lock()
	it, exists := x.items[name]
	if !exists {
		x.mu.Unlock()
		return nil, errors.NewErrItemNotFound(name)
	}
	delete(x.items, name)
	listeners := slices.Clone(x.listeners)
	x.mu.Unlock()

	for _, listener := range listeners {
		listener.ItemRemoved(it)
	}
	return it, nil
}

func (x *registry) Replace(it *Item) (*Item, error) {
	x.mu.Lock()
	previous, exists := x.items[it.Name()]
	if !exists {
		x.mu.Unlock()
		return nil, errors.NewErrItemNotFound(it.Name())
	}
	x.items[it.Name()] = it
	listeners := slices.Clone(x.listeners)
	x.mu.Unlock()

	for _, listener := range listeners {
		listener.ItemReplaced(previous, it)
	}
	return previous, nil
}

func (x *registry) Item(name string) (*Item, error) {
	x.mu.RLock()
	it, exists := x.items[name]
	x.mu.RUnlock()
	if !exists {
		return nil, errors.NewErrItemNotFound(name)
	}
	return it, nil
}

func (x *registry) Items() []*Item {
	x.mu.RLock()
	items := make([]*Item, 0, len(x.items))
	for _, it := range x.items {
		items = append(items, it)
	}
	x.mu.RUnlock()

	slices.SortFunc(items, func(a, b *Item) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return items
}

func (x *registry) GroupMembers(group string) []*Item {
	members := make([]*Item, 0)
	for _, it := range x.Items() {
		if it.MemberOf(group) {
			members = append(members, it)
		}
	}
	return members
}

func (x *registry) AttachListener(listener RegistryListener) {
	x.mu.Lock()
	x.listeners = append(x.listeners, listener)
	x.mu.Unlock()
}

func (x *registry) DetachListener(listener RegistryListener) {
	x.mu.Lock()
	for i, attached := range x.listeners {
		if attached == listener {
			x.listeners = slices.Delete(x.listeners, i, i+1)
			break
		}
	}
	x.mu.Unlock()
}
