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

package persistence

import (
	goset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/historian/item"
)

// ItemSelector selects the items an ItemConfiguration applies to.
// Selection is evaluated against the live registry every time, so items
// added to a group after configuration are picked up without any
// rebuild.
type ItemSelector interface {
	// Matches reports whether the selector currently selects the item
	Matches(it *item.Item, registry item.Registry) bool
	// Resolve returns the names of the items currently selected
	Resolve(registry item.Registry) goset.Set[string]
	// String returns the selector in configuration syntax
	String() string
}

type allItemsSelector struct{}

// enforce compilation error
var _ ItemSelector = allItemsSelector{}

// SelectAll returns a selector matching every registered item
func SelectAll() ItemSelector {
	return allItemsSelector{}
}

func (allItemsSelector) Matches(*item.Item, item.Registry) bool {
	return true
}

func (allItemsSelector) Resolve(registry item.Registry) goset.Set[string] {
	names := goset.NewSet[string]()
	for _, it := range registry.Items() {
		names.Add(it.Name())
	}
	return names
}

func (allItemsSelector) String() string {
	return "*"
}

type namedItemSelector struct {
	name string
}

// enforce compilation error
var _ ItemSelector = namedItemSelector{}

// SelectItem returns a selector matching the single named item
func SelectItem(name string) ItemSelector {
	return namedItemSelector{name: name}
}

func (s namedItemSelector) Matches(it *item.Item, _ item.Registry) bool {
	return it.Name() == s.name
}

func (s namedItemSelector) Resolve(registry item.Registry) goset.Set[string] {
	names := goset.NewSet[string]()
	if _, err := registry.Item(s.name); err == nil {
		names.Add(s.name)
	}
	return names
}

func (s namedItemSelector) String() string {
	return s.name
}

type groupItemSelector struct {
	group string
}

// enforce compilation error
var _ ItemSelector = groupItemSelector{}

// SelectGroup returns a selector matching every item that is a member of
// the named group
func SelectGroup(group string) ItemSelector {
	return groupItemSelector{group: group}
}

func (s groupItemSelector) Matches(it *item.Item, _ item.Registry) bool {
	return it.MemberOf(s.group)
}

func (s groupItemSelector) Resolve(registry item.Registry) goset.Set[string] {
	names := goset.NewSet[string]()
	for _, it := range registry.GroupMembers(s.group) {
		names.Add(it.Name())
	}
	return names
}

func (s groupItemSelector) String() string {
	return s.group + "*"
}
