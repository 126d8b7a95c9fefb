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

// EqualsFilter admits states whose textual form is one of a fixed set of
// values. When inverted it admits every state except those.
type EqualsFilter struct {
	name     string
	values   goset.Set[string]
	inverted bool
}

// enforce compilation error
var _ Filter = (*EqualsFilter)(nil)

// EqualsFilterOption configures an EqualsFilter
type EqualsFilterOption func(*EqualsFilter)

// WithEqualsInverted admits every state except the configured values
func WithEqualsInverted() EqualsFilterOption {
	return func(f *EqualsFilter) {
		f.inverted = true
	}
}

// NewEqualsFilter creates an EqualsFilter admitting the given state values
func NewEqualsFilter(name string, values []string, opts ...EqualsFilterOption) *EqualsFilter {
	filter := &EqualsFilter{
		name:   name,
		values: goset.NewSet(values...),
	}
	for _, opt := range opts {
		opt(filter)
	}
	return filter
}

// Name returns the configured filter name
func (f *EqualsFilter) Name() string {
	return f.name
}

// Values returns the configured state values in no particular order
func (f *EqualsFilter) Values() []string {
	return f.values.ToSlice()
}

// Apply reports whether the item's current state is one of the admitted
// values
func (f *EqualsFilter) Apply(it *item.Item) bool {
	return f.values.Contains(it.State().String()) != f.inverted
}

// Persisted implements Filter. An equals filter keeps no per-item state.
func (f *EqualsFilter) Persisted(*item.Item) {
}
