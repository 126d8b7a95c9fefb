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
	"fmt"
	"time"

	"github.com/tochemey/historian/errors"
	"github.com/tochemey/historian/internal/xsync"
	"github.com/tochemey/historian/item"
)

// IntervalFilter rejects stores of an item that happen less than a fixed
// duration after the previous admitted store of that item. The first
// store of an item always passes. Bookkeeping is per item and updated
// only when a store was actually performed.
type IntervalFilter struct {
	name     string
	duration time.Duration
	next     *xsync.Map[string, time.Time]
	clock    func() time.Time
}

// enforce compilation error
var _ Filter = (*IntervalFilter)(nil)

// IntervalFilterOption configures an IntervalFilter
type IntervalFilterOption func(*IntervalFilter)

// WithIntervalClock overrides the wall clock. Used in tests.
func WithIntervalClock(clock func() time.Time) IntervalFilterOption {
	return func(f *IntervalFilter) {
		f.clock = clock
	}
}

// NewIntervalFilter creates an IntervalFilter enforcing a minimum gap of
// value units between stores of the same item. Valid units are "s", "m",
// "h" and "d"; an empty unit means seconds.
func NewIntervalFilter(name string, value uint, unit string, opts ...IntervalFilterOption) (*IntervalFilter, error) {
	var base time.Duration
	switch unit {
	case "", "s":
		base = time.Second
	case "m":
		base = time.Minute
	case "h":
		base = time.Hour
	case "d":
		base = 24 * time.Hour
	default:
		return nil, fmt.Errorf("%w: unknown interval unit %q for filter %s", errors.ErrInvalidConfiguration, unit, name)
	}

	filter := &IntervalFilter{
		name:     name,
		duration: time.Duration(value) * base,
		next:     xsync.NewMap[string, time.Time](),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(filter)
	}
	return filter, nil
}

// Name returns the configured filter name
func (f *IntervalFilter) Name() string {
	return f.name
}

// Duration returns the minimum gap between admitted stores
func (f *IntervalFilter) Duration() time.Duration {
	return f.duration
}

// Apply reports whether enough time has passed since the last admitted
// store of the item
func (f *IntervalFilter) Apply(it *item.Item) bool {
	next, ok := f.next.Get(it.Name())
	if !ok {
		return true
	}
	return !f.clock().Before(next)
}

// Persisted records the instant before which further stores of the item
// are rejected
func (f *IntervalFilter) Persisted(it *item.Item) {
	f.next.Set(it.Name(), f.clock().Add(f.duration))
}
