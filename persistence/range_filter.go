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
	"github.com/shopspring/decimal"

	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/log"
	"github.com/tochemey/historian/state"
)

// RangeFilter admits numeric states inside the inclusive range
// [lower, upper]. When inverted it admits values at or outside the
// bounds instead. Non-numeric states always pass, and a quantity that
// cannot be converted to the configured unit passes as well.
type RangeFilter struct {
	name     string
	lower    decimal.Decimal
	upper    decimal.Decimal
	unit     state.Unit
	inverted bool
	logger   log.Logger
}

// enforce compilation error
var _ Filter = (*RangeFilter)(nil)

// RangeFilterOption configures a RangeFilter
type RangeFilterOption func(*RangeFilter)

// WithRangeUnit sets the unit quantity states are converted to before
// comparison
func WithRangeUnit(unit state.Unit) RangeFilterOption {
	return func(f *RangeFilter) {
		f.unit = unit
	}
}

// WithRangeInverted admits values at or outside the bounds instead of
// inside them
func WithRangeInverted() RangeFilterOption {
	return func(f *RangeFilter) {
		f.inverted = true
	}
}

// WithRangeLogger sets the filter logger
func WithRangeLogger(logger log.Logger) RangeFilterOption {
	return func(f *RangeFilter) {
		f.logger = logger
	}
}

// NewRangeFilter creates a RangeFilter admitting values in [lower, upper]
func NewRangeFilter(name string, lower, upper decimal.Decimal, opts ...RangeFilterOption) *RangeFilter {
	filter := &RangeFilter{
		name:   name,
		lower:  lower,
		upper:  upper,
		logger: log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(filter)
	}
	return filter
}

// Name returns the configured filter name
func (f *RangeFilter) Name() string {
	return f.name
}

// Apply reports whether the item's current state lies in the admitted range
func (f *RangeFilter) Apply(it *item.Item) bool {
	var value decimal.Decimal
	switch st := it.State().(type) {
	case state.Decimal:
		value = st.Value()
	case state.Quantity:
		if f.unit != "" && st.Unit() != f.unit {
			converted, err := st.ToUnit(f.unit)
			if err != nil {
				f.logger.Warnf("range filter %s cannot convert %s of item %s to %s: %v", f.name, st.String(), it.Name(), f.unit, err)
				return true
			}
			st = converted
		}
		value = st.Value()
	default:
		// only numeric states are range checked
		return true
	}

	if f.inverted {
		return value.LessThanOrEqual(f.lower) || value.GreaterThanOrEqual(f.upper)
	}
	return value.GreaterThanOrEqual(f.lower) && value.LessThanOrEqual(f.upper)
}

// Persisted implements Filter. A range filter keeps no per-item state.
func (f *RangeFilter) Persisted(*item.Item) {
}
