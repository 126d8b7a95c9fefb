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

	"github.com/tochemey/historian/internal/xsync"
	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/log"
	"github.com/tochemey/historian/state"
)

var hundred = decimal.NewFromInt(100)

// ThresholdFilter admits a numeric state only when it differs from the
// last admitted value of the same item by at least the configured
// threshold. In relative mode the threshold is a percentage of the last
// admitted value. The first store of an item always passes, and so does
// every non-numeric state.
type ThresholdFilter struct {
	name      string
	threshold decimal.Decimal
	unit      state.Unit
	relative  bool
	last      *xsync.Map[string, decimal.Decimal]
	logger    log.Logger
}

// enforce compilation error
var _ Filter = (*ThresholdFilter)(nil)

// ThresholdFilterOption configures a ThresholdFilter
type ThresholdFilterOption func(*ThresholdFilter)

// WithThresholdUnit sets the unit quantity states are converted to before
// comparison. Ignored in relative mode.
func WithThresholdUnit(unit state.Unit) ThresholdFilterOption {
	return func(f *ThresholdFilter) {
		f.unit = unit
	}
}

// WithThresholdRelative makes the threshold a percentage of the last
// admitted value instead of an absolute difference
func WithThresholdRelative() ThresholdFilterOption {
	return func(f *ThresholdFilter) {
		f.relative = true
	}
}

// WithThresholdLogger sets the filter logger
func WithThresholdLogger(logger log.Logger) ThresholdFilterOption {
	return func(f *ThresholdFilter) {
		f.logger = logger
	}
}

// NewThresholdFilter creates a ThresholdFilter admitting values that moved
// at least threshold away from the last admitted value
func NewThresholdFilter(name string, threshold decimal.Decimal, opts ...ThresholdFilterOption) *ThresholdFilter {
	filter := &ThresholdFilter{
		name:      name,
		threshold: threshold,
		last:      xsync.NewMap[string, decimal.Decimal](),
		logger:    log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(filter)
	}
	return filter
}

// Name returns the configured filter name
func (f *ThresholdFilter) Name() string {
	return f.name
}

// Apply reports whether the item's current state moved far enough from the
// last admitted value
func (f *ThresholdFilter) Apply(it *item.Item) bool {
	value, ok := f.numericValue(it)
	if !ok {
		return true
	}

	last, ok := f.last.Get(it.Name())
	if !ok {
		return true
	}

	delta := value.Sub(last).Abs()
	if f.relative {
		if last.IsZero() {
			// any move away from zero is an infinite relative change
			return !delta.IsZero()
		}
		delta = delta.Mul(hundred).Div(last.Abs())
	}
	return delta.GreaterThanOrEqual(f.threshold)
}

// Persisted records the admitted value the next store is measured against
func (f *ThresholdFilter) Persisted(it *item.Item) {
	if value, ok := f.numericValue(it); ok {
		f.last.Set(it.Name(), value)
	}
}

func (f *ThresholdFilter) numericValue(it *item.Item) (decimal.Decimal, bool) {
	switch st := it.State().(type) {
	case state.Decimal:
		return st.Value(), true
	case state.Quantity:
		if !f.relative && f.unit != "" && st.Unit() != f.unit {
			converted, err := st.ToUnit(f.unit)
			if err != nil {
				f.logger.Warnf("threshold filter %s cannot convert %s of item %s to %s: %v", f.name, st.String(), it.Name(), f.unit, err)
				return decimal.Decimal{}, false
			}
			st = converted
		}
		return st.Value(), true
	default:
		// only numeric states are threshold checked
		return decimal.Decimal{}, false
	}
}
