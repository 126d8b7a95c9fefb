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
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/state"
)

func TestThresholdFilter(t *testing.T) {
	t.Run("With first store passing", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(5))
		it := item.New("Temperature")
		it.SetStateSilently(state.NewDecimalFromInt(20))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With absolute threshold", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(5))
		it := item.New("Temperature")

		it.SetStateSilently(state.NewDecimalFromInt(20))
		filter.Persisted(it)

		it.SetStateSilently(state.NewDecimalFromInt(24))
		assert.False(t, filter.Apply(it))

		it.SetStateSilently(state.NewDecimalFromInt(25))
		assert.True(t, filter.Apply(it))

		// moves in either direction count
		it.SetStateSilently(state.NewDecimalFromInt(15))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With relative threshold", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(10), WithThresholdRelative())
		it := item.New("Power")

		it.SetStateSilently(state.NewDecimalFromInt(200))
		filter.Persisted(it)

		// 19 of 200 is below ten percent
		it.SetStateSilently(state.NewDecimalFromInt(219))
		assert.False(t, filter.Apply(it))

		it.SetStateSilently(state.NewDecimalFromInt(220))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With relative threshold from zero", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(10), WithThresholdRelative())
		it := item.New("Power")

		it.SetStateSilently(state.NewDecimalFromInt(0))
		filter.Persisted(it)

		it.SetStateSilently(state.NewDecimalFromInt(0))
		assert.False(t, filter.Apply(it))

		it.SetStateSilently(state.NewDecimalFromInt(1))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With quantity converted to the filter unit", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(5), WithThresholdUnit(state.Celsius))
		it := item.New("Temperature")

		it.SetStateSilently(state.NewQuantityFromFloat(20, state.Celsius))
		filter.Persisted(it)

		// 75.2 °F is 24 °C
		it.SetStateSilently(state.NewQuantityFromFloat(75.2, state.Fahrenheit))
		assert.False(t, filter.Apply(it))

		// 77 °F is 25 °C
		it.SetStateSilently(state.NewQuantityFromFloat(77, state.Fahrenheit))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With non numeric state passing", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(5))
		it := item.New("Mode")
		it.SetStateSilently(state.NewText("AUTO"))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With bookkeeping only on persisted", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(5))
		it := item.New("Temperature")

		it.SetStateSilently(state.NewDecimalFromInt(20))
		filter.Persisted(it)

		// repeated rejections keep measuring against the persisted value
		it.SetStateSilently(state.NewDecimalFromInt(22))
		assert.False(t, filter.Apply(it))

		it.SetStateSilently(state.NewDecimalFromInt(24))
		assert.False(t, filter.Apply(it))

		it.SetStateSilently(state.NewDecimalFromInt(25))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With name", func(t *testing.T) {
		filter := NewThresholdFilter("delta", decimal.NewFromInt(5))
		assert.Equal(t, "delta", filter.Name())
	})
}
