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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/historian/errors"
	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/state"
)

func TestIntervalFilter(t *testing.T) {
	t.Run("With first store passing", func(t *testing.T) {
		filter, err := NewIntervalFilter("throttle", 5, "m")
		require.NoError(t, err)
		it := item.New("Temperature")
		it.SetStateSilently(state.NewDecimalFromInt(1))
		assert.True(t, filter.Apply(it))
	})
	t.Run("With stores inside the interval rejected", func(t *testing.T) {
		now := time.Now()
		clock := now
		filter, err := NewIntervalFilter("throttle", 5, "m", WithIntervalClock(func() time.Time { return clock }))
		require.NoError(t, err)

		it := item.New("Temperature")
		it.SetStateSilently(state.NewDecimalFromInt(1))
		require.True(t, filter.Apply(it))
		filter.Persisted(it)

		clock = now.Add(time.Second)
		assert.False(t, filter.Apply(it))

		clock = now.Add(5*time.Minute - time.Nanosecond)
		assert.False(t, filter.Apply(it))

		// the boundary itself passes
		clock = now.Add(5 * time.Minute)
		assert.True(t, filter.Apply(it))
	})
	t.Run("With bookkeeping only updated on persisted", func(t *testing.T) {
		now := time.Now()
		clock := now
		filter, err := NewIntervalFilter("throttle", 5, "m", WithIntervalClock(func() time.Time { return clock }))
		require.NoError(t, err)

		it := item.New("Temperature")
		it.SetStateSilently(state.NewDecimalFromInt(1))

		// repeated Apply without Persisted keeps passing
		require.True(t, filter.Apply(it))
		require.True(t, filter.Apply(it))

		filter.Persisted(it)
		clock = now.Add(time.Minute)
		assert.False(t, filter.Apply(it))
	})
	t.Run("With independent items", func(t *testing.T) {
		now := time.Now()
		clock := now
		filter, err := NewIntervalFilter("throttle", 5, "m", WithIntervalClock(func() time.Time { return clock }))
		require.NoError(t, err)

		first := item.New("Temperature")
		second := item.New("Humidity")
		filter.Persisted(first)

		clock = now.Add(time.Minute)
		assert.False(t, filter.Apply(first))
		assert.True(t, filter.Apply(second))
	})
	t.Run("With supported units", func(t *testing.T) {
		for unit, expected := range map[string]time.Duration{
			"":  2 * time.Second,
			"s": 2 * time.Second,
			"m": 2 * time.Minute,
			"h": 2 * time.Hour,
			"d": 48 * time.Hour,
		} {
			filter, err := NewIntervalFilter("throttle", 2, unit)
			require.NoError(t, err)
			assert.Equal(t, expected, filter.Duration())
		}
	})
	t.Run("With unknown unit", func(t *testing.T) {
		filter, err := NewIntervalFilter("throttle", 2, "weeks")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfiguration)
		assert.Nil(t, filter)
	})
	t.Run("With name", func(t *testing.T) {
		filter, err := NewIntervalFilter("throttle", 1, "s")
		require.NoError(t, err)
		assert.Equal(t, "throttle", filter.Name())
	})
}
