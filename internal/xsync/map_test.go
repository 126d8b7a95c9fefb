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

package xsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("With set and get", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)

		value, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, value)

		_, ok = m.Get("missing")
		assert.False(t, ok)
		assert.Equal(t, 2, m.Len())
	})
	t.Run("With overwrite", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("a", 10)

		value, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 10, value)
		assert.Equal(t, 1, m.Len())
	})
	t.Run("With delete", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Delete("a")
		m.Delete("missing")

		_, ok := m.Get("a")
		assert.False(t, ok)
		assert.Zero(t, m.Len())
	})
	t.Run("With get and delete", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)

		value, ok := m.GetAndDelete("a")
		require.True(t, ok)
		assert.Equal(t, 1, value)

		_, ok = m.GetAndDelete("a")
		assert.False(t, ok)
	})
	t.Run("With range keys and values", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)

		total := 0
		m.Range(func(_ string, value int) {
			total += value
		})
		assert.Equal(t, 3, total)
		assert.ElementsMatch(t, []string{"a", "b"}, m.Keys())
		assert.ElementsMatch(t, []int{1, 2}, m.Values())
	})
	t.Run("With reset", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Reset()
		assert.Zero(t, m.Len())
	})
}
