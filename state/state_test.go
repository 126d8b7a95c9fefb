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

package state

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndefined(t *testing.T) {
	t.Run("With string form", func(t *testing.T) {
		assert.Equal(t, "UNDEF", Undefined.String())
	})
	t.Run("With equality", func(t *testing.T) {
		assert.True(t, Undefined.Equal(Undefined))
		assert.False(t, Undefined.Equal(NewText("UNDEF")))
	})
	t.Run("With IsUndefined", func(t *testing.T) {
		assert.True(t, IsUndefined(nil))
		assert.True(t, IsUndefined(Undefined))
		assert.False(t, IsUndefined(NewText("on")))
		assert.False(t, IsUndefined(NewDecimalFromInt(0)))
	})
}

func TestText(t *testing.T) {
	t.Run("With value and string form", func(t *testing.T) {
		st := NewText("heating on")
		assert.Equal(t, "heating on", st.Value())
		assert.Equal(t, "heating on", st.String())
	})
	t.Run("With equality", func(t *testing.T) {
		assert.True(t, NewText("on").Equal(NewText("on")))
		assert.False(t, NewText("on").Equal(NewText("off")))
		assert.False(t, NewText("1").Equal(NewDecimalFromInt(1)))
	})
}

func TestDecimal(t *testing.T) {
	t.Run("With constructors", func(t *testing.T) {
		assert.Equal(t, "42", NewDecimalFromInt(42).String())
		assert.Equal(t, "1.5", NewDecimalFromFloat(1.5).String())
		assert.Equal(t, "23.5", NewDecimal(decimal.RequireFromString("23.5")).String())
	})
	t.Run("With parse", func(t *testing.T) {
		st, err := ParseDecimal("19.75")
		require.NoError(t, err)
		assert.Equal(t, "19.75", st.String())

		_, err = ParseDecimal("not a number")
		require.Error(t, err)
	})
	t.Run("With equality ignoring trailing zeros", func(t *testing.T) {
		left, err := ParseDecimal("1.50")
		require.NoError(t, err)
		assert.True(t, left.Equal(NewDecimalFromFloat(1.5)))
		assert.False(t, left.Equal(NewDecimalFromFloat(1.51)))
		assert.False(t, left.Equal(NewText("1.50")))
	})
}
