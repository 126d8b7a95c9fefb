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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSeries(t *testing.T) {
	base := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

	t.Run("With empty series", func(t *testing.T) {
		series := NewTimeSeries(PolicyAdd)
		assert.True(t, series.IsEmpty())
		assert.Zero(t, series.Size())
		assert.True(t, series.Begin().IsZero())
		assert.True(t, series.End().IsZero())
		assert.Empty(t, series.Entries())
	})
	t.Run("With ordered insertion", func(t *testing.T) {
		series := NewTimeSeries(PolicyAdd).
			Add(base.Add(2*time.Hour), NewDecimalFromInt(3)).
			Add(base, NewDecimalFromInt(1)).
			Add(base.Add(time.Hour), NewDecimalFromInt(2))

		require.Equal(t, 3, series.Size())
		assert.Equal(t, base, series.Begin())
		assert.Equal(t, base.Add(2*time.Hour), series.End())

		entries := series.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "1", entries[0].State().String())
		assert.Equal(t, "2", entries[1].State().String())
		assert.Equal(t, "3", entries[2].State().String())
	})
	t.Run("With equal timestamps keeping insertion order", func(t *testing.T) {
		series := NewTimeSeries(PolicyAdd).
			Add(base, NewText("first")).
			Add(base, NewText("second"))

		entries := series.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "first", entries[0].State().String())
		assert.Equal(t, "second", entries[1].State().String())
	})
	t.Run("With entries copy isolation", func(t *testing.T) {
		series := NewTimeSeries(PolicyReplace).Add(base, NewDecimalFromInt(1))
		entries := series.Entries()
		entries[0] = Entry{}
		assert.Equal(t, "1", series.Entries()[0].State().String())
	})
	t.Run("With policy string form", func(t *testing.T) {
		assert.Equal(t, "ADD", PolicyAdd.String())
		assert.Equal(t, "REPLACE", PolicyReplace.String())
		assert.Equal(t, "UNKNOWN", Policy(99).String())
	})
}
