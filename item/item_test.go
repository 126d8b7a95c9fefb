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

package item

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/historian/state"
)

type recordingListener struct {
	mu       sync.Mutex
	changes  []state.State
	updates  []state.State
	previous []state.State
}

func (x *recordingListener) StateChanged(_ *Item, oldState, newState state.State) {
	x.mu.Lock()
	x.previous = append(x.previous, oldState)
	x.changes = append(x.changes, newState)
	x.mu.Unlock()
}

func (x *recordingListener) StateUpdated(_ *Item, current state.State) {
	x.mu.Lock()
	x.updates = append(x.updates, current)
	x.mu.Unlock()
}

func (x *recordingListener) snapshot() (changes, updates, previous []state.State) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]state.State(nil), x.changes...),
		append([]state.State(nil), x.updates...),
		append([]state.State(nil), x.previous...)
}

func TestItem(t *testing.T) {
	t.Run("With initial undefined state", func(t *testing.T) {
		it := New("Kitchen_Temperature")
		assert.Equal(t, "Kitchen_Temperature", it.Name())
		assert.True(t, state.IsUndefined(it.State()))
	})
	t.Run("With group membership", func(t *testing.T) {
		it := New("Kitchen_Temperature", "Temperatures", "Kitchen")
		assert.True(t, it.MemberOf("Temperatures"))
		assert.True(t, it.MemberOf("Kitchen"))
		assert.False(t, it.MemberOf("Basement"))
		assert.ElementsMatch(t, []string{"Temperatures", "Kitchen"}, it.Groups())
	})
	t.Run("With changed notification on different value", func(t *testing.T) {
		it := New("Kitchen_Temperature")
		listener := new(recordingListener)
		it.AttachListener(listener)

		it.SetState(state.NewDecimalFromInt(21))

		changes, updates, previous := listener.snapshot()
		require.Len(t, changes, 1)
		assert.Empty(t, updates)
		assert.True(t, state.IsUndefined(previous[0]))
		assert.Equal(t, "21", changes[0].String())
		assert.Equal(t, "21", it.State().String())
	})
	t.Run("With updated notification on same value", func(t *testing.T) {
		it := New("Kitchen_Temperature")
		listener := new(recordingListener)
		it.AttachListener(listener)

		it.SetState(state.NewDecimalFromInt(21))
		it.SetState(state.NewDecimalFromInt(21))

		changes, updates, _ := listener.snapshot()
		require.Len(t, changes, 1)
		require.Len(t, updates, 1)
		assert.Equal(t, "21", updates[0].String())
	})
	t.Run("With silent write skipping listeners", func(t *testing.T) {
		it := New("Kitchen_Temperature")
		listener := new(recordingListener)
		it.AttachListener(listener)

		it.SetStateSilently(state.NewDecimalFromInt(19))

		changes, updates, _ := listener.snapshot()
		assert.Empty(t, changes)
		assert.Empty(t, updates)
		assert.Equal(t, "19", it.State().String())
	})
	t.Run("With conditional write honoring concrete state", func(t *testing.T) {
		it := New("Kitchen_Temperature")
		require.True(t, it.SetStateIfUndefined(state.NewDecimalFromInt(19)))
		assert.Equal(t, "19", it.State().String())

		require.False(t, it.SetStateIfUndefined(state.NewDecimalFromInt(23)))
		assert.Equal(t, "19", it.State().String())
	})
	t.Run("With detached listener no longer notified", func(t *testing.T) {
		it := New("Kitchen_Temperature")
		listener := new(recordingListener)
		it.AttachListener(listener)
		it.DetachListener(listener)

		it.SetState(state.NewDecimalFromInt(21))

		changes, updates, _ := listener.snapshot()
		assert.Empty(t, changes)
		assert.Empty(t, updates)
	})
}
