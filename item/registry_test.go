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

	"github.com/tochemey/historian/errors"
)

type recordingRegistryListener struct {
	mu       sync.Mutex
	added    []string
	removed  []string
	replaced []string
}

func (x *recordingRegistryListener) ItemAdded(it *Item) {
	x.mu.Lock()
	x.added = append(x.added, it.Name())
	x.mu.Unlock()
}

func (x *recordingRegistryListener) ItemRemoved(it *Item) {
	x.mu.Lock()
	x.removed = append(x.removed, it.Name())
	x.mu.Unlock()
}

func (x *recordingRegistryListener) ItemReplaced(_, updated *Item) {
	x.mu.Lock()
	x.replaced = append(x.replaced, updated.Name())
	x.mu.Unlock()
}

func TestRegistry(t *testing.T) {
	t.Run("With register and lookup", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(New("Kitchen_Temperature")))

		it, err := registry.Item("Kitchen_Temperature")
		require.NoError(t, err)
		assert.Equal(t, "Kitchen_Temperature", it.Name())
	})
	t.Run("With duplicate registration", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(New("Kitchen_Temperature")))
		err := registry.Register(New("Kitchen_Temperature"))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrItemAlreadyRegistered)
	})
	t.Run("With unknown lookup", func(t *testing.T) {
		registry := NewRegistry()
		_, err := registry.Item("Basement_Humidity")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrItemNotFound)
	})
	t.Run("With sorted enumeration", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(New("Kitchen_Temperature")))
		require.NoError(t, registry.Register(New("Basement_Humidity")))
		require.NoError(t, registry.Register(New("Garage_Door")))

		items := registry.Items()
		require.Len(t, items, 3)
		assert.Equal(t, "Basement_Humidity", items[0].Name())
		assert.Equal(t, "Garage_Door", items[1].Name())
		assert.Equal(t, "Kitchen_Temperature", items[2].Name())
	})
	t.Run("With group membership resolution", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(New("Kitchen_Temperature", "Temperatures")))
		require.NoError(t, registry.Register(New("Bedroom_Temperature", "Temperatures")))
		require.NoError(t, registry.Register(New("Garage_Door")))

		members := registry.GroupMembers("Temperatures")
		require.Len(t, members, 2)
		assert.Equal(t, "Bedroom_Temperature", members[0].Name())
		assert.Equal(t, "Kitchen_Temperature", members[1].Name())
		assert.Empty(t, registry.GroupMembers("Humidity"))
	})
	t.Run("With late group membership visible without caching", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(New("Kitchen_Temperature", "Temperatures")))
		require.Len(t, registry.GroupMembers("Temperatures"), 1)

		require.NoError(t, registry.Register(New("Bedroom_Temperature", "Temperatures")))
		require.Len(t, registry.GroupMembers("Temperatures"), 2)
	})
	t.Run("With deregistration", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(New("Kitchen_Temperature")))

		removed, err := registry.Deregister("Kitchen_Temperature")
		require.NoError(t, err)
		assert.Equal(t, "Kitchen_Temperature", removed.Name())

		_, err = registry.Deregister("Kitchen_Temperature")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrItemNotFound)
	})
	t.Run("With replacement", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(New("Kitchen_Temperature")))

		previous, err := registry.Replace(New("Kitchen_Temperature", "Temperatures"))
		require.NoError(t, err)
		assert.False(t, previous.MemberOf("Temperatures"))

		it, err := registry.Item("Kitchen_Temperature")
		require.NoError(t, err)
		assert.True(t, it.MemberOf("Temperatures"))

		_, err = registry.Replace(New("Basement_Humidity"))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrItemNotFound)
	})
	t.Run("With lifecycle notifications", func(t *testing.T) {
		registry := NewRegistry()
		listener := new(recordingRegistryListener)
		registry.AttachListener(listener)

		require.NoError(t, registry.Register(New("Kitchen_Temperature")))
		_, err := registry.Replace(New("Kitchen_Temperature", "Temperatures"))
		require.NoError(t, err)
		_, err = registry.Deregister("Kitchen_Temperature")
		require.NoError(t, err)

		assert.Equal(t, []string{"Kitchen_Temperature"}, listener.added)
		assert.Equal(t, []string{"Kitchen_Temperature"}, listener.replaced)
		assert.Equal(t, []string{"Kitchen_Temperature"}, listener.removed)
	})
	t.Run("With detached listener no longer notified", func(t *testing.T) {
		registry := NewRegistry()
		listener := new(recordingRegistryListener)
		registry.AttachListener(listener)
		registry.DetachListener(listener)

		require.NoError(t, registry.Register(New("Kitchen_Temperature")))
		assert.Empty(t, listener.added)
	})
}
