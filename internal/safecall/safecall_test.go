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

package safecall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke(t *testing.T) {
	t.Run("With successful call", func(t *testing.T) {
		value, err := Invoke(context.TODO(), time.Second, func(context.Context) (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	})
	t.Run("With failed call", func(t *testing.T) {
		expected := errors.New("boom")
		value, err := Invoke(context.TODO(), time.Second, func(context.Context) (int, error) {
			return 0, expected
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, expected)
		assert.Zero(t, value)
	})
	t.Run("With panicking call", func(t *testing.T) {
		value, err := Invoke(context.TODO(), time.Second, func(context.Context) (int, error) {
			panic("kaboom")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kaboom")
		assert.Zero(t, value)
	})
	t.Run("With slow call", func(t *testing.T) {
		value, err := Invoke(context.TODO(), 50*time.Millisecond, func(ctx context.Context) (int, error) {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
			return 42, nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Zero(t, value)
	})
	t.Run("With canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.TODO())
		cancel()
		_, err := Invoke(ctx, time.Second, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("With zero timeout waits for completion", func(t *testing.T) {
		value, err := Invoke(context.TODO(), 0, func(context.Context) (int, error) {
			time.Sleep(10 * time.Millisecond)
			return 7, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, value)
	})
}

func TestCall(t *testing.T) {
	t.Run("With successful call", func(t *testing.T) {
		err := Call(context.TODO(), time.Second, func(context.Context) error {
			return nil
		})
		require.NoError(t, err)
	})
	t.Run("With panicking call", func(t *testing.T) {
		err := Call(context.TODO(), time.Second, func(context.Context) error {
			panic(errors.New("kaboom"))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kaboom")
	})
}
