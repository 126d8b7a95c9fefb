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

package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorEnrichment(t *testing.T) {
	t.Run("With service id", func(t *testing.T) {
		err := NewErrServiceNotRegistered("influxdb")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, ErrServiceNotRegistered))
		assert.Contains(t, err.Error(), "influxdb")
	})
	t.Run("With item name", func(t *testing.T) {
		err := NewErrItemNotFound("Kitchen_Temperature")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, ErrItemNotFound))
		assert.Contains(t, err.Error(), "Kitchen_Temperature")
	})
	t.Run("With cron expression", func(t *testing.T) {
		cause := stderrors.New("bad field count")
		err := NewErrInvalidCronExpression("everyHour", cause)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, ErrInvalidCronExpression))
		assert.Contains(t, err.Error(), "everyHour")
		assert.Contains(t, err.Error(), "bad field count")
	})
	t.Run("With strategy name", func(t *testing.T) {
		err := NewErrUnknownStrategy("everyFortnight")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, ErrUnknownStrategy))
		assert.Contains(t, err.Error(), "everyFortnight")
	})
}
