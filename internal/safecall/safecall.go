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

// Package safecall runs untrusted callbacks behind a timeout and a panic
// boundary. Persistence backends are third-party code: a hung driver or a
// panicking query must never take the calling goroutine down with it.
package safecall

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the callback does not finish within the
// configured timeout. The callback goroutine keeps running until the callback
// returns on its own; its eventual result is discarded.
var ErrTimeout = errors.New("call timed out")

// Call invokes fn on its own goroutine and waits at most timeout for it to
// finish. A panic inside fn is recovered and returned as an error. When
// timeout is zero or negative the wait is unbounded.
func Call(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	_, err := Invoke(ctx, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Invoke invokes fn on its own goroutine and waits at most timeout for its
// result. A panic inside fn is recovered and returned as an error. When
// timeout is zero or negative the wait is unbounded.
func Invoke[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	var zero T
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// buffered so the callback goroutine can finish after a timeout
	results := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- outcome{err: fmt.Errorf("recovered from panic: %v", r)}
			}
		}()
		value, err := fn(ctx)
		results <- outcome{value: value, err: err}
	}()

	select {
	case result := <-results:
		return result.value, result.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
