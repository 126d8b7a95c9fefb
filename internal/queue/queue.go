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

package queue

import "sync"

// minCapacity is the smallest ring size. It must stay a power of two so the
// wrap-around can use a bitwise mask instead of a modulus.
const minCapacity = 16

// Queue is an unbounded, concurrency-safe FIFO backed by a growable ring
// buffer. Producers never block: Push only takes the lock long enough to
// append. A single consumer drains it with Wait, which parks until an
// element arrives or the queue is closed.
type Queue[T any] struct {
	mu     sync.RWMutex
	cond   *sync.Cond
	ring   []*T
	head   int
	tail   int
	length int
	closed bool
}

// New creates an empty Queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{ring: make([]*T, minCapacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an element to the back of the queue and wakes one waiting
// consumer. It returns false when the queue has been closed, in which case
// the element is dropped.
func (q *Queue[T]) Push(elt T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if q.length == len(q.ring) {
		q.resize()
	}
	q.ring[q.tail] = &elt
	q.tail = (q.tail + 1) & (len(q.ring) - 1)
	q.length++
	q.cond.Signal()
	q.mu.Unlock()
	return true
}

// Wait blocks until an element is available or the queue is closed. The
// boolean result is false only when the queue is closed and empty.
func (q *Queue[T]) Wait() (T, bool) {
	q.mu.Lock()
	for q.length == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.length == 0 {
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	elt := q.popLocked()
	q.mu.Unlock()
	return elt, true
}

// Pop removes the front element without blocking. The boolean result is
// false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.length == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Close marks the queue closed, discards the buffered elements and releases
// every goroutine parked in Wait. Further pushes are dropped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.length = 0
	q.ring = nil
	q.cond.Broadcast()
	q.mu.Unlock()
}

// CloseRemaining closes the queue and returns the elements that were still
// buffered, in FIFO order.
func (q *Queue[T]) CloseRemaining() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	remaining := make([]T, 0, q.length)
	for q.length > 0 {
		remaining = append(remaining, q.popLocked())
	}
	q.closed = true
	q.ring = nil
	q.cond.Broadcast()
	return remaining
}

// IsClosed reports whether the queue has been closed. Only a true result is
// stable: the queue may be closed right after this returns false.
func (q *Queue[T]) IsClosed() bool {
	q.mu.RLock()
	closed := q.closed
	q.mu.RUnlock()
	return closed
}

// Len returns the number of buffered elements.
func (q *Queue[T]) Len() int {
	q.mu.RLock()
	length := q.length
	q.mu.RUnlock()
	return length
}

// IsEmpty reports whether the queue currently holds no elements.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

func (q *Queue[T]) popLocked() T {
	elt := q.ring[q.head]
	q.ring[q.head] = nil
	q.head = (q.head + 1) & (len(q.ring) - 1)
	q.length--
	// shrink once only a quarter of the ring is in use
	if len(q.ring) > minCapacity && q.length<<2 == len(q.ring) {
		q.resize()
	}
	return *elt
}

// resize grows or shrinks the ring to twice the current length, keeping the
// elements in FIFO order starting at index zero.
func (q *Queue[T]) resize() {
	ring := make([]*T, q.length<<1)
	if q.tail > q.head {
		copy(ring, q.ring[q.head:q.tail])
	} else {
		n := copy(ring, q.ring[q.head:])
		copy(ring[n:], q.ring[:q.tail])
	}
	q.head = 0
	q.tail = q.length
	q.ring = ring
}
