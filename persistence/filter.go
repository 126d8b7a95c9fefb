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

import "github.com/tochemey/historian/item"

// Filter decides whether a given store of an item's current state is
// admitted. Filters run in the order they are configured; the first
// rejection drops the store.
//
// Implementations must be safe for concurrent use: the same filter
// instance may be evaluated from several backend dispatch loops.
type Filter interface {
	// Name returns the configured filter name
	Name() string
	// Apply reports whether the item's current state may be stored
	Apply(it *item.Item) bool
	// Persisted is invoked exactly once after a store the filter admitted
	// was actually performed. Stateful filters update their bookkeeping
	// here, not in Apply.
	Persisted(it *item.Item)
}
