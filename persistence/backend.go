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

import (
	"context"
	"time"

	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/state"
)

// HistoricPoint is a single stored value returned by a backend query.
type HistoricPoint struct {
	// Name is the item name the value was stored under
	Name string
	// Timestamp is the instant the value was recorded at
	Timestamp time.Time
	// State is the recorded value
	State state.State
}

// Backend is a pluggable storage service items are persisted to.
// Implementations must be safe for concurrent use.
type Backend interface {
	// ID returns the unique backend identifier
	ID() string
	// DefaultStrategies returns the strategies applied to item
	// configurations that list none of their own, and to the synthesized
	// configuration used when no configuration exists for this backend
	DefaultStrategies() []Strategy
	// Store records the item's current state. A non-empty alias overrides
	// the item name as the storage key.
	Store(ctx context.Context, it *item.Item, alias string) error
}

// QueryableBackend is a Backend whose history can be read back.
type QueryableBackend interface {
	Backend

	// LatestAtOrBefore returns the most recent stored value for the named
	// item with a timestamp at or before the given instant. It returns
	// nil when no such value exists.
	LatestAtOrBefore(ctx context.Context, itemName string, instant time.Time) (*HistoricPoint, error)
	// EarliestAfter returns the earliest stored value for the named item
	// with a timestamp strictly after the given instant. It returns nil
	// when no such value exists.
	EarliestAfter(ctx context.Context, itemName string, instant time.Time) (*HistoricPoint, error)
}

// ModifiableBackend is a QueryableBackend whose history can be rewritten.
type ModifiableBackend interface {
	QueryableBackend

	// StoreAt records a state for the item at an explicit instant,
	// overwriting any value already stored at that instant
	StoreAt(ctx context.Context, it *item.Item, timestamp time.Time, st state.State, alias string) error
	// Remove deletes every value stored for the named item with a
	// timestamp in the inclusive range [begin, end]
	Remove(ctx context.Context, itemName string, begin, end time.Time) error
}
