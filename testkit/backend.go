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

// Package testkit provides in-memory persistence backends used to test
// code built on top of the persistence manager.
package testkit

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/persistence"
	"github.com/tochemey/historian/state"
)

// StoreRecord is one observed Store call
type StoreRecord struct {
	// ItemName is the name of the stored item
	ItemName string
	// Alias is the alias the store was requested under
	Alias string
	// State is the state captured at store time
	State state.State
	// StoredAt is the instant the store happened
	StoredAt time.Time
}

// MemoryBackend is an in-memory ModifiableBackend. It records every
// Store call and keeps a per-item history sorted by timestamp. All
// methods are safe for concurrent use.
type MemoryBackend struct {
	id       string
	defaults []persistence.Strategy

	mu     sync.RWMutex
	series map[string][]*persistence.HistoricPoint
	stores []StoreRecord

	storeErr   error
	queryErr   error
	queryDelay time.Duration
	queryPanic bool
}

// enforce compilation error
var _ persistence.ModifiableBackend = (*MemoryBackend)(nil)

// MemoryOption configures a MemoryBackend
type MemoryOption func(*MemoryBackend)

// WithDefaultStrategies sets the default strategies reported by the
// backend
func WithDefaultStrategies(strategies ...persistence.Strategy) MemoryOption {
	return func(b *MemoryBackend) {
		b.defaults = strategies
	}
}

// NewMemoryBackend creates a MemoryBackend with the given identifier.
// Without options the backend reports the change strategy as its only
// default.
func NewMemoryBackend(id string, opts ...MemoryOption) *MemoryBackend {
	backend := &MemoryBackend{
		id:       id,
		defaults: []persistence.Strategy{persistence.StrategyChange},
		series:   make(map[string][]*persistence.HistoricPoint),
	}
	for _, opt := range opts {
		opt(backend)
	}
	return backend
}

// ID implements persistence.Backend
func (b *MemoryBackend) ID() string {
	return b.id
}

// DefaultStrategies implements persistence.Backend
func (b *MemoryBackend) DefaultStrategies() []persistence.Strategy {
	return b.defaults
}

// Store implements persistence.Backend
func (b *MemoryBackend) Store(_ context.Context, it *item.Item, alias string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.storeErr != nil {
		return b.storeErr
	}

	now := time.Now()
	current := it.State()
	b.stores = append(b.stores, StoreRecord{
		ItemName: it.Name(),
		Alias:    alias,
		State:    current,
		StoredAt: now,
	})
	b.series[it.Name()] = insertPoint(b.series[it.Name()], &persistence.HistoricPoint{
		Name:      it.Name(),
		Timestamp: now,
		State:     current,
	})
	return nil
}

// LatestAtOrBefore implements persistence.QueryableBackend
func (b *MemoryBackend) LatestAtOrBefore(ctx context.Context, itemName string, instant time.Time) (*persistence.HistoricPoint, error) {
	if err := b.delayQuery(ctx); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.queryPanic {
		panic("query panic requested")
	}
	if b.queryErr != nil {
		return nil, b.queryErr
	}

	points := b.series[itemName]
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].Timestamp.After(instant) {
			point := *points[i]
			return &point, nil
		}
	}
	return nil, nil
}

// EarliestAfter implements persistence.QueryableBackend
func (b *MemoryBackend) EarliestAfter(ctx context.Context, itemName string, instant time.Time) (*persistence.HistoricPoint, error) {
	if err := b.delayQuery(ctx); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.queryPanic {
		panic("query panic requested")
	}
	if b.queryErr != nil {
		return nil, b.queryErr
	}

	for _, point := range b.series[itemName] {
		if point.Timestamp.After(instant) {
			copied := *point
			return &copied, nil
		}
	}
	return nil, nil
}

// StoreAt implements persistence.ModifiableBackend
func (b *MemoryBackend) StoreAt(_ context.Context, it *item.Item, timestamp time.Time, st state.State, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.storeErr != nil {
		return b.storeErr
	}

	b.series[it.Name()] = insertPoint(b.series[it.Name()], &persistence.HistoricPoint{
		Name:      it.Name(),
		Timestamp: timestamp,
		State:     st,
	})
	return nil
}

// Remove implements persistence.ModifiableBackend
func (b *MemoryBackend) Remove(_ context.Context, itemName string, begin, end time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.storeErr != nil {
		return b.storeErr
	}

	points := b.series[itemName]
	kept := points[:0]
	for _, point := range points {
		if point.Timestamp.Before(begin) || point.Timestamp.After(end) {
			kept = append(kept, point)
		}
	}
	b.series[itemName] = kept
	return nil
}

// Seed inserts a historic point directly, bypassing Store bookkeeping
func (b *MemoryBackend) Seed(itemName string, timestamp time.Time, st state.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.series[itemName] = insertPoint(b.series[itemName], &persistence.HistoricPoint{
		Name:      itemName,
		Timestamp: timestamp,
		State:     st,
	})
}

// Points returns a copy of the stored history of the named item
func (b *MemoryBackend) Points(itemName string) []*persistence.HistoricPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	points := make([]*persistence.HistoricPoint, 0, len(b.series[itemName]))
	for _, point := range b.series[itemName] {
		copied := *point
		points = append(points, &copied)
	}
	return points
}

// Stores returns a copy of the observed Store calls in order
func (b *MemoryBackend) Stores() []StoreRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.stores)
}

// StoreCount returns the number of observed Store calls
func (b *MemoryBackend) StoreCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.stores)
}

// LastStore returns the most recent observed Store call
func (b *MemoryBackend) LastStore() (StoreRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.stores) == 0 {
		return StoreRecord{}, false
	}
	return b.stores[len(b.stores)-1], true
}

// SetStoreError makes every following Store, StoreAt and Remove call
// fail with the given error. A nil error restores normal behavior.
func (b *MemoryBackend) SetStoreError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.storeErr = err
}

// SetQueryError makes every following query fail with the given error.
// A nil error restores normal behavior.
func (b *MemoryBackend) SetQueryError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queryErr = err
}

// SetQueryDelay makes every following query block for the given
// duration or until its context is done
func (b *MemoryBackend) SetQueryDelay(delay time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queryDelay = delay
}

// SetQueryPanic makes every following query panic
func (b *MemoryBackend) SetQueryPanic() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queryPanic = true
}

// Reset drops all recorded stores and stored history
func (b *MemoryBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.series = make(map[string][]*persistence.HistoricPoint)
	b.stores = nil
	b.storeErr = nil
	b.queryErr = nil
	b.queryDelay = 0
	b.queryPanic = false
}

func (b *MemoryBackend) delayQuery(ctx context.Context) error {
	b.mu.RLock()
	delay := b.queryDelay
	b.mu.RUnlock()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// insertPoint inserts sorted by timestamp, overwriting a point recorded
// at exactly the same instant
func insertPoint(points []*persistence.HistoricPoint, point *persistence.HistoricPoint) []*persistence.HistoricPoint {
	index, found := slices.BinarySearchFunc(points, point, func(a, b *persistence.HistoricPoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	if found {
		points[index] = point
		return points
	}
	return slices.Insert(points, index, point)
}

// StoreOnlyBackend is a backend without query support. Restore and
// forecast seeding skip it.
type StoreOnlyBackend struct {
	inner *MemoryBackend
}

// enforce compilation error
var _ persistence.Backend = (*StoreOnlyBackend)(nil)

// NewStoreOnlyBackend creates a backend that can store but not be
// queried
func NewStoreOnlyBackend(id string, opts ...MemoryOption) *StoreOnlyBackend {
	return &StoreOnlyBackend{inner: NewMemoryBackend(id, opts...)}
}

// ID implements persistence.Backend
func (b *StoreOnlyBackend) ID() string {
	return b.inner.ID()
}

// DefaultStrategies implements persistence.Backend
func (b *StoreOnlyBackend) DefaultStrategies() []persistence.Strategy {
	return b.inner.DefaultStrategies()
}

// Store implements persistence.Backend
func (b *StoreOnlyBackend) Store(ctx context.Context, it *item.Item, alias string) error {
	return b.inner.Store(ctx, it, alias)
}

// StoreCount returns the number of observed Store calls
func (b *StoreOnlyBackend) StoreCount() int {
	return b.inner.StoreCount()
}

// Stores returns a copy of the observed Store calls in order
func (b *StoreOnlyBackend) Stores() []StoreRecord {
	return b.inner.Stores()
}

// QueryOnlyBackend is a backend that can store and be queried but does
// not support incremental modification. Time series updates skip it.
type QueryOnlyBackend struct {
	inner *MemoryBackend
}

// enforce compilation error
var _ persistence.QueryableBackend = (*QueryOnlyBackend)(nil)

// NewQueryOnlyBackend creates a backend without incremental
// modification support
func NewQueryOnlyBackend(id string, opts ...MemoryOption) *QueryOnlyBackend {
	return &QueryOnlyBackend{inner: NewMemoryBackend(id, opts...)}
}

// ID implements persistence.Backend
func (b *QueryOnlyBackend) ID() string {
	return b.inner.ID()
}

// DefaultStrategies implements persistence.Backend
func (b *QueryOnlyBackend) DefaultStrategies() []persistence.Strategy {
	return b.inner.DefaultStrategies()
}

// Store implements persistence.Backend
func (b *QueryOnlyBackend) Store(ctx context.Context, it *item.Item, alias string) error {
	return b.inner.Store(ctx, it, alias)
}

// LatestAtOrBefore implements persistence.QueryableBackend
func (b *QueryOnlyBackend) LatestAtOrBefore(ctx context.Context, itemName string, instant time.Time) (*persistence.HistoricPoint, error) {
	return b.inner.LatestAtOrBefore(ctx, itemName, instant)
}

// EarliestAfter implements persistence.QueryableBackend
func (b *QueryOnlyBackend) EarliestAfter(ctx context.Context, itemName string, instant time.Time) (*persistence.HistoricPoint, error) {
	return b.inner.EarliestAfter(ctx, itemName, instant)
}

// Seed inserts a historic point directly
func (b *QueryOnlyBackend) Seed(itemName string, timestamp time.Time, st state.State) {
	b.inner.Seed(itemName, timestamp, st)
}

// Points returns a copy of the stored history of the named item
func (b *QueryOnlyBackend) Points(itemName string) []*persistence.HistoricPoint {
	return b.inner.Points(itemName)
}

// StoreCount returns the number of observed Store calls
func (b *QueryOnlyBackend) StoreCount() int {
	return b.inner.StoreCount()
}
