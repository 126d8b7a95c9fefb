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
	"time"

	"github.com/tochemey/historian/state"
)

// Events stream topics
const (
	// StoresTopic carries StateStored events
	StoresTopic = "historian.stores"
	// RestoresTopic carries StateRestored events
	RestoresTopic = "historian.restores"
	// ForecastsTopic carries ForecastScheduled and ForecastPromoted events
	ForecastsTopic = "historian.forecasts"
)

// StateStored is published on StoresTopic after a backend accepted a
// state.
type StateStored struct {
	// BackendID is the backend the state was handed to
	BackendID string
	// ItemName is the item whose state was stored
	ItemName string
	// Alias is the storage alias, empty when the item name was used
	Alias string
	// State is the stored value
	State state.State
	// StoredAt is the instant the store completed
	StoredAt time.Time
}

// StateRestored is published on RestoresTopic after a stored value was
// loaded back into an undefined item.
type StateRestored struct {
	// BackendID is the backend the value came from
	BackendID string
	// ItemName is the restored item
	ItemName string
	// State is the restored value
	State state.State
	// RecordedAt is the instant the value was originally stored at
	RecordedAt time.Time
}

// ForecastScheduled is published on ForecastsTopic when a future-dated
// stored value was found and a promotion job was scheduled for it.
type ForecastScheduled struct {
	// BackendID is the backend the value came from
	BackendID string
	// ItemName is the item the value belongs to
	ItemName string
	// At is the instant the value becomes the live state
	At time.Time
}

// ForecastPromoted is published on ForecastsTopic when a promotion job
// fired and the forecast value became the live item state.
type ForecastPromoted struct {
	// BackendID is the backend the value came from
	BackendID string
	// ItemName is the item whose state was set
	ItemName string
	// State is the promoted value
	State state.State
	// At is the instant the promotion happened
	At time.Time
}
