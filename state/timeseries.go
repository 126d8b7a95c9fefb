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

package state

import (
	"sort"
	"time"
)

// Policy states how a TimeSeries interacts with values already stored for
// the covered window.
type Policy int

const (
	// PolicyAdd appends the series entries to whatever is already stored.
	PolicyAdd Policy = iota
	// PolicyReplace removes every stored value inside the series window
	// before the entries are written.
	PolicyReplace
)

// String returns the text representation of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyAdd:
		return "ADD"
	case PolicyReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Entry is a single timestamped value of a TimeSeries.
type Entry struct {
	timestamp time.Time
	state     State
}

// Timestamp returns the instant the value is valid for. It may lie in the
// future.
func (e Entry) Timestamp() time.Time {
	return e.timestamp
}

// State returns the value.
func (e Entry) State() State {
	return e.state
}

// TimeSeries is an ordered batch of timestamped values describing how an
// item's state evolves over a time window, past or future.
type TimeSeries struct {
	policy  Policy
	entries []Entry
}

// NewTimeSeries creates an empty TimeSeries with the given policy.
func NewTimeSeries(policy Policy) *TimeSeries {
	return &TimeSeries{policy: policy}
}

// Add inserts a timestamped value keeping the entries ordered by timestamp.
// An entry with a timestamp equal to an existing one is placed after it. Add
// returns the series to allow chaining.
func (x *TimeSeries) Add(timestamp time.Time, st State) *TimeSeries {
	at := sort.Search(len(x.entries), func(i int) bool {
		return x.entries[i].timestamp.After(timestamp)
	})
	x.entries = append(x.entries, Entry{})
	copy(x.entries[at+1:], x.entries[at:])
	x.entries[at] = Entry{timestamp: timestamp, state: st}
	return x
}

// Policy returns the series policy.
func (x *TimeSeries) Policy() Policy {
	return x.policy
}

// Size returns the number of entries.
func (x *TimeSeries) Size() int {
	return len(x.entries)
}

// IsEmpty reports whether the series holds no entries.
func (x *TimeSeries) IsEmpty() bool {
	return len(x.entries) == 0
}

// Begin returns the timestamp of the earliest entry, or the zero time when
// the series is empty.
func (x *TimeSeries) Begin() time.Time {
	if len(x.entries) == 0 {
		return time.Time{}
	}
	return x.entries[0].timestamp
}

// End returns the timestamp of the latest entry, or the zero time when the
// series is empty.
func (x *TimeSeries) End() time.Time {
	if len(x.entries) == 0 {
		return time.Time{}
	}
	return x.entries[len(x.entries)-1].timestamp
}

// Entries returns a copy of the entries in ascending timestamp order.
func (x *TimeSeries) Entries() []Entry {
	entries := make([]Entry, len(x.entries))
	copy(entries, x.entries)
	return entries
}
