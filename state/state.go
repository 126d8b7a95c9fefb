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

// Package state defines the values a monitored item can carry: an undefined
// sentinel, plain text, arbitrary-precision decimals and unit-bearing
// quantities, plus the TimeSeries batch used to rewrite stretches of history.
package state

import (
	"github.com/shopspring/decimal"
)

// State is the value carried by an item at a point in time. Implementations
// are immutable value types.
type State interface {
	// String returns the canonical textual form of the state.
	String() string
	// Equal reports whether both states carry the same kind and value.
	Equal(other State) bool
}

// Undefined is the sentinel state of an item that has not been set since it
// was created. Restoring history into live state only happens while an item
// still carries this state.
var Undefined State = undefinedState{}

type undefinedState struct{}

func (undefinedState) String() string {
	return "UNDEF"
}

func (undefinedState) Equal(other State) bool {
	_, ok := other.(undefinedState)
	return ok
}

// IsUndefined reports whether the given state is nil or the Undefined
// sentinel.
func IsUndefined(s State) bool {
	if s == nil {
		return true
	}
	_, ok := s.(undefinedState)
	return ok
}

// Text is a free-form string state.
type Text struct {
	value string
}

var _ State = Text{}

// NewText creates a Text state.
func NewText(value string) Text {
	return Text{value: value}
}

// Value returns the underlying string.
func (x Text) Value() string {
	return x.value
}

func (x Text) String() string {
	return x.value
}

// Equal reports whether other is a Text carrying the same string.
func (x Text) Equal(other State) bool {
	o, ok := other.(Text)
	return ok && o.value == x.value
}

// Decimal is a unitless numeric state backed by an arbitrary-precision
// decimal.
type Decimal struct {
	value decimal.Decimal
}

var _ State = Decimal{}

// NewDecimal creates a Decimal state.
func NewDecimal(value decimal.Decimal) Decimal {
	return Decimal{value: value}
}

// NewDecimalFromFloat creates a Decimal state from a float64.
func NewDecimalFromFloat(value float64) Decimal {
	return Decimal{value: decimal.NewFromFloat(value)}
}

// NewDecimalFromInt creates a Decimal state from an int64.
func NewDecimalFromInt(value int64) Decimal {
	return Decimal{value: decimal.NewFromInt(value)}
}

// ParseDecimal creates a Decimal state from its textual form.
func ParseDecimal(value string) (Decimal, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{value: parsed}, nil
}

// Value returns the underlying decimal.
func (x Decimal) Value() decimal.Decimal {
	return x.value
}

func (x Decimal) String() string {
	return x.value.String()
}

// Equal reports whether other is a Decimal carrying the same numeric value.
// Trailing zeros do not matter: 1.5 equals 1.50.
func (x Decimal) Equal(other State) bool {
	o, ok := other.(Decimal)
	return ok && x.value.Equal(o.value)
}
