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

// Package errors defines the sentinel errors shared across the persistence
// coordination layer.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrManagerStarted is returned when an operation requires a manager that
	// has not been started yet, or attempts to reconfigure one that has.
	ErrManagerStarted = errors.New("persistence manager already started")

	// ErrManagerNotStarted is returned when an operation requires a started
	// persistence manager.
	ErrManagerNotStarted = errors.New("persistence manager not started")

	// ErrServiceNotRegistered is returned when a persistence service id does
	// not resolve to a registered backend.
	ErrServiceNotRegistered = errors.New("persistence service is not registered")

	// ErrServiceAlreadyRegistered is returned when registering a backend under
	// an id that is already taken.
	ErrServiceAlreadyRegistered = errors.New("persistence service is already registered")

	// ErrItemNotFound is returned when an item name does not resolve to a
	// registered item.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyRegistered is returned when adding an item whose name is
	// already taken.
	ErrItemAlreadyRegistered = errors.New("item is already registered")

	// ErrInvalidConfiguration is returned when a persistence configuration
	// fails validation.
	ErrInvalidConfiguration = errors.New("invalid persistence configuration")

	// ErrInvalidCronExpression is returned when a named strategy carries a
	// cron expression that cannot be parsed.
	ErrInvalidCronExpression = errors.New("invalid cron expression")

	// ErrUnknownStrategy is returned when a configuration references a
	// strategy name that is neither built-in nor defined as a cron strategy.
	ErrUnknownStrategy = errors.New("unknown persistence strategy")

	// ErrNoConversion is returned when a quantity cannot be converted to the
	// requested unit.
	ErrNoConversion = errors.New("no unit conversion available")

	// ErrSchedulerNotStarted is returned when a job is submitted to a
	// scheduler that has not been started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")
)

// NewErrServiceNotRegistered enriches ErrServiceNotRegistered with the
// offending service id.
func NewErrServiceNotRegistered(serviceID string) error {
	return fmt.Errorf("%w: %s", ErrServiceNotRegistered, serviceID)
}

// NewErrItemNotFound enriches ErrItemNotFound with the offending item name.
func NewErrItemNotFound(itemName string) error {
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemName)
}

// NewErrInvalidCronExpression enriches ErrInvalidCronExpression with the
// strategy name and the parse failure.
func NewErrInvalidCronExpression(strategyName string, cause error) error {
	return fmt.Errorf("%w: strategy=%s: %v", ErrInvalidCronExpression, strategyName, cause)
}

// NewErrUnknownStrategy enriches ErrUnknownStrategy with the offending
// strategy name.
func NewErrUnknownStrategy(strategyName string) error {
	return fmt.Errorf("%w: %s", ErrUnknownStrategy, strategyName)
}
