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

// Package validation collects input checks into chains evaluated at the
// API and configuration-load boundaries.
package validation

import "go.uber.org/multierr"

// Validator is a single executable check.
type Validator interface {
	Validate() error
}

// Chain evaluates its validators in the order they were added.
type Chain struct {
	validators []Validator
	failFast   bool
}

// ChainOption configures a validation chain at creation time.
type ChainOption func(*Chain)

// FailFast makes the chain return the first failure unwrapped.
func FailFast() ChainOption {
	return func(c *Chain) {
		c.failFast = true
	}
}

// AllErrors makes the chain run every validator and aggregate the
// failures. This is the default.
func AllErrors() ChainOption {
	return func(c *Chain) {
		c.failFast = false
	}
}

// New creates an empty validation chain.
func New(opts ...ChainOption) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// AddValidator appends a validator to the chain.
func (c *Chain) AddValidator(v Validator) *Chain {
	c.validators = append(c.validators, v)
	return c
}

// AddAssertion appends a check that fails with the given message when
// the condition is false.
func (c *Chain) AddAssertion(condition bool, message string) *Chain {
	return c.AddValidator(NewBooleanValidator(condition, message))
}

// Validate runs the chain. Without FailFast every validator runs and the
// failures come back as one aggregated error.
func (c *Chain) Validate() error {
	var errs []error
	for _, v := range c.validators {
		err := v.Validate()
		if err == nil {
			continue
		}
		if c.failFast {
			return err
		}
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}
