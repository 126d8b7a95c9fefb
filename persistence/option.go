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

	"github.com/tochemey/historian/log"
	"github.com/tochemey/historian/scheduler"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(mgr *manager)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*manager)

func (f OptionFunc) Apply(mgr *manager) {
	f(mgr)
}

// WithLogger sets the manager custom log
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(mgr *manager) {
		mgr.logger = logger
	})
}

// WithQueryTimeout bounds every backend history query. Queries running
// longer count as having no data.
func WithQueryTimeout(timeout time.Duration) Option {
	return OptionFunc(func(mgr *manager) {
		mgr.queryTimeout = timeout
	})
}

// WithScheduler sets a custom job scheduler
func WithScheduler(sched scheduler.Scheduler) Option {
	return OptionFunc(func(mgr *manager) {
		mgr.sched = sched
	})
}

// WithMetric enables metrics
func WithMetric() Option {
	return OptionFunc(func(mgr *manager) {
		mgr.metricEnabled.Store(true)
	})
}
