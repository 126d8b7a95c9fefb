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

// Package scheduler runs the timed side of the persistence layer: recurring
// cron jobs for batch persistence and run-once jobs promoting future-dated
// values when their timestamp arrives.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tochemey/historian/errors"
	"github.com/tochemey/historian/log"
)

// DefaultStopTimeout is how long Stop waits for in-flight jobs to finish.
const DefaultStopTimeout = 5 * time.Second

// Task is the unit of work a scheduled job runs. The context is the one the
// scheduler was started with.
type Task func(ctx context.Context) error

// Job is the cancellable handle of a scheduled task.
type Job interface {
	// Key returns the unique job key.
	Key() string
	// ScheduledTime returns the instant a run-once job fires at. It is the
	// zero time for cron jobs.
	ScheduledTime() time.Time
	// Cancel removes the job from the scheduler. It reports whether this
	// call performed the cancellation; later calls return false. A job that
	// is already mid-flight finishes its current run.
	Cancel() bool
}

// Scheduler runs cron-recurring and run-once tasks on quartz worker
// goroutines.
type Scheduler interface {
	// Start starts the scheduler. Tasks fire with the given context.
	Start(ctx context.Context)
	// Stop clears all pending jobs and shuts the scheduler down, waiting up
	// to the configured stop timeout for in-flight jobs.
	Stop(ctx context.Context)
	// IsStarted reports whether the scheduler is running.
	IsStarted() bool
	// ScheduleCron schedules a task firing on the given quartz cron
	// expression, in the local time zone.
	ScheduleCron(expression string, task Task) (Job, error)
	// ScheduleAt schedules a task firing once at the given instant. An
	// instant in the past fires immediately.
	ScheduleAt(at time.Time, task Task) (Job, error)
}

// Option configures the scheduler at creation time.
type Option func(*scheduler)

// WithLogger sets a custom logger.
func WithLogger(logger log.Logger) Option {
	return func(x *scheduler) {
		x.logger = logger
	}
}

// WithStopTimeout sets how long Stop waits for in-flight jobs.
func WithStopTimeout(timeout time.Duration) Option {
	return func(x *scheduler) {
		x.stopTimeout = timeout
	}
}

type scheduler struct {
	// helps lock concurrent access
	mu sync.Mutex
	// underlying quartz scheduler
	quartzScheduler quartz.Scheduler
	// states whether the quartz scheduler has started or not
	started     *atomic.Bool
	logger      log.Logger
	stopTimeout time.Duration
}

// enforce compilation error
var _ Scheduler = (*scheduler)(nil)

// New creates a Scheduler. It must be started before jobs can be scheduled.
func New(opts ...Option) Scheduler {
	// quartz logs through its own interface; keep it off and log ourselves
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))

	scheduler := &scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          log.DefaultLogger,
		stopTimeout:     DefaultStopTimeout,
	}

	for _, opt := range opts {
		opt(scheduler)
	}

	return scheduler
}

// Start starts the scheduler
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("persistence scheduler started")
}

// Stop stops the scheduler
func (x *scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Debug("persistence scheduler stopped")
}

// IsStarted reports whether the scheduler is running.
func (x *scheduler) IsStarted() bool {
	return x.started.Load()
}

// ScheduleCron schedules a task firing on the given cron expression.
func (x *scheduler) ScheduleCron(expression string, task Task) (Job, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil, errors.ErrSchedulerNotStarted
	}

	trigger, err := quartz.NewCronTriggerWithLoc(expression, time.Now().Location())
	if err != nil {
		return nil, err
	}

	handle := newJobHandle(x.quartzScheduler, time.Time{})
	detail := quartz.NewJobDetail(newFunctionJob(task), handle.jobKey)
	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return nil, err
	}
	return handle, nil
}

// ScheduleAt schedules a task firing once at the given instant.
func (x *scheduler) ScheduleAt(at time.Time, task Task) (Job, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil, errors.ErrSchedulerNotStarted
	}

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	handle := newJobHandle(x.quartzScheduler, at)
	detail := quartz.NewJobDetail(newFunctionJob(task), handle.jobKey)
	if err := x.quartzScheduler.ScheduleJob(detail, quartz.NewRunOnceTrigger(delay)); err != nil {
		return nil, err
	}
	return handle, nil
}

// ValidateCron reports whether the given expression parses as a quartz cron
// expression.
func ValidateCron(expression string) error {
	_, err := quartz.NewCronTriggerWithLoc(expression, time.UTC)
	return err
}

func newFunctionJob(task Task) quartz.Job {
	return job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			err := task(ctx)
			return err == nil, err
		},
	)
}

type jobHandle struct {
	key             string
	jobKey          *quartz.JobKey
	quartzScheduler quartz.Scheduler
	at              time.Time
	cancelled       *atomic.Bool
}

// enforce compilation error
var _ Job = (*jobHandle)(nil)

func newJobHandle(quartzScheduler quartz.Scheduler, at time.Time) *jobHandle {
	key := uuid.NewString()
	return &jobHandle{
		key:             key,
		jobKey:          quartz.NewJobKey(key),
		quartzScheduler: quartzScheduler,
		at:              at,
		cancelled:       atomic.NewBool(false),
	}
}

func (x *jobHandle) Key() string {
	return x.key
}

func (x *jobHandle) ScheduledTime() time.Time {
	return x.at
}

func (x *jobHandle) Cancel() bool {
	if x.cancelled.CompareAndSwap(false, true) {
		// a run-once job that already fired is gone from the scheduler;
		// deletion failure is benign
		_ = x.quartzScheduler.DeleteJob(x.jobKey)
		return true
	}
	return false
}
