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
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/historian/errors"
	"github.com/tochemey/historian/eventstream"
	"github.com/tochemey/historian/internal/locker"
	"github.com/tochemey/historian/internal/metric"
	"github.com/tochemey/historian/internal/queue"
	"github.com/tochemey/historian/internal/safecall"
	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/log"
	"github.com/tochemey/historian/scheduler"
	"github.com/tochemey/historian/state"
)

// dispatchEvent is a unit of work on a container mailbox. Either
// strategy is set (a live state event) or series is set (a time series
// update).
type dispatchEvent struct {
	item     *item.Item
	strategy Strategy
	series   *state.TimeSeries
}

// containerDeps carries the manager-owned collaborators a container
// works with
type containerDeps struct {
	registry     item.Registry
	sched        scheduler.Scheduler
	logger       log.Logger
	events       eventstream.Stream
	metrics      *metric.PersistenceMetric
	queryTimeout time.Duration
}

// serviceContainer pairs one backend with its active configuration and
// runs all persistence work for that backend: admission and store of
// live state events, cron-triggered batch stores, state restoration and
// forecast promotion.
//
// Events are processed one at a time on a dedicated goroutine so a slow
// backend only ever delays itself. Cron and forecast jobs fire on
// scheduler goroutines.
type serviceContainer struct {
	_            locker.NoCopy
	backend      Backend
	registry     item.Registry
	sched        scheduler.Scheduler
	logger       log.Logger
	events       eventstream.Stream
	metrics      *metric.PersistenceMetric
	queryTimeout time.Duration

	matcherMu sync.RWMutex
	matcher   *strategyMatcher

	jobsMu       sync.Mutex
	cronJobs     []scheduler.Job
	forecastJobs map[string]scheduler.Job

	mailbox *queue.Queue[*dispatchEvent]
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	closed  *atomic.Bool
}

// newServiceContainer creates a container for the given backend and
// starts its dispatch loop. A nil config falls back to the synthesized
// default configuration of the backend.
func newServiceContainer(backend Backend, config *Config, deps *containerDeps) *serviceContainer {
	if config == nil {
		config = defaultConfig(backend)
	}

	ctx, cancel := context.WithCancel(context.Background())
	container := &serviceContainer{
		backend:      backend,
		registry:     deps.registry,
		sched:        deps.sched,
		logger:       deps.logger,
		events:       deps.events,
		metrics:      deps.metrics,
		queryTimeout: deps.queryTimeout,
		matcher:      newStrategyMatcher(config),
		forecastJobs: make(map[string]scheduler.Job),
		mailbox:      queue.New[*dispatchEvent](),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
		closed:       atomic.NewBool(false),
	}

	go container.run()
	return container
}

// Configuration returns the active configuration
func (x *serviceContainer) Configuration() *Config {
	return x.currentMatcher().Config()
}

// SetConfiguration cancels every cron and forecast job of the container
// and installs the given configuration. A nil config falls back to the
// synthesized default configuration of the backend. The strategy match
// cache is dropped as a whole; events dispatched afterwards are
// evaluated against the new configuration only.
func (x *serviceContainer) SetConfiguration(config *Config) {
	x.cancelPersistJobs()
	x.cancelForecastJobs()

	if config == nil {
		config = defaultConfig(x.backend)
	}
	x.matcherMu.Lock()
	x.matcher = newStrategyMatcher(config)
	x.matcherMu.Unlock()
}

// schedulePersistJobs registers one recurring job per cron strategy of
// the active configuration. The item configurations participating in
// each strategy are resolved once here, not on every firing; the items
// they select are resolved on every firing.
func (x *serviceContainer) schedulePersistJobs() error {
	matcher := x.currentMatcher()
	var err error
	for _, cronStrategy := range matcher.Config().CronStrategies() {
		matched := matcher.Matching(cronStrategy.Strategy)
		job, scheduleErr := x.sched.ScheduleCron(cronStrategy.Expression(), func(ctx context.Context) error {
			x.firePersistJob(ctx, matched)
			return nil
		})
		if scheduleErr != nil {
			err = multierr.Append(err, gerrors.NewErrInvalidCronExpression(cronStrategy.Name(), scheduleErr))
			continue
		}

		x.logger.Debugf("scheduled persist job strategy=(%s) expression=(%s) backend=(%s)", cronStrategy.Name(), cronStrategy.Expression(), x.backend.ID())
		x.jobsMu.Lock()
		x.cronJobs = append(x.cronJobs, job)
		x.jobsMu.Unlock()
	}
	return err
}

// cancelPersistJobs cancels every cron job of the container. Safe to
// call at any time, even when no job was ever scheduled.
func (x *serviceContainer) cancelPersistJobs() {
	x.jobsMu.Lock()
	jobs := x.cronJobs
	x.cronJobs = nil
	x.jobsMu.Unlock()

	for _, job := range jobs {
		job.Cancel()
	}
}

// cancelForecastJobs cancels every pending forecast job of the
// container. Safe to call at any time.
func (x *serviceContainer) cancelForecastJobs() {
	x.jobsMu.Lock()
	jobs := x.forecastJobs
	x.forecastJobs = make(map[string]scheduler.Job)
	x.jobsMu.Unlock()

	for _, job := range jobs {
		job.Cancel()
	}
}

// firePersistJob stores the current state of every registered item
// selected by the given item configurations. Runs on a scheduler
// goroutine each time the owning cron strategy fires.
func (x *serviceContainer) firePersistJob(ctx context.Context, configs []*ItemConfiguration) {
	for _, it := range x.registry.Items() {
		for _, config := range configs {
			if config.AppliesTo(it, x.registry) {
				x.store(ctx, config, it)
			}
		}
	}
}

// restoreAndScheduleForecasts walks every registered item, restores the
// latest stored state into items that are still undefined when a
// matching configuration has the restore strategy, and schedules
// forecast jobs for items a matching configuration marks for
// forecasting
func (x *serviceContainer) restoreAndScheduleForecasts(ctx context.Context) {
	for _, it := range x.registry.Items() {
		x.addItem(ctx, it)
	}
}

// addItem seeds restore and forecast handling for a single item, used
// both at startup and when an item appears while running
func (x *serviceContainer) addItem(ctx context.Context, it *item.Item) {
	if state.IsUndefined(it.State()) && x.anyMatchingApplies(StrategyRestore, it) {
		x.restoreItem(ctx, it)
	}
	if x.anyMatchingApplies(StrategyForecast, it) {
		x.seedForecast(ctx, it)
	}
}

// removeItem cancels the pending forecast job of the named item, if any
func (x *serviceContainer) removeItem(itemName string) {
	x.jobsMu.Lock()
	job, ok := x.forecastJobs[itemName]
	if ok {
		delete(x.forecastJobs, itemName)
	}
	x.jobsMu.Unlock()

	if ok {
		job.Cancel()
	}
}

// enqueueState hands a live state event to the dispatch loop. Events
// arriving after the container closed are dropped.
func (x *serviceContainer) enqueueState(it *item.Item, strategy Strategy) {
	x.mailbox.Push(&dispatchEvent{item: it, strategy: strategy})
}

// enqueueTimeSeries hands a time series update to the dispatch loop
func (x *serviceContainer) enqueueTimeSeries(it *item.Item, series *state.TimeSeries) {
	x.mailbox.Push(&dispatchEvent{item: it, series: series})
}

// close cancels all jobs, drops undelivered events and waits for the
// dispatch loop to exit. Idempotent.
func (x *serviceContainer) close() {
	if !x.closed.CompareAndSwap(false, true) {
		return
	}
	x.cancelPersistJobs()
	x.cancelForecastJobs()
	x.mailbox.Close()
	x.cancel()
	<-x.done
}

// run is the dispatch loop. It exits when the mailbox is closed.
func (x *serviceContainer) run() {
	defer close(x.done)
	for {
		event, ok := x.mailbox.Wait()
		if !ok {
			return
		}
		if event.series != nil {
			x.handleTimeSeries(x.ctx, event.item, event.series)
			continue
		}
		x.handleStateEvent(x.ctx, event.item, event.strategy)
	}
}

// handleStateEvent stores the item's current state once per matching
// item configuration
func (x *serviceContainer) handleStateEvent(ctx context.Context, it *item.Item, strategy Strategy) {
	for _, config := range x.matching(strategy) {
		if config.AppliesTo(it, x.registry) {
			x.store(ctx, config, it)
		}
	}
}

// handleTimeSeries writes a bulk of timestamped states into a backend
// that supports incremental modification. With the replace policy the
// covered range is cleared first, including a pending forecast job that
// was scheduled inside it. When the series carries a point that is due
// before the currently pending forecast job, the job is moved forward.
func (x *serviceContainer) handleTimeSeries(ctx context.Context, it *item.Item, series *state.TimeSeries) {
	modifiable, ok := x.backend.(ModifiableBackend)
	if !ok || series.IsEmpty() {
		return
	}

	config := x.timeSeriesConfig(it)
	if config == nil {
		return
	}

	if series.Policy() == state.PolicyReplace {
		x.replaceRange(ctx, it, series)
	}

	for _, entry := range series.Entries() {
		if err := modifiable.StoreAt(ctx, it, entry.Timestamp(), entry.State(), config.Alias()); err != nil {
			x.logger.Errorf("failed to store point at=(%s) of item=(%s) on backend=(%s): %v", entry.Timestamp(), it.Name(), x.backend.ID(), err)
		}
	}
	if x.metrics != nil {
		x.metrics.StoreCount().Add(ctx, int64(series.Size()), x.metricAttributes(it.Name()))
	}

	x.rescheduleForecastAfter(it, series)
}

// timeSeriesConfig returns the first item configuration admitting time
// series updates for the item: one participating in the update strategy
// or, failing that, in the forecast strategy
func (x *serviceContainer) timeSeriesConfig(it *item.Item) *ItemConfiguration {
	for _, strategy := range []Strategy{StrategyUpdate, StrategyForecast} {
		for _, config := range x.matching(strategy) {
			if config.AppliesTo(it, x.registry) {
				return config
			}
		}
	}
	return nil
}

// replaceRange removes every value stored in the series range and
// cancels a pending forecast job scheduled inside that range
func (x *serviceContainer) replaceRange(ctx context.Context, it *item.Item, series *state.TimeSeries) {
	modifiable := x.backend.(ModifiableBackend)
	begin, end := series.Begin(), series.End()

	err := safecall.Call(ctx, x.queryTimeout, func(ctx context.Context) error {
		return modifiable.Remove(ctx, it.Name(), begin, end)
	})
	if err != nil {
		x.logger.Errorf("failed to clear range [%s, %s] of item=(%s) on backend=(%s): %v", begin, end, it.Name(), x.backend.ID(), err)
	}

	x.jobsMu.Lock()
	job, ok := x.forecastJobs[it.Name()]
	if ok {
		at := job.ScheduledTime()
		if !at.Before(begin) && !at.After(end) {
			delete(x.forecastJobs, it.Name())
		} else {
			job, ok = nil, false
		}
	}
	x.jobsMu.Unlock()

	if ok {
		job.Cancel()
	}
}

// rescheduleForecastAfter moves the pending forecast job of the item to
// the earliest future point of the series when that point is due before
// the job, or schedules a job when none is pending. A point due at
// exactly the pending instant leaves the job alone.
func (x *serviceContainer) rescheduleForecastAfter(it *item.Item, series *state.TimeSeries) {
	now := time.Now()
	entries := series.Entries()
	index := -1
	for i := range entries {
		if entries[i].Timestamp().After(now) {
			index = i
			break
		}
	}
	if index < 0 {
		return
	}

	next := entries[index]
	x.jobsMu.Lock()
	current, ok := x.forecastJobs[it.Name()]
	reschedule := !ok || next.Timestamp().Before(current.ScheduledTime())
	x.jobsMu.Unlock()

	if reschedule {
		x.scheduleForecast(it, next.Timestamp(), next.State())
	}
}

// store runs the filters of the item configuration against the item and
// hands its current state to the backend when every filter admits it.
// Undefined states are never stored. Filters are notified after the
// backend accepted the state.
func (x *serviceContainer) store(ctx context.Context, config *ItemConfiguration, it *item.Item) {
	current := it.State()
	if state.IsUndefined(current) {
		return
	}

	for _, filter := range config.Filters() {
		if !filter.Apply(it) {
			x.logger.Debugf("filter=(%s) rejected store of item=(%s) on backend=(%s)", filter.Name(), it.Name(), x.backend.ID())
			return
		}
	}

	start := time.Now()
	if err := x.backend.Store(ctx, it, config.Alias()); err != nil {
		x.logger.Errorf("failed to store item=(%s) on backend=(%s): %v", it.Name(), x.backend.ID(), err)
		return
	}

	for _, filter := range config.Filters() {
		filter.Persisted(it)
	}

	if x.metrics != nil {
		x.metrics.StoreCount().Add(ctx, 1, x.metricAttributes(it.Name()))
		x.metrics.StoreDuration().Record(ctx, time.Since(start).Milliseconds(), x.metricAttributes(it.Name()))
	}
	x.events.Publish(StoresTopic, &StateStored{
		BackendID: x.backend.ID(),
		ItemName:  it.Name(),
		Alias:     config.Alias(),
		State:     current,
		StoredAt:  time.Now(),
	})
	x.logger.Debugf("stored state=(%s) of item=(%s) on backend=(%s)", current, it.Name(), x.backend.ID())
}

// restoreItem loads the most recent stored state of the item back into
// it. The undefined check is repeated right before the write so a state
// set concurrently is never overwritten.
func (x *serviceContainer) restoreItem(ctx context.Context, it *item.Item) {
	queryable, ok := x.backend.(QueryableBackend)
	if !ok {
		return
	}

	point, err := safecall.Invoke(ctx, x.queryTimeout, func(ctx context.Context) (*HistoricPoint, error) {
		return queryable.LatestAtOrBefore(ctx, it.Name(), time.Now())
	})
	if err != nil {
		x.logger.Warnf("failed to query latest state of item=(%s) on backend=(%s): %v", it.Name(), x.backend.ID(), err)
		x.countQueryFailure(ctx, it.Name())
		return
	}
	if point == nil || state.IsUndefined(point.State) {
		return
	}

	if !it.SetStateIfUndefined(point.State) {
		return
	}

	if x.metrics != nil {
		x.metrics.RestoreCount().Add(ctx, 1, x.metricAttributes(it.Name()))
	}
	x.events.Publish(RestoresTopic, &StateRestored{
		BackendID:  x.backend.ID(),
		ItemName:   it.Name(),
		State:      point.State,
		RecordedAt: point.Timestamp,
	})
	x.logger.Debugf("restored state=(%s) of item=(%s) from backend=(%s)", point.State, it.Name(), x.backend.ID())
}

// seedForecast queries the earliest stored state lying strictly in the
// future and schedules its promotion. Without such a state no job is
// scheduled and the forecast chain for the item ends.
func (x *serviceContainer) seedForecast(ctx context.Context, it *item.Item) {
	queryable, ok := x.backend.(QueryableBackend)
	if !ok {
		return
	}

	point, err := safecall.Invoke(ctx, x.queryTimeout, func(ctx context.Context) (*HistoricPoint, error) {
		return queryable.EarliestAfter(ctx, it.Name(), time.Now())
	})
	if err != nil {
		x.logger.Warnf("failed to query forecast state of item=(%s) on backend=(%s): %v", it.Name(), x.backend.ID(), err)
		x.countQueryFailure(ctx, it.Name())
		return
	}
	if point == nil || state.IsUndefined(point.State) {
		return
	}

	x.scheduleForecast(it, point.Timestamp, point.State)
}

// scheduleForecast replaces the pending forecast job of the item with a
// one-shot job promoting the given state at the given instant. When the
// job fires it removes itself from the pending set, writes the state
// without notifying listeners, and seeds the next forecast so the chain
// renews itself. A job that was cancelled or superseded after firing
// began detects the mismatch and writes nothing.
func (x *serviceContainer) scheduleForecast(it *item.Item, at time.Time, st state.State) {
	x.jobsMu.Lock()
	defer x.jobsMu.Unlock()

	if x.closed.Load() {
		return
	}
	if existing, ok := x.forecastJobs[it.Name()]; ok {
		existing.Cancel()
		delete(x.forecastJobs, it.Name())
	}

	var handle scheduler.Job
	job, err := x.sched.ScheduleAt(at, func(ctx context.Context) error {
		x.jobsMu.Lock()
		current, ok := x.forecastJobs[it.Name()]
		if !ok || current != handle {
			x.jobsMu.Unlock()
			return nil
		}
		delete(x.forecastJobs, it.Name())
		x.jobsMu.Unlock()

		x.promoteForecast(ctx, it, st)
		return nil
	})
	if err != nil {
		x.logger.Errorf("failed to schedule forecast job at=(%s) for item=(%s) on backend=(%s): %v", at, it.Name(), x.backend.ID(), err)
		return
	}

	handle = job
	x.forecastJobs[it.Name()] = job
	x.events.Publish(ForecastsTopic, &ForecastScheduled{
		BackendID: x.backend.ID(),
		ItemName:  it.Name(),
		At:        at,
	})
	x.logger.Debugf("scheduled forecast job at=(%s) for item=(%s) on backend=(%s)", at, it.Name(), x.backend.ID())
}

// promoteForecast makes a due forecast state the live item state and
// seeds the next promotion
func (x *serviceContainer) promoteForecast(ctx context.Context, it *item.Item, st state.State) {
	it.SetStateSilently(st)

	if x.metrics != nil {
		x.metrics.ForecastCount().Add(ctx, 1, x.metricAttributes(it.Name()))
	}
	x.events.Publish(ForecastsTopic, &ForecastPromoted{
		BackendID: x.backend.ID(),
		ItemName:  it.Name(),
		State:     st,
		At:        time.Now(),
	})
	x.logger.Debugf("promoted forecast state=(%s) of item=(%s) from backend=(%s)", st, it.Name(), x.backend.ID())

	x.seedForecast(ctx, it)
}

// matching returns the item configurations participating in the given
// strategy under the active configuration
func (x *serviceContainer) matching(strategy Strategy) []*ItemConfiguration {
	return x.currentMatcher().Matching(strategy)
}

func (x *serviceContainer) anyMatchingApplies(strategy Strategy, it *item.Item) bool {
	for _, config := range x.matching(strategy) {
		if config.AppliesTo(it, x.registry) {
			return true
		}
	}
	return false
}

func (x *serviceContainer) currentMatcher() *strategyMatcher {
	x.matcherMu.RLock()
	matcher := x.matcher
	x.matcherMu.RUnlock()
	return matcher
}

func (x *serviceContainer) countQueryFailure(ctx context.Context, itemName string) {
	if x.metrics != nil {
		x.metrics.QueryFailureCount().Add(ctx, 1, x.metricAttributes(itemName))
	}
}

func (x *serviceContainer) metricAttributes(itemName string) otelmetric.MeasurementOption {
	return otelmetric.WithAttributes(
		attribute.String("backend.id", x.backend.ID()),
		attribute.String("item.name", itemName),
	)
}
