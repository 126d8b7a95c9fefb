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

// Package persistence decides which storage backends record which item
// states and when. It matches items to backends through per-backend
// configurations, forwards live state events, runs cron-triggered batch
// stores, restores stored history into undefined items at startup and
// promotes stored future-dated values to live state when their
// timestamp arrives.
package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/historian/errors"
	"github.com/tochemey/historian/eventstream"
	"github.com/tochemey/historian/internal/locker"
	"github.com/tochemey/historian/internal/metric"
	"github.com/tochemey/historian/internal/validation"
	"github.com/tochemey/historian/item"
	"github.com/tochemey/historian/log"
	"github.com/tochemey/historian/scheduler"
	"github.com/tochemey/historian/state"
)

// DefaultQueryTimeout bounds every backend history query
const DefaultQueryTimeout = 10 * time.Second

// managerNamePattern is the pattern a manager name must obey
const managerNamePattern = "^[a-zA-Z0-9][a-zA-Z0-9-_]*$"

// Manager routes item state events to the registered persistence
// backends, restores stored history into live state at startup and
// promotes stored future-dated values when their timestamp arrives.
//
// Backends and configurations can be registered before or after Start.
// Until Start returns no state is stored, restored or forecast.
type Manager interface {
	// Start begins persistence handling: every known item is replayed
	// through restore and forecast seeding, cron persist jobs are
	// scheduled and live state events are forwarded from then on
	Start(ctx context.Context) error
	// Stop halts event forwarding, cancels every scheduled job and
	// detaches from the item registry. Safe to call even when Start was
	// never called or did not complete.
	Stop(ctx context.Context) error
	// IsStarted reports whether the manager is running
	IsStarted() bool
	// Name returns the manager name
	Name() string
	// Logger returns the manager logger
	Logger() log.Logger
	// RegisterBackend adds a storage backend. When the manager is
	// already running the backend immediately takes part in event
	// handling, with any already-known configuration applied.
	RegisterBackend(backend Backend) error
	// DeregisterBackend removes a storage backend and cancels all of its
	// jobs. Its configuration is kept and re-applied when a backend with
	// the same identifier registers again.
	DeregisterBackend(backendID string) error
	// Backends returns the identifiers of the registered backends sorted
	// in ascending order
	Backends() []string
	// SetConfig installs the configuration of a backend, replacing any
	// previous one. The backend does not need to be registered yet.
	SetConfig(config *Config) error
	// RemoveConfig drops the configuration of a backend. A registered
	// backend falls back to its synthesized default configuration.
	RemoveConfig(backendID string) error
	// Config returns the explicitly installed configuration of a
	// backend, nil when none was installed
	Config(backendID string) *Config
	// TimeSeriesUpdated writes a bulk of timestamped states into every
	// backend that supports incremental modification and whose
	// configuration covers the item
	TimeSeriesUpdated(it *item.Item, series *state.TimeSeries)
	// Subscribe returns a subscriber receiving persistence events on the
	// given topics. Without topics all persistence topics are
	// subscribed.
	Subscribe(topics ...string) (eventstream.Subscriber, error)
	// Unsubscribe stops event delivery to the given subscriber
	Unsubscribe(subscriber eventstream.Subscriber) error
}

type manager struct {
	_        locker.NoCopy
	name     string
	registry item.Registry
	logger   log.Logger
	sched    scheduler.Scheduler
	events   eventstream.Stream
	metrics  *metric.PersistenceMetric

	started       *atomic.Bool
	metricEnabled *atomic.Bool

	mu         sync.RWMutex
	containers map[string]*serviceContainer
	configs    map[string]*Config

	queryTimeout time.Duration
}

// enforce compilation error
var _ Manager = (*manager)(nil)
var _ item.StateListener = (*manager)(nil)
var _ item.RegistryListener = (*manager)(nil)

// NewManager creates a persistence Manager bound to the given item
// registry. The name must start with an alphanumeric character and may
// contain alphanumeric characters, hyphens and underscores.
func NewManager(name string, registry item.Registry, opts ...Option) (Manager, error) {
	if err := validation.
		New(validation.FailFast()).
		AddValidator(validation.NewBooleanValidator(registry != nil, "registry is required")).
		AddValidator(validation.NewPatternValidator(managerNamePattern, name, fmt.Errorf("%w: invalid manager name", gerrors.ErrInvalidConfiguration))).
		Validate(); err != nil {
		return nil, err
	}

	mgr := &manager{
		name:          name,
		registry:      registry,
		logger:        log.DefaultLogger,
		events:        eventstream.New(),
		started:       atomic.NewBool(false),
		metricEnabled: atomic.NewBool(false),
		containers:    make(map[string]*serviceContainer),
		configs:       make(map[string]*Config),
		queryTimeout:  DefaultQueryTimeout,
	}

	for _, opt := range opts {
		opt.Apply(mgr)
	}

	if mgr.sched == nil {
		mgr.sched = scheduler.New(scheduler.WithLogger(mgr.logger))
	}

	if mgr.metricEnabled.Load() {
		metrics, err := metric.NewPersistenceMetric(metric.NewProvider().Meter())
		if err != nil {
			return nil, err
		}
		mgr.metrics = metrics
	}

	return mgr, nil
}

// Start implements Manager
func (x *manager) Start(ctx context.Context) error {
	if !x.started.CompareAndSwap(false, true) {
		return gerrors.ErrManagerStarted
	}

	x.logger.Infof("%s starting..", x.name)
	x.sched.Start(ctx)

	containers := x.containersSnapshot()
	eg, egCtx := errgroup.WithContext(ctx)
	for _, container := range containers {
		container := container
		eg.Go(func() error {
			container.restoreAndScheduleForecasts(egCtx)
			return nil
		})
	}
	_ = eg.Wait()

	for _, container := range containers {
		if err := container.schedulePersistJobs(); err != nil {
			x.logger.Errorf("failed to schedule persist jobs on backend=(%s): %v", container.backend.ID(), err)
		}
	}

	x.registry.AttachListener(x)
	for _, it := range x.registry.Items() {
		it.AttachListener(x)
	}

	x.logger.Infof("%s started", x.name)
	return nil
}

// Stop implements Manager
func (x *manager) Stop(ctx context.Context) error {
	x.logger.Infof("%s stopping..", x.name)
	x.started.Store(false)

	x.registry.DetachListener(x)
	for _, it := range x.registry.Items() {
		it.DetachListener(x)
	}

	x.mu.Lock()
	containers := x.containers
	x.containers = make(map[string]*serviceContainer)
	x.mu.Unlock()

	for _, container := range containers {
		container.close()
	}

	x.sched.Stop(ctx)
	x.events.Close()
	x.logger.Infof("%s stopped", x.name)
	return nil
}

// IsStarted implements Manager
func (x *manager) IsStarted() bool {
	return x.started.Load()
}

// Name implements Manager
func (x *manager) Name() string {
	return x.name
}

// Logger implements Manager
func (x *manager) Logger() log.Logger {
	return x.logger
}

// RegisterBackend implements Manager
func (x *manager) RegisterBackend(backend Backend) error {
	if backend == nil {
		return fmt.Errorf("%w: backend is required", gerrors.ErrInvalidConfiguration)
	}
	if backend.ID() == "" {
		return fmt.Errorf("%w: backend id is required", gerrors.ErrInvalidConfiguration)
	}

	x.mu.Lock()
	if _, ok := x.containers[backend.ID()]; ok {
		x.mu.Unlock()
		return fmt.Errorf("%w: %s", gerrors.ErrServiceAlreadyRegistered, backend.ID())
	}
	container := newServiceContainer(backend, x.configs[backend.ID()], x.containerDeps())
	x.containers[backend.ID()] = container
	x.mu.Unlock()

	x.logger.Infof("backend=(%s) registered", backend.ID())
	if x.started.Load() {
		container.restoreAndScheduleForecasts(container.ctx)
		if err := container.schedulePersistJobs(); err != nil {
			x.logger.Errorf("failed to schedule persist jobs on backend=(%s): %v", backend.ID(), err)
		}
	}
	return nil
}

// DeregisterBackend implements Manager
func (x *manager) DeregisterBackend(backendID string) error {
	x.mu.Lock()
	container, ok := x.containers[backendID]
	if ok {
		delete(x.containers, backendID)
	}
	x.mu.Unlock()

	if !ok {
		return gerrors.NewErrServiceNotRegistered(backendID)
	}

	container.close()
	x.logger.Infof("backend=(%s) deregistered", backendID)
	return nil
}

// Backends implements Manager
func (x *manager) Backends() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	ids := make([]string, 0, len(x.containers))
	for id := range x.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetConfig implements Manager
func (x *manager) SetConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is required", gerrors.ErrInvalidConfiguration)
	}
	if config.BackendID() == "" {
		return fmt.Errorf("%w: config backend id is required", gerrors.ErrInvalidConfiguration)
	}

	x.mu.Lock()
	x.configs[config.BackendID()] = config
	container, ok := x.containers[config.BackendID()]
	x.mu.Unlock()

	if !ok {
		// applied when the backend registers
		return nil
	}

	container.SetConfiguration(config)
	if !x.started.Load() {
		return nil
	}

	container.restoreAndScheduleForecasts(container.ctx)
	if err := container.schedulePersistJobs(); err != nil {
		x.logger.Errorf("failed to schedule persist jobs on backend=(%s): %v", config.BackendID(), err)
		return err
	}
	return nil
}

// RemoveConfig implements Manager
func (x *manager) RemoveConfig(backendID string) error {
	x.mu.Lock()
	delete(x.configs, backendID)
	container, ok := x.containers[backendID]
	x.mu.Unlock()

	if !ok {
		return nil
	}

	container.SetConfiguration(nil)
	if x.started.Load() {
		container.restoreAndScheduleForecasts(container.ctx)
		if err := container.schedulePersistJobs(); err != nil {
			x.logger.Errorf("failed to schedule persist jobs on backend=(%s): %v", backendID, err)
		}
	}
	return nil
}

// Config implements Manager
func (x *manager) Config(backendID string) *Config {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.configs[backendID]
}

// TimeSeriesUpdated implements Manager
func (x *manager) TimeSeriesUpdated(it *item.Item, series *state.TimeSeries) {
	if !x.started.Load() || it == nil || series == nil || series.IsEmpty() {
		return
	}
	for _, container := range x.containersSnapshot() {
		container.enqueueTimeSeries(it, series)
	}
}

// Subscribe implements Manager
func (x *manager) Subscribe(topics ...string) (eventstream.Subscriber, error) {
	if !x.started.Load() {
		return nil, gerrors.ErrManagerNotStarted
	}
	subscriber := x.events.AddSubscriber()
	if len(topics) == 0 {
		topics = []string{StoresTopic, RestoresTopic, ForecastsTopic}
	}
	for _, topic := range topics {
		x.events.Subscribe(subscriber, topic)
	}
	return subscriber, nil
}

// Unsubscribe implements Manager
func (x *manager) Unsubscribe(subscriber eventstream.Subscriber) error {
	if !x.started.Load() {
		return gerrors.ErrManagerNotStarted
	}
	for _, topic := range subscriber.Topics() {
		x.events.Unsubscribe(subscriber, topic)
	}
	x.events.RemoveSubscriber(subscriber)
	return nil
}

// StateChanged implements item.StateListener
func (x *manager) StateChanged(it *item.Item, _, _ state.State) {
	x.dispatch(it, StrategyChange)
}

// StateUpdated implements item.StateListener
func (x *manager) StateUpdated(it *item.Item, _ state.State) {
	x.dispatch(it, StrategyUpdate)
}

// ItemAdded implements item.RegistryListener
func (x *manager) ItemAdded(it *item.Item) {
	if !x.started.Load() {
		return
	}
	it.AttachListener(x)
	for _, container := range x.containersSnapshot() {
		container.addItem(container.ctx, it)
	}
}

// ItemRemoved implements item.RegistryListener
func (x *manager) ItemRemoved(it *item.Item) {
	it.DetachListener(x)
	if !x.started.Load() {
		return
	}
	for _, container := range x.containersSnapshot() {
		container.removeItem(it.Name())
	}
}

// ItemReplaced implements item.RegistryListener
func (x *manager) ItemReplaced(previous, updated *item.Item) {
	x.ItemRemoved(previous)
	x.ItemAdded(updated)
}

func (x *manager) dispatch(it *item.Item, strategy Strategy) {
	if !x.started.Load() {
		return
	}
	for _, container := range x.containersSnapshot() {
		container.enqueueState(it, strategy)
	}
}

func (x *manager) containersSnapshot() []*serviceContainer {
	x.mu.RLock()
	defer x.mu.RUnlock()
	containers := make([]*serviceContainer, 0, len(x.containers))
	for _, container := range x.containers {
		containers = append(containers, container)
	}
	return containers
}

func (x *manager) containerDeps() *containerDeps {
	return &containerDeps{
		registry:     x.registry,
		sched:        x.sched,
		logger:       x.logger,
		events:       x.events,
		metrics:      x.metrics,
		queryTimeout: x.queryTimeout,
	}
}
