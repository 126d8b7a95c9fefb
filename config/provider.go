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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
	"go.uber.org/multierr"

	"github.com/tochemey/historian/log"
	"github.com/tochemey/historian/persistence"
)

// Listener is notified about configuration changes the provider observes
// between two Load calls.
type Listener interface {
	// ConfigAdded is invoked when a backend gained a configuration
	ConfigAdded(config *persistence.Config)
	// ConfigUpdated is invoked when a backend's configuration document
	// changed
	ConfigUpdated(config *persistence.Config)
	// ConfigRemoved is invoked when a backend's configuration document
	// disappeared
	ConfigRemoved(backendID string)
}

// Provider loads every persistence configuration document of a directory
// and notifies its listeners about backends that were added, updated or
// removed since the previous Load. A document that fails to parse is
// reported as an error and the previously loaded configuration of that
// backend stays in effect.
type Provider struct {
	dir    string
	logger log.Logger

	mu        sync.Mutex
	hashes    map[string]uint64
	configs   map[string]*persistence.Config
	listeners []Listener
}

// ProviderOption configures a Provider
type ProviderOption func(*Provider)

// WithProviderLogger sets the provider logger
func WithProviderLogger(logger log.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a Provider reading configuration documents from the
// given directory. Nothing is loaded until Load is called.
func NewProvider(dir string, opts ...ProviderOption) *Provider {
	provider := &Provider{
		dir:     dir,
		logger:  log.DefaultLogger,
		hashes:  make(map[string]uint64),
		configs: make(map[string]*persistence.Config),
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// AddListener registers a configuration change listener
func (p *Provider) AddListener(listener Listener) {
	p.mu.Lock()
	p.listeners = append(p.listeners, listener)
	p.mu.Unlock()
}

// BindManager forwards configuration changes to the given persistence
// manager: added and updated configurations are installed, removed ones
// drop back to the backend defaults.
func (p *Provider) BindManager(manager persistence.Manager) {
	p.AddListener(&managerListener{manager: manager, logger: p.logger})
}

// Configs returns the currently loaded configurations sorted by backend id
func (p *Provider) Configs() []*persistence.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.configs))
	for id := range p.configs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	configs := make([]*persistence.Config, 0, len(ids))
	for _, id := range ids {
		configs = append(configs, p.configs[id])
	}
	return configs
}

// Config returns the loaded configuration of the given backend, nil when
// there is none
func (p *Provider) Config(backendID string) *persistence.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configs[backendID]
}

// Load scans the provider directory, parses every configuration document
// and notifies listeners about the differences to the previous Load. The
// returned error aggregates per-document failures; valid documents are
// applied regardless.
func (p *Provider) Load() error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("failed to read configuration directory %s: %w", p.dir, err)
	}

	incomingHashes := make(map[string]uint64)
	incomingConfigs := make(map[string]*persistence.Config)
	var errs error

	for _, entry := range entries {
		if entry.IsDir() || !isConfigFile(entry.Name()) {
			continue
		}

		path := filepath.Join(p.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
			p.carryForward(entry.Name(), incomingHashes, incomingConfigs)
			continue
		}

		config, err := Load(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
			p.carryForward(entry.Name(), incomingHashes, incomingConfigs)
			continue
		}

		if _, dup := incomingConfigs[config.BackendID()]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: duplicate backend %q", entry.Name(), config.BackendID()))
			continue
		}
		incomingHashes[config.BackendID()] = xxh3.Hash(data)
		incomingConfigs[config.BackendID()] = config
		p.logger.Debugf("loaded configuration of backend=(%s) from file=(%s)", config.BackendID(), entry.Name())
	}

	p.mu.Lock()
	var added, updated []*persistence.Config
	var removed []string
	for id, config := range incomingConfigs {
		previous, known := p.hashes[id]
		switch {
		case !known:
			added = append(added, config)
		case previous != incomingHashes[id]:
			updated = append(updated, config)
		}
	}
	for id := range p.configs {
		if _, still := incomingConfigs[id]; !still {
			removed = append(removed, id)
		}
	}
	p.hashes = incomingHashes
	p.configs = incomingConfigs
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	slices.SortFunc(added, byBackendID)
	slices.SortFunc(updated, byBackendID)
	slices.Sort(removed)

	for _, listener := range listeners {
		for _, config := range added {
			listener.ConfigAdded(config)
		}
		for _, config := range updated {
			listener.ConfigUpdated(config)
		}
		for _, id := range removed {
			listener.ConfigRemoved(id)
		}
	}

	return errs
}

// carryForward keeps the previous configuration of a backend whose
// document failed to load, keyed by the file name stem.
func (p *Provider) carryForward(fileName string, hashes map[string]uint64, configs map[string]*persistence.Config) {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if _, loaded := configs[stem]; loaded {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if config, ok := p.configs[stem]; ok {
		configs[stem] = config
		hashes[stem] = p.hashes[stem]
	}
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func byBackendID(a, b *persistence.Config) int {
	return strings.Compare(a.BackendID(), b.BackendID())
}

// managerListener installs configuration changes into a persistence
// manager.
type managerListener struct {
	manager persistence.Manager
	logger  log.Logger
}

// enforce compilation error
var _ Listener = (*managerListener)(nil)

func (l *managerListener) ConfigAdded(config *persistence.Config) {
	l.install(config)
}

func (l *managerListener) ConfigUpdated(config *persistence.Config) {
	l.install(config)
}

func (l *managerListener) ConfigRemoved(backendID string) {
	if err := l.manager.RemoveConfig(backendID); err != nil {
		l.logger.Errorf("failed to remove configuration of backend=(%s): %v", backendID, err)
	}
}

func (l *managerListener) install(config *persistence.Config) {
	if err := l.manager.SetConfig(config); err != nil {
		l.logger.Errorf("failed to apply configuration of backend=(%s): %v", config.BackendID(), err)
	}
}
