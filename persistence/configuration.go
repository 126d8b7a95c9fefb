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

import "slices"

// Config is the complete persistence configuration of a single backend:
// which items are stored, when, and under which filters. A Config is
// immutable once created; replacing a backend's configuration swaps the
// whole Config.
type Config struct {
	backendID         string
	configs           []*ItemConfiguration
	defaultStrategies []Strategy
	cronStrategies    []CronStrategy
	filters           []Filter
}

// ConfigOption configures a Config
type ConfigOption func(*Config)

// WithItemConfigurations sets the item configurations
func WithItemConfigurations(configs ...*ItemConfiguration) ConfigOption {
	return func(c *Config) {
		c.configs = configs
	}
}

// WithDefaultStrategies sets the strategies applied to item
// configurations that list none of their own. When unset the backend
// default strategies apply.
func WithDefaultStrategies(strategies ...Strategy) ConfigOption {
	return func(c *Config) {
		c.defaultStrategies = strategies
	}
}

// WithCronStrategies sets the cron-triggered strategies defined by the
// configuration. Item configurations reference them by name.
func WithCronStrategies(strategies ...CronStrategy) ConfigOption {
	return func(c *Config) {
		c.cronStrategies = strategies
	}
}

// WithConfigFilters sets the filters defined by the configuration. Item
// configurations reference them by name.
func WithConfigFilters(filters ...Filter) ConfigOption {
	return func(c *Config) {
		c.filters = filters
	}
}

// NewConfig creates a Config for the given backend
func NewConfig(backendID string, opts ...ConfigOption) *Config {
	config := &Config{
		backendID: backendID,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// defaultConfig synthesizes the configuration used when a backend has no
// configuration of its own: every item, backend default strategies, no
// filters.
func defaultConfig(backend Backend) *Config {
	return NewConfig(
		backend.ID(),
		WithItemConfigurations(
			NewItemConfiguration([]ItemSelector{SelectAll()}),
		),
		WithDefaultStrategies(backend.DefaultStrategies()...),
	)
}

// BackendID returns the identifier of the backend the configuration
// belongs to
func (c *Config) BackendID() string {
	return c.backendID
}

// ItemConfigurations returns the item configurations
func (c *Config) ItemConfigurations() []*ItemConfiguration {
	return c.configs
}

// DefaultStrategies returns the default strategies of the configuration
func (c *Config) DefaultStrategies() []Strategy {
	return c.defaultStrategies
}

// CronStrategies returns the cron-triggered strategies defined by the
// configuration
func (c *Config) CronStrategies() []CronStrategy {
	return slices.Clone(c.cronStrategies)
}

// Filters returns the filters defined by the configuration
func (c *Config) Filters() []Filter {
	return slices.Clone(c.filters)
}
