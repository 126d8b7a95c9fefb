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

// Package config loads persistence configuration documents. A document
// describes the configuration of exactly one backend: which items it
// records, under which strategies, through which filters. Documents are
// written in YAML or JSON and validated completely at load time, so the
// persistence core never sees a malformed configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	gerrors "github.com/tochemey/historian/errors"
	"github.com/tochemey/historian/internal/validation"
	"github.com/tochemey/historian/persistence"
	"github.com/tochemey/historian/scheduler"
	"github.com/tochemey/historian/state"
)

// backendIDPattern is the pattern a backend id must follow
const backendIDPattern = "^[a-zA-Z0-9][a-zA-Z0-9-_]*$"

// Document is the serialized form of one backend's persistence
// configuration.
type Document struct {
	// Backend is the id of the backend this document configures. When the
	// document is loaded from a file it defaults to the file name.
	Backend string `yaml:"backend" json:"backend"`
	// Defaults names the strategies applied to item entries that carry
	// none of their own.
	Defaults []string `yaml:"defaults" json:"defaults"`
	// CronStrategies defines the cron-triggered strategies item entries
	// can reference by name.
	CronStrategies []CronStrategy `yaml:"cronStrategies" json:"cronStrategies"`
	// Filters defines the named filters item entries can reference.
	Filters Filters `yaml:"filters" json:"filters"`
	// Items lists the item configurations of the backend.
	Items []Item `yaml:"items" json:"items"`
}

// CronStrategy defines a named cron-triggered strategy.
type CronStrategy struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression" json:"expression"`
}

// Filters groups the filter definitions of a document by kind.
type Filters struct {
	Range     []RangeFilter     `yaml:"range" json:"range"`
	Interval  []IntervalFilter  `yaml:"interval" json:"interval"`
	Equals    []EqualsFilter    `yaml:"equals" json:"equals"`
	Threshold []ThresholdFilter `yaml:"threshold" json:"threshold"`
}

// RangeFilter defines a filter admitting numeric states inside
// [Lower, Upper], or outside when inverted.
type RangeFilter struct {
	Name     string  `yaml:"name" json:"name"`
	Lower    float64 `yaml:"lower" json:"lower"`
	Upper    float64 `yaml:"upper" json:"upper"`
	Unit     string  `yaml:"unit" json:"unit"`
	Inverted bool    `yaml:"inverted" json:"inverted"`
}

// IntervalFilter defines a filter enforcing a minimum gap between stores
// of the same item. Valid units are "s", "m", "h" and "d"; an empty unit
// means seconds.
type IntervalFilter struct {
	Name  string `yaml:"name" json:"name"`
	Value uint   `yaml:"value" json:"value"`
	Unit  string `yaml:"unit" json:"unit"`
}

// EqualsFilter defines a filter admitting states whose textual form is
// one of Values, or any other state when inverted.
type EqualsFilter struct {
	Name     string   `yaml:"name" json:"name"`
	Values   []string `yaml:"values" json:"values"`
	Inverted bool     `yaml:"inverted" json:"inverted"`
}

// ThresholdFilter defines a filter admitting numeric states that moved at
// least Value away from the last admitted one. With Relative set the
// value is a percentage.
type ThresholdFilter struct {
	Name     string  `yaml:"name" json:"name"`
	Value    float64 `yaml:"value" json:"value"`
	Unit     string  `yaml:"unit" json:"unit"`
	Relative bool    `yaml:"relative" json:"relative"`
}

// Item is one item configuration entry. Selectors name single items
// ("Temperature"), groups ("Sensors*") or every item ("*"). Strategies
// and Filters reference global strategy names, the document's cron
// strategies and the document's filter definitions by name.
type Item struct {
	Selectors  []string `yaml:"selectors" json:"selectors"`
	Alias      string   `yaml:"alias" json:"alias"`
	Strategies []string `yaml:"strategies" json:"strategies"`
	Filters    []string `yaml:"filters" json:"filters"`
}

// Parse parses a YAML configuration document.
func Parse(data []byte) (*persistence.Config, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", gerrors.ErrInvalidConfiguration, err)
	}
	return doc.Build()
}

// ParseJSON parses a JSON configuration document.
func ParseJSON(data []byte) (*persistence.Config, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", gerrors.ErrInvalidConfiguration, err)
	}
	return doc.Build()
}

// Load reads the configuration document at the given path. The format
// follows the file extension (.yaml, .yml or .json). A document without
// an explicit backend id takes it from the file name; an explicit id must
// match the file name.
func Load(path string) (*persistence.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", gerrors.ErrInvalidConfiguration, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", gerrors.ErrInvalidConfiguration, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported configuration file %s", gerrors.ErrInvalidConfiguration, filepath.Base(path))
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if doc.Backend == "" {
		doc.Backend = stem
	}
	if doc.Backend != stem {
		return nil, fmt.Errorf("%w: backend id %q does not match file name %q", gerrors.ErrInvalidConfiguration, doc.Backend, stem)
	}
	return doc.Build()
}

// Build validates the document and assembles the persistence
// configuration it describes.
func (d *Document) Build() (*persistence.Config, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	cronStrategies := make([]persistence.CronStrategy, 0, len(d.CronStrategies))
	cronByName := make(map[string]persistence.CronStrategy, len(d.CronStrategies))
	for _, cron := range d.CronStrategies {
		strategy := persistence.NewCronStrategy(cron.Name, cron.Expression)
		cronStrategies = append(cronStrategies, strategy)
		cronByName[cron.Name] = strategy
	}

	filters, filterByName, err := d.buildFilters()
	if err != nil {
		return nil, err
	}

	defaults, err := d.resolveStrategies(d.Defaults, cronByName)
	if err != nil {
		return nil, err
	}

	itemConfigs := make([]*persistence.ItemConfiguration, 0, len(d.Items))
	for index, entry := range d.Items {
		selectors := make([]persistence.ItemSelector, 0, len(entry.Selectors))
		for _, raw := range entry.Selectors {
			selector, err := parseSelector(raw)
			if err != nil {
				return nil, fmt.Errorf("item entry %d of backend %q: %w", index, d.Backend, err)
			}
			selectors = append(selectors, selector)
		}

		strategies, err := d.resolveStrategies(entry.Strategies, cronByName)
		if err != nil {
			return nil, err
		}

		entryFilters := make([]persistence.Filter, 0, len(entry.Filters))
		for _, name := range entry.Filters {
			filter, ok := filterByName[name]
			if !ok {
				return nil, fmt.Errorf("%w: filter %q unknown for backend %q", gerrors.ErrInvalidConfiguration, name, d.Backend)
			}
			entryFilters = append(entryFilters, filter)
		}

		opts := []persistence.ItemConfigurationOption{
			persistence.WithStrategies(strategies...),
			persistence.WithFilters(entryFilters...),
		}
		if entry.Alias != "" {
			opts = append(opts, persistence.WithAlias(entry.Alias))
		}
		itemConfigs = append(itemConfigs, persistence.NewItemConfiguration(selectors, opts...))
	}

	return persistence.NewConfig(
		d.Backend,
		persistence.WithItemConfigurations(itemConfigs...),
		persistence.WithDefaultStrategies(defaults...),
		persistence.WithCronStrategies(cronStrategies...),
		persistence.WithConfigFilters(filters...),
	), nil
}

func (d *Document) validate() error {
	chain := validation.New(validation.FailFast()).
		AddValidator(validation.NewPatternValidator(backendIDPattern, d.Backend, fmt.Errorf("%w: invalid backend id %q", gerrors.ErrInvalidConfiguration, d.Backend)))

	cronNames := make(map[string]struct{}, len(d.CronStrategies))
	for _, cron := range d.CronStrategies {
		chain.AddAssertion(cron.Name != "", fmt.Sprintf("cron strategy of backend %q needs a name", d.Backend))
		if _, global := persistence.GlobalStrategy(cron.Name); global {
			return fmt.Errorf("%w: cron strategy %q of backend %q shadows a built-in strategy", gerrors.ErrInvalidConfiguration, cron.Name, d.Backend)
		}
		if _, dup := cronNames[cron.Name]; dup {
			return fmt.Errorf("%w: duplicate cron strategy %q for backend %q", gerrors.ErrInvalidConfiguration, cron.Name, d.Backend)
		}
		cronNames[cron.Name] = struct{}{}
		if err := scheduler.ValidateCron(cron.Expression); err != nil {
			return gerrors.NewErrInvalidCronExpression(cron.Name, err)
		}
	}

	for index, entry := range d.Items {
		chain.AddAssertion(len(entry.Selectors) > 0, fmt.Sprintf("item entry %d of backend %q needs at least one selector", index, d.Backend))
	}

	return chain.Validate()
}

func (d *Document) buildFilters() ([]persistence.Filter, map[string]persistence.Filter, error) {
	filters := make([]persistence.Filter, 0, len(d.Filters.Range)+len(d.Filters.Interval)+len(d.Filters.Equals)+len(d.Filters.Threshold))
	byName := make(map[string]persistence.Filter)

	record := func(filter persistence.Filter) error {
		if filter.Name() == "" {
			return fmt.Errorf("%w: filter of backend %q needs a name", gerrors.ErrInvalidConfiguration, d.Backend)
		}
		if _, dup := byName[filter.Name()]; dup {
			return fmt.Errorf("%w: duplicate filter %q for backend %q", gerrors.ErrInvalidConfiguration, filter.Name(), d.Backend)
		}
		filters = append(filters, filter)
		byName[filter.Name()] = filter
		return nil
	}

	for _, doc := range d.Filters.Range {
		var opts []persistence.RangeFilterOption
		if doc.Unit != "" {
			opts = append(opts, persistence.WithRangeUnit(state.Unit(doc.Unit)))
		}
		if doc.Inverted {
			opts = append(opts, persistence.WithRangeInverted())
		}
		if err := record(persistence.NewRangeFilter(doc.Name, decimal.NewFromFloat(doc.Lower), decimal.NewFromFloat(doc.Upper), opts...)); err != nil {
			return nil, nil, err
		}
	}

	for _, doc := range d.Filters.Interval {
		filter, err := persistence.NewIntervalFilter(doc.Name, doc.Value, doc.Unit)
		if err != nil {
			return nil, nil, err
		}
		if err := record(filter); err != nil {
			return nil, nil, err
		}
	}

	for _, doc := range d.Filters.Equals {
		var opts []persistence.EqualsFilterOption
		if doc.Inverted {
			opts = append(opts, persistence.WithEqualsInverted())
		}
		if err := record(persistence.NewEqualsFilter(doc.Name, doc.Values, opts...)); err != nil {
			return nil, nil, err
		}
	}

	for _, doc := range d.Filters.Threshold {
		var opts []persistence.ThresholdFilterOption
		if doc.Unit != "" {
			opts = append(opts, persistence.WithThresholdUnit(state.Unit(doc.Unit)))
		}
		if doc.Relative {
			opts = append(opts, persistence.WithThresholdRelative())
		}
		if err := record(persistence.NewThresholdFilter(doc.Name, decimal.NewFromFloat(doc.Value), opts...)); err != nil {
			return nil, nil, err
		}
	}

	return filters, byName, nil
}

func (d *Document) resolveStrategies(names []string, cronByName map[string]persistence.CronStrategy) ([]persistence.Strategy, error) {
	strategies := make([]persistence.Strategy, 0, len(names))
	for _, name := range names {
		if cron, ok := cronByName[name]; ok {
			strategies = append(strategies, cron.Strategy)
			continue
		}
		if strategy, ok := persistence.GlobalStrategy(name); ok {
			strategies = append(strategies, strategy)
			continue
		}
		return nil, fmt.Errorf("backend %q: %w", d.Backend, gerrors.NewErrUnknownStrategy(name))
	}
	return strategies, nil
}

func parseSelector(raw string) (persistence.ItemSelector, error) {
	switch {
	case raw == "":
		return nil, fmt.Errorf("%w: empty selector", gerrors.ErrInvalidConfiguration)
	case raw == "*":
		return persistence.SelectAll(), nil
	case strings.HasSuffix(raw, "*"):
		group := strings.TrimSuffix(raw, "*")
		if group == "" || strings.Contains(group, "*") {
			return nil, fmt.Errorf("%w: invalid selector %q", gerrors.ErrInvalidConfiguration, raw)
		}
		return persistence.SelectGroup(group), nil
	case strings.Contains(raw, "*"):
		return nil, fmt.Errorf("%w: invalid selector %q", gerrors.ErrInvalidConfiguration, raw)
	default:
		return persistence.SelectItem(raw), nil
	}
}
