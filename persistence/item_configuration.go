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
	goset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/historian/item"
)

// ItemConfiguration binds a set of item selectors to the strategies and
// filters governing their persistence. An ItemConfiguration is immutable
// once created.
type ItemConfiguration struct {
	selectors  []ItemSelector
	alias      string
	strategies []Strategy
	filters    []Filter
}

// ItemConfigurationOption configures an ItemConfiguration
type ItemConfigurationOption func(*ItemConfiguration)

// WithAlias stores matched items under the given alias instead of their
// item name. Aliases only make sense for single-item selectors.
func WithAlias(alias string) ItemConfigurationOption {
	return func(c *ItemConfiguration) {
		c.alias = alias
	}
}

// WithStrategies sets the strategies of the configuration. A
// configuration without strategies inherits the container default
// strategies.
func WithStrategies(strategies ...Strategy) ItemConfigurationOption {
	return func(c *ItemConfiguration) {
		c.strategies = strategies
	}
}

// WithFilters sets the filters evaluated before each store
func WithFilters(filters ...Filter) ItemConfigurationOption {
	return func(c *ItemConfiguration) {
		c.filters = filters
	}
}

// NewItemConfiguration creates an ItemConfiguration for the given selectors
func NewItemConfiguration(selectors []ItemSelector, opts ...ItemConfigurationOption) *ItemConfiguration {
	config := &ItemConfiguration{
		selectors: selectors,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Selectors returns the item selectors
func (c *ItemConfiguration) Selectors() []ItemSelector {
	return c.selectors
}

// Alias returns the storage alias. An empty alias means the item name.
func (c *ItemConfiguration) Alias() string {
	return c.alias
}

// Strategies returns the configured strategies. An empty slice means the
// container default strategies apply.
func (c *ItemConfiguration) Strategies() []Strategy {
	return c.strategies
}

// Filters returns the configured filters
func (c *ItemConfiguration) Filters() []Filter {
	return c.filters
}

// AppliesTo reports whether any selector of the configuration currently
// matches the item
func (c *ItemConfiguration) AppliesTo(it *item.Item, registry item.Registry) bool {
	for _, selector := range c.selectors {
		if selector.Matches(it, registry) {
			return true
		}
	}
	return false
}

// ResolveItems returns the registered items the configuration currently
// applies to. Group selectors are expanded against the live registry on
// every call.
func (c *ItemConfiguration) ResolveItems(registry item.Registry) []*item.Item {
	names := goset.NewSet[string]()
	for _, selector := range c.selectors {
		names = names.Union(selector.Resolve(registry))
	}

	items := make([]*item.Item, 0, names.Cardinality())
	for _, it := range registry.Items() {
		if names.Contains(it.Name()) {
			items = append(items, it)
		}
	}
	return items
}
