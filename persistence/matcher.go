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

import "sync"

// strategyMatcher memoizes, per strategy, which item configurations of a
// single Config participate in that strategy. A configuration without
// strategies of its own participates when the config default strategies
// contain the strategy.
//
// A matcher is bound to exactly one Config. Replacing a backend's
// configuration replaces the matcher, which drops the whole cache at
// once.
type strategyMatcher struct {
	config *Config

	mu    sync.RWMutex
	cache map[string][]*ItemConfiguration
}

func newStrategyMatcher(config *Config) *strategyMatcher {
	return &strategyMatcher{
		config: config,
		cache:  make(map[string][]*ItemConfiguration),
	}
}

// Config returns the configuration the matcher is bound to
func (m *strategyMatcher) Config() *Config {
	return m.config
}

// Matching returns the item configurations participating in the given
// strategy. The result is computed once per strategy and served from
// cache afterwards; callers must not mutate it.
func (m *strategyMatcher) Matching(strategy Strategy) []*ItemConfiguration {
	m.mu.RLock()
	matched, ok := m.cache[strategy.Name()]
	m.mu.RUnlock()
	if ok {
		return matched
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if matched, ok := m.cache[strategy.Name()]; ok {
		return matched
	}

	matched = make([]*ItemConfiguration, 0, len(m.config.ItemConfigurations()))
	for _, config := range m.config.ItemConfigurations() {
		strategies := config.Strategies()
		if len(strategies) == 0 {
			strategies = m.config.DefaultStrategies()
		}
		if containsStrategy(strategies, strategy) {
			matched = append(matched, config)
		}
	}
	m.cache[strategy.Name()] = matched
	return matched
}
