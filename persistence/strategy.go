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

// Strategy identifies when an item state is handed to a backend.
// Strategies compare by name only.
type Strategy struct {
	name string
}

// NewStrategy creates a Strategy with the given name
func NewStrategy(name string) Strategy {
	return Strategy{name: name}
}

// Name returns the strategy name
func (s Strategy) Name() string {
	return s.name
}

// String implements fmt.Stringer
func (s Strategy) String() string {
	return s.name
}

// Equal reports whether both strategies carry the same name
func (s Strategy) Equal(other Strategy) bool {
	return s.name == other.name
}

// Built-in strategies. Cron-triggered strategies are defined per
// configuration with NewCronStrategy.
var (
	// StrategyUpdate stores a state every time an item reports one,
	// whether or not the value differs from the previous one.
	StrategyUpdate = NewStrategy("everyUpdate")
	// StrategyChange stores a state only when the value differs from
	// the previous one.
	StrategyChange = NewStrategy("everyChange")
	// StrategyRestore loads the most recent stored state back into an
	// item whose state is still undefined at startup.
	StrategyRestore = NewStrategy("restoreOnStartup")
	// StrategyForecast promotes stored future-dated states to the live
	// item state when their timestamp arrives.
	StrategyForecast = NewStrategy("forecast")
)

// GlobalStrategy resolves a built-in strategy by name. Cron-triggered
// strategies are not global and resolve through their configuration.
func GlobalStrategy(name string) (Strategy, bool) {
	switch name {
	case StrategyUpdate.name:
		return StrategyUpdate, true
	case StrategyChange.name:
		return StrategyChange, true
	case StrategyRestore.name:
		return StrategyRestore, true
	case StrategyForecast.name:
		return StrategyForecast, true
	default:
		return Strategy{}, false
	}
}

// CronStrategy is a Strategy fired on a cron schedule.
type CronStrategy struct {
	Strategy
	expression string
}

// NewCronStrategy creates a CronStrategy with the given name and
// cron expression. The expression is validated when jobs are scheduled,
// not here.
func NewCronStrategy(name, expression string) CronStrategy {
	return CronStrategy{
		Strategy:   NewStrategy(name),
		expression: expression,
	}
}

// Expression returns the cron expression
func (s CronStrategy) Expression() string {
	return s.expression
}

func containsStrategy(strategies []Strategy, strategy Strategy) bool {
	for _, candidate := range strategies {
		if candidate.Equal(strategy) {
			return true
		}
	}
	return false
}
