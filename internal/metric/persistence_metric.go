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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// PersistenceMetric defines the persistence layer instrumentation
type PersistenceMetric struct {
	// Specifies the total number of item states written to backends
	storeCount metric.Int64Counter
	// Specifies the total number of item states restored at startup
	restoreCount metric.Int64Counter
	// Specifies the total number of future states promoted to live state
	forecastCount metric.Int64Counter
	// Specifies the total number of backend queries that failed or timed out
	queryFailureCount metric.Int64Counter
	// Specifies the duration of backend store calls
	// This is expressed in milliseconds
	storeDuration metric.Int64Histogram
}

// NewPersistenceMetric creates an instance of PersistenceMetric
func NewPersistenceMetric(meter metric.Meter) (*PersistenceMetric, error) {
	persistenceMetric := new(PersistenceMetric)
	var err error
	if persistenceMetric.storeCount, err = meter.Int64Counter(
		"persistence_store_count",
		metric.WithDescription("Total number of item states written to backends"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storeCount instrument, %w", err)
	}

	if persistenceMetric.restoreCount, err = meter.Int64Counter(
		"persistence_restore_count",
		metric.WithDescription("Total number of item states restored at startup"),
	); err != nil {
		return nil, fmt.Errorf("failed to create restoreCount instrument, %w", err)
	}

	if persistenceMetric.forecastCount, err = meter.Int64Counter(
		"persistence_forecast_count",
		metric.WithDescription("Total number of future states promoted to live state"),
	); err != nil {
		return nil, fmt.Errorf("failed to create forecastCount instrument, %w", err)
	}

	if persistenceMetric.queryFailureCount, err = meter.Int64Counter(
		"persistence_query_failure_count",
		metric.WithDescription("Total number of failed or timed out backend queries"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queryFailureCount instrument, %w", err)
	}

	if persistenceMetric.storeDuration, err = meter.Int64Histogram(
		"persistence_store_duration",
		metric.WithDescription("The latency of backend store calls in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storeDuration instrument, %w", err)
	}

	return persistenceMetric, nil
}

// StoreCount returns the total number of item states written to backends
func (x *PersistenceMetric) StoreCount() metric.Int64Counter {
	return x.storeCount
}

// RestoreCount returns the total number of item states restored at startup
func (x *PersistenceMetric) RestoreCount() metric.Int64Counter {
	return x.restoreCount
}

// ForecastCount returns the total number of future states promoted to live state
func (x *PersistenceMetric) ForecastCount() metric.Int64Counter {
	return x.forecastCount
}

// QueryFailureCount returns the total number of failed or timed out backend queries
func (x *PersistenceMetric) QueryFailureCount() metric.Int64Counter {
	return x.queryFailureCount
}

// StoreDuration returns the backend store call latency histogram
func (x *PersistenceMetric) StoreDuration() metric.Int64Histogram {
	return x.storeDuration
}
