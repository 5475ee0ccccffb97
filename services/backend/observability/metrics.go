// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the backend service.
//
// # Description
//
// This package implements metrics for monitoring the item catalog API.
// Metrics include:
//   - Request counters (by endpoint and status)
//   - Request duration histograms
//   - Error counters (by endpoint and error code)
//   - A gauge of catalog size
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "saltline"

// Subsystem for backend metrics
const backendSubsystem = "backend"

// BackendMetrics holds all Prometheus metrics for the item catalog API.
//
// # Description
//
// Provides counters, histograms, and a gauge for monitoring API traffic
// and catalog size. Initialize once at startup via InitMetrics().
//
// # Fields
//
//   - RequestsTotal: Counter of API requests by endpoint and status
//   - RequestDurationSeconds: Histogram of request latency by endpoint
//   - ErrorsTotal: Counter of errors by endpoint and error code
//   - ItemsTotal: Gauge of items currently in the catalog
//
// # Thread Safety
//
// All operations are thread-safe.
type BackendMetrics struct {
	// RequestsTotal counts API requests by endpoint and HTTP status.
	// Labels: endpoint (create_item, list_items, ...), status (200, 404, ...)
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures request latency.
	// Labels: endpoint
	RequestDurationSeconds *prometheus.HistogramVec

	// ErrorsTotal counts errors by endpoint and error code.
	// Labels: endpoint, error_code (validation, invalid_id, not_found, ...)
	ErrorsTotal *prometheus.CounterVec

	// ItemsTotal tracks the number of items in the catalog.
	ItemsTotal prometheus.Gauge
}

// DefaultMetrics is the singleton instance of BackendMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *BackendMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once
// at application startup.
//
// # Outputs
//
//   - *BackendMetrics: The initialized metrics instance.
//
// # Examples
//
//	func main() {
//	    observability.InitMetrics()
//	    // ... start server ...
//	}
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *BackendMetrics {
	DefaultMetrics = &BackendMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: backendSubsystem,
				Name:      "requests_total",
				Help:      "Total number of API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: backendSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Request latency in seconds by endpoint",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"endpoint"},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: backendSubsystem,
				Name:      "errors_total",
				Help:      "Total API errors by endpoint and error code",
			},
			[]string{"endpoint", "error_code"},
		),

		ItemsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: backendSubsystem,
				Name:      "items_total",
				Help:      "Number of items currently in the catalog",
			},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Error Codes
// =============================================================================

// ErrorCode represents a categorized error type for metrics.
type ErrorCode string

const (
	// ErrorCodeValidation indicates request validation failure.
	ErrorCodeValidation ErrorCode = "validation"

	// ErrorCodeInvalidID indicates a malformed item ID.
	ErrorCodeInvalidID ErrorCode = "invalid_id"

	// ErrorCodeNotFound indicates the requested item does not exist.
	ErrorCodeNotFound ErrorCode = "not_found"

	// ErrorCodeDatabase indicates a storage operation failure.
	ErrorCodeDatabase ErrorCode = "database"
)

// =============================================================================
// Endpoint Names
// =============================================================================

// Endpoint represents an API endpoint for metrics labeling.
type Endpoint string

const (
	// EndpointRoot is the basic liveness endpoint.
	EndpointRoot Endpoint = "root"

	// EndpointHealth is the database-backed health endpoint.
	EndpointHealth Endpoint = "health"

	// EndpointCreateItem is the item creation endpoint.
	EndpointCreateItem Endpoint = "create_item"

	// EndpointListItems is the item listing endpoint.
	EndpointListItems Endpoint = "list_items"

	// EndpointGetItem is the single-item fetch endpoint.
	EndpointGetItem Endpoint = "get_item"

	// EndpointUpdateItem is the item update endpoint.
	EndpointUpdateItem Endpoint = "update_item"

	// EndpointDeleteItem is the item deletion endpoint.
	EndpointDeleteItem Endpoint = "delete_item"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed API request.
//
// # Inputs
//
//   - endpoint: The endpoint that handled the request.
//   - status: The HTTP status code written.
//   - elapsed: Wall time spent handling the request.
func (m *BackendMetrics) RecordRequest(endpoint Endpoint, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(string(endpoint), strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(string(endpoint)).Observe(elapsed.Seconds())
}

// RecordError records an API error.
//
// # Inputs
//
//   - endpoint: The endpoint where the error occurred.
//   - code: The error type code.
func (m *BackendMetrics) RecordError(endpoint Endpoint, code ErrorCode) {
	m.ErrorsTotal.WithLabelValues(string(endpoint), string(code)).Inc()
}

// ItemCreated increments the catalog size gauge.
func (m *BackendMetrics) ItemCreated() {
	m.ItemsTotal.Inc()
}

// ItemDeleted decrements the catalog size gauge.
func (m *BackendMetrics) ItemDeleted() {
	m.ItemsTotal.Dec()
}

// SetItemCount sets the catalog size gauge to an observed count.
// List handlers call this so the gauge self-corrects after restarts.
func (m *BackendMetrics) SetItemCount(n int) {
	m.ItemsTotal.Set(float64(n))
}
