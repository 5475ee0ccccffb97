// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lint

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for lint operations.
var (
	tracer = otel.Tracer("saltline.lint")
	meter  = otel.Meter("saltline.lint")
)

// Metrics for lint operations.
var (
	lintLatency   metric.Float64Histogram
	lintTotal     metric.Int64Counter
	issuesFound   metric.Int64Histogram
	errorsFound   metric.Int64Counter
	warningsFound metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		lintLatency, err = meter.Float64Histogram(
			"lint_duration_seconds",
			metric.WithDescription("Duration of lint operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		lintTotal, err = meter.Int64Counter(
			"lint_total",
			metric.WithDescription("Total number of lint operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		issuesFound, err = meter.Int64Histogram(
			"lint_issues_found",
			metric.WithDescription("Number of issues found per lint operation"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		errorsFound, err = meter.Int64Counter(
			"lint_errors_found_total",
			metric.WithDescription("Total number of lint errors found"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		warningsFound, err = meter.Int64Counter(
			"lint_warnings_found_total",
			metric.WithDescription("Total number of lint warnings found"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startLintSpan creates a span for a lint operation.
func startLintSpan(ctx context.Context, op, language, dir string) (context.Context, trace.Span) {
	return tracer.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("lint.language", language),
			attribute.String("lint.project_dir", dir),
		),
	)
}

// setLintSpanResult sets the result attributes on a check span.
func setLintSpanResult(span trace.Span, errorCount, warningCount int, linterAvailable bool) {
	span.SetAttributes(
		attribute.Int("lint.error_count", errorCount),
		attribute.Int("lint.warning_count", warningCount),
		attribute.Bool("lint.linter_available", linterAvailable),
	)
}

// setLintSpanExit sets the exit status attributes on a gate span.
func setLintSpanExit(span trace.Span, exitCode int) {
	span.SetAttributes(
		attribute.Int("lint.exit_code", exitCode),
		attribute.Int("lint.normalized_exit_code", Normalize(exitCode)),
	)
}

// recordLintMetrics records metrics for a lint operation.
func recordLintMetrics(ctx context.Context, language, mode string, duration time.Duration, errorCount, warningCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.String("mode", mode),
		attribute.Bool("success", success),
	)

	lintLatency.Record(ctx, duration.Seconds(), attrs)
	lintTotal.Add(ctx, 1, attrs)

	if success && mode == "check" {
		issuesFound.Record(ctx, int64(errorCount+warningCount), metric.WithAttributes(
			attribute.String("language", language),
		))
		errorsFound.Add(ctx, int64(errorCount), metric.WithAttributes(
			attribute.String("language", language),
		))
		warningsFound.Add(ctx, int64(warningCount), metric.WithAttributes(
			attribute.String("language", language),
		))
	}
}
