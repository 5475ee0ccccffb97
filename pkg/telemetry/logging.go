// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// LoggerWithTrace returns a logger with trace_id and span_id attached.
//
// Description:
//
//	Extracts the current span context and annotates the logger so log
//	entries correlate with traces in Grafana/Loki. Returns the logger
//	unchanged when the context carries no valid span, and slog.Default()
//	when logger is nil, so the result is always usable.
//
// Inputs:
//
//	ctx - Context that may carry an active span. May be nil.
//	logger - Base logger to annotate. May be nil.
//
// Outputs:
//
//	*slog.Logger - Annotated logger, never nil.
//
// Example:
//
//	log := telemetry.LoggerWithTrace(ctx, slog.Default())
//	log.Info("lint pass finished", "errors", len(result.Errors))
//
// Thread Safety: Safe for concurrent use.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		return logger
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	return logger.With(
		"trace_id", sc.TraceID().String(),
		"span_id", sc.SpanID().String(),
	)
}

// LoggerWithLinter returns a trace-annotated logger tagged with the
// linter being run (flake8, golangci-lint, eslint).
func LoggerWithLinter(ctx context.Context, logger *slog.Logger, linter string) *slog.Logger {
	return LoggerWithTrace(ctx, logger).With("linter", linter)
}

// LoggerWithRequest returns a trace-annotated logger tagged with the
// request ID assigned by the backend's request middleware.
func LoggerWithRequest(ctx context.Context, logger *slog.Logger, requestID string) *slog.Logger {
	return LoggerWithTrace(ctx, logger).With("request_id", requestID)
}
