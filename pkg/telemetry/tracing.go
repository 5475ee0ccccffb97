// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts a new span using the named tracer.
//
// Description:
//
//	Convenience wrapper around otel.Tracer(name).Start. Safe to call
//	before Init; spans are no-ops until a TracerProvider is installed.
//	A nil context is replaced with context.Background().
//
// Inputs:
//
//	ctx - Parent context. May carry an existing span.
//	tracerName - Name for the tracer (typically the package path).
//	spanName - Name of the operation being traced.
//	opts - Optional span start options (attributes, span kind).
//
// Outputs:
//
//	context.Context - Context with the new span attached.
//	trace.Span - The started span. Callers must call End().
//
// Example:
//
//	ctx, span := telemetry.StartSpan(ctx, "saltline.lint", "RunCheck")
//	defer span.End()
//
// Thread Safety: Safe for concurrent use.
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return otel.Tracer(tracerName).Start(ctx, spanName, opts...)
}

// SpanFromContext returns the current span from the context.
//
// Returns a no-op span if the context carries none, so the result is
// always safe to call methods on.
func SpanFromContext(ctx context.Context) trace.Span {
	if ctx == nil {
		ctx = context.Background()
	}
	return trace.SpanFromContext(ctx)
}

// RecordError records an error on the span and marks it as failed.
//
// Description:
//
//	Records the error as a span event and sets the span status to Error.
//	Does nothing if span or err is nil, so callers can use it on every
//	error path without guarding.
//
// Inputs:
//
//	span - The span to record on. May be nil.
//	err - The error to record. May be nil.
//	attrs - Optional attributes to attach to the error event.
//
// Example:
//
//	if err := runner.Check(ctx, dir); err != nil {
//	    telemetry.RecordError(span, err, attribute.String("dir", dir))
//	    return err
//	}
//
// Thread Safety: Safe for concurrent use.
func RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if span == nil || err == nil {
		return
	}
	if len(attrs) > 0 {
		span.RecordError(err, trace.WithAttributes(attrs...))
	} else {
		span.RecordError(err)
	}
	span.SetStatus(codes.Error, err.Error())
}

// RecordErrorf records a formatted error on the span.
//
// Equivalent to RecordError(span, fmt.Errorf(format, args...)).
func RecordErrorf(span trace.Span, format string, args ...any) {
	if span == nil {
		return
	}
	RecordError(span, fmt.Errorf(format, args...))
}

// SetSpanOK marks the span as completed successfully.
//
// Does nothing if span is nil.
func SetSpanOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds a named event to the span.
//
// Description:
//
//	Events mark points in time within a span, useful for recording
//	intermediate milestones like "venv_found" or "parse_complete".
//	Does nothing if span is nil.
//
// Inputs:
//
//	span - The span to add the event to. May be nil.
//	name - Event name.
//	attrs - Optional attributes for the event.
//
// Thread Safety: Safe for concurrent use.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	if len(attrs) > 0 {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	} else {
		span.AddEvent(name)
	}
}

// SetSpanAttributes sets attributes on the span.
//
// Does nothing if span is nil.
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
}

// TraceID returns the trace ID from the context, or "" if no valid
// span context is present.
//
// Example:
//
//	logger.Info("lint pass finished", "trace_id", telemetry.TraceID(ctx))
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanID returns the span ID from the context, or "" if no valid
// span context is present.
func SpanID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

// HasActiveSpan reports whether the context carries a valid, recording span.
func HasActiveSpan(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	span := trace.SpanFromContext(ctx)
	return span.SpanContext().IsValid() && span.IsRecording()
}

// InjectContext injects trace context into outgoing HTTP headers.
//
// Description:
//
//	Uses the globally configured propagator (set in Init) to inject
//	W3C TraceContext and Baggage into HTTP headers. Use this when
//	making outgoing HTTP requests to propagate trace context.
//
// Inputs:
//
//	ctx - Context containing active span information.
//	headers - HTTP headers to inject trace context into.
//
// Thread Safety: Safe for concurrent use.
func InjectContext(ctx context.Context, headers http.Header) {
	if ctx == nil {
		return
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// PropagateToRequest injects trace context into an outgoing HTTP request.
//
// Description:
//
//	Convenience wrapper that injects trace context into the request
//	headers and attaches the context to the request.
//
// Inputs:
//
//	ctx - Context containing active span information.
//	req - HTTP request to inject trace context into.
//
// Outputs:
//
//	*http.Request - Request with context and trace headers updated.
//
// Example:
//
//	req, _ := http.NewRequest(http.MethodGet, url, nil)
//	req = telemetry.PropagateToRequest(ctx, req)
//	resp, err := client.Do(req)
//
// Thread Safety: Safe for concurrent use.
func PropagateToRequest(ctx context.Context, req *http.Request) *http.Request {
	if ctx == nil || req == nil {
		return req
	}
	InjectContext(ctx, req.Header)
	return req.WithContext(ctx)
}
