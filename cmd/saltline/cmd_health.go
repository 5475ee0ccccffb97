// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/saltline-io/saltline/cmd/saltline/config"
	"github.com/saltline-io/saltline/pkg/telemetry"
	"github.com/saltline-io/saltline/pkg/ux"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var healthJSONOutput bool // Output as JSON

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// healthCmd probes the backend service.
//
// # Description
//
// Issues GET /health against the configured backend URL with a bounded
// context and reports whether the service and its database are up.
//
// # Examples
//
//	saltline health          # Styled status line
//	saltline health --json   # JSON output for automation
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the backend service health endpoint",
	Run:   runHealthCommand,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	healthCmd.Flags().BoolVar(&healthJSONOutput, "json", false,
		"Output as JSON for scripting")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// backendHealthBody is the backend's health response shape.
type backendHealthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthProbeResult holds the probe outcome for output.
type HealthProbeResult struct {
	URL        string `json:"url"`
	Reachable  bool   `json:"reachable"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Status     string `json:"status,omitempty"`
	Database   string `json:"database,omitempty"`
	LatencyMs  int64  `json:"latency_ms"`
}

// Healthy reports whether the probe found a fully working backend.
func (r HealthProbeResult) Healthy() bool {
	return r.Reachable && r.HTTPStatus == http.StatusOK
}

// runHealthCommand probes the backend and reports the result.
func runHealthCommand(cmd *cobra.Command, args []string) {
	start := time.Now()

	base := config.Global.Backend.URL
	if base == "" {
		base = "http://localhost:8000"
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Global.Backend.HealthTimeout())
	defer cancel()

	result := probeBackend(ctx, base)

	if healthJSONOutput {
		os.Exit(OutputResult(true, "health", start, result, !result.Healthy(), nil))
	}

	switch {
	case !result.Reachable:
		ux.Error(fmt.Sprintf("Backend unreachable at %s", base))
		os.Exit(CLIExitFailure)
	case result.Healthy():
		ux.Success(fmt.Sprintf("Backend healthy at %s (%dms)", base, result.LatencyMs))
		os.Exit(CLIExitSuccess)
	default:
		ux.Warning(fmt.Sprintf("Backend degraded: status=%q database=%q (HTTP %d)",
			result.Status, result.Database, result.HTTPStatus))
		os.Exit(CLIExitFailure)
	}
}

// probeBackend issues the health request and collects the outcome.
//
// The outgoing request carries the current trace context so a probe
// initiated under an active span shows up in the backend's traces.
func probeBackend(ctx context.Context, base string) HealthProbeResult {
	result := HealthProbeResult{URL: base}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return result
	}
	req = telemetry.PropagateToRequest(ctx, req)

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		return result
	}
	defer resp.Body.Close()

	result.Reachable = true
	result.HTTPStatus = resp.StatusCode

	var body backendHealthBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		result.Status = body.Status
		result.Database = body.Database
	}
	return result
}
