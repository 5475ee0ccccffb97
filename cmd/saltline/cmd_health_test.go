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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeBackend_Healthy(t *testing.T) {
	// 1. Setup a fake backend
	mockBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("Expected path /health, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "ok",
			"database": "ok",
		})
	}))
	defer mockBackend.Close()

	// 2. Probe it
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result := probeBackend(ctx, mockBackend.URL)

	// 3. Assertions
	if !result.Reachable {
		t.Fatal("expected reachable backend")
	}
	if result.HTTPStatus != http.StatusOK {
		t.Errorf("HTTPStatus = %d, want 200", result.HTTPStatus)
	}
	if result.Status != "ok" || result.Database != "ok" {
		t.Errorf("parsed body = %q/%q, want ok/ok", result.Status, result.Database)
	}
	if !result.Healthy() {
		t.Error("expected Healthy() true")
	}
}

func TestProbeBackend_Degraded(t *testing.T) {
	mockBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
	}))
	defer mockBackend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result := probeBackend(ctx, mockBackend.URL)

	if !result.Reachable {
		t.Fatal("expected reachable backend even when degraded")
	}
	if result.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("HTTPStatus = %d, want 503", result.HTTPStatus)
	}
	if result.Database != "unreachable" {
		t.Errorf("Database = %q, want unreachable", result.Database)
	}
	if result.Healthy() {
		t.Error("expected Healthy() false for 503")
	}
}

func TestProbeBackend_Unreachable(t *testing.T) {
	// Grab a URL that no longer has a listener behind it.
	mockBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := mockBackend.URL
	mockBackend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result := probeBackend(ctx, deadURL)

	if result.Reachable {
		t.Error("expected unreachable backend")
	}
	if result.Healthy() {
		t.Error("expected Healthy() false when unreachable")
	}
}

func TestHealthCommandRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "health" {
			if c.Flags().Lookup("json") == nil {
				t.Error("health command missing --json flag")
			}
			return
		}
	}
	t.Fatal("health command not registered on root")
}
