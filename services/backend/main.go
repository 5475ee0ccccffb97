// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/saltline-io/saltline/pkg/extensions"
	"github.com/saltline-io/saltline/pkg/logging"
	"github.com/saltline-io/saltline/pkg/telemetry"
	"github.com/saltline-io/saltline/services/backend/middleware"
	"github.com/saltline-io/saltline/services/backend/observability"
	"github.com/saltline-io/saltline/services/backend/routes"
	"github.com/saltline-io/saltline/services/backend/storage"
)

const serviceName = "backend-service"

// shutdownGrace bounds how long in-flight requests get to finish once a
// termination signal arrives.
const shutdownGrace = 10 * time.Second

func main() {
	logging.New(logging.Config{
		Level:   logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		Service: "backend",
		JSON:    true,
	}).SetAsDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Degraded mode keeps the API serving when no OTLP collector is
	// running, the common case in local development.
	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.ServiceName = serviceName
	telemetryCfg.AllowDegraded = true

	shutdownTelemetry, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		slog.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			slog.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	observability.InitMetrics()

	// The Mongo client connects lazily, so startup succeeds with the
	// database down and /health reports actual reachability.
	mongoCfg := storage.MongoConfigFromEnv()
	store, err := storage.NewMongoStore(ctx, mongoCfg)
	if err != nil {
		slog.Error("Failed to configure MongoDB client", "error", err, "uri", mongoCfg.URI)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			slog.Warn("MongoDB disconnect failed", "error", err)
		}
	}()

	slog.Info("Starting Saltline backend",
		"mongodb_uri", mongoCfg.URI,
		"database", mongoCfg.Database)

	// Extension points stay on no-op defaults in the open source build.
	// Hosted deployments swap in real auth and audit implementations.
	opts := extensions.DefaultOptions()
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := opts.AuditLogger.Flush(flushCtx); err != nil {
			slog.Warn("Audit flush failed", "error", err)
		}
	}()

	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(middleware.DefaultRequestsPerSecond, middleware.DefaultBurst))
	router.Use(middleware.Auth(opts.AuthProvider))
	router.Use(middleware.Audit(opts.AuditLogger))

	routes.SetupRoutes(router, store)

	port := os.Getenv("BACKEND_PORT")
	if port == "" {
		port = "8000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting backend API server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down backend API server")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Backend stopped")
}
