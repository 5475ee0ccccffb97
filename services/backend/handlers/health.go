// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saltline-io/saltline/services/backend/observability"
	"github.com/saltline-io/saltline/services/backend/storage"
)

// pingTimeout bounds the database round trip in the health check so a
// hung server answers 503 instead of stalling the probe.
const pingTimeout = 5 * time.Second

// RootHealth handles GET /. It reports liveness without contacting any
// dependency, matching the service's historical root route.
func RootHealth(c *gin.Context) {
	start := time.Now()
	defer func() { record(observability.EndpointRoot, c.Writer.Status(), start) }()

	c.JSON(http.StatusOK, gin.H{"message": "Healthy"})
}

// HealthCheck handles GET /health. It pings the item store and reports
// 200 when the database answers, 503 when it does not.
func HealthCheck(store storage.ItemStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() { record(observability.EndpointHealth, c.Writer.Status(), start) }()

		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Error("database ping failed", "error", err)
			recordError(observability.EndpointHealth, observability.ErrorCodeDatabase)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": "ok",
		})
	}
}
