// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saltline-io/saltline/pkg/telemetry"
	"github.com/saltline-io/saltline/services/backend/handlers"
	"github.com/saltline-io/saltline/services/backend/storage"
)

// SetupRoutes registers every backend route on the router.
func SetupRoutes(router *gin.Engine, store storage.ItemStore) {
	router.GET("/", handlers.RootHealth)
	router.GET("/health", handlers.HealthCheck(store))

	// telemetry stores its exposition handler at Init; until then the
	// default registry already carries the backend's promauto metrics.
	metricsHandler := telemetry.MetricsHandler()
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.GET("/metrics", gin.WrapH(metricsHandler))

	// Item catalog routes
	items := router.Group("/items")
	{
		items.POST("", handlers.CreateItem(store))
		items.GET("", handlers.ListItems(store))
		items.GET("/:id", handlers.GetItem(store))
		items.PUT("/:id", handlers.UpdateItem(store))
		items.DELETE("/:id", handlers.DeleteItem(store))
	}
}
