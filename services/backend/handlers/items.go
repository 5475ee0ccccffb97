// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers provides HTTP handlers for the backend service.
//
// Handlers depend on the storage.ItemStore interface, never on a concrete
// database, so tests run against the in-memory store. Request bodies are
// bound first and validated second; both failure modes answer 422.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saltline-io/saltline/services/backend/datatypes"
	"github.com/saltline-io/saltline/services/backend/middleware"
	"github.com/saltline-io/saltline/services/backend/observability"
	"github.com/saltline-io/saltline/services/backend/storage"
)

// =============================================================================
// Metric Helpers
// =============================================================================

// record reports a completed request to the metrics singleton. Handlers
// stay functional when metrics were never initialized, as in tests.
func record(endpoint observability.Endpoint, status int, start time.Time) {
	if m := observability.DefaultMetrics; m != nil {
		m.RecordRequest(endpoint, status, time.Since(start))
	}
}

// recordError reports an error occurrence to the metrics singleton.
func recordError(endpoint observability.Endpoint, code observability.ErrorCode) {
	if m := observability.DefaultMetrics; m != nil {
		m.RecordError(endpoint, code)
	}
}

// itemCreated bumps the catalog size gauge.
func itemCreated() {
	if m := observability.DefaultMetrics; m != nil {
		m.ItemCreated()
	}
}

// itemDeleted drops the catalog size gauge.
func itemDeleted() {
	if m := observability.DefaultMetrics; m != nil {
		m.ItemDeleted()
	}
}

// setItemCount pins the catalog size gauge to an observed value.
func setItemCount(n int) {
	if m := observability.DefaultMetrics; m != nil {
		m.SetItemCount(n)
	}
}

// writeStoreError maps storage sentinels to their HTTP statuses: 422 for
// a malformed ID, 404 for a missing item, 500 otherwise.
func writeStoreError(c *gin.Context, endpoint observability.Endpoint, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		recordError(endpoint, observability.ErrorCodeInvalidID)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid item id"})
	case errors.Is(err, storage.ErrNotFound):
		recordError(endpoint, observability.ErrorCodeNotFound)
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	default:
		slog.Error("storage operation failed", "error", err, "request_id", middleware.GetRequestID(c))
		recordError(endpoint, observability.ErrorCodeDatabase)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	}
}

// =============================================================================
// Item Handlers
// =============================================================================

// CreateItem handles POST /items. A valid body yields 201 with the stored
// item; a malformed body or failed constraint yields 422.
func CreateItem(store storage.ItemStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() { record(observability.EndpointCreateItem, c.Writer.Status(), start) }()

		var req datatypes.ItemCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			recordError(observability.EndpointCreateItem, observability.ErrorCodeValidation)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			recordError(observability.EndpointCreateItem, observability.ErrorCodeValidation)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		item, err := store.Insert(c.Request.Context(), req)
		if err != nil {
			writeStoreError(c, observability.EndpointCreateItem, err)
			return
		}

		slog.Info("item created", "id", item.ID, "request_id", middleware.GetRequestID(c))
		itemCreated()
		c.JSON(http.StatusCreated, item)
	}
}

// ListItems handles GET /items, newest first.
func ListItems(store storage.ItemStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() { record(observability.EndpointListItems, c.Writer.Status(), start) }()

		items, err := store.List(c.Request.Context())
		if err != nil {
			writeStoreError(c, observability.EndpointListItems, err)
			return
		}

		setItemCount(len(items))
		c.JSON(http.StatusOK, items)
	}
}

// GetItem handles GET /items/:id.
func GetItem(store storage.ItemStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() { record(observability.EndpointGetItem, c.Writer.Status(), start) }()

		item, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeStoreError(c, observability.EndpointGetItem, err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// UpdateItem handles PUT /items/:id. Only fields present in the body are
// changed. An empty patch is a no-op that returns the current document,
// still answering 404 when the item does not exist.
func UpdateItem(store storage.ItemStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() { record(observability.EndpointUpdateItem, c.Writer.Status(), start) }()

		var patch datatypes.ItemUpdate
		if err := c.ShouldBindJSON(&patch); err != nil {
			recordError(observability.EndpointUpdateItem, observability.ErrorCodeValidation)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
			return
		}
		if err := patch.Validate(); err != nil {
			recordError(observability.EndpointUpdateItem, observability.ErrorCodeValidation)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		id := c.Param("id")

		if patch.IsEmpty() {
			item, err := store.Get(c.Request.Context(), id)
			if err != nil {
				writeStoreError(c, observability.EndpointUpdateItem, err)
				return
			}
			c.JSON(http.StatusOK, item)
			return
		}

		item, err := store.Update(c.Request.Context(), id, patch)
		if err != nil {
			writeStoreError(c, observability.EndpointUpdateItem, err)
			return
		}

		slog.Info("item updated", "id", item.ID, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusOK, item)
	}
}

// DeleteItem handles DELETE /items/:id, answering 204 on success.
func DeleteItem(store storage.ItemStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() { record(observability.EndpointDeleteItem, c.Writer.Status(), start) }()

		id := c.Param("id")
		if err := store.Delete(c.Request.Context(), id); err != nil {
			writeStoreError(c, observability.EndpointDeleteItem, err)
			return
		}

		slog.Info("item deleted", "id", id, "request_id", middleware.GetRequestID(c))
		itemDeleted()
		c.Status(http.StatusNoContent)
	}
}
