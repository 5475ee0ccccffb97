// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saltline-io/saltline/pkg/extensions"
)

// =============================================================================
// Audit Middleware
// =============================================================================

// auditActions maps mutating HTTP methods to audit action names.
var auditActions = map[string]string{
	http.MethodPost:   "create",
	http.MethodPut:    "update",
	http.MethodDelete: "delete",
}

// Audit returns a middleware that records mutating requests.
//
// # Description
//
// After the handler chain completes, POST, PUT, and DELETE requests
// are reported to the logger with the authenticated identity, the
// resource touched, and the outcome. Reads are not recorded. A logging
// failure is surfaced via slog but never fails the request itself.
// The default NopAuditLogger discards events, so open source
// deployments pay only a map lookup per request.
//
// # Inputs
//
//   - logger: Audit event sink. Must not be nil.
//
// # Examples
//
//	opts := extensions.DefaultOptions()
//	router.Use(middleware.Audit(opts.AuditLogger))
func Audit(logger extensions.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action, ok := auditActions[c.Request.Method]
		if !ok {
			return
		}

		userID := "anonymous"
		if info := GetAuthInfo(c); info != nil {
			userID = info.UserID
		}

		outcome := "success"
		if c.Writer.Status() >= http.StatusBadRequest {
			outcome = "failure"
		}

		event := extensions.AuditEvent{
			EventType:    "item." + action,
			Timestamp:    time.Now().UTC(),
			UserID:       userID,
			Action:       action,
			ResourceType: "item",
			ResourceID:   c.Param("id"),
			Outcome:      outcome,
			Metadata: map[string]any{
				"request_id": GetRequestID(c),
				"path":       c.Request.URL.Path,
				"status":     c.Writer.Status(),
				"ip_address": c.ClientIP(),
			},
		}

		if err := logger.Log(c.Request.Context(), event); err != nil {
			slog.Warn("Audit log failed", "error", err, "event_type", event.EventType)
		}
	}
}
