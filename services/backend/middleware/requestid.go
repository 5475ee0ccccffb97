// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Context Keys
// =============================================================================

// RequestIDHeader is the header carrying the client-supplied request ID.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key for the request ID.
// Using a prefixed key prevents collisions with other context values.
const requestIDKey = "saltline_request_id"

// =============================================================================
// Request ID Middleware
// =============================================================================

// RequestID returns a middleware that tags every request with an ID.
//
// # Description
//
// A client-supplied X-Request-ID header is passed through unchanged;
// otherwise a fresh UUID is generated. The ID is stored in the gin
// context for log correlation and echoed back on the response so
// callers can reference it in bug reports.
//
// # Examples
//
//	router.Use(middleware.RequestID())
//
//	// In a handler
//	slog.Info("item created", "request_id", middleware.GetRequestID(c))
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the gin context.
//
// Returns the empty string when the RequestID middleware did not run.
func GetRequestID(c *gin.Context) string {
	if v, exists := c.Get(requestIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
