// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the backend service.
//
// This package contains middleware for cross-origin requests, request
// identification, and rate limiting. Every middleware is a plain
// gin.HandlerFunc factory so routes can compose them freely.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS returns a middleware implementing the service's open CORS policy.
//
// All origins, methods, and common headers are allowed. Preflight OPTIONS
// requests are answered with 204 and never reach the handlers.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
