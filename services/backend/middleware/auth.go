// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saltline-io/saltline/pkg/extensions"
)

// =============================================================================
// Context Keys
// =============================================================================

// authInfoKey is the gin context key for the authenticated identity.
const authInfoKey = "saltline_auth_info"

// =============================================================================
// Auth Middleware
// =============================================================================

// Auth returns a middleware that authenticates every request.
//
// # Description
//
// The bearer token from the Authorization header is handed to the
// provider; requests the provider rejects receive 401 and never reach
// the handlers. The resolved identity is stored in the gin context for
// handlers and downstream middleware. With the default NopAuthProvider
// every request authenticates as the local user, so the open source
// API behaves exactly as an unauthenticated local service.
//
// # Inputs
//
//   - provider: Token validator. Must not be nil.
//
// # Examples
//
//	opts := extensions.DefaultOptions()
//	router.Use(middleware.Auth(opts.AuthProvider))
func Auth(provider extensions.AuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		info, err := provider.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		c.Set(authInfoKey, info)
		c.Next()
	}
}

// bearerToken extracts the credential from an Authorization header value.
// Returns the empty string when the header is absent or uses a different
// scheme; the provider decides whether an empty token is acceptable.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) >= len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// GetAuthInfo retrieves the authenticated identity from the gin context.
//
// Returns nil when the Auth middleware did not run.
func GetAuthInfo(c *gin.Context) *extensions.AuthInfo {
	if v, exists := c.Get(authInfoKey); exists {
		if info, ok := v.(*extensions.AuthInfo); ok {
			return info
		}
	}
	return nil
}
