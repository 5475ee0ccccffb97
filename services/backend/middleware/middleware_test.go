// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/saltline-io/saltline/pkg/extensions"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds a router with the given middleware and a trivial
// 200 handler on GET /.
func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

// =============================================================================
// CORS Tests
// =============================================================================

func TestCORS_SetsHeaders(t *testing.T) {
	router := newTestRouter(CORS())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	router := newTestRouter(CORS())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Body.String())
}

// =============================================================================
// Request ID Tests
// =============================================================================

func TestRequestID_PassesThroughClientID(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	router.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", seen)
	assert.Equal(t, "client-supplied-id", w.Header().Get(RequestIDHeader))
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err, "generated request ID should be a UUID")
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestGetRequestID_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Empty(t, GetRequestID(c))
}

// =============================================================================
// Rate Limit Tests
// =============================================================================

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	router := newTestRouter(RateLimit(rate.Limit(1), 5))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst should pass", i)
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	router := newTestRouter(RateLimit(rate.Limit(1), 2))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Contains(t, codes[2:], http.StatusTooManyRequests)
}

func TestRateLimit_429Body(t *testing.T) {
	router := newTestRouter(RateLimit(rate.Limit(1), 1))

	// Drain the single-token bucket, then hit the limit.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimit_IndependentClients(t *testing.T) {
	router := newTestRouter(RateLimit(rate.Limit(1), 1))

	// First client drains its bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different client still has a full bucket.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitersPrune(t *testing.T) {
	rl := &rateLimiters{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(1),
		burst:   1,
	}

	rl.allow("10.0.0.1")
	require.Len(t, rl.clients, 1)

	// Age the entry past the idle window, then trigger pruning by
	// introducing a new client.
	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastSeen = rl.clients["10.0.0.1"].lastSeen.Add(-2 * clientIdleTimeout)
	rl.mu.Unlock()

	rl.allow("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "10.0.0.1")
	assert.Contains(t, rl.clients, "10.0.0.2")
}

// =============================================================================
// Auth Tests
// =============================================================================

// denyAllProvider rejects every token.
type denyAllProvider struct{}

func (p *denyAllProvider) Validate(_ context.Context, _ string) (*extensions.AuthInfo, error) {
	return nil, extensions.ErrUnauthorized
}

// recordingProvider captures the token it is asked to validate.
type recordingProvider struct {
	token string
}

func (p *recordingProvider) Validate(_ context.Context, token string) (*extensions.AuthInfo, error) {
	p.token = token
	return &extensions.AuthInfo{UserID: "u-1"}, nil
}

func TestAuth_NopProviderAllowsAll(t *testing.T) {
	var seen *extensions.AuthInfo
	router := gin.New()
	router.Use(Auth(&extensions.NopAuthProvider{}))
	router.GET("/", func(c *gin.Context) {
		seen = GetAuthInfo(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "local-user", seen.UserID)
	assert.True(t, seen.HasRole("admin"))
}

func TestAuth_RejectionShortCircuits(t *testing.T) {
	handlerRan := false
	router := gin.New()
	router.Use(Auth(&denyAllProvider{}))
	router.GET("/", func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
	assert.False(t, handlerRan)
}

func TestAuth_ExtractsBearerToken(t *testing.T) {
	provider := &recordingProvider{}
	router := newTestRouter(Auth(provider))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "tok-123", provider.token)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer token", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"basic scheme ignored", "Basic dXNlcjpwYXNz", ""},
		{"padded token", "Bearer   abc  ", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bearerToken(tt.header))
		})
	}
}

func TestGetAuthInfo_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Nil(t, GetAuthInfo(c))
}

// =============================================================================
// Audit Tests
// =============================================================================

// captureAuditLogger stores every event it receives.
type captureAuditLogger struct {
	events []extensions.AuditEvent
}

func (l *captureAuditLogger) Log(_ context.Context, event extensions.AuditEvent) error {
	l.events = append(l.events, event)
	return nil
}

func (l *captureAuditLogger) Query(_ context.Context, _ extensions.AuditFilter) ([]extensions.AuditEvent, error) {
	return l.events, nil
}

func (l *captureAuditLogger) Flush(_ context.Context) error { return nil }

func TestAudit_RecordsMutations(t *testing.T) {
	logger := &captureAuditLogger{}
	router := gin.New()
	router.Use(RequestID(), Auth(&extensions.NopAuthProvider{}), Audit(logger))
	router.DELETE("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/items/item-7", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, logger.events, 1)

	event := logger.events[0]
	assert.Equal(t, "item.delete", event.EventType)
	assert.Equal(t, "delete", event.Action)
	assert.Equal(t, "local-user", event.UserID)
	assert.Equal(t, "item", event.ResourceType)
	assert.Equal(t, "item-7", event.ResourceID)
	assert.Equal(t, "success", event.Outcome)
	assert.False(t, event.Timestamp.IsZero())
	assert.NotEmpty(t, event.Metadata["request_id"])
	assert.Equal(t, http.StatusNoContent, event.Metadata["status"])
}

func TestAudit_SkipsReads(t *testing.T) {
	logger := &captureAuditLogger{}
	router := newTestRouter(Audit(logger))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Empty(t, logger.events)
}

func TestAudit_FailureOutcome(t *testing.T) {
	logger := &captureAuditLogger{}
	router := gin.New()
	router.Use(Audit(logger))
	router.POST("/items", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/items", nil))

	require.Len(t, logger.events, 1)
	assert.Equal(t, "failure", logger.events[0].Outcome)
	assert.Equal(t, "anonymous", logger.events[0].UserID)
}
