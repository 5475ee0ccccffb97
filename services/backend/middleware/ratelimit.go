// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultRequestsPerSecond is the sustained per-client request rate.
	DefaultRequestsPerSecond = 20

	// DefaultBurst is the per-client burst allowance.
	DefaultBurst = 40

	// clientIdleTimeout is how long an idle client's limiter is retained.
	clientIdleTimeout = 3 * time.Minute
)

// =============================================================================
// Rate Limit Middleware
// =============================================================================

// clientLimiter pairs a token bucket with its last activity time so idle
// entries can be evicted.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiters tracks one token bucket per client IP.
type rateLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

// allow reports whether the client may proceed, creating its bucket on
// first sight. Idle entries are pruned whenever a new client appears,
// which bounds the map without a background goroutine.
func (rl *rateLimiters) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, ok := rl.clients[ip]
	if !ok {
		rl.prune(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now

	return cl.limiter.Allow()
}

// prune drops limiters idle longer than clientIdleTimeout. Caller holds mu.
func (rl *rateLimiters) prune(now time.Time) {
	for ip, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > clientIdleTimeout {
			delete(rl.clients, ip)
		}
	}
}

// RateLimit returns a middleware enforcing a per-client-IP token bucket.
//
// # Description
//
// Each client IP gets an independent bucket refilled at rps tokens per
// second with the given burst capacity. Requests that find the bucket
// empty receive 429 and never reach the handlers.
//
// # Inputs
//
//   - rps: Sustained request rate per client.
//   - burst: Maximum burst size per client.
//
// # Examples
//
//	router.Use(middleware.RateLimit(middleware.DefaultRequestsPerSecond, middleware.DefaultBurst))
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	rl := &rateLimiters{
		clients: make(map[string]*clientLimiter),
		rps:     rps,
		burst:   burst,
	}

	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
