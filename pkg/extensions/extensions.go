// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines interfaces for enterprise functionality.
//
// This package provides extension points that allow hosted Saltline
// deployments to add capabilities without modifying the core codebase.
// The open source version uses no-op defaults for all interfaces.
//
// # Design Philosophy
//
// Saltline is designed as a fully functional local tool that works
// without any external infrastructure. A developer runs the lint gate
// and the items backend on their own machine with no accounts and no
// network dependencies. Enterprise features are implemented by
// providing concrete implementations of these interfaces and injecting
// them via ServiceOptions.
//
// # Extension Categories
//
// The package is organized by domain:
//
//   - auth.go: Authentication (AuthProvider)
//   - audit.go: Compliance audit logging (AuditLogger)
//
// # Usage in Open Source
//
// The open source version uses no-op implementations:
//
//	opts := extensions.DefaultOptions()
//	router.Use(middleware.Auth(opts.AuthProvider))
//	router.Use(middleware.Audit(opts.AuditLogger))
//
// # Usage in Enterprise
//
// Enterprise deployments provide concrete implementations:
//
//	opts := extensions.ServiceOptions{
//	    AuthProvider: enterprise.NewOktaProvider(cfg),
//	    AuditLogger:  enterprise.NewSplunkAuditor(cfg),
//	}
//	router.Use(middleware.Auth(opts.AuthProvider))
//	router.Use(middleware.Audit(opts.AuditLogger))
//
// # Thread Safety
//
// All interface implementations must be safe for concurrent use.
// Multiple goroutines may call methods simultaneously.
package extensions

// ServiceOptions groups all extension points for service configuration.
//
// Pass this to service constructors to enable enterprise features.
// All fields are optional; nil values are replaced with no-op defaults
// when DefaultOptions() is called or when services check for nil.
//
// Example:
//
//	// Open source: use defaults
//	opts := extensions.DefaultOptions()
//
//	// Enterprise: inject implementations
//	opts := extensions.ServiceOptions{
//	    AuthProvider: oktaProvider,
//	    AuditLogger:  splunkAuditor,
//	}
type ServiceOptions struct {
	// AuthProvider validates authentication tokens.
	// Default: NopAuthProvider (always returns valid local user)
	AuthProvider AuthProvider

	// AuditLogger records security-relevant events.
	// Default: NopAuditLogger (discards all events)
	AuditLogger AuditLogger
}

// DefaultOptions returns ServiceOptions with no-op defaults.
//
// This is the configuration used by the open source version.
// All requests are allowed and no audit trail is kept.
//
// Returns:
//   - ServiceOptions with all fields set to no-op implementations
func DefaultOptions() ServiceOptions {
	return ServiceOptions{
		AuthProvider: &NopAuthProvider{},
		AuditLogger:  &NopAuditLogger{},
	}
}

// WithAuth returns a copy of opts with the given AuthProvider.
// Useful for fluent configuration.
func (opts ServiceOptions) WithAuth(provider AuthProvider) ServiceOptions {
	opts.AuthProvider = provider
	return opts
}

// WithAudit returns a copy of opts with the given AuditLogger.
func (opts ServiceOptions) WithAudit(logger AuditLogger) ServiceOptions {
	opts.AuditLogger = logger
	return opts
}
