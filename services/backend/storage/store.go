// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage provides persistence for the backend's item catalog.
//
// The ItemStore interface decouples handlers from the database. The
// production implementation is MongoStore (MongoDB via the official
// driver); MemoryStore is a map-backed implementation with the same
// semantics, used by handler tests.
package storage

import (
	"context"
	"errors"

	"github.com/saltline-io/saltline/services/backend/datatypes"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNotFound indicates no item exists with the requested ID.
	ErrNotFound = errors.New("item not found")

	// ErrInvalidID indicates the ID is not a valid hex ObjectID.
	ErrInvalidID = errors.New("invalid item id")
)

// =============================================================================
// Store Interface
// =============================================================================

// ItemStore is the persistence contract for catalog items.
//
// # Description
//
// All methods take a context for cancellation and deadlines. ID-taking
// methods return ErrInvalidID for malformed IDs and ErrNotFound when the
// ID is well-formed but absent; handlers map these to 422 and 404.
//
// # Listing Order
//
// List returns items sorted by creation time, newest first, capped at
// ListLimit entries.
type ItemStore interface {
	// Insert stores a new item, assigning its ID and creation timestamp,
	// and returns the stored item.
	Insert(ctx context.Context, req datatypes.ItemCreate) (datatypes.Item, error)

	// List returns up to ListLimit items, newest first.
	List(ctx context.Context) ([]datatypes.Item, error)

	// Get returns the item with the given ID.
	Get(ctx context.Context, id string) (datatypes.Item, error)

	// Update applies the non-nil fields of the patch to the item and
	// returns the updated document. The patch must not be empty.
	Update(ctx context.Context, id string, patch datatypes.ItemUpdate) (datatypes.Item, error)

	// Delete removes the item with the given ID.
	Delete(ctx context.Context, id string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// ListLimit caps the number of items a single List call returns.
const ListLimit = 1000
