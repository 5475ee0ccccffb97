// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides request and response types for the backend
// service.
//
// This file contains the item catalog types. Validation uses
// go-playground/validator tags; handlers bind the JSON body first and then
// call Validate so that malformed bodies and failed constraints produce the
// same 422 response.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// itemValidate is the validator instance for item datatypes.
var itemValidate *validator.Validate

func init() {
	itemValidate = validator.New()
}

// =============================================================================
// Item Types
// =============================================================================

// Item is the canonical representation of a catalog item.
//
// # Fields
//
//   - ID: Hex-encoded MongoDB ObjectID, assigned by the store on insert.
//   - Name: Human-readable item name.
//   - Description: Optional free-form description. Nil serializes to null.
//   - CreatedAt: UTC creation timestamp, assigned by the store on insert.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemCreate is the request body for creating an item.
//
// # Validation
//
//   - Name: required, at least one character
//   - Description: optional
type ItemCreate struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description *string `json:"description"`
}

// Validate checks the ItemCreate fields against their constraints.
func (r *ItemCreate) Validate() error {
	return itemValidate.Struct(r)
}

// ItemUpdate is the request body for updating an item. All fields are
// optional; absent fields leave the stored value untouched.
//
// # Validation
//
//   - Name: when present, at least one character
//   - Description: optional, may be set to empty
type ItemUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

// Validate checks the ItemUpdate fields against their constraints.
func (r *ItemUpdate) Validate() error {
	return itemValidate.Struct(r)
}

// IsEmpty reports whether the update carries no changes. An empty patch is
// a no-op: the handler returns the current document without touching the
// store's update path, which rejects an empty $set.
func (r *ItemUpdate) IsEmpty() bool {
	return r.Name == nil && r.Description == nil
}
