// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saltline-io/saltline/services/backend/datatypes"
)

// MemoryStore is a map-backed ItemStore with the same error and ordering
// contract as MongoStore. It generates real ObjectIDs so ID validation
// behaves identically across implementations.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]datatypes.Item
	pingErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]datatypes.Item)}
}

// FailPing makes subsequent Ping calls return err. Pass nil to restore
// healthy behavior.
func (s *MemoryStore) FailPing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// Insert stores a new item and returns it with ID and timestamp assigned.
func (s *MemoryStore) Insert(_ context.Context, req datatypes.ItemCreate) (datatypes.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := datatypes.Item{
		ID:          primitive.NewObjectID().Hex(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s.items[item.ID] = item
	return item, nil
}

// List returns up to ListLimit items, newest first.
func (s *MemoryStore) List(_ context.Context) ([]datatypes.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]datatypes.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}

	// Newest first; generated ObjectIDs break ties so ordering stays
	// deterministic when timestamps collide.
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if len(items) > ListLimit {
		items = items[:ListLimit]
	}
	return items, nil
}

// Get returns the item with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (datatypes.Item, error) {
	if _, err := parseObjectID(id); err != nil {
		return datatypes.Item{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return datatypes.Item{}, ErrNotFound
	}
	return item, nil
}

// Update applies the non-nil patch fields and returns the updated item.
func (s *MemoryStore) Update(_ context.Context, id string, patch datatypes.ItemUpdate) (datatypes.Item, error) {
	if _, err := parseObjectID(id); err != nil {
		return datatypes.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return datatypes.Item{}, ErrNotFound
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = patch.Description
	}
	s.items[id] = item
	return item, nil
}

// Delete removes the item with the given ID.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if _, err := parseObjectID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Ping reports the configured health state.
func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}
