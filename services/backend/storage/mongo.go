// Copyright (C) 2026 Saltline Systems (dev@saltline.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/saltline-io/saltline/services/backend/datatypes"
)

// =============================================================================
// Configuration
// =============================================================================

// MongoConfig holds the MongoDB connection settings.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name.
	Database string
}

// MongoConfigFromEnv reads connection settings from the environment.
//
// # Environment
//
//   - MONGODB_URI: connection string (default mongodb://localhost:27017)
//   - MONGODB_DB_NAME: database name (default app)
func MongoConfigFromEnv() MongoConfig {
	cfg := MongoConfig{
		URI:      os.Getenv("MONGODB_URI"),
		Database: os.Getenv("MONGODB_DB_NAME"),
	}
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "app"
	}
	return cfg
}

// =============================================================================
// Mongo Store
// =============================================================================

// itemsCollection is the collection holding catalog items.
const itemsCollection = "items"

// itemDoc is the BSON shape of a stored item.
type itemDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description *string            `bson:"description"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// toItem converts a stored document to the API representation.
func (d itemDoc) toItem() datatypes.Item {
	return datatypes.Item{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// MongoStore implements ItemStore on a MongoDB collection.
//
// # Description
//
// The driver connects lazily: NewMongoStore succeeds even when the server
// is down, and the first operation (or Ping, via the health endpoint)
// surfaces the connectivity failure. This keeps the service able to start
// ahead of its database.
type MongoStore struct {
	client *mongo.Client
	items  *mongo.Collection
}

// NewMongoStore creates a MongoStore from the given configuration.
//
// The context bounds the initial client handshake machinery, not a full
// round trip; call Ping to verify the server is actually reachable.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	return &MongoStore{
		client: client,
		items:  client.Database(cfg.Database).Collection(itemsCollection),
	}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Insert stores a new item and returns it with ID and timestamp assigned.
func (s *MongoStore) Insert(ctx context.Context, req datatypes.ItemCreate) (datatypes.Item, error) {
	doc := itemDoc{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := s.items.InsertOne(ctx, doc)
	if err != nil {
		return datatypes.Item{}, fmt.Errorf("insert item: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return datatypes.Item{}, fmt.Errorf("insert item: unexpected id type %T", result.InsertedID)
	}
	doc.ID = oid

	return doc.toItem(), nil
}

// List returns up to ListLimit items, newest first.
func (s *MongoStore) List(ctx context.Context) ([]datatypes.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(ListLimit)

	cursor, err := s.items.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]datatypes.Item, len(docs))
	for i, d := range docs {
		items[i] = d.toItem()
	}
	return items, nil
}

// Get returns the item with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (datatypes.Item, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return datatypes.Item{}, err
	}

	var doc itemDoc
	err = s.items.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return datatypes.Item{}, ErrNotFound
	}
	if err != nil {
		return datatypes.Item{}, fmt.Errorf("get item: %w", err)
	}

	return doc.toItem(), nil
}

// Update applies the non-nil patch fields and returns the updated item.
// The caller guarantees the patch is not empty; MongoDB rejects an empty
// $set document.
func (s *MongoStore) Update(ctx context.Context, id string, patch datatypes.ItemUpdate) (datatypes.Item, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return datatypes.Item{}, err
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc itemDoc
	err = s.items.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return datatypes.Item{}, ErrNotFound
	}
	if err != nil {
		return datatypes.Item{}, fmt.Errorf("update item: %w", err)
	}

	return doc.toItem(), nil
}

// Delete removes the item with the given ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := s.items.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the MongoDB server is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// parseObjectID converts a hex string to an ObjectID, mapping parse
// failures to ErrInvalidID.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
