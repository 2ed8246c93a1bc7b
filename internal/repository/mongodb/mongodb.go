// Package mongodb implements the repository interfaces on top of MongoDB.
//
// Each entity maps to one collection (users, posts, comments) holding one
// document per record, keyed by a native ObjectID. All cross-entity links
// are by value (a stored id), never by embedding, and no multi-document
// transaction is used anywhere: the only write that must be atomic (claiming
// a post's comment slot) is expressed as a single conditional UpdateOne.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB owns the client connection and the three entity collections.
// It is created once at process start and closed on shutdown.
type DB struct {
	client   *mongo.Client
	users    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
}

// New connects to MongoDB, verifies the connection with a ping, and binds
// the entity collections in the given database.
func New(ctx context.Context, uri, database string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}

	// Connect does not touch the network for most failure modes; ping so a
	// bad URI or unreachable server surfaces at startup, not on the first
	// request.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: pinging: %w", err)
	}

	db := client.Database(database)
	return &DB{
		client:   client,
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}, nil
}

// Close disconnects the client, releasing all pooled connections.
func (db *DB) Close(ctx context.Context) error {
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb: disconnecting: %w", err)
	}
	return nil
}
