// Package database owns the shared MongoDB connection. Every collection
// access in the repositories goes through DB; schema enforcement lives in
// the unique indexes the repositories declare at boot.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gametribe/backend/config"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the MongoDB client and verifies the connection with a
// ping. Returns an error instead of exiting so the caller can shut down
// gracefully.
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDatabase())
	return nil
}

// Disconnect closes the client. Call on shutdown.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

// Collection returns a handle on the named collection.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// IsDup reports whether err is a unique-index violation. Used by the
// order repository to detect order-number collisions.
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
