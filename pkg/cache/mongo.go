package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCache stores cache entries in a MongoDB collection.
// Hosted build services use it to keep manifest snapshots per user alongside
// their other documents. Expiry relies on a TTL index on the expires_at field,
// created on first connection. Network operations are retried with backoff
// before surfacing as ErrBackend failures.
type MongoCache struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoOptions configures the Mongo backend.
type MongoOptions struct {
	URI        string // Connection string (default "mongodb://localhost:27017")
	Database   string // Database name (default "stagehand")
	Collection string // Collection name (default "build_cache")
}

// mongoEntry is the stored document shape.
type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to MongoDB and ensures the TTL index exists.
func NewMongoCache(ctx context.Context, opts MongoOptions) (*MongoCache, error) {
	if opts.URI == "" {
		opts.URI = "mongodb://localhost:27017"
	}
	if opts.Database == "" {
		opts.Database = "stagehand"
	}
	if opts.Collection == "" {
		opts.Collection = "build_cache"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)

	// Mongo purges documents once expires_at passes
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	return &MongoCache{client: client, collection: coll}, nil
}

// Get retrieves a value from the collection. A missing document is a miss.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := RetryWithBackoff(ctx, func() error {
		err := c.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return Retryable(fmt.Errorf("%w: %v", ErrBackend, err))
		}
		return err
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	// The TTL monitor runs every 60s, so an expired document may still exist.
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set stores a value in the collection, replacing any existing document.
// A non-zero ttl records expires_at; negative values land in the past and
// read back as misses until the TTL monitor purges them.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl != 0 {
		expires := time.Now().Add(ttl)
		entry.ExpiresAt = &expires
	}

	return RetryWithBackoff(ctx, func() error {
		_, err := c.collection.ReplaceOne(ctx, bson.M{"_id": key}, entry,
			options.Replace().SetUpsert(true))
		if err != nil {
			return Retryable(fmt.Errorf("%w: %v", ErrBackend, err))
		}
		return nil
	})
}

// Delete removes a value from the collection.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		_, err := c.collection.DeleteOne(ctx, bson.M{"_id": key})
		if err != nil {
			return Retryable(fmt.Errorf("%w: %v", ErrBackend, err))
		}
		return nil
	})
}

// Close disconnects from MongoDB.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// Ensure MongoCache implements Cache.
var _ Cache = (*MongoCache)(nil)
