package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cu-events/events-api/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongo connects to MongoDB and returns the configured database. Every operation on the client
// times out after 10 seconds unless its context has an earlier deadline.
func NewMongo(ctx context.Context, c config.Mongo) (*mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(c.URI).
		SetTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongo: %v", err)
	}

	return client.Database(c.Database), nil
}
