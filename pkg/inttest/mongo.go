package inttest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/orlangure/gnomock"
	gnomockMongo "github.com/orlangure/gnomock/preset/mongo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupMongo creates a MongoDB container and returns a database of a client connected to it.
func SetupMongo(t *testing.T) *mongo.Database {
	t.Helper()

	container, err := gnomock.Start(gnomockMongo.Preset())
	require.NoError(t, err, "failed to start Mongo")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop Mongo") })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uri := fmt.Sprintf("mongodb://%s", container.DefaultAddress())
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "failed to connect to Mongo")
	t.Cleanup(func() { require.NoError(t, client.Disconnect(context.Background()), "failed to disconnect from Mongo") })

	return client.Database("test_events")
}
