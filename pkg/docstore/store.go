package docstore

import "context"

// Store is implemented by the MongoDB and the in-memory store.
type Store interface {
	Query(ctx context.Context, collection string, filters []Filter, orderBy []Order) ([]Document, error)
	// Get returns a NotFound error if the document doesn't exist
	Get(ctx context.Context, collection, id string) (Record, error)
	// Set merges record into the document if merge is true and replaces the document otherwise.
	// The document is created if it doesn't exist.
	Set(ctx context.Context, collection, id string, record Record, merge bool) error
	// Delete succeeds for documents which don't exist
	Delete(ctx context.Context, collection, id string) error
}

var (
	_ Store = (*memory)(nil)
	_ Store = (*mongoStore)(nil)
)
