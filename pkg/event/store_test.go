package event_test

import (
	"context"
	"errors"
	"sync"

	"github.com/cu-events/events-api/pkg/docstore"
)

var errUnavailable = errors.New("store unavailable")

// failingStore wraps a store and fails queries or writes on demand.
type failingStore struct {
	docstore.Store

	mu        sync.Mutex
	failQuery bool
	failSet   bool
	sets      int
}

func newFailingStore() *failingStore {
	return &failingStore{Store: docstore.NewMemory()}
}

func (s *failingStore) fail(query, set bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failQuery, s.failSet = query, set
}

func (s *failingStore) Query(ctx context.Context, collection string, filters []docstore.Filter, orderBy []docstore.Order) ([]docstore.Document, error) {
	s.mu.Lock()
	fail := s.failQuery
	s.mu.Unlock()
	if fail {
		return nil, errUnavailable
	}
	return s.Store.Query(ctx, collection, filters, orderBy)
}

func (s *failingStore) Set(ctx context.Context, collection, id string, record docstore.Record, merge bool) error {
	s.mu.Lock()
	fail := s.failSet
	s.sets++
	s.mu.Unlock()
	if fail {
		return errUnavailable
	}
	return s.Store.Set(ctx, collection, id, record, merge)
}
