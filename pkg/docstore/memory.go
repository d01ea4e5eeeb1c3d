package docstore

import (
	"context"
	"sync"

	"github.com/cu-events/events-api/internal/errdef"
	"golang.org/x/exp/slices"
)

// NewMemory returns an empty in-memory store. It's safe for concurrent use.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func NewMemory() *memory {
	return &memory{collections: make(map[string]map[string]Record)}
}

type memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

func (m *memory) Query(_ context.Context, collection string, filters []Filter, orderBy []Order) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	result := make([]Document, 0, len(ids))
	for _, id := range ids {
		record := docs[id]
		if matchesAll(record, filters) {
			result = append(result, Document{ID: id, Record: record.clone()})
		}
	}

	slices.SortStableFunc(result, func(a, b Document) int {
		for _, o := range orderBy {
			c := compareField(a.Record[o.Field], b.Record[o.Field])
			if o.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	return result, nil
}

func matchesAll(r Record, filters []Filter) bool {
	for _, f := range filters {
		if !f.matches(r) {
			return false
		}
	}
	return true
}

func (m *memory) Get(_ context.Context, collection, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.collections[collection][id]
	if !ok {
		return nil, errdef.NewNotFound("document %q not found in %q", id, collection)
	}
	return record.clone(), nil
}

func (m *memory) Set(_ context.Context, collection, id string, record Record, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]Record)
		m.collections[collection] = docs
	}

	existing, ok := docs[id]
	if !merge || !ok {
		docs[id] = record.clone()
		return nil
	}

	for k, v := range record.clone() {
		existing[k] = v
	}
	return nil
}

func (m *memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}
