package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/docstore"
	"github.com/cu-events/events-api/pkg/model"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(logger *slog.Logger, store store) *repository {
	return &repository{
		logger: logger,
		store:  store,
		now:    time.Now,
	}
}

type store interface {
	Query(ctx context.Context, collection string, filters []docstore.Filter, orderBy []docstore.Order) ([]docstore.Document, error)
	Get(ctx context.Context, collection, id string) (docstore.Record, error)
	Set(ctx context.Context, collection, id string, record docstore.Record, merge bool) error
}

type repository struct {
	logger *slog.Logger
	store  store
	now    func() time.Time
}

// Partition is the result of fetching the on-campus or the off-campus events.
type Partition struct {
	OffCampus bool          `json:"offCampus"`
	Events    []model.Event `json:"events"`
	// Skipped holds the ids of records that couldn't be decoded
	Skipped   []string  `json:"skipped,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// FetchEvents returns the events whose isOffCampus flag equals offCampus ordered by date. Records
// which can't be decoded are left out and their ids are reported in Partition.Skipped.
func (r repository) FetchEvents(ctx context.Context, offCampus bool) (Partition, error) {
	docs, err := r.store.Query(ctx, docstore.Events,
		[]docstore.Filter{docstore.Where(fieldIsOffCampus, offCampus)},
		[]docstore.Order{docstore.OrderBy(fieldDate, false)},
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to fetch events", "offCampus", offCampus, "error", err)
		return Partition{}, errdef.NewFetchFailed("failed to fetch events (offCampus=%t): %w", offCampus, err)
	}

	partition := Partition{
		OffCampus: offCampus,
		Events:    make([]model.Event, 0, len(docs)),
		FetchedAt: r.now(),
	}
	for _, doc := range docs {
		event, err := decode(ctx, r.logger, doc.ID, doc.Record)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed event", "id", doc.ID, "error", err)
			partition.Skipped = append(partition.Skipped, doc.ID)
			continue
		}
		partition.Events = append(partition.Events, event)
	}

	return partition, nil
}

func (r repository) FindByID(ctx context.Context, id string) (model.Event, error) {
	record, err := r.store.Get(ctx, docstore.Events, id)
	if err != nil {
		return model.Event{}, err
	}

	return decode(ctx, r.logger, id, record)
}

func (r repository) Create(ctx context.Context, event model.Event) error {
	return r.store.Set(ctx, docstore.Events, event.ID, encode(event), false)
}

// Update merge-writes every field of event.
func (r repository) Update(ctx context.Context, event model.Event) error {
	err := r.store.Set(ctx, docstore.Events, event.ID, encode(event), true)
	if err != nil {
		return errdef.NewUpdateFailed("failed to update event %q: %w", event.ID, err)
	}
	return nil
}
