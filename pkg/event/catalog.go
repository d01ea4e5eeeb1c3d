package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/model"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

func NewCatalog(logger *slog.Logger, repository eventRepository) *Catalog {
	return &Catalog{
		logger:     logger,
		repository: repository,
		partitions: make(map[bool]Partition),
	}
}

type eventRepository interface {
	FetchEvents(ctx context.Context, offCampus bool) (Partition, error)
	FindByID(ctx context.Context, id string) (model.Event, error)
	Create(ctx context.Context, event model.Event) error
	Update(ctx context.Context, event model.Event) error
}

// Catalog owns the last fetched on-campus and off-campus partitions. Partitions are replaced
// wholesale on every successful fetch and handed out as copies.
type Catalog struct {
	logger     *slog.Logger
	repository eventRepository

	mu         sync.Mutex
	partitions map[bool]Partition
}

// FetchEvents fetches a partition from the store and keeps it as the current snapshot. The snapshot
// is left as is if the fetch fails.
func (c *Catalog) FetchEvents(ctx context.Context, offCampus bool) (Partition, error) {
	partition, err := c.repository.FetchEvents(ctx, offCampus)
	if err != nil {
		return Partition{}, err
	}

	c.mu.Lock()
	c.partitions[offCampus] = partition
	c.mu.Unlock()

	return copyPartition(partition), nil
}

// Partition returns a copy of the last fetched partition. It returns false if the partition was
// never fetched.
func (c *Catalog) Partition(offCampus bool) (Partition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition, ok := c.partitions[offCampus]
	if !ok {
		return Partition{}, false
	}
	return copyPartition(partition), true
}

// RefreshAll fetches both partitions concurrently.
func (c *Catalog) RefreshAll(ctx context.Context) ([]Partition, error) {
	partitions := make([]Partition, 2)
	g, ctx := errgroup.WithContext(ctx)
	for i, offCampus := range []bool{false, true} {
		g.Go(func() error {
			partition, err := c.FetchEvents(ctx, offCampus)
			if err != nil {
				return err
			}
			partitions[i] = partition
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partitions, nil
}

// Listing is a sorted view of a partition.
type Listing struct {
	Partition
	Order model.SortOrder `json:"-"`
	// Stale is true if the partition couldn't be fetched and the last snapshot was used instead
	Stale bool `json:"stale"`
}

// List fetches a partition and sorts it. If the fetch fails and a snapshot of the partition exists
// the snapshot is listed and marked stale.
func (c *Catalog) List(ctx context.Context, offCampus bool, order model.SortOrder) (Listing, error) {
	partition, err := c.FetchEvents(ctx, offCampus)
	stale := false
	if err != nil {
		if !errdef.IsFetchFailed(err) {
			return Listing{}, err
		}

		snapshot, ok := c.Partition(offCampus)
		if !ok {
			return Listing{}, err
		}
		c.logger.WarnContext(ctx, "Listing stale events", "offCampus", offCampus, "fetchedAt", snapshot.FetchedAt, "error", err)
		partition, stale = snapshot, true
	}

	partition.Events = Sort(partition.Events, order)
	return Listing{Partition: partition, Order: order, Stale: stale}, nil
}

func (c *Catalog) FindByID(ctx context.Context, id string) (model.Event, error) {
	return c.repository.FindByID(ctx, id)
}

// NewEvent holds the user supplied fields of an event.
type NewEvent struct {
	Name        string
	Description string
	Location    string
	Date        time.Time
	IsOffCampus bool
	Organizer   string
}

// Create stores a new event with a generated id and no RSVPs.
func (c *Catalog) Create(ctx context.Context, userID string, event NewEvent) (model.Event, error) {
	if userID == "" {
		return model.Event{}, errdef.NewUnauthenticated("adding an event requires a signed in user")
	}

	if err := event.validate(); err != nil {
		return model.Event{}, err
	}

	e := model.Event{
		ID:          uuid.NewString(),
		Name:        event.Name,
		Description: event.Description,
		Location:    event.Location,
		Date:        event.Date.UTC(),
		IsOffCampus: event.IsOffCampus,
		Organizer:   event.Organizer,
		RSVP:        []string{},
	}
	if err := c.repository.Create(ctx, e); err != nil {
		return model.Event{}, fmt.Errorf("failed to create event %q: %w", e.Name, err)
	}

	c.logger.InfoContext(ctx, "Event created", "id", e.ID, "offCampus", e.IsOffCampus)
	return e, nil
}

func (e NewEvent) validate() error {
	missing := map[string]bool{
		"name":        e.Name == "",
		"description": e.Description == "",
		"location":    e.Location == "",
		"organizer":   e.Organizer == "",
		"date":        e.Date.IsZero(),
	}
	for _, field := range []string{"name", "description", "location", "organizer", "date"} {
		if missing[field] {
			return errdef.NewBadRequest("event %s is required", field)
		}
	}
	return nil
}

// Import stores events as they are. Events without an id are given one.
func (c *Catalog) Import(ctx context.Context, events []model.Event) error {
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.RSVP == nil {
			e.RSVP = []string{}
		}
		if err := c.repository.Create(ctx, e); err != nil {
			return fmt.Errorf("failed to import event %q: %w", e.Name, err)
		}
	}
	return nil
}

// ToggleRSVP toggles the RSVP of userID on event id and persists it. The toggle is applied to the
// partition snapshot before it's written and reverted if the write fails. On failure the event as
// it was before the toggle is returned together with the error.
func (c *Catalog) ToggleRSVP(ctx context.Context, id string, userID string) (model.Event, error) {
	if userID == "" {
		return model.Event{}, errdef.NewUnauthenticated("rsvp requires a signed in user")
	}

	event, err := c.repository.FindByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}

	toggled, err := ToggleRSVP(event, userID)
	if err != nil {
		return event, err
	}

	c.apply(toggled.IsOffCampus, id, userID, toggled.HasRSVP(userID))

	if err := c.repository.Update(ctx, toggled); err != nil {
		c.apply(event.IsOffCampus, id, userID, event.HasRSVP(userID))
		c.logger.ErrorContext(ctx, "Failed to persist RSVP, reverted", "event", id, "error", err)
		return event, err
	}

	return toggled, nil
}

// apply sets the RSVP membership of userID on the snapshot of event id. Only the users membership
// is touched so concurrent toggles by other users on the same snapshot are kept.
func (c *Catalog) apply(offCampus bool, id, userID string, member bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	partition, ok := c.partitions[offCampus]
	if !ok {
		return
	}
	i := slices.IndexFunc(partition.Events, func(e model.Event) bool { return e.ID == id })
	if i == -1 {
		return
	}

	partition = copyPartition(partition)
	e := partition.Events[i]
	switch {
	case member && !e.HasRSVP(userID):
		e.RSVP = append(e.RSVP, userID)
	case !member && e.HasRSVP(userID):
		e.RSVP = slices.DeleteFunc(e.RSVP, func(u string) bool { return u == userID })
	}
	partition.Events[i] = e
	c.partitions[offCampus] = partition
}

func copyPartition(p Partition) Partition {
	events := make([]model.Event, len(p.Events))
	for i, e := range p.Events {
		events[i] = e.Clone()
	}
	p.Events = events
	p.Skipped = slices.Clone(p.Skipped)
	return p
}
