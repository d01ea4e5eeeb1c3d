package event

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/docstore"
	"github.com/cu-events/events-api/pkg/model"
	"golang.org/x/exp/slices"
)

const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldLocation    = "location"
	fieldDate        = "date"
	fieldIsOffCampus = "isOffCampus"
	fieldOrganizer   = "organizer"
	fieldRSVP        = "rsvp"
)

func decode(ctx context.Context, logger *slog.Logger, id string, record docstore.Record) (model.Event, error) {
	event := model.Event{ID: id}

	var errs []error
	var err error
	event.Name, err = record.String(fieldName)
	errs = append(errs, err)
	event.Description, err = record.String(fieldDescription)
	errs = append(errs, err)
	event.Location, err = record.String(fieldLocation)
	errs = append(errs, err)
	event.Date, err = record.Time(fieldDate)
	errs = append(errs, err)
	event.IsOffCampus, err = record.Bool(fieldIsOffCampus)
	errs = append(errs, err)
	event.Organizer, err = record.String(fieldOrganizer)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return model.Event{}, errdef.NewMalformedRecord("event %q: %w", id, err)
	}

	rsvp, err := decodeRSVP(record)
	if err != nil {
		logger.WarnContext(ctx, "Ignoring malformed RSVP list", "id", id, "error", err)
	}
	event.RSVP = rsvp

	return event, nil
}

// decodeRSVP returns the deduplicated RSVP list of record. A missing or null field is an empty list.
// A field which isn't a list of strings is reported and decoded as an empty list.
func decodeRSVP(record docstore.Record) ([]string, error) {
	if v, ok := record[fieldRSVP]; !ok || v == nil {
		return []string{}, nil
	}

	rsvp, err := record.Strings(fieldRSVP)
	if err != nil {
		return []string{}, err
	}
	return dedupe(rsvp), nil
}

func encode(event model.Event) docstore.Record {
	rsvp := event.RSVP
	if rsvp == nil {
		rsvp = []string{}
	}
	return docstore.Record{
		fieldName:        event.Name,
		fieldDescription: event.Description,
		fieldLocation:    event.Location,
		fieldDate:        event.Date,
		fieldIsOffCampus: event.IsOffCampus,
		fieldOrganizer:   event.Organizer,
		fieldRSVP:        slices.Clone(rsvp),
	}
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []string) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(result, id) {
			result = append(result, id)
		}
	}
	return result
}
