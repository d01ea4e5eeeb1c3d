package event

import (
	"fmt"
	"io"
	"time"

	"github.com/cu-events/events-api/pkg/model"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Events []seedEvent `yaml:"events"`
}

type seedEvent struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Location    string    `yaml:"location"`
	Date        time.Time `yaml:"date"`
	IsOffCampus bool      `yaml:"isOffCampus"`
	Organizer   string    `yaml:"organizer"`
	RSVP        []string  `yaml:"rsvp"`
}

// LoadSeed parses a YAML document with a list of events under the key "events".
func LoadSeed(r io.Reader) ([]model.Event, error) {
	var file seedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %v", err)
	}

	events := make([]model.Event, len(file.Events))
	for i, e := range file.Events {
		event := NewEvent{
			Name:        e.Name,
			Description: e.Description,
			Location:    e.Location,
			Date:        e.Date,
			IsOffCampus: e.IsOffCampus,
			Organizer:   e.Organizer,
		}
		if err := event.validate(); err != nil {
			return nil, fmt.Errorf("seed event %d: %w", i, err)
		}

		rsvp := e.RSVP
		if rsvp == nil {
			rsvp = []string{}
		}
		events[i] = model.Event{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Location:    e.Location,
			Date:        e.Date.UTC(),
			IsOffCampus: e.IsOffCampus,
			Organizer:   e.Organizer,
			RSVP:        dedupe(rsvp),
		}
	}

	return events, nil
}
