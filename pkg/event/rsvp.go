package event

import (
	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/model"
	"golang.org/x/exp/slices"
)

// ToggleRSVP removes userID from the events RSVP list if present and appends it otherwise. The
// given event isn't modified.
func ToggleRSVP(event model.Event, userID string) (model.Event, error) {
	if userID == "" {
		return event, errdef.NewUnauthenticated("rsvp requires a signed in user")
	}

	toggled := event.Clone()
	if toggled.HasRSVP(userID) {
		toggled.RSVP = slices.DeleteFunc(toggled.RSVP, func(id string) bool { return id == userID })
	} else {
		toggled.RSVP = append(toggled.RSVP, userID)
	}
	return toggled, nil
}
