package model

import (
	"time"

	"golang.org/x/exp/slices"
)

// Event domain object defining a campus event
// swagger:model
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	IsOffCampus bool      `json:"isOffCampus"`
	Organizer   string    `json:"organizer"`
	RSVP        []string  `json:"rsvp"`
}

// HasRSVP returns true if the user with the given id has RSVP'd to the event.
func (e Event) HasRSVP(userID string) bool {
	return slices.Contains(e.RSVP, userID)
}

// InterestedCount is the number of users who have RSVP'd.
func (e Event) InterestedCount() int {
	return len(e.RSVP)
}

// Clone returns a copy of e which doesn't share its RSVP list with e.
func (e Event) Clone() Event {
	e.RSVP = slices.Clone(e.RSVP)
	return e
}
