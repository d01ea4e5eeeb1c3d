package event

import "github.com/cu-events/events-api/pkg/model"

// swagger:parameters listEvents
type _ struct {
	// List the off-campus events instead of the on-campus events
	// in: query
	// required: false
	OffCampus bool `json:"offCampus"`
	// Sort order. One of dateAscending, dateDescending, nameAscending, nameDescending, interestedAscending, interestedDescending, locationAscending or locationDescending
	// in: query
	// required: false
	Sort string `json:"sort"`
}

// swagger:parameters createEvent
type _ struct {
	// Create event request body parameter
	// in: body
	// required: true
	Body CreateEventRequest
}

// swagger:response Event
type _ struct {
	//in: body
	_ model.Event
}

// swagger:response ListResponse
type _ struct {
	//in: body
	_ ListResponse
}
