package docs

// swagger:parameters findEventById toggleRsvp
type IdParam struct {
	// in: path
	// required: true
	ID string `json:"id"`
}

// swagger:response
type Error struct {
	// The error message
	//in: body
	Message string
}

// swagger:response Health
type Health struct {
	//in: body
	Body struct {
		Status string `json:"status"`
	}
}
