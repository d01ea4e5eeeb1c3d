package event

import (
	"context"
	"net/http"
	"time"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/internal/handler"
	"github.com/cu-events/events-api/pkg/model"
	"github.com/gin-gonic/gin"
)

func NewHandler(catalog catalog) Handler {
	return Handler{catalog}
}

type Handler struct {
	catalog catalog
}

type catalog interface {
	List(ctx context.Context, offCampus bool, order model.SortOrder) (Listing, error)
	RefreshAll(ctx context.Context) ([]Partition, error)
	FindByID(ctx context.Context, id string) (model.Event, error)
	Create(ctx context.Context, userID string, event NewEvent) (model.Event, error)
	ToggleRSVP(ctx context.Context, id string, userID string) (model.Event, error)
}

type listRequest struct {
	OffCampus bool   `form:"offCampus"`
	Sort      string `form:"sort" binding:"omitempty,oneOf=dateAscending dateDescending nameAscending nameDescending interestedAscending interestedDescending locationAscending locationDescending"`
}

// ListResponse is a sorted partition of events.
// swagger:model
type ListResponse struct {
	Listing
	Sort string `json:"sort"`
}

// List events
func (h Handler) List(c *gin.Context) {
	// swagger:route GET /events listEvents
	//
	// List events
	//
	// List either the on-campus or the off-campus events sorted by the given order. If the events can't be fetched the last fetched events are returned and marked as stale.
	//
	// responses:
	//   200: ListResponse
	//   400: Error
	//   503: Error
	var request listRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		_ = c.Error(errdef.NewBadRequest("error binding query: %v", err))
		return
	}

	order, err := model.ParseSortOrder(request.Sort)
	if err != nil {
		_ = c.Error(err)
		return
	}

	listing, err := h.catalog.List(c.Request.Context(), request.OffCampus, order)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Listing: listing, Sort: order.String()})
}

// Refresh partitions
func (h Handler) Refresh(c *gin.Context) {
	// swagger:route POST /partitions/refresh refreshPartitions
	//
	// Refresh partitions
	//
	// Fetch both the on-campus and the off-campus events
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Partition
	//   401: Error
	//   503: Error
	partitions, err := h.catalog.RefreshAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, partitions)
}

// FindByID event
func (h Handler) FindByID(c *gin.Context) {
	// swagger:route GET /events/{id} findEventById
	//
	// Find event
	//
	// Find an event by its id
	//
	// responses:
	//   200: Event
	//   400: Error
	//   404: Error
	//   422: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.catalog.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	IsOffCampus bool      `json:"isOffCampus"`
	Organizer   string    `json:"organizer" binding:"required"`
}

// Create event
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /events createEvent
	//
	// Create event
	//
	// Add a new event. The event is given a generated id and starts out without any RSVPs.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Event
	//   400: Error
	//   401: Error
	//   415: Error
	var request CreateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.catalog.Create(c.Request.Context(), user.ID, NewEvent{
		Name:        request.Name,
		Description: request.Description,
		Location:    request.Location,
		Date:        request.Date,
		IsOffCampus: request.IsOffCampus,
		Organizer:   request.Organizer,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ToggleRSVP event
func (h Handler) ToggleRSVP(c *gin.Context) {
	// swagger:route POST /events/{id}/rsvp toggleRsvp
	//
	// Toggle RSVP
	//
	// Add the current user to the events RSVP list or remove the user if already on it
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Event
	//   401: Error
	//   404: Error
	//   502: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.catalog.ToggleRSVP(c.Request.Context(), id, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}
