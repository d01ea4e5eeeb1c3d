package handler

import (
	"github.com/cu-events/events-api/internal/errdef"
	"github.com/gin-gonic/gin"
)

// DataBinder binds the JSON or multipart form request body to req and validates it.
func DataBinder(c *gin.Context, req any) error {
	if c.ContentType() != "application/json" && c.ContentType() != "multipart/form-data" {
		return errdef.NewUnsupportedMediaType("%s only accepts content of type application/json or multipart/form-data", c.FullPath())
	}

	if err := c.ShouldBind(req); err != nil {
		return errdef.NewBadRequest("error binding data: %v", err)
	}

	return nil
}
