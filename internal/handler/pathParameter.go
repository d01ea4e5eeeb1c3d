package handler

import (
	"net/http"
	"strings"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/gin-gonic/gin"
)

// GetPathParameter returns the value of the path parameter. The request is aborted with status 400
// if the value is blank.
func GetPathParameter(c *gin.Context, parameter string) (string, bool) {
	value := strings.TrimSpace(c.Param(parameter))
	if value == "" {
		_ = c.AbortWithError(http.StatusBadRequest, errdef.NewBadRequest("path parameter %q is required", parameter))
		return "", false
	}
	return value, true
}
