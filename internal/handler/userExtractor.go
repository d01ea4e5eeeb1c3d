package handler

import (
	"errors"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/pkg/model"
	"github.com/gin-gonic/gin"
)

// GetUserFromContext returns the user set by the authentication middleware. An Unauthenticated
// error is returned if no user is set.
func GetUserFromContext(c *gin.Context) (*model.Identity, error) {
	userData, exists := c.Get("user")
	if !exists {
		return nil, errdef.NewUnauthenticated("user not found on context")
	}

	user, ok := userData.(*model.Identity)
	if !ok {
		return nil, errors.New("failed to parse user data")
	}
	return user, nil
}
