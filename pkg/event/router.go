package event

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	r.GET("/events", handler.List)
	r.GET("/events/:id", handler.FindByID)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.POST("/events", handler.Create)
	tokenAuthenticationRouter.POST("/events/:id/rsvp", handler.ToggleRSVP)
	tokenAuthenticationRouter.POST("/partitions/refresh", handler.Refresh)
}
