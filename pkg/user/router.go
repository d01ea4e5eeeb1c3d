package user

import (
	"github.com/cu-events/events-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authenticationMiddleware middleware.AuthenticationMiddleware, rateLimiter *middleware.RateLimiter, handler Handler) {
	r.POST("/users", rateLimiter.Limit, handler.SignUp)
	r.POST("/refresh", handler.RefreshToken)
	r.POST("/users/validate/:token", handler.ValidateEmail)
	r.POST("/users/verification", rateLimiter.Limit, handler.SendVerificationEmail)
	r.POST("/users/request-reset", rateLimiter.Limit, handler.RequestPasswordReset)
	r.POST("/users/reset-password", handler.ResetPassword)

	basicAuthenticationRouter := r.Group("")
	basicAuthenticationRouter.Use(rateLimiter.Limit, authenticationMiddleware.BasicAuthentication)
	basicAuthenticationRouter.POST("/tokens", handler.SignIn)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)
	tokenAuthenticationRouter.GET("/me", handler.Me)
	tokenAuthenticationRouter.PUT("/me", handler.Update)
	tokenAuthenticationRouter.DELETE("/me", handler.Delete)
	tokenAuthenticationRouter.DELETE("/users", handler.SignOut)
}
