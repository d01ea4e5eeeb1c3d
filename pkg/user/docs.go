package user

import (
	"github.com/cu-events/events-api/pkg/model"
	"github.com/cu-events/events-api/pkg/token"
)

// swagger:parameters signUp
type _ struct {
	// SignUp request body parameter
	// in: body
	// required: true
	Body signUpRequest
}

// swagger:parameters sendVerificationEmail
type _ struct {
	// Send verification email request body parameter
	// in: body
	// required: true
	Body SendVerificationEmailRequest
}

// swagger:parameters requestPasswordReset
type _ struct {
	// Request password reset request body parameter
	// in: body
	// required: true
	Body RequestPasswordResetRequest
}

// swagger:parameters resetPassword
type _ struct {
	// Reset password request body parameter
	// in: body
	// required: true
	Body ResetPasswordRequest
}

// swagger:parameters refreshToken
type _ struct {
	// Refresh token request body parameter. Note that this is optional and the refresh token can also be supplied using a cookie named "refreshToken"
	// in: body
	// required: false
	Body RefreshTokenRequest
}

// swagger:parameters validateEmail
type _ struct {
	// Email validation token
	// in: path
	// required: true
	Token string `json:"token"`
}

// swagger:parameters signIn
type _ struct {
	// Issue a long-lived refresh token
	// in: query
	// required: false
	RememberMe bool `json:"rememberMe"`
}

// swagger:response Tokens
type _ struct {
	//in: body
	_ token.Tokens
}

// swagger:response User
type _ struct {
	//in: body
	_ model.User
}

// swagger:parameters updateUser
type _ struct {
	// Update user request
	// in: body
	// required: true
	Body UpdateUserRequest
}
