package user

import (
	"context"
	"net/http"

	"github.com/cu-events/events-api/pkg/model"
	"github.com/google/uuid"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/internal/handler"
	"github.com/cu-events/events-api/internal/util"

	"github.com/cu-events/events-api/pkg/token"
	"github.com/gin-gonic/gin"
)

func NewHandler(cookies util.CookieConfig, userService userService, tokenService tokenService) Handler {
	return Handler{
		cookies,
		userService,
		tokenService,
	}
}

type Handler struct {
	cookies      util.CookieConfig
	userService  userService
	tokenService tokenService
}

type userService interface {
	SignUp(ctx context.Context, name string, email string, password string) (*model.User, error)
	SendVerificationEmail(ctx context.Context, email string) error
	ValidateEmail(ctx context.Context, token uuid.UUID) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password string) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindIdentityByID(ctx context.Context, id string) (*model.Identity, error)
	UpdateName(ctx context.Context, id string, name string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type tokenService interface {
	GetTokens(user *model.Identity, previousTokenId string, rememberMe bool) (*token.Tokens, error)
	ValidateRefreshToken(ctx context.Context, tokenString string) (*token.RefreshTokenData, error)
	SignOut(userId string) error
}

type signUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,gte=16,lte=128"`
}

// SignUp user
func (h Handler) SignUp(c *gin.Context) {
	// swagger:route POST /users signUp
	//
	// SignUp user
	//
	// Sign up a user. This endpoint is publicly accessible and therefore anyone can sign up. A link to verify the email is sent to the user and the user can't sign in before the email is verified.
	//
	// responses:
	//   201: User
	//   400: Error
	//   409: Error
	//   415: Error
	//   429: Error
	var request signUpRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type validateEmailRequest struct {
	Token string `uri:"token" binding:"required,uuid"`
}

// ValidateEmail user
func (h Handler) ValidateEmail(c *gin.Context) {
	// swagger:route POST /users/validate/{token} validateEmail
	//
	// Validate email
	//
	// Validate users email using the token sent by email
	//
	// responses:
	//   200:
	//   400: Error
	//   404: Error
	var request validateEmailRequest
	if err := c.ShouldBindUri(&request); err != nil {
		_ = c.Error(errdef.NewBadRequest("error binding token: %v", err))
		return
	}

	if err := h.userService.ValidateEmail(c.Request.Context(), uuid.MustParse(request.Token)); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}

type SendVerificationEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendVerificationEmail user
func (h Handler) SendVerificationEmail(c *gin.Context) {
	// swagger:route POST /users/verification sendVerificationEmail
	//
	// Send verification email
	//
	// Send the email verification link again. The response is the same whether or not a user with the given email exists.
	//
	// responses:
	//   202:
	//   400: Error
	//   415: Error
	//   429: Error
	var request SendVerificationEmailRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.SendVerificationEmail(c.Request.Context(), request.Email); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// SignIn user
func (h Handler) SignIn(c *gin.Context) {
	// swagger:route POST /tokens signIn
	//
	// Sign in
	//
	// Sign in using basic authentication and receive an access and a refresh token. The tokens are also set as cookies. Add the query parameter rememberMe=true for a long-lived refresh token.
	//
	// security:
	//   basicAuth:
	//
	// responses:
	//   201: Tokens
	//   401: Error
	//   403: Error
	//   429: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	rememberMe := c.Query("rememberMe") == "true"
	tokens, err := h.tokenService.GetTokens(user, "", rememberMe)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetCookies(c, tokens, rememberMe, h.cookies)
	c.JSON(http.StatusCreated, tokens)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken user
func (h Handler) RefreshToken(c *gin.Context) {
	// swagger:route POST /refresh refreshToken
	//
	// Refresh tokens
	//
	// Refresh user tokens. The refresh token is read from the request body or from the cookie named "refreshToken". A refresh token can only be used once.
	//
	// responses:
	//   201: Tokens
	//   400: Error
	//   401: Error
	//   415: Error
	refreshTokenString, err := c.Cookie("refreshToken")
	if err != nil || refreshTokenString == "" {
		var request RefreshTokenRequest
		if err := handler.DataBinder(c, &request); err != nil {
			_ = c.Error(err)
			return
		}
		if request.RefreshToken == "" {
			_ = c.Error(errdef.NewBadRequest("refresh token is required"))
			return
		}
		refreshTokenString = request.RefreshToken
	}

	refreshToken, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), refreshTokenString)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.FindIdentityByID(c.Request.Context(), refreshToken.UserId)
	if err != nil {
		if errdef.IsNotFound(err) {
			_ = c.Error(errdef.NewUnauthorized("user of refresh token not found"))
		} else {
			_ = c.Error(err)
		}
		return
	}

	rememberMe, _ := c.Cookie("rememberMe")
	tokens, err := h.tokenService.GetTokens(user, refreshToken.ID.String(), rememberMe == "true")
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetCookies(c, tokens, rememberMe == "true", h.cookies)
	c.JSON(http.StatusCreated, tokens)
}

// Me user
func (h Handler) Me(c *gin.Context) {
	// swagger:route GET /me me
	//
	// User details
	//
	// Current user details
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	profile, err := h.userService.FindByID(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

type UpdateUserRequest struct {
	Name string `json:"name" binding:"required"`
}

// Update user
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /me updateUser
	//
	// Update user
	//
	// Update the name of the current user
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   400: Error
	//   401: Error
	//   404: Error
	//   415: Error
	//   502: Error
	var request UpdateUserRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	profile, err := h.userService.UpdateName(c.Request.Context(), user.ID, request.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Delete user
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /me deleteUser
	//
	// Delete user
	//
	// Delete the account of the current user. The users RSVPs are left on the events.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tokenService.SignOut(user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	util.ClearCookies(c, h.cookies)
	c.Status(http.StatusAccepted)
}

// SignOut user
func (h Handler) SignOut(c *gin.Context) {
	// swagger:route DELETE /users signOut
	//
	// Sign out
	//
	// Sign out user. A JWT can't easily be invalidated so even after calling this endpoint the access token can be used until it expires. However, the refresh tokens are revoked so the access token can't be refreshed.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200:
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tokenService.SignOut(user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	util.ClearCookies(c, h.cookies)
	c.Status(http.StatusOK)
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset user
func (h Handler) RequestPasswordReset(c *gin.Context) {
	// swagger:route POST /users/request-reset requestPasswordReset
	//
	// Request password reset
	//
	// Send a password reset link. The response is the same whether or not a user with the given email exists.
	//
	// responses:
	//   201:
	//   400: Error
	//   415: Error
	//   429: Error
	var request RequestPasswordResetRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.RequestPasswordReset(c.Request.Context(), request.Email); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusCreated)
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,gte=16,lte=128"`
}

// ResetPassword user
func (h Handler) ResetPassword(c *gin.Context) {
	// swagger:route POST /users/reset-password resetPassword
	//
	// Reset password
	//
	// Set a new password using the token sent by email
	//
	// responses:
	//   201:
	//   400: Error
	//   404: Error
	//   415: Error
	var request ResetPasswordRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), request.Token, request.Password); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusCreated)
}
