package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cu-events/events-api/internal/errdef"
	"github.com/cu-events/events-api/internal/middleware"
	"github.com/cu-events/events-api/internal/util"
	"github.com/cu-events/events-api/pkg/model"
	"github.com/cu-events/events-api/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var cookieConfig = util.CookieConfig{
	Hostname:                                "hostname",
	SameSiteMode:                            http.SameSiteStrictMode,
	RefreshTokenExpirationSeconds:           600,
	RefreshTokenRememberMeExpirationSeconds: 6000,
}

func TestHandler_RefreshToken_Cookie(t *testing.T) {
	userService := &mockUserService{}
	user := &model.Identity{ID: "u123"}
	userService.
		On("FindIdentityByID", "u123").
		Return(user, nil)
	tokenService := &mockTokenService{}
	id := uuid.New()
	refreshTokenData := &token.RefreshTokenData{
		SignedToken: "signed-token",
		ID:          id,
		UserId:      "u123",
	}
	tokenService.
		On("ValidateRefreshToken", "token").
		Return(refreshTokenData, nil)
	tokens := &token.Tokens{
		AccessToken:  "accessToken",
		TokenType:    "bearer",
		RefreshToken: "refreshToken",
		ExpiresIn:    312,
	}
	tokenService.
		On("GetTokens", user, id.String(), false).
		Return(tokens, nil)
	handler := NewHandler(cookieConfig, userService, tokenService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	request := newPost(t, "/some-path", nil)
	cookie := &http.Cookie{Name: "refreshToken", Value: "token"}
	require.NoError(t, cookie.Valid())
	request.AddCookie(cookie)
	c.Request = request

	handler.RefreshToken(c)

	require.Len(t, c.Errors.Errors(), 0)
	cookies := recorder.Result().Cookies()
	assert.Len(t, cookies, 2)
	expectedAccessTokenCookie := "accessToken=accessToken; Path=/; Domain=hostname; Max-Age=312; HttpOnly; Secure; SameSite=Strict"
	assert.Equal(t, expectedAccessTokenCookie, cookies[0].Raw)
	expectedRefreshTokenCookie := "refreshToken=refreshToken; Path=/refresh; Domain=hostname; Max-Age=600; HttpOnly; Secure; SameSite=Strict"
	assert.Equal(t, expectedRefreshTokenCookie, cookies[1].Raw)
	tokenService.AssertExpectations(t)
	userService.AssertExpectations(t)
}

func TestHandler_RefreshToken_RequestBody(t *testing.T) {
	userService := &mockUserService{}
	user := &model.Identity{ID: "u123"}
	userService.
		On("FindIdentityByID", "u123").
		Return(user, nil)
	tokenService := &mockTokenService{}
	id := uuid.New()
	refreshTokenData := &token.RefreshTokenData{
		SignedToken: "signed-token",
		ID:          id,
		UserId:      "u123",
	}
	tokenService.
		On("ValidateRefreshToken", "token").
		Return(refreshTokenData, nil)
	tokens := &token.Tokens{
		AccessToken:  "accessToken",
		TokenType:    "bearer",
		RefreshToken: "refreshToken",
		ExpiresIn:    312,
	}
	tokenService.
		On("GetTokens", user, id.String(), false).
		Return(tokens, nil)
	handler := NewHandler(cookieConfig, userService, tokenService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = newPost(t, "/some-path", &RefreshTokenRequest{RefreshToken: "token"})

	handler.RefreshToken(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var got token.Tokens
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	assert.Equal(t, *tokens, got)
	tokenService.AssertExpectations(t)
	userService.AssertExpectations(t)
}

func TestHandler_RefreshToken_UserDeleted(t *testing.T) {
	userService := &mockUserService{}
	userService.
		On("FindIdentityByID", "u123").
		Return(nil, errdef.NewNotFound("not found"))
	tokenService := &mockTokenService{}
	tokenService.
		On("ValidateRefreshToken", "token").
		Return(&token.RefreshTokenData{ID: uuid.New(), UserId: "u123"}, nil)
	handler := NewHandler(cookieConfig, userService, tokenService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = newPost(t, "/some-path", &RefreshTokenRequest{RefreshToken: "token"})

	handler.RefreshToken(c)

	require.Len(t, c.Errors.Errors(), 1)
	assert.True(t, errdef.IsUnauthorized(c.Errors.Last()))
	tokenService.AssertNotCalled(t, "GetTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_SignIn_Cookies(t *testing.T) {
	userService := &mockUserService{}
	user := &model.Identity{ID: "u123"}
	tokenService := &mockTokenService{}
	tokens := &token.Tokens{
		AccessToken:  "accessToken",
		TokenType:    "bearer",
		RefreshToken: "refreshToken",
		ExpiresIn:    312,
	}
	tokenService.
		On("GetTokens", user, "", true).
		Return(tokens, nil)
	handler := NewHandler(cookieConfig, userService, tokenService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Request = newPost(t, "/some-path?rememberMe=true", nil)

	handler.SignIn(c)

	require.Len(t, c.Errors.Errors(), 0)
	cookies := recorder.Result().Cookies()
	assert.Len(t, cookies, 3)
	expectedAccessTokenCookie := "accessToken=accessToken; Path=/; Domain=hostname; Max-Age=312; HttpOnly; Secure; SameSite=Strict"
	assert.Equal(t, expectedAccessTokenCookie, cookies[0].Raw)
	expectedRefreshTokenCookie := "refreshToken=refreshToken; Path=/refresh; Domain=hostname; Max-Age=6000; HttpOnly; Secure; SameSite=Strict"
	assert.Equal(t, expectedRefreshTokenCookie, cookies[1].Raw)
	tokenService.AssertExpectations(t)
	userService.AssertExpectations(t)
}

func TestHandler_SignOut_Cookies(t *testing.T) {
	userService := &mockUserService{}
	user := &model.Identity{ID: "u123"}
	tokenService := &mockTokenService{}
	tokenService.
		On("SignOut", "u123").
		Return(nil)
	handler := NewHandler(cookieConfig, userService, tokenService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Request = newPost(t, "/some-path", nil)

	handler.SignOut(c)

	require.Len(t, c.Errors.Errors(), 0)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 3)
	for _, cookie := range cookies {
		assert.Empty(t, cookie.Value)
		assert.Equal(t, -1, cookie.MaxAge)
	}
	tokenService.AssertExpectations(t)
	userService.AssertExpectations(t)
}

func TestHandler_Delete(t *testing.T) {
	userService := &mockUserService{}
	userService.
		On("Delete", "u123").
		Return(nil)
	tokenService := &mockTokenService{}
	tokenService.
		On("SignOut", "u123").
		Return(nil)
	handler := NewHandler(cookieConfig, userService, tokenService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.Identity{ID: "u123"})
	c.Request = httptest.NewRequest(http.MethodDelete, "/me", nil)

	handler.Delete(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusAccepted, c.Writer.Status())
	tokenService.AssertExpectations(t)
	userService.AssertExpectations(t)
}

func TestHandler_SignUp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		userService := &mockUserService{}
		user := &model.User{ID: "u123", Name: "Ralphie", Email: "ralphie@colorado.edu"}
		userService.
			On("SignUp", "Ralphie", "ralphie@colorado.edu", "ralphieralphie123").
			Return(user, nil)
		r := newEngine(NewHandler(cookieConfig, userService, &mockTokenService{}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newPost(t, "/users", signUpRequest{Name: "Ralphie", Email: "ralphie@colorado.edu", Password: "ralphieralphie123"}))

		require.Equal(t, http.StatusCreated, w.Code)
		var got model.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, *user, got)
		userService.AssertExpectations(t)
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		userService := &mockUserService{}
		r := newEngine(NewHandler(cookieConfig, userService, &mockTokenService{}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newPost(t, "/users", signUpRequest{Name: "Ralphie", Email: "ralphie@colorado.edu", Password: "short"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		userService.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingName", func(t *testing.T) {
		userService := &mockUserService{}
		r := newEngine(NewHandler(cookieConfig, userService, &mockTokenService{}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newPost(t, "/users", signUpRequest{Email: "ralphie@colorado.edu", Password: "ralphieralphie123"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Duplicated", func(t *testing.T) {
		userService := &mockUserService{}
		userService.
			On("SignUp", "Ralphie", "ralphie@colorado.edu", "ralphieralphie123").
			Return(nil, errdef.NewDuplicated("user exists"))
		r := newEngine(NewHandler(cookieConfig, userService, &mockTokenService{}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newPost(t, "/users", signUpRequest{Name: "Ralphie", Email: "ralphie@colorado.edu", Password: "ralphieralphie123"}))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_ValidateEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token := uuid.New()
	userService := &mockUserService{}
	userService.
		On("ValidateEmail", token).
		Return(nil)
	r := newEngine(NewHandler(cookieConfig, userService, &mockTokenService{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/validate/"+token.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/validate/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	userService.AssertExpectations(t)
}

func TestHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userService := &mockUserService{}
	user := &model.User{ID: "u123", Name: "Chip", Email: "chip@colorado.edu"}
	userService.
		On("UpdateName", "u123", "Chip").
		Return(user, nil)
	handler := NewHandler(cookieConfig, userService, &mockTokenService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.Identity{ID: "u123"})
	c.Request = newPost(t, "/me", UpdateUserRequest{Name: "Chip"})

	handler.Update(c)

	require.Len(t, c.Errors.Errors(), 0)
	assert.Equal(t, http.StatusOK, recorder.Code)
	userService.AssertExpectations(t)
}

func newEngine(handler Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/users", handler.SignUp)
	r.POST("/users/validate/:token", handler.ValidateEmail)
	return r
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) SignUp(_ context.Context, name string, email string, password string) (*model.User, error) {
	called := m.Called(name, email, password)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

func (m *mockUserService) SendVerificationEmail(_ context.Context, email string) error {
	called := m.Called(email)
	return called.Error(0)
}

func (m *mockUserService) ValidateEmail(_ context.Context, token uuid.UUID) error {
	called := m.Called(token)
	return called.Error(0)
}

func (m *mockUserService) RequestPasswordReset(_ context.Context, email string) error {
	called := m.Called(email)
	return called.Error(0)
}

func (m *mockUserService) ResetPassword(_ context.Context, token string, password string) error {
	called := m.Called(token, password)
	return called.Error(0)
}

func (m *mockUserService) FindByID(_ context.Context, id string) (*model.User, error) {
	called := m.Called(id)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

func (m *mockUserService) FindIdentityByID(_ context.Context, id string) (*model.Identity, error) {
	called := m.Called(id)
	identity, _ := called.Get(0).(*model.Identity)
	return identity, called.Error(1)
}

func (m *mockUserService) UpdateName(_ context.Context, id string, name string) (*model.User, error) {
	called := m.Called(id, name)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

func (m *mockUserService) Delete(_ context.Context, id string) error {
	called := m.Called(id)
	return called.Error(0)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GetTokens(user *model.Identity, previousTokenId string, rememberMe bool) (*token.Tokens, error) {
	called := m.Called(user, previousTokenId, rememberMe)
	tokens, _ := called.Get(0).(*token.Tokens)
	return tokens, called.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(_ context.Context, tokenString string) (*token.RefreshTokenData, error) {
	called := m.Called(tokenString)
	data, _ := called.Get(0).(*token.RefreshTokenData)
	return data, called.Error(1)
}

func (m *mockTokenService) SignOut(userId string) error {
	called := m.Called(userId)
	return called.Error(0)
}

func newPost(t *testing.T, path string, jsonBody any) *http.Request {
	body, err := json.Marshal(jsonBody)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	return req
}
