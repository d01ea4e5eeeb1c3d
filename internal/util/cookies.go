package util

import (
	"net/http"

	"github.com/cu-events/events-api/pkg/token"
	"github.com/gin-gonic/gin"
)

// CookieConfig holds the attributes of the token cookies.
type CookieConfig struct {
	Hostname                                string
	SameSiteMode                            http.SameSite
	RefreshTokenExpirationSeconds           int
	RefreshTokenRememberMeExpirationSeconds int
}

// SetCookies sets the access and refresh tokens as HTTP only cookies. The refresh token cookie is
// only sent to the refresh endpoint.
func SetCookies(c *gin.Context, tokens *token.Tokens, rememberMe bool, config CookieConfig) {
	c.SetSameSite(config.SameSiteMode)
	c.SetCookie("accessToken", tokens.AccessToken, int(tokens.ExpiresIn), "/", config.Hostname, true, true)
	if rememberMe {
		c.SetCookie("refreshToken", tokens.RefreshToken, config.RefreshTokenRememberMeExpirationSeconds, "/refresh", config.Hostname, true, true)
		c.SetCookie("rememberMe", "true", config.RefreshTokenRememberMeExpirationSeconds, "/refresh", config.Hostname, true, true)
	} else {
		c.SetCookie("refreshToken", tokens.RefreshToken, config.RefreshTokenExpirationSeconds, "/refresh", config.Hostname, true, true)
	}
}

// ClearCookies expires the token cookies.
func ClearCookies(c *gin.Context, config CookieConfig) {
	c.SetSameSite(config.SameSiteMode)
	c.SetCookie("accessToken", "", -1, "/", config.Hostname, true, true)
	c.SetCookie("refreshToken", "", -1, "/refresh", config.Hostname, true, true)
	c.SetCookie("rememberMe", "", -1, "/refresh", config.Hostname, true, true)
}
