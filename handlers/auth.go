package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/auth"
	"portfolio/content"
	"portfolio/models"
)

// Login exchanges the admin credentials for a JWT, returned in the body and
// set as an HttpOnly cookie.
func Login(authenticator *auth.Authenticator, secureCookie bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := bindJSON(c, &req, func() { req.Email = content.NormalizeEmail(req.Email) }); err != nil {
			badRequest(c, err)
			return
		}

		token, err := authenticator.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				logger.Warn("failed admin login", "client_ip", c.ClientIP())
				c.JSON(http.StatusUnauthorized, models.Fail(err.Error()))
				return
			}
			logger.Error("failed to issue token", "error", err)
			c.JSON(http.StatusInternalServerError, models.Fail("failed to log in"))
			return
		}

		ttl := authenticator.TTL()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.CookieName, token, int(ttl.Seconds()), "/", "", secureCookie, true)

		c.JSON(http.StatusOK, models.OK(gin.H{
			"token":      token,
			"expires_at": time.Now().Add(ttl).UTC(),
		}))
	}
}

func Logout(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.CookieName, "", -1, "/", "", secureCookie, true)
		c.JSON(http.StatusOK, models.OK(gin.H{"success": true}))
	}
}
