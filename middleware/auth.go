package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/auth"
	"portfolio/models"
)

// ContextAdminEmail is the gin context key holding the authenticated admin's email.
const ContextAdminEmail = "admin_email"

// AdminRequired accepts a JWT from the Authorization header or the auth cookie.
func AdminRequired(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Fail("invalid authorization format"))
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Fail("authorization required"))
			return
		}

		claims, err := authenticator.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Fail(err.Error()))
			return
		}

		c.Set(ContextAdminEmail, claims.Email)
		c.Next()
	}
}

// bearerToken returns false only when an Authorization header is present but malformed.
func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}

	cookie, err := c.Cookie(auth.CookieName)
	if err != nil {
		return "", true
	}
	return cookie, true
}
