package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "financeiro/internal/errors"
)

// ClientAuthMiddleware validates the OAuth2 client credentials sent with
// HTTP Basic auth on the token endpoint.
func ClientAuthMiddleware(clientID, clientSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, secret, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(id), []byte(clientID)) != 1 ||
			subtle.ConstantTimeCompare([]byte(secret), []byte(clientSecret)) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="oauth2"`)
			abortWithError(c, apperrors.ErrInvalidClient)
			return
		}
		c.Next()
	}
}
