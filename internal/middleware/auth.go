package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "financeiro/internal/errors"
	"financeiro/internal/logger"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey      = "userID"
	EmailKey       = "email"
	AuthoritiesKey = "authorities"
)

// AuthorityResolver returns the current authorities of a user. It lets role
// changes take effect before the token that carries the old ones expires.
type AuthorityResolver interface {
	Authorities(ctx context.Context, userID int64) ([]string, error)
}

// AuthMiddleware verifies the bearer token and sets the user in the context.
// When resolver is nil the authorities embedded in the token are trusted.
func AuthMiddleware(tokens *TokenManager, resolver AuthorityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		authorities := claims.Authorities
		if resolver != nil {
			authorities, err = resolver.Authorities(c.Request.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, apperrors.ErrUserNotFound) {
					abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
					return
				}
				logger.FromContext(c.Request.Context()).Errorw("failed to resolve authorities", "user_id", claims.UserID, "error", err)
				abortWithError(c, apperrors.ErrInternalServer)
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Subject)
		c.Set(AuthoritiesKey, authorities)
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated user
// holds at least one of the given authorities. It must run after
// AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		granted, _ := c.Get(AuthoritiesKey)
		authorities, _ := granted.([]string)
		for _, have := range authorities {
			for _, want := range roles {
				if have == want {
					c.Next()
					return
				}
			}
		}
		abortWithError(c, apperrors.ErrForbidden)
	}
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
