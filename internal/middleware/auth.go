// Package middleware provides HTTP middleware for the directory API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stalberm/business-directory-api/internal/service"
)

// ContextUserIDKey is the gin context key under which the authenticated
// subject id is stored for the duration of the request.
const ContextUserIDKey = "authUserID"

const invalidTokenMessage = "Invalid authentication token provided."

// RequireAuthentication extracts and verifies the bearer token on inbound
// requests. On success the token's subject is attached to the request
// context; on failure the request is rejected with a 401 and never reaches
// the handler.
func RequireAuthentication(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := tokens.Verify(extractBearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": invalidTokenMessage,
			})
			return
		}
		c.Set(ContextUserIDKey, subject)
		c.Next()
	}
}

// OptionalAuthentication attaches the subject when a valid bearer token is
// present but never rejects the request. Used where an authenticated caller
// changes behavior (admin-created users) but anonymous access is allowed.
func OptionalAuthentication(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject, err := tokens.Verify(extractBearerToken(c)); err == nil {
			c.Set(ContextUserIDKey, subject)
		}
		c.Next()
	}
}

// AuthUserID returns the authenticated subject id attached by the gate, or
// the empty string for an unauthenticated request.
func AuthUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}

// extractBearerToken pulls the token out of an "Authorization: Bearer <tok>"
// header. Any other form, including a missing header, yields the empty
// string, which verification then rejects.
func extractBearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
