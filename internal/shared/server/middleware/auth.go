package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
)

const (
	// UnauthenticatedMessage is returned when no usable credentials were sent.
	UnauthenticatedMessage = "Unauthorized"
	// SessionInvalidMessage is returned when credentials name a user that no longer exists.
	SessionInvalidMessage = "Session is no longer valid. Please sign in again."
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// UserChecker confirms that a token subject still has an account.
type UserChecker interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Auth validates bearer tokens and stores the identity in context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", UnauthenticatedMessage)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", UnauthenticatedMessage)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", UnauthenticatedMessage)
			return
		}

		c.Set(userIDKey, claims.Subject)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		c.Next()
	}
}

// RequireUser re-checks on every request that the authenticated user still
// exists, so sessions for accounts removed out-of-band stop working.
func RequireUser(checker UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserIDFromContext(c)
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", UnauthenticatedMessage)
			return
		}
		ok, err := checker.Exists(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify session")
			return
		}
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "session_invalid", SessionInvalidMessage)
			return
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
