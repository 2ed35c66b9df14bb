package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	"vidtube/internal/core/services"
)

const (
	// ContextUserKey holds the authenticated *domain.User.
	ContextUserKey = "user"
	// ContextUserIDKey holds the authenticated user's primitive.ObjectID.
	ContextUserIDKey = "user_id"
	// AccessTokenCookie is the cookie the access token travels in.
	AccessTokenCookie = "accessToken"
)

// extractToken pulls the access token from the cookie or, failing that, the
// Authorization header.
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status_code": http.StatusUnauthorized,
		"data":        nil,
		"message":     message,
		"success":     false,
	})
}

// AuthMiddleware authenticates the request and resolves the principal to a
// live user document, so a deleted account cannot keep using old tokens.
func AuthMiddleware(tokens services.TokenService, users ports.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "authentication required")
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired access token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "invalid access token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "invalid access token")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the principal when a valid token is present
// but lets anonymous requests through. Read paths use it to personalize
// results (view counting, is_subscribed).
func OptionalAuthMiddleware(tokens services.TokenService, users ports.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.Next()
			return
		}
		if user, err := users.FindByID(c.Request.Context(), userID); err == nil {
			c.Set(ContextUserKey, user)
			c.Set(ContextUserIDKey, user.ID)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}

// CurrentUserID returns the authenticated user's ID, or the zero ObjectID for
// anonymous requests.
func CurrentUserID(c *gin.Context) primitive.ObjectID {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID
	}
	id, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}
