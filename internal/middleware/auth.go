package middleware

import (
	"net/http"
	"strings"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/jwt"
	"servicehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth requires a valid bearer token and stores the caller in the context
// as user_id and role.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		setActor(c, claims.Actor())
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through. A malformed token is treated as anonymous.
func OptionalAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := tokens.ValidateToken(raw); err == nil {
				setActor(c, claims.Actor())
			}
		}
		c.Next()
	}
}

// Actor returns the caller attached by JWTAuth or OptionalAuth. It is the zero
// ActorContext for anonymous requests.
func Actor(c *gin.Context) domain.ActorContext {
	return domain.ActorContext{
		UserID: c.GetInt64(ctxUserID),
		Role:   domain.Role(c.GetString(ctxRole)),
	}
}

func setActor(c *gin.Context, actor domain.ActorContext) {
	c.Set(ctxUserID, actor.UserID)
	c.Set(ctxRole, string(actor.Role))
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
