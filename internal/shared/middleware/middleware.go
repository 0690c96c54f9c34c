package middleware

import (
	"net/http"
	"strings"

	"busbenin/internal/shared/config"
	"busbenin/internal/shared/identity"
	"busbenin/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const actorKey = "actor"

// JWTAuth creates a JWT authentication middleware
func JWTAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		actor, ok := parseAccessToken(parts[1], cfg.JWT.Secret)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth validates a JWT token if present but doesn't require it
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if actor, ok := parseAccessToken(parts[1], cfg.JWT.Secret); ok {
				setActor(c, actor)
			}
		}
		c.Next()
	}
}

func parseAccessToken(tokenString, secret string) (identity.Actor, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return identity.Actor{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Actor{}, false
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return identity.Actor{}, false
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return identity.Actor{}, false
	}

	actor := identity.Actor{UserID: userID}
	actor.Email, _ = claims["email"].(string)
	actor.Role, _ = claims["role"].(string)
	if raw, _ := claims["compagnie_id"].(string); raw != "" {
		if cid, err := uuid.Parse(raw); err == nil {
			actor.CompagnieID = &cid
		}
	}
	return actor, true
}

func setActor(c *gin.Context, actor identity.Actor) {
	c.Set(actorKey, actor)
	c.Set("user_id", actor.UserID.String())
	c.Set("user_email", actor.Email)
	c.Set("user_role", actor.Role)
}

// CurrentActor returns the authenticated caller set by JWTAuth or OptionalAuth
func CurrentActor(c *gin.Context) (identity.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return identity.Actor{}, false
	}
	actor, ok := v.(identity.Actor)
	return actor, ok
}

// RequireRole middleware checks if user has required role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// RequireStaff lets admins and company staff through
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(identity.RoleAdmin, identity.RoleCompany)
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := CurrentActor(c)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}
