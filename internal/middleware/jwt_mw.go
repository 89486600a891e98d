package middleware

import (
	"net/http"
	"strings"
	"time"

	"pizza_service/internal/authz"
	"pizza_service/internal/repository"
	"pizza_service/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey   = "authUser"
	AuthTokenKey  = "authToken"
	AuthExpiryKey = "authExpiry"
)

// JWTAuthMiddleware creates a middleware for JWT authentication. A
// token that parses but appears on the revocation list is treated the
// same as a missing one.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, revocations repository.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := authenticate(c, jwtUtil, revocations)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		c.Set(AuthUserKey, identity)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware authenticates the caller when a valid
// token is present but lets anonymous requests through. Handlers that
// vary their response by caller (like the franchise listing) use this.
func OptionalJWTAuthMiddleware(jwtUtil *utils.JWTUtil, revocations repository.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := authenticate(c, jwtUtil, revocations); ok {
			c.Set(AuthUserKey, identity)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtUtil *utils.JWTUtil, revocations repository.RevocationStore) (authz.Identity, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return authz.Identity{}, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return authz.Identity{}, false
	}

	tokenString := parts[1]
	claims, err := jwtUtil.ValidateToken(tokenString)
	if err != nil {
		return authz.Identity{}, false
	}

	revoked, err := revocations.IsRevoked(c.Request.Context(), tokenString)
	if err != nil || revoked {
		return authz.Identity{}, false
	}

	// Raw token and expiry stay in the context so logout can revoke
	// exactly the session that made the call.
	c.Set(AuthTokenKey, tokenString)
	if claims.ExpiresAt != nil {
		c.Set(AuthExpiryKey, claims.ExpiresAt.Time)
	} else {
		c.Set(AuthExpiryKey, time.Time{})
	}

	return authz.Identity{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Roles: claims.Roles,
	}, true
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(c *gin.Context) (authz.Identity, bool) {
	v, exists := c.Get(AuthUserKey)
	if !exists {
		return authz.Identity{}, false
	}
	identity, ok := v.(authz.Identity)
	return identity, ok
}
