package middleware

import (
	"context"
	"net/http"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RevocationChecker reports whether a token's JTI was blacklisted on logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AccountChecker resolves the token's subject so blocked accounts stop
// passing even while their tokens are still within TTL.
type AccountChecker interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth requires a valid bearer token and stores the caller's identity in the
// gin context.
func Auth(jwtService *jwt.Service, revoked RevocationChecker, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, jwtService, revoked, accounts)
		if !ok {
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_expires_at", claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// OptionalAuth resolves the identity when a bearer token is present but lets
// anonymous requests through. Used on public read endpoints that still show
// per-viewer flags.
func OptionalAuth(jwtService *jwt.Service, revoked RevocationChecker, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		claims, ok := authenticate(c, jwtService, revoked, accounts)
		if !ok {
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("jti", claims.ID)
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtService *jwt.Service, revoked RevocationChecker, accounts AccountChecker) (*jwt.Claims, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		abortUnauthorized(c, "Missing Authorization header")
		return nil, false
	}
	if !strings.HasPrefix(h, "Bearer ") {
		abortUnauthorized(c, "Invalid Authorization header")
		return nil, false
	}

	tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if tokenStr == "" {
		abortUnauthorized(c, "Empty token")
		return nil, false
	}

	claims, err := jwtService.ValidateToken(tokenStr)
	if err != nil {
		abortUnauthorized(c, "Invalid token")
		return nil, false
	}

	if revoked != nil && claims.ID != "" {
		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err == nil && isRevoked {
			abortUnauthorized(c, "Token has been revoked")
			return nil, false
		}
	}

	if accounts != nil {
		user, err := accounts.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.Active {
			abortUnauthorized(c, "Account is inactive")
			return nil, false
		}
	}

	return claims, true
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
	c.Abort()
}
