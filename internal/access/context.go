package access

import (
	"foodgram/internal/domain"

	"github.com/gin-gonic/gin"
)

// FromContext reads the identity stored by the auth middleware. Requests that
// never passed the middleware resolve to the anonymous identity.
func FromContext(c *gin.Context) Identity {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		return Identity{}
	}
	return Identity{
		ID:            userID,
		Role:          domain.UserRole(c.GetString("role")),
		Authenticated: true,
	}
}
