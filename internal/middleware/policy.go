package middleware

import (
	"errors"
	"net/http"

	"foodgram/internal/access"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Policy enforces a request-level access policy. Object-level checks run in
// the services once the target is resolved.
func Policy(p access.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := access.FromContext(c)
		if err := p.Permit(id, c.Request.Method); err != nil {
			abortPolicy(c, err)
			return
		}
		c.Next()
	}
}

func abortPolicy(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrAuthenticationRequired):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, access.ErrMethodNotAllowed):
		response.Error(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	default:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Permission denied")
	}
	c.Abort()
}
