package auth

import (
	"errors"
	"net/http"
	"time"

	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Wrong email or password")
		case errors.Is(err, ErrUserBlocked):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This account has been blocked")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{AuthToken: token})
}

// Logout revokes the presented token. It never fails once the auth
// middleware let the request through.
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString("jti")
	expiresAt, _ := c.Get("token_expires_at")
	exp, ok := expiresAt.(time.Time)
	if !ok {
		exp = time.Now().Add(24 * time.Hour)
	}

	h.service.Logout(c.Request.Context(), jti, exp)
	c.Status(http.StatusNoContent)
}
