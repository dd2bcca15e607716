package users

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/access"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts signup and the public profile reads; the group
// should carry OptionalAuth so is_subscribed resolves for logged-in viewers.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.Signup)
	rg.GET("/users", h.List)
	rg.GET("/users/:id", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.Me)
	rg.POST("/users/set_password", h.SetPassword)
	rg.GET("/users/subscriptions", h.Subscriptions)
	rg.POST("/users/:id/subscribe", h.Subscribe)
	rg.DELETE("/users/:id/subscribe", h.Unsubscribe)

	adminOnly := rg.Group("/", middleware.Policy(access.AdminOnly{}))
	adminOnly.PUT("/users/:id/edit", h.Edit)
	adminOnly.DELETE("/users/:id", h.Delete)
	adminOnly.POST("/users/:id/block", h.Block)
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid signup payload")
		return
	}

	user, created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	response.Success(c, status, toUserResponse(user))
}

func (h *Handler) List(c *gin.Context) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	viewer := access.FromContext(c)
	users, total, err := h.service.List(c.Request.Context(), viewer, params)
	if err != nil {
		h.renderError(c, err)
		return
	}

	results := make([]UserResponse, 0, len(users))
	for i := range users {
		results = append(results, toUserResponse(&users[i]))
	}
	response.Success(c, http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	viewer := access.FromContext(c)
	user, err := h.service.Get(c.Request.Context(), viewer, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(user))
}

func (h *Handler) Me(c *gin.Context) {
	viewer := access.FromContext(c)
	user, err := h.service.Get(c.Request.Context(), viewer, viewer.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(user))
}

func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Current and new password are required")
		return
	}

	viewer := access.FromContext(c)
	if err := h.service.SetPassword(c.Request.Context(), viewer.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Edit(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req EditUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user payload")
		return
	}

	user, err := h.service.Edit(c.Request.Context(), id, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(user))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Block(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.service.Block(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"detail": "User has been blocked"})
}

func (h *Handler) Subscriptions(c *gin.Context) {
	var params SubscriptionListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	viewer := access.FromContext(c)
	entries, total, err := h.service.Subscriptions(c.Request.Context(), viewer.ID, params)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"count":   total,
		"results": entries,
	})
}

func (h *Handler) Subscribe(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	viewer := access.FromContext(c)
	entry, err := h.service.Subscribe(c.Request.Context(), viewer.ID, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	viewer := access.FromContext(c)
	if err := h.service.Unsubscribe(c.Request.Context(), viewer.ID, id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrInvalidUsername):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username may contain only letters, digits and @/./+/-/_")
	case errors.Is(err, ErrAlreadyExists):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "User with this username or email already exists")
	case errors.Is(err, ErrWrongPassword):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Current password is incorrect")
	case errors.Is(err, ErrSelfSubscription):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "You cannot subscribe to yourself")
	case errors.Is(err, ErrAlreadySubscribed):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "You are already subscribed to this user")
	case errors.Is(err, ErrNotSubscribed):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "You are not subscribed to this user")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
