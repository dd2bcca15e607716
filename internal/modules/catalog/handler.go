package catalog

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

// RegisterRoutes mounts the catalog. Reads pass for everyone; writes are
// gated behind the admin-or-read-only policy so non-staff callers get 405.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/", middleware.Policy(access.AdminOrReadOnly{}))
	catalog.GET("/tags", h.ListTags)
	catalog.GET("/tags/:id", h.GetTag)
	catalog.POST("/tags", h.CreateTag)
	catalog.GET("/ingredients", h.ListIngredients)
	catalog.GET("/ingredients/:id", h.GetIngredient)
	catalog.POST("/ingredients", h.CreateIngredient)
}

func (h *Handler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tag payload")
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tag)
}

func (h *Handler) GetTag(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

func (h *Handler) CreateIngredient(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ingredient payload")
		return
	}

	ingredient, err := h.service.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ingredient)
}

func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	ingredient, err := h.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ingredient)
}

func (h *Handler) ListIngredients(c *gin.Context) {
	var params IngredientListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	ingredients, err := h.service.ListIngredients(c.Request.Context(), params)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ingredients)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTagNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tag not found")
	case errors.Is(err, ErrIngredientNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Ingredient not found")
	case errors.Is(err, ErrTagExists):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "Tag with this name, color or slug already exists")
	case errors.Is(err, ErrIngredientExists):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "Ingredient with this name and unit already exists")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
