package recipes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"foodgram/internal/access"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read endpoints; the group should carry
// OptionalAuth so per-viewer flags resolve for logged-in callers.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes", h.List)
	rg.GET("/recipes/:id", h.Get)
}

// RegisterProtectedRoutes mounts everything that mutates state or is scoped
// to the caller; the group must carry the Auth middleware.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/recipes", h.Create)
	rg.PATCH("/recipes/:id", h.Update)
	rg.PUT("/recipes/:id", h.Update)
	rg.DELETE("/recipes/:id", h.Delete)

	rg.POST("/recipes/:id/favorite", h.AddFavorite)
	rg.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
	rg.POST("/recipes/:id/shopping_cart", h.AddToCart)
	rg.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart)

	rg.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
}

func (h *Handler) List(c *gin.Context) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	id := access.FromContext(c)
	recipes, total, err := h.service.List(c.Request.Context(), id, params)
	if err != nil {
		h.renderError(c, err)
		return
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		results = append(results, toRecipeResponse(&recipes[i]))
	}
	response.Success(c, http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

func (h *Handler) Get(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	id := access.FromContext(c)
	rec, err := h.service.Get(c.Request.Context(), id, recipeID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipeResponse(rec))
}

func (h *Handler) Create(c *gin.Context) {
	var req RecipePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	id := access.FromContext(c)
	rec, err := h.service.Create(c.Request.Context(), id, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toRecipeResponse(rec))
}

func (h *Handler) Update(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req RecipePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	id := access.FromContext(c)
	rec, err := h.service.Update(c.Request.Context(), id, recipeID, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toRecipeResponse(rec))
}

func (h *Handler) Delete(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	id := access.FromContext(c)
	if err := h.service.Delete(c.Request.Context(), id, recipeID); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.service.AddFavorite)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.service.RemoveFavorite)
}

func (h *Handler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.service.AddToCart)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.service.RemoveFromCart)
}

func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	id := access.FromContext(c)
	filename, content, err := h.service.ShoppingList(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

func (h *Handler) addMembership(c *gin.Context, add func(ctx context.Context, id access.Identity, recipeID int64) (*domain.Recipe, error)) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	id := access.FromContext(c)
	rec, err := add(c.Request.Context(), id, recipeID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toRecipeBrief(rec))
}

func (h *Handler) removeMembership(c *gin.Context, remove func(ctx context.Context, id access.Identity, recipeID int64) error) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	id := access.FromContext(c)
	if err := remove(c.Request.Context(), id, recipeID); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe payload", verrs)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrAlreadyFavorited):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "Recipe is already in favorites")
	case errors.Is(err, ErrNotFavorited):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "Recipe is not in favorites")
	case errors.Is(err, ErrAlreadyInCart):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "Recipe is already in the shopping cart")
	case errors.Is(err, ErrNotInCart):
		response.Error(c, http.StatusBadRequest, "CONFLICT", "Recipe is not in the shopping cart")
	case errors.Is(err, access.ErrAuthenticationRequired):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, access.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the author may modify this recipe")
	case errors.Is(err, access.ErrMethodNotAllowed):
		response.Error(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
