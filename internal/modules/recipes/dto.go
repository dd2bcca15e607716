package recipes

import "foodgram/internal/domain"

type IngredientAmount struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

type RecipePayload struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time"`
	Tags        []int64            `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

type ListParams struct {
	Author           int64    `form:"author"`
	Tags             []string `form:"tags"`
	IsFavorited      bool     `form:"is_favorited"`
	IsInShoppingCart bool     `form:"is_in_shopping_cart"`
	Limit            int      `form:"limit,default=6"`
	Page             int      `form:"page,default=1"`
}

type AuthorResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []domain.Tag               `json:"tags"`
	Author           *AuthorResponse            `json:"author,omitempty"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeBriefResponse is the short shape returned by the favorite and
// shopping-cart toggles.
type RecipeBriefResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func toRecipeResponse(r *domain.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:               r.ID,
		Tags:             r.Tags,
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	if resp.Tags == nil {
		resp.Tags = []domain.Tag{}
	}

	if r.Author != nil {
		resp.Author = &AuthorResponse{
			ID:           r.Author.ID,
			Username:     r.Author.Username,
			FirstName:    r.Author.FirstName,
			LastName:     r.Author.LastName,
			Email:        r.Author.Email,
			IsSubscribed: r.Author.IsSubscribed,
		}
	}

	resp.Ingredients = make([]RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		row := RecipeIngredientResponse{
			ID:     item.IngredientID,
			Amount: item.Amount,
		}
		if item.Ingredient != nil {
			row.Name = item.Ingredient.Name
			row.MeasurementUnit = item.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, row)
	}

	return resp
}

func toRecipeBrief(r *domain.Recipe) RecipeBriefResponse {
	return RecipeBriefResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
