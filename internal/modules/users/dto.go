package users

import "foodgram/internal/domain"

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type EditUserRequest struct {
	Email     string `json:"email" binding:"omitempty,email,max=254"`
	Username  string `json:"username" binding:"omitempty,max=150,username"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name" binding:"omitempty,max=150"`
	Role      string `json:"role" binding:"omitempty,oneof=user admin"`
}

type ListParams struct {
	Limit int `form:"limit,default=6"`
	Page  int `form:"page,default=1"`
}

type SubscriptionListParams struct {
	Limit        int `form:"limit,default=6"`
	Page         int `form:"page,default=1"`
	RecipesLimit int `form:"recipes_limit"`
}

type UserResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeBrief struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse is a followed author together with a preview of
// their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeBrief `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		IsSubscribed: u.IsSubscribed,
	}
}

func toRecipeBriefs(recipes []domain.Recipe) []RecipeBrief {
	briefs := make([]RecipeBrief, 0, len(recipes))
	for _, r := range recipes {
		briefs = append(briefs, RecipeBrief{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}
	return briefs
}
