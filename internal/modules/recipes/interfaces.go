package recipes

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

// RecipeRepository defines the persistence operations the service needs.
// Create and Update must be atomic over the recipe row, its tag set and its
// ingredient set.
type RecipeRepository interface {
	Create(ctx context.Context, rec *domain.Recipe) error
	Update(ctx context.Context, rec *domain.Recipe) error
	GetByID(ctx context.Context, id, viewerID int64) (*domain.Recipe, error)
	List(ctx context.Context, f repository.RecipeFilter, viewerID int64) ([]domain.Recipe, int64, error)
	Delete(ctx context.Context, id int64) error
	ShoppingListTotals(ctx context.Context, userID int64) ([]domain.IngredientTotal, error)
}

type TagRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)
}

type IngredientRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error)
}

// MembershipRepository covers both the favorite and the shopping-cart
// relations; they share one shape.
type MembershipRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SubscriptionChecker interface {
	FilterFollowed(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
}

type ImageStore interface {
	SaveDataURI(data string) (string, error)
}
