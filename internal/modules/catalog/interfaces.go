package catalog

import (
	"context"

	"foodgram/internal/domain"
)

type TagRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Tag) error
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
}

type IngredientRepositoryInterface interface {
	Create(ctx context.Context, i *domain.Ingredient) error
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	List(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
}
