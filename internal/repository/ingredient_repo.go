package repository

import (
	"context"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

func (r *IngredientRepository) Create(ctx context.Context, i *domain.Ingredient) error {
	return translate(r.db.WithContext(ctx).Create(i).Error)
}

// CreateBatch inserts reference data in one statement; used by the CSV loader.
func (r *IngredientRepository) CreateBatch(ctx context.Context, ingredients []domain.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).CreateInBatches(ingredients, 500).Error)
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, translate(err)
	}
	return &i, nil
}

func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// List returns ingredients, optionally narrowed to a case-insensitive
// name prefix.
func (r *IngredientRepository) List(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}

	var ingredients []domain.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
