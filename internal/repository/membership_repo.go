package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// FavoriteRepository and ShoppingCartRepository manage the two user↔recipe
// membership relations. Adds rely on the unique (user, recipe) index, so a
// concurrent double-submission surfaces as ErrDuplicate instead of a second
// row.

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID int64) error {
	fav := &domain.Favorite{UserID: userID, RecipeID: recipeID}
	return translate(r.db.WithContext(ctx).Create(fav).Error)
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

type ShoppingCartRepository struct {
	db *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) *ShoppingCartRepository {
	return &ShoppingCartRepository{db: db}
}

func (r *ShoppingCartRepository) Add(ctx context.Context, userID, recipeID int64) error {
	entry := &domain.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *ShoppingCartRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.ShoppingCartEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ShoppingCartRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}
