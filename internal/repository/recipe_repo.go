package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// RecipeFilter narrows recipe listings. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create persists the recipe row, its tag associations and its ingredient
// amounts in one transaction. rec.Tags must be resolved tag rows and
// rec.Ingredients the amount rows; on success rec carries the generated IDs.
func (r *RecipeRepository) Create(ctx context.Context, rec *domain.Recipe) error {
	tags := rec.Tags
	items := rec.Ingredients
	rec.Tags = nil
	rec.Ingredients = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		if err := tx.Model(rec).Association("Tags").Append(&tags); err != nil {
			return err
		}
		for i := range items {
			items[i].RecipeID = rec.ID
		}
		return tx.Create(&items).Error
	})

	rec.Tags = tags
	rec.Ingredients = items
	return translate(err)
}

// Update replaces the scalar fields, the tag set and the ingredient set
// atomically. A reader never observes the recipe with a partial tag or
// ingredient set; any constraint violation rolls the whole write back.
func (r *RecipeRepository) Update(ctx context.Context, rec *domain.Recipe) error {
	tags := rec.Tags
	items := rec.Ingredients

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Recipe{ID: rec.ID}).Updates(map[string]any{
			"name":         rec.Name,
			"image":        rec.Image,
			"text":         rec.Text,
			"cooking_time": rec.CookingTime,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&domain.Recipe{ID: rec.ID}).Association("Tags").Replace(&tags); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].RecipeID = rec.ID
		}
		return tx.Create(&items).Error
	})

	rec.Tags = tags
	rec.Ingredients = items
	return translate(err)
}

func (r *RecipeRepository) GetByID(ctx context.Context, id, viewerID int64) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&rec, id).Error
	if err != nil {
		return nil, translate(err)
	}

	recipes := []domain.Recipe{rec}
	if err := r.annotateMembership(ctx, recipes, viewerID); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter, viewerID int64) ([]domain.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Recipe{})

	if f.AuthorID != 0 {
		query = query.Where("author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Table("favorites").Select("recipe_id").Where("user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf != 0 {
		query = query.Where("recipes.id IN (?)",
			r.db.Table("shopping_cart_entries").Select("recipe_id").Where("user_id = ?", f.InCartOf))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("pub_date DESC, id DESC").
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	if err := r.annotateMembership(ctx, recipes, viewerID); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns an author's recipes newest first, optionally capped.
// Used by the subscriptions listing.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// Delete removes the recipe together with its associations and any
// favorite/cart memberships pointing at it.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Recipe{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&domain.ShoppingCartEntry{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ShoppingListTotals sums ingredient amounts over every recipe in the user's
// cart, grouped by (name, unit) and ordered by name for a stable document.
func (r *RecipeRepository) ShoppingListTotals(ctx context.Context, userID int64) ([]domain.IngredientTotal, error) {
	var totals []domain.IngredientTotal
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// annotateMembership fills the per-viewer favorite/cart flags for a page of
// recipes with two membership queries instead of one pair per recipe.
func (r *RecipeRepository) annotateMembership(ctx context.Context, recipes []domain.Recipe, viewerID int64) error {
	if viewerID == 0 || len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}

	var favIDs, cartIDs []int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, ids).
		Pluck("recipe_id", &favIDs).Error
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Model(&domain.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, ids).
		Pluck("recipe_id", &cartIDs).Error
	if err != nil {
		return err
	}

	inFav := make(map[int64]bool, len(favIDs))
	for _, id := range favIDs {
		inFav[id] = true
	}
	inCart := make(map[int64]bool, len(cartIDs))
	for _, id := range cartIDs {
		inCart[id] = true
	}

	for i := range recipes {
		recipes[i].IsFavorited = inFav[recipes[i].ID]
		recipes[i].IsInShoppingCart = inCart[recipes[i].ID]
	}
	return nil
}
