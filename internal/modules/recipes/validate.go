package recipes

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
)

// validatePayload checks the scalar fields and resolves the requested tag and
// ingredient references. Every problem is reported, keyed by field, so the
// caller can fix the whole payload at once. On success it returns the
// resolved tag rows and the ingredient amount rows ready for persistence.
func (s *Service) validatePayload(ctx context.Context, req RecipePayload, imageRequired bool) ([]domain.Tag, []domain.RecipeIngredient, error) {
	var errs ValidationErrors

	if req.CookingTime < 1 {
		errs.add("cooking_time", "cooking time must be at least 1")
	}
	if imageRequired && req.Image == "" {
		errs.add("image", "image is required")
	}

	tags := s.validateTags(ctx, req.Tags, &errs)
	items := s.validateIngredients(ctx, req.Ingredients, &errs)

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return tags, items, nil
}

func (s *Service) validateTags(ctx context.Context, tagIDs []int64, errs *ValidationErrors) []domain.Tag {
	if len(tagIDs) == 0 {
		errs.add("tags", "at least one tag is required")
		return nil
	}

	seen := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			errs.add("tags", fmt.Sprintf("tag with id %d is duplicated", id))
		}
		seen[id] = true
	}

	existing, err := s.tags.GetByIDs(ctx, tagIDs)
	if err != nil {
		errs.add("tags", "could not resolve tags")
		return nil
	}
	byID := make(map[int64]domain.Tag, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}

	resolved := make([]domain.Tag, 0, len(tagIDs))
	for id := range seen {
		tag, ok := byID[id]
		if !ok {
			errs.add("tags", fmt.Sprintf("tag with id %d does not exist", id))
			continue
		}
		resolved = append(resolved, tag)
	}
	return resolved
}

func (s *Service) validateIngredients(ctx context.Context, ingredients []IngredientAmount, errs *ValidationErrors) []domain.RecipeIngredient {
	if len(ingredients) == 0 {
		errs.add("ingredients", "at least one ingredient is required")
		return nil
	}

	ids := make([]int64, 0, len(ingredients))
	seen := make(map[int64]bool, len(ingredients))
	for _, item := range ingredients {
		if seen[item.ID] {
			errs.add("ingredients", fmt.Sprintf("ingredient with id %d is duplicated", item.ID))
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)

		if item.Amount < 1 {
			errs.add("ingredients", fmt.Sprintf("amount of ingredient %d must be at least 1", item.ID))
		}
	}

	existing, err := s.ingredients.GetByIDs(ctx, ids)
	if err != nil {
		errs.add("ingredients", "could not resolve ingredients")
		return nil
	}
	byID := make(map[int64]domain.Ingredient, len(existing))
	for _, i := range existing {
		byID[i.ID] = i
	}

	rows := make([]domain.RecipeIngredient, 0, len(ingredients))
	inserted := make(map[int64]bool, len(ingredients))
	for _, item := range ingredients {
		if _, ok := byID[item.ID]; !ok {
			if !inserted[item.ID] {
				errs.add("ingredients", fmt.Sprintf("ingredient with id %d does not exist", item.ID))
				inserted[item.ID] = true
			}
			continue
		}
		if inserted[item.ID] {
			continue
		}
		inserted[item.ID] = true
		rows = append(rows, domain.RecipeIngredient{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return rows
}
