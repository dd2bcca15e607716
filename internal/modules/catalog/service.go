package catalog

import (
	"context"
	"errors"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

// Service exposes the reference catalog: tags and ingredients. Reads are
// open to everyone, writes are reserved for administrators by the route
// policy.
type Service struct {
	tags        TagRepositoryInterface
	ingredients IngredientRepositoryInterface
}

func NewService(tags TagRepositoryInterface, ingredients IngredientRepositoryInterface) *Service {
	return &Service{
		tags:        tags,
		ingredients: ingredients,
	}
}

func (s *Service) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	tag := &domain.Tag{
		Name:  req.Name,
		Color: strings.ToUpper(req.Color),
		Slug:  req.Slug,
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return tag, nil
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.List(ctx)
}

func (s *Service) CreateIngredient(ctx context.Context, req CreateIngredientRequest) (*domain.Ingredient, error) {
	ingredient := &domain.Ingredient{
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	}
	if err := s.ingredients.Create(ctx, ingredient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrIngredientExists
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}

// ListIngredients narrows to a case-insensitive name prefix when one is
// given, matching the search box on the recipe form.
func (s *Service) ListIngredients(ctx context.Context, params IngredientListParams) ([]domain.Ingredient, error) {
	return s.ingredients.List(ctx, params.Name)
}
