package catalog

import "errors"

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagExists          = errors.New("tag with this name, color or slug already exists")
	ErrIngredientExists   = errors.New("ingredient with this name and unit already exists")
)
