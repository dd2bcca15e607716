package catalog

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=256"`
	Color string `json:"color" binding:"required,hexcolor"`
	Slug  string `json:"slug" binding:"required,max=50"`
}

type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required,max=256"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=30"`
}

type IngredientListParams struct {
	Name string `form:"name"`
}
