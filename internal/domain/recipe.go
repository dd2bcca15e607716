package domain

import "time"

// Tag is immutable reference data created by administrators.
type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"uniqueIndex;size:256;not null"`
	Color string `json:"color" gorm:"uniqueIndex;size:16;not null"`
	Slug  string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
}

func (Tag) TableName() string { return "tags" }

// Ingredient is reference data; (name, measurement_unit) is unique so the
// same ingredient can exist in grams and in pieces.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:256;not null;uniqueIndex:idx_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:30;not null;uniqueIndex:idx_name_unit"`
}

func (Ingredient) TableName() string { return "ingredients" }

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"-" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Image       string    `json:"image" gorm:"not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	PubDate     time.Time `json:"-" gorm:"autoCreateTime;index"`

	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `json:"tags" gorm:"many2many:recipe_tags"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`

	// Per-viewer flags, filled by the repository for the requesting user.
	IsFavorited      bool `json:"is_favorited" gorm:"-"`
	IsInShoppingCart bool `json:"is_in_shopping_cart" gorm:"-"`
}

func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient carries the amount of one ingredient in one recipe.
// The (recipe, ingredient) pair is unique.
type RecipeIngredient struct {
	ID           int64 `json:"-" gorm:"primaryKey"`
	RecipeID     int64 `json:"-" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `json:"id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int   `json:"amount" gorm:"not null"`

	Ingredient *Ingredient `json:"-" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// Favorite marks a recipe as liked by a user.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_fav_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_fav_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Favorite) TableName() string { return "favorites" }

// ShoppingCartEntry marks a recipe as queued for the user's shopping list.
// Same shape as Favorite, kept separate so the two memberships stay independent.
type ShoppingCartEntry struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ShoppingCartEntry) TableName() string { return "shopping_cart_entries" }

// IngredientTotal is one aggregated shopping-list row: the summed amount of
// an ingredient across every recipe in a user's cart, grouped by unit.
type IngredientTotal struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RevokedToken stores the JTI of a logged-out access token until it would
// have expired anyway.
type RevokedToken struct {
	ID        int64     `gorm:"primaryKey"`
	JTI       string    `gorm:"column:jti;uniqueIndex;size:36;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
