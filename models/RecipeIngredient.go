package models

import (
	"gorm.io/gorm"

	"campmeals/internal/planning"
)

type RecipeIngredient struct {
	gorm.Model
	RecipeID     uint    `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint    `gorm:"not null;index" json:"ingredient_id"`
	BaseQuantity float64 `gorm:"not null" json:"base_quantity"`
	Unit         string  `gorm:"not null" json:"unit"`

	// A nil multiplier means the band default applies at calculation time.
	ChildMultiplier *float64 `json:"child_multiplier"`
	TeenMultiplier  *float64 `json:"teen_multiplier"`
	AdultMultiplier *float64 `json:"adult_multiplier"`

	Notes      string      `gorm:"type:text" json:"notes"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// Line converts the row into the value the scaling engine works on. Ingredient and
// category names are only filled in when the associations were preloaded.
func (ri RecipeIngredient) Line() planning.RecipeIngredient {
	line := planning.RecipeIngredient{
		IngredientID:    ri.IngredientID,
		BaseQuantity:    ri.BaseQuantity,
		Unit:            ri.Unit,
		ChildMultiplier: ri.ChildMultiplier,
		TeenMultiplier:  ri.TeenMultiplier,
		AdultMultiplier: ri.AdultMultiplier,
	}
	if ri.Ingredient != nil {
		line.IngredientName = ri.Ingredient.Name
		if ri.Ingredient.Category != nil {
			line.CategoryName = ri.Ingredient.Category.Name
			line.CategorySortOrder = ri.Ingredient.Category.SortOrder
		}
	}
	return line
}

// Lines converts every row of a recipe.
func Lines(rows []RecipeIngredient) []planning.RecipeIngredient {
	lines := make([]planning.RecipeIngredient, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.Line())
	}
	return lines
}
