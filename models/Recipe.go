package models

import "gorm.io/gorm"

// Recipe describes a dish for BaseServings reference people. Its lines are replaced
// wholesale on update.
type Recipe struct {
	gorm.Model
	Name         string             `gorm:"uniqueIndex;not null" json:"name"`
	Instructions string             `gorm:"type:text" json:"instructions"`
	BaseServings int                `gorm:"not null;default:1" json:"base_servings"`
	Ingredients  []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}
