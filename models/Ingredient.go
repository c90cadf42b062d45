package models

import "gorm.io/gorm"

type Ingredient struct {
	gorm.Model
	Name          string    `gorm:"uniqueIndex;not null" json:"name"`
	CategoryID    uint      `gorm:"not null;index" json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PrimaryUnit   string    `gorm:"not null" json:"primary_unit"`
	SecondaryUnit *string   `json:"secondary_unit,omitempty"`
}
