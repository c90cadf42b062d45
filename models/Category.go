package models

import "gorm.io/gorm"

// FallbackCategory receives imported ingredients whose category cannot be mapped.
const FallbackCategory = "Other"

// Category groups ingredients on the shopping list. Lower SortOrder values print first.
type Category struct {
	gorm.Model
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// DefaultCategories is seeded on migration. Other always sorts last.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Vegetables", SortOrder: 1},
		{Name: "Fruit", SortOrder: 2},
		{Name: "Dairy", SortOrder: 3},
		{Name: "Meat & Fish", SortOrder: 4},
		{Name: "Baking Goods", SortOrder: 5},
		{Name: "Dry Goods", SortOrder: 6},
		{Name: "Spices", SortOrder: 7},
		{Name: "Beverages", SortOrder: 8},
		{Name: FallbackCategory, SortOrder: 99},
	}
}
