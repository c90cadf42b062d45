// Package models holds the gorm rows persisted by the store.
package models

// All lists every model in migration order.
func All() []any {
	return []any{
		&Category{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Camp{},
		&MealPlan{},
		&PlannedMeal{},
		&MealAttendance{},
	}
}
