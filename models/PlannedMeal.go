package models

import (
	"gorm.io/gorm"

	"campmeals/internal/planning"
)

// PlannedMeal assigns a recipe to a meal slot of a camp day. Several recipes may share
// a slot.
type PlannedMeal struct {
	gorm.Model
	MealPlanID uint              `gorm:"not null;index" json:"meal_plan_id"`
	MealPlan   *MealPlan         `gorm:"foreignKey:MealPlanID" json:"meal_plan,omitempty"`
	RecipeID   uint              `gorm:"not null;index" json:"recipe_id"`
	Recipe     *Recipe           `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	MealType   planning.MealType `gorm:"type:varchar(32);not null" json:"meal_type"`
	Attendance *MealAttendance   `gorm:"foreignKey:PlannedMealID" json:"attendance,omitempty"`
}

// Meal builds the aggregator input for this row from the given recipe. MealPlan must be
// preloaded for the date to be set.
func (pm PlannedMeal) Meal(recipe Recipe) planning.PlannedMeal {
	meal := planning.PlannedMeal{
		ID:           pm.ID,
		MealType:     pm.MealType,
		RecipeName:   recipe.Name,
		BaseServings: recipe.BaseServings,
		Ingredients:  Lines(recipe.Ingredients),
		Attendance:   pm.Attendance.Headcount(),
	}
	if pm.MealPlan != nil {
		meal.Date = pm.MealPlan.Date
	}
	return meal
}
