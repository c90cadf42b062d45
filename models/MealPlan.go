package models

import (
	"time"

	"gorm.io/gorm"
)

// MealPlan is one day of a camp. It exists only once a meal is planned on that day.
type MealPlan struct {
	gorm.Model
	CampID       uint          `gorm:"not null;uniqueIndex:idx_meal_plans_camp_date" json:"camp_id"`
	Date         time.Time     `gorm:"not null;uniqueIndex:idx_meal_plans_camp_date" json:"date"`
	PlannedMeals []PlannedMeal `gorm:"foreignKey:MealPlanID" json:"planned_meals,omitempty"`
}
