package models

import (
	"gorm.io/gorm"

	"campmeals/internal/planning"
)

// MealAttendance overrides the camp default headcount for one planned meal.
type MealAttendance struct {
	gorm.Model
	PlannedMealID uint `gorm:"not null;uniqueIndex" json:"planned_meal_id"`
	Children      int  `gorm:"not null;default:0" json:"children"`
	Teens         int  `gorm:"not null;default:0" json:"teens"`
	Adults        int  `gorm:"not null;default:0" json:"adults"`
}

// Headcount returns nil when no attendance was recorded.
func (a *MealAttendance) Headcount() *planning.Attendance {
	if a == nil {
		return nil
	}
	return &planning.Attendance{Children: a.Children, Teens: a.Teens, Adults: a.Adults}
}
