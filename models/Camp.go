package models

import (
	"time"

	"gorm.io/gorm"

	"campmeals/internal/planning"
)

type Camp struct {
	gorm.Model
	Name            string    `gorm:"not null" json:"name"`
	StartDate       time.Time `gorm:"not null" json:"start_date"`
	EndDate         time.Time `gorm:"not null" json:"end_date"`
	DefaultChildren int       `gorm:"not null;default:0" json:"default_children"`
	DefaultTeens    int       `gorm:"not null;default:0" json:"default_teens"`
	DefaultAdults   int       `gorm:"not null;default:0" json:"default_adults"`
	Notes           string    `gorm:"type:text" json:"notes"`
}

// DefaultAttendance is the headcount used for meals without their own attendance row.
func (c Camp) DefaultAttendance() planning.Attendance {
	return planning.Attendance{
		Children: c.DefaultChildren,
		Teens:    c.DefaultTeens,
		Adults:   c.DefaultAdults,
	}
}

// Input returns the validated fields of the camp.
func (c Camp) Input() planning.CampInput {
	return planning.CampInput{
		Name:      c.Name,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Defaults:  c.DefaultAttendance(),
	}
}
