package planning

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ValidationError reports user input that violates a data model invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewAttendance builds a headcount, rejecting negative numbers. Every path that stores
// attendance, camp defaults included, goes through here.
func NewAttendance(children, teens, adults int) (Attendance, error) {
	if children < 0 {
		return Attendance{}, invalid("children", "number of children cannot be negative")
	}
	if teens < 0 {
		return Attendance{}, invalid("teens", "number of teens cannot be negative")
	}
	if adults < 0 {
		return Attendance{}, invalid("adults", "number of adults cannot be negative")
	}
	return Attendance{Children: children, Teens: teens, Adults: adults}, nil
}

// CampInput is the user-editable part of a camp.
type CampInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Defaults  Attendance
}

// ValidateCamp checks a camp before it is created or after an update has been merged.
func ValidateCamp(in CampInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "camp name is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return invalid("start_date", "start and end dates are required")
	}
	if !in.EndDate.After(in.StartDate) {
		return invalid("end_date", "end date must be after start date")
	}
	_, err := NewAttendance(in.Defaults.Children, in.Defaults.Teens, in.Defaults.Adults)
	return err
}

// ValidateRecipe checks the base servings and every line of a recipe.
func ValidateRecipe(name string, baseServings int, lines []RecipeIngredient) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "recipe name is required")
	}
	if baseServings <= 0 {
		return invalid("base_servings", "base servings must be greater than 0")
	}
	for _, line := range lines {
		if err := ValidateRecipeIngredient(line); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRecipeIngredient requires a positive quantity, a referenced ingredient and
// non-negative multipliers.
func ValidateRecipeIngredient(ri RecipeIngredient) error {
	if ri.IngredientID == 0 {
		return invalid("ingredient_id", "ingredient is required")
	}
	if ri.BaseQuantity <= 0 || math.IsNaN(ri.BaseQuantity) || math.IsInf(ri.BaseQuantity, 0) {
		return invalid("base_quantity", "all ingredient quantities must be greater than 0")
	}
	multipliers := []struct {
		field string
		value *float64
	}{
		{"child_multiplier", ri.ChildMultiplier},
		{"teen_multiplier", ri.TeenMultiplier},
		{"adult_multiplier", ri.AdultMultiplier},
	}
	for _, m := range multipliers {
		if m.value == nil {
			continue
		}
		if *m.value < 0 {
			return invalid(m.field, "multipliers cannot be negative")
		}
		if math.IsNaN(*m.value) || math.IsInf(*m.value, 0) {
			return invalid(m.field, "multipliers must be finite")
		}
	}
	return nil
}

// ValidateDateRange requires end to be on or after start. A single day is a valid range.
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return invalid("start_date", "start and end dates are required")
	}
	if end.Before(start) {
		return invalid("end_date", "end date must not be before start date")
	}
	return nil
}
