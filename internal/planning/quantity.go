// Package planning holds the camp meal computations: scaling recipe quantities to a
// headcount, aggregating planned meals into shopping lists and schedules, and
// normalizing legacy per-group recipe data into multipliers.
//
// Everything here is pure and synchronous. Loading data and persisting results is the
// job of the store package.
package planning

import "time"

// Default multipliers applied when a recipe ingredient leaves one unset.
const (
	DefaultChildMultiplier = 0.5
	DefaultTeenMultiplier  = 0.75
	DefaultAdultMultiplier = 1.0
)

// Attendance is a headcount split by age band.
type Attendance struct {
	Children int `json:"children"`
	Teens    int `json:"teens"`
	Adults   int `json:"adults"`
}

// Total returns the number of people regardless of band.
func (a Attendance) Total() int {
	return a.Children + a.Teens + a.Adults
}

// ResolveAttendance returns the explicit headcount when one was recorded for the meal,
// otherwise the camp defaults. The two are never blended.
func ResolveAttendance(explicit *Attendance, defaults Attendance) Attendance {
	if explicit != nil {
		return *explicit
	}
	return defaults
}

// RecipeIngredient is one scaled line of a recipe together with the ingredient and
// category metadata the shopping list needs for grouping.
type RecipeIngredient struct {
	IngredientID      uint
	IngredientName    string
	CategoryName      string
	CategorySortOrder int
	BaseQuantity      float64
	Unit              string
	ChildMultiplier   *float64
	TeenMultiplier    *float64
	AdultMultiplier   *float64
}

// EffectiveMultipliers returns the child, teen and adult multipliers with defaults applied.
func (ri RecipeIngredient) EffectiveMultipliers() (child, teen, adult float64) {
	return valueOr(ri.ChildMultiplier, DefaultChildMultiplier),
		valueOr(ri.TeenMultiplier, DefaultTeenMultiplier),
		valueOr(ri.AdultMultiplier, DefaultAdultMultiplier)
}

// PlannedMeal is a recipe placed in a meal slot on a date, with the recipe lines already
// loaded. Attendance is nil when no explicit headcount was recorded.
type PlannedMeal struct {
	ID           uint
	Date         time.Time
	MealType     MealType
	RecipeName   string
	BaseServings int
	Ingredients  []RecipeIngredient
	Attendance   *Attendance
}

// ShoppingListItem is the total amount of one ingredient needed in one unit.
type ShoppingListItem struct {
	IngredientID      uint    `json:"ingredient_id"`
	IngredientName    string  `json:"ingredient_name"`
	CategoryName      string  `json:"category_name"`
	CategorySortOrder int     `json:"category_sort_order"`
	Unit              string  `json:"unit"`
	TotalQuantity     float64 `json:"total_quantity"`
}

// MealScheduleItem is one planned meal with its resolved headcount.
type MealScheduleItem struct {
	Date       time.Time `json:"date"`
	MealType   MealType  `json:"meal_type"`
	RecipeName string    `json:"recipe_name"`
	Children   int       `json:"children"`
	Teens      int       `json:"teens"`
	Adults     int       `json:"adults"`
}

// AttendanceSummaryItem is a schedule row with the total number of people.
type AttendanceSummaryItem struct {
	Date        time.Time `json:"date"`
	MealType    MealType  `json:"meal_type"`
	Children    int       `json:"children"`
	Teens       int       `json:"teens"`
	Adults      int       `json:"adults"`
	TotalPeople int       `json:"total_people"`
}

// Float returns a pointer to v, for setting optional multipliers.
func Float(v float64) *float64 {
	return &v
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
