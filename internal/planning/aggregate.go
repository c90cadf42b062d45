package planning

import (
	"sort"
	"strings"
)

type shoppingKey struct {
	ingredientID uint
	unit         string
}

// ShoppingList sums the required quantity of every recipe line across meals, grouped by
// ingredient and unit. Units are never converted, so an ingredient used in two units shows
// up twice. Meals without explicit attendance use defaults.
//
// Items are ordered by category sort order, then ingredient name (case-sensitive). Equal
// sort orders fall back to the category name so each category stays contiguous.
func ShoppingList(defaults Attendance, meals []PlannedMeal) []ShoppingListItem {
	totals := make(map[shoppingKey]*ShoppingListItem)

	for _, meal := range meals {
		attendance := ResolveAttendance(meal.Attendance, defaults)
		for _, ri := range meal.Ingredients {
			quantity := RequiredQuantityFor(ri, meal.BaseServings, attendance)

			key := shoppingKey{ingredientID: ri.IngredientID, unit: ri.Unit}
			item, ok := totals[key]
			if !ok {
				item = &ShoppingListItem{
					IngredientID:      ri.IngredientID,
					IngredientName:    ri.IngredientName,
					CategoryName:      ri.CategoryName,
					CategorySortOrder: ri.CategorySortOrder,
					Unit:              ri.Unit,
				}
				totals[key] = item
			}
			item.TotalQuantity += quantity
		}
	}

	items := make([]ShoppingListItem, 0, len(totals))
	for _, item := range totals {
		items = append(items, *item)
	}
	sortShoppingList(items)
	return items
}

func sortShoppingList(items []ShoppingListItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.CategorySortOrder != b.CategorySortOrder {
			return a.CategorySortOrder < b.CategorySortOrder
		}
		if a.CategoryName != b.CategoryName {
			return a.CategoryName < b.CategoryName
		}
		if a.IngredientName != b.IngredientName {
			return a.IngredientName < b.IngredientName
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return a.IngredientID < b.IngredientID
	})
}

// MealSchedule lists every planned meal with its resolved headcount, ordered by date and
// then by meal slot.
func MealSchedule(defaults Attendance, meals []PlannedMeal) []MealScheduleItem {
	ordered := sortedMeals(meals)
	items := make([]MealScheduleItem, 0, len(ordered))
	for _, meal := range ordered {
		a := ResolveAttendance(meal.Attendance, defaults)
		items = append(items, MealScheduleItem{
			Date:       meal.Date,
			MealType:   meal.MealType,
			RecipeName: meal.RecipeName,
			Children:   a.Children,
			Teens:      a.Teens,
			Adults:     a.Adults,
		})
	}
	return items
}

// AttendanceSummary is MealSchedule without recipe names and with a total per meal.
func AttendanceSummary(defaults Attendance, meals []PlannedMeal) []AttendanceSummaryItem {
	ordered := sortedMeals(meals)
	items := make([]AttendanceSummaryItem, 0, len(ordered))
	for _, meal := range ordered {
		a := ResolveAttendance(meal.Attendance, defaults)
		items = append(items, AttendanceSummaryItem{
			Date:        meal.Date,
			MealType:    meal.MealType,
			Children:    a.Children,
			Teens:       a.Teens,
			Adults:      a.Adults,
			TotalPeople: a.Total(),
		})
	}
	return items
}

// sortedMeals returns a copy ordered by (date, slot). Recipe name and id break the
// remaining ties so the result does not depend on input order.
func sortedMeals(meals []PlannedMeal) []PlannedMeal {
	ordered := make([]PlannedMeal, len(meals))
	copy(ordered, meals)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.MealType != b.MealType {
			return a.MealType.Ordinal() < b.MealType.Ordinal()
		}
		if c := strings.Compare(a.RecipeName, b.RecipeName); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return ordered
}
