package planning

import "fmt"

// RequiredQuantity returns how much of one recipe line a meal needs for the given
// headcount:
//
//	base_quantity * (children*child + teens*teen + adults*adult) / base_servings
//
// Unset multipliers fall back to 0.5, 0.75 and 1.0. Callers validate recipes and
// attendance before they reach this point, so a non-positive baseServings or a negative
// count or multiplier panics.
func RequiredQuantity(ri RecipeIngredient, baseServings, children, teens, adults int) float64 {
	if baseServings <= 0 {
		panic(fmt.Sprintf("planning: base servings must be positive, got %d", baseServings))
	}
	if children < 0 || teens < 0 || adults < 0 {
		panic(fmt.Sprintf("planning: negative attendance %d/%d/%d", children, teens, adults))
	}

	child, teen, adult := ri.EffectiveMultipliers()
	if child < 0 || teen < 0 || adult < 0 {
		panic(fmt.Sprintf("planning: negative multiplier for ingredient %d", ri.IngredientID))
	}

	weighted := float64(children)*child + float64(teens)*teen + float64(adults)*adult
	return ri.BaseQuantity * weighted / float64(baseServings)
}

// RequiredQuantityFor is RequiredQuantity with the headcount passed as an Attendance.
func RequiredQuantityFor(ri RecipeIngredient, baseServings int, a Attendance) float64 {
	return RequiredQuantity(ri, baseServings, a.Children, a.Teens, a.Adults)
}
