package reports

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"campmeals/internal/planning"
	"campmeals/models"
)

var errMissing = errors.New("missing")

type fakeSource struct {
	camps       map[uint]models.Camp
	recipes     map[uint]models.Recipe
	meals       []models.PlannedMeal
	recipeCalls int
	lastFrom    *time.Time
	lastTo      *time.Time
}

func (f *fakeSource) GetCamp(_ context.Context, id uint) (models.Camp, error) {
	camp, ok := f.camps[id]
	if !ok {
		return models.Camp{}, errMissing
	}
	return camp, nil
}

func (f *fakeSource) GetRecipeWithIngredients(_ context.Context, id uint) (models.Recipe, error) {
	f.recipeCalls++
	recipe, ok := f.recipes[id]
	if !ok {
		return models.Recipe{}, errMissing
	}
	return recipe, nil
}

func (f *fakeSource) ListPlannedMeals(_ context.Context, campID uint, from, to *time.Time) ([]models.PlannedMeal, error) {
	f.lastFrom, f.lastTo = from, to
	var out []models.PlannedMeal
	for _, meal := range f.meals {
		if meal.MealPlan.CampID != campID {
			continue
		}
		if from != nil && meal.MealPlan.Date.Before(*from) {
			continue
		}
		if to != nil && meal.MealPlan.Date.After(*to) {
			continue
		}
		out = append(out, meal)
	}
	return out, nil
}

func day(d int) time.Time {
	return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC)
}

func plannedMeal(id uint, date time.Time, recipeID uint, mealType planning.MealType, attendance *models.MealAttendance) models.PlannedMeal {
	meal := models.PlannedMeal{MealPlan: &models.MealPlan{CampID: 1, Date: date}, RecipeID: recipeID, MealType: mealType, Attendance: attendance}
	meal.ID = id
	return meal
}

func newFakeSource() *fakeSource {
	dairy := &models.Category{Name: "Dairy", SortOrder: 3}
	grains := &models.Category{Name: "Dry Goods", SortOrder: 6}
	milk := &models.Ingredient{Name: "Milk", Category: dairy}
	milk.ID = 1
	oats := &models.Ingredient{Name: "Oats", Category: grains}
	oats.ID = 2

	porridge := models.Recipe{Name: "Porridge", BaseServings: 2, Ingredients: []models.RecipeIngredient{
		{IngredientID: 1, BaseQuantity: 0.4, Unit: "l", Ingredient: milk},
		{IngredientID: 2, BaseQuantity: 120, Unit: "g", Ingredient: oats},
	}}
	porridge.ID = 10
	cocoa := models.Recipe{Name: "Cocoa", BaseServings: 1, Ingredients: []models.RecipeIngredient{
		{IngredientID: 1, BaseQuantity: 0.25, Unit: "l", Ingredient: milk, ChildMultiplier: planning.Float(1), TeenMultiplier: planning.Float(1), AdultMultiplier: planning.Float(1)},
	}}
	cocoa.ID = 11

	camp := models.Camp{Name: "Hills", StartDate: day(1), EndDate: day(5), DefaultChildren: 10, DefaultTeens: 4, DefaultAdults: 2}
	camp.ID = 1

	return &fakeSource{
		camps:   map[uint]models.Camp{1: camp},
		recipes: map[uint]models.Recipe{10: porridge, 11: cocoa},
		meals: []models.PlannedMeal{
			plannedMeal(1, day(1), 10, planning.Breakfast, nil),
			plannedMeal(2, day(1), 11, planning.AfternoonSnack, &models.MealAttendance{Children: 6}),
			plannedMeal(3, day(2), 10, planning.Breakfast, &models.MealAttendance{}),
			plannedMeal(4, day(4), 10, planning.Breakfast, nil),
		},
	}
}

func TestComputeShoppingList(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	service := NewService(source)

	list, err := service.ComputeShoppingList(context.Background(), 1, day(1), day(2))
	if err != nil {
		t.Fatalf("ComputeShoppingList: %v", err)
	}
	if list.CampName != "Hills" || len(list.Items) != 2 {
		t.Fatalf("unexpected list %+v", list)
	}

	// Day 1 porridge with defaults: weighted = 10*0.5 + 4*0.75 + 2*1 = 10, per serving /2.
	// Day 1 cocoa: 6 children at multiplier 1. Day 2 porridge has zero attendance.
	wantMilk := 0.4*10/2 + 0.25*6
	wantOats := 120.0 * 10 / 2
	if list.Items[0].IngredientName != "Milk" || math.Abs(list.Items[0].TotalQuantity-wantMilk) > 1e-9 {
		t.Fatalf("milk = %+v, want %v", list.Items[0], wantMilk)
	}
	if list.Items[1].IngredientName != "Oats" || math.Abs(list.Items[1].TotalQuantity-wantOats) > 1e-9 {
		t.Fatalf("oats = %+v, want %v", list.Items[1], wantOats)
	}
	if source.recipeCalls != 2 {
		t.Fatalf("expected each recipe to be loaded once, got %d loads", source.recipeCalls)
	}
}

func TestComputeShoppingListRejectsReversedRange(t *testing.T) {
	t.Parallel()

	service := NewService(newFakeSource())
	_, err := service.ComputeShoppingList(context.Background(), 1, day(3), day(2))
	var verr *planning.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestComputeDailyShoppingList(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	list, err := NewService(source).ComputeDailyShoppingList(context.Background(), 1, day(4))
	if err != nil {
		t.Fatalf("ComputeDailyShoppingList: %v", err)
	}
	if source.lastFrom == nil || source.lastTo == nil || !source.lastFrom.Equal(day(4)) || !source.lastTo.Equal(day(4)) {
		t.Fatalf("expected single day range, got %v..%v", source.lastFrom, source.lastTo)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected porridge ingredients only, got %+v", list.Items)
	}
}

func TestMissingReferencesAbortReports(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	delete(source.recipes, 11)
	service := NewService(source)

	if _, err := service.ComputeShoppingList(context.Background(), 1, day(1), day(5)); !errors.Is(err, errMissing) {
		t.Fatalf("expected missing recipe to abort, got %v", err)
	}
	if _, err := service.ComputeMealSchedule(context.Background(), 1); !errors.Is(err, errMissing) {
		t.Fatalf("expected missing recipe to abort schedule, got %v", err)
	}
	if _, err := service.ComputeAttendanceSummary(context.Background(), 42); !errors.Is(err, errMissing) {
		t.Fatalf("expected missing camp to abort, got %v", err)
	}
}

func TestComputeMealScheduleAndSummary(t *testing.T) {
	t.Parallel()

	service := NewService(newFakeSource())

	schedule, err := service.ComputeMealSchedule(context.Background(), 1)
	if err != nil {
		t.Fatalf("ComputeMealSchedule: %v", err)
	}
	if len(schedule) != 4 {
		t.Fatalf("expected 4 meals, got %d", len(schedule))
	}
	if schedule[0].RecipeName != "Porridge" || schedule[0].Children != 10 {
		t.Fatalf("first row should use camp defaults, got %+v", schedule[0])
	}
	if schedule[1].MealType != planning.AfternoonSnack || schedule[1].Children != 6 || schedule[1].Adults != 0 {
		t.Fatalf("second row should use explicit attendance, got %+v", schedule[1])
	}

	summary, err := service.ComputeAttendanceSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("ComputeAttendanceSummary: %v", err)
	}
	if summary[0].TotalPeople != 16 || summary[2].TotalPeople != 0 {
		t.Fatalf("unexpected totals %+v", summary)
	}
}
