// Package reports turns stored camp plans into shopping lists, meal schedules and
// attendance summaries.
package reports

import (
	"context"
	"fmt"
	"time"

	applog "campmeals/internal/log"
	"campmeals/internal/planning"
	"campmeals/models"
)

// Source is the storage the reports read from. *store.Store implements it.
type Source interface {
	GetCamp(ctx context.Context, id uint) (models.Camp, error)
	GetRecipeWithIngredients(ctx context.Context, id uint) (models.Recipe, error)
	ListPlannedMeals(ctx context.Context, campID uint, from, to *time.Time) ([]models.PlannedMeal, error)
}

// Service computes reports for one camp at a time.
type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// ShoppingList is the report returned for a camp and date range.
type ShoppingList struct {
	CampID    uint                        `json:"camp_id"`
	CampName  string                      `json:"camp_name"`
	StartDate time.Time                   `json:"start_date"`
	EndDate   time.Time                   `json:"end_date"`
	Items     []planning.ShoppingListItem `json:"items"`
}

// ComputeShoppingList aggregates every meal planned for the camp between start and end,
// both inclusive. A missing camp, recipe or ingredient aborts the report.
func (s *Service) ComputeShoppingList(ctx context.Context, campID uint, start, end time.Time) (ShoppingList, error) {
	if err := planning.ValidateDateRange(start, end); err != nil {
		return ShoppingList{}, err
	}
	camp, err := s.source.GetCamp(ctx, campID)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("shopping list: %w", err)
	}
	meals, err := s.meals(ctx, campID, &start, &end)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("shopping list: %w", err)
	}

	items := planning.ShoppingList(camp.DefaultAttendance(), meals)
	applog.Debug(ctx, "shopping list computed", "camp_id", campID, "meals", len(meals), "items", len(items))
	return ShoppingList{
		CampID:    camp.ID,
		CampName:  camp.Name,
		StartDate: start,
		EndDate:   end,
		Items:     items,
	}, nil
}

// ComputeDailyShoppingList is the shopping list of a single day.
func (s *Service) ComputeDailyShoppingList(ctx context.Context, campID uint, date time.Time) (ShoppingList, error) {
	return s.ComputeShoppingList(ctx, campID, date, date)
}

// ComputeMealSchedule lists every planned meal of the camp with its resolved headcount.
func (s *Service) ComputeMealSchedule(ctx context.Context, campID uint) ([]planning.MealScheduleItem, error) {
	camp, err := s.source.GetCamp(ctx, campID)
	if err != nil {
		return nil, fmt.Errorf("meal schedule: %w", err)
	}
	meals, err := s.meals(ctx, campID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("meal schedule: %w", err)
	}
	return planning.MealSchedule(camp.DefaultAttendance(), meals), nil
}

// ComputeAttendanceSummary lists the headcount of every planned meal of the camp.
func (s *Service) ComputeAttendanceSummary(ctx context.Context, campID uint) ([]planning.AttendanceSummaryItem, error) {
	camp, err := s.source.GetCamp(ctx, campID)
	if err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	meals, err := s.meals(ctx, campID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	return planning.AttendanceSummary(camp.DefaultAttendance(), meals), nil
}

// meals loads the planned meals and resolves each recipe once, however often it is
// planned.
func (s *Service) meals(ctx context.Context, campID uint, from, to *time.Time) ([]planning.PlannedMeal, error) {
	rows, err := s.source.ListPlannedMeals(ctx, campID, from, to)
	if err != nil {
		return nil, err
	}

	recipes := make(map[uint]models.Recipe)
	meals := make([]planning.PlannedMeal, 0, len(rows))
	for _, row := range rows {
		recipe, ok := recipes[row.RecipeID]
		if !ok {
			recipe, err = s.source.GetRecipeWithIngredients(ctx, row.RecipeID)
			if err != nil {
				return nil, fmt.Errorf("planned meal %d: %w", row.ID, err)
			}
			if recipe.BaseServings <= 0 {
				return nil, fmt.Errorf("planned meal %d: recipe %d has base servings %d", row.ID, recipe.ID, recipe.BaseServings)
			}
			recipes[row.RecipeID] = recipe
		}
		meals = append(meals, row.Meal(recipe))
	}
	return meals, nil
}
