package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campmeals/internal/planning"
	"campmeals/models"
)

// PlannedMealInput describes a meal to plan. A nil Attendance means the camp defaults
// apply.
type PlannedMealInput struct {
	CampID     uint
	Date       time.Time
	RecipeID   uint
	MealType   planning.MealType
	Attendance *planning.Attendance
}

// PlannedMealUpdate changes the recipe, the slot or the attendance of a planned meal.
type PlannedMealUpdate struct {
	RecipeID   *uint
	MealType   *planning.MealType
	Attendance *planning.Attendance
}

// getOrCreateMealPlan returns the plan of a camp day, creating it on first use.
func getOrCreateMealPlan(tx *gorm.DB, campID uint, date time.Time) (models.MealPlan, error) {
	plan := models.MealPlan{}
	day := Day(date)
	err := tx.Where("camp_id = ? AND date = ?", campID, day).
		Attrs(models.MealPlan{CampID: campID, Date: day}).
		FirstOrCreate(&plan).Error
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("get meal plan of camp %d on %s: %w", campID, day.Format(time.DateOnly), err)
	}
	return plan, nil
}

// upsertAttendance writes the headcount of a planned meal with a single
// INSERT ... ON CONFLICT(planned_meal_id) DO UPDATE.
func upsertAttendance(tx *gorm.DB, plannedMealID uint, a planning.Attendance) error {
	row := models.MealAttendance{
		PlannedMealID: plannedMealID,
		Children:      a.Children,
		Teens:         a.Teens,
		Adults:        a.Adults,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "planned_meal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"children", "teens", "adults", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save attendance of planned meal %d: %w", plannedMealID, err)
	}
	return nil
}

// SetAttendance records an explicit headcount for a planned meal.
func (s *Store) SetAttendance(ctx context.Context, plannedMealID uint, a planning.Attendance) error {
	checked, err := planning.NewAttendance(a.Children, a.Teens, a.Adults)
	if err != nil {
		return err
	}
	if _, err := s.GetPlannedMeal(ctx, plannedMealID); err != nil {
		return err
	}
	return upsertAttendance(s.conn(ctx), plannedMealID, checked)
}

func (s *Store) checkRecipe(ctx context.Context, id uint) error {
	var count int64
	if err := s.conn(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check recipe %d: %w", id, err)
	}
	if count == 0 {
		return &planning.ValidationError{Field: "recipe_id", Message: fmt.Sprintf("recipe %d does not exist", id)}
	}
	return nil
}

func checkedAttendance(a *planning.Attendance) (*planning.Attendance, error) {
	if a == nil {
		return nil, nil
	}
	checked, err := planning.NewAttendance(a.Children, a.Teens, a.Adults)
	if err != nil {
		return nil, err
	}
	return &checked, nil
}

// CreatePlannedMeal plans a recipe into a camp slot. The day's meal plan is created
// lazily and the optional attendance is stored in the same transaction.
func (s *Store) CreatePlannedMeal(ctx context.Context, in PlannedMealInput) (models.PlannedMeal, error) {
	if !in.MealType.Valid() {
		return models.PlannedMeal{}, &planning.ValidationError{Field: "meal_type", Message: "meal type is required"}
	}
	if in.Date.IsZero() {
		return models.PlannedMeal{}, &planning.ValidationError{Field: "date", Message: "date is required"}
	}
	attendance, err := checkedAttendance(in.Attendance)
	if err != nil {
		return models.PlannedMeal{}, err
	}
	if _, err := s.GetCamp(ctx, in.CampID); err != nil {
		return models.PlannedMeal{}, err
	}
	if err := s.checkRecipe(ctx, in.RecipeID); err != nil {
		return models.PlannedMeal{}, err
	}

	var meal models.PlannedMeal
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := getOrCreateMealPlan(tx, in.CampID, in.Date)
		if err != nil {
			return err
		}
		meal = models.PlannedMeal{MealPlanID: plan.ID, RecipeID: in.RecipeID, MealType: in.MealType}
		if err := tx.Omit(clause.Associations).Create(&meal).Error; err != nil {
			return fmt.Errorf("create planned meal: %w", err)
		}
		if attendance != nil {
			return upsertAttendance(tx, meal.ID, *attendance)
		}
		return nil
	})
	if err != nil {
		return models.PlannedMeal{}, err
	}
	return s.GetPlannedMeal(ctx, meal.ID)
}

func (s *Store) GetPlannedMeal(ctx context.Context, id uint) (models.PlannedMeal, error) {
	var meal models.PlannedMeal
	err := s.conn(ctx).
		Preload("MealPlan").
		Preload("Recipe").
		Preload("Attendance").
		First(&meal, id).Error
	if err != nil {
		return models.PlannedMeal{}, lookupError(err, "planned meal", id)
	}
	return meal, nil
}

// UpdatePlannedMeal changes the recipe and slot and upserts the attendance when given.
func (s *Store) UpdatePlannedMeal(ctx context.Context, id uint, update PlannedMealUpdate) (models.PlannedMeal, error) {
	meal, err := s.GetPlannedMeal(ctx, id)
	if err != nil {
		return models.PlannedMeal{}, err
	}
	attendance, err := checkedAttendance(update.Attendance)
	if err != nil {
		return models.PlannedMeal{}, err
	}
	changes := map[string]any{}
	if update.RecipeID != nil {
		if err := s.checkRecipe(ctx, *update.RecipeID); err != nil {
			return models.PlannedMeal{}, err
		}
		changes["recipe_id"] = *update.RecipeID
	}
	if update.MealType != nil {
		if !update.MealType.Valid() {
			return models.PlannedMeal{}, &planning.ValidationError{Field: "meal_type", Message: "meal type is required"}
		}
		changes["meal_type"] = *update.MealType
	}

	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if err := tx.Model(&models.PlannedMeal{}).Where("id = ?", meal.ID).Updates(changes).Error; err != nil {
				return fmt.Errorf("update planned meal %d: %w", id, err)
			}
		}
		if attendance != nil {
			return upsertAttendance(tx, meal.ID, *attendance)
		}
		return nil
	})
	if err != nil {
		return models.PlannedMeal{}, err
	}
	return s.GetPlannedMeal(ctx, id)
}

// DeletePlannedMeal removes a planned meal and its attendance row.
func (s *Store) DeletePlannedMeal(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("planned_meal_id = ?", id).Delete(&models.MealAttendance{}).Error; err != nil {
			return fmt.Errorf("delete attendance of planned meal %d: %w", id, err)
		}
		result := tx.Unscoped().Delete(&models.PlannedMeal{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete planned meal %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("planned meal %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// ListPlannedMeals returns the planned meals of a camp with MealPlan, Recipe and
// Attendance preloaded, optionally limited to an inclusive date range. Meals are
// ordered by date, slot and id.
func (s *Store) ListPlannedMeals(ctx context.Context, campID uint, from, to *time.Time) ([]models.PlannedMeal, error) {
	plans := s.conn(ctx).Model(&models.MealPlan{}).Select("id").Where("camp_id = ?", campID)
	if from != nil {
		plans = plans.Where("date >= ?", Day(*from))
	}
	if to != nil {
		plans = plans.Where("date <= ?", Day(*to))
	}

	var meals []models.PlannedMeal
	err := s.conn(ctx).
		Preload("MealPlan").
		Preload("Recipe").
		Preload("Attendance").
		Where("meal_plan_id IN (?)", plans).
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("list planned meals of camp %d: %w", campID, err)
	}

	sort.SliceStable(meals, func(i, j int) bool {
		a, b := meals[i], meals[j]
		if a.MealPlan != nil && b.MealPlan != nil && !a.MealPlan.Date.Equal(b.MealPlan.Date) {
			return a.MealPlan.Date.Before(b.MealPlan.Date)
		}
		if a.MealType != b.MealType {
			return a.MealType.Ordinal() < b.MealType.Ordinal()
		}
		return a.ID < b.ID
	})
	return meals, nil
}

// ListMealsForDate returns the meals of one camp day in slot order.
func (s *Store) ListMealsForDate(ctx context.Context, campID uint, date time.Time) ([]models.PlannedMeal, error) {
	day := Day(date)
	return s.ListPlannedMeals(ctx, campID, &day, &day)
}
