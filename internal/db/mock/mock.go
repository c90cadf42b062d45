package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campmeals/internal/db"
	applog "campmeals/internal/log"
	"campmeals/internal/planning"
	"campmeals/models"
)

// New returns an in-memory sqlite database seeded with a small summer camp. Every call
// gets its own database.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:campmeals-mock-%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func date(day int) time.Time {
	return time.Date(2025, time.July, day, 0, 0, 0, 0, time.UTC)
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")
	tx := database.WithContext(ctx)

	var categories []models.Category
	if err := tx.Find(&categories).Error; err != nil {
		return err
	}
	categoryID := make(map[string]uint, len(categories))
	for _, category := range categories {
		categoryID[category.Name] = category.ID
	}

	ingredients := []*models.Ingredient{
		{Name: "Potatoes", CategoryID: categoryID["Vegetables"], PrimaryUnit: "g"},
		{Name: "Apples", CategoryID: categoryID["Fruit"], PrimaryUnit: "pcs"},
		{Name: "Milk", CategoryID: categoryID["Dairy"], PrimaryUnit: "l"},
		{Name: "Eggs", CategoryID: categoryID["Dairy"], PrimaryUnit: "pcs"},
		{Name: "Chicken", CategoryID: categoryID["Meat & Fish"], PrimaryUnit: "g"},
		{Name: "Flour", CategoryID: categoryID["Baking Goods"], PrimaryUnit: "g"},
		{Name: "Rice", CategoryID: categoryID["Dry Goods"], PrimaryUnit: "g"},
		{Name: "Salt", CategoryID: categoryID["Spices"], PrimaryUnit: "g"},
	}
	byName := make(map[string]uint, len(ingredients))
	for _, ingredient := range ingredients {
		if err := tx.Create(ingredient).Error; err != nil {
			return err
		}
		byName[ingredient.Name] = ingredient.ID
	}

	recipes := []*models.Recipe{
		{
			Name:         "Pancakes",
			Instructions: "Whisk, rest for ten minutes, fry in batches.",
			BaseServings: 4,
			Ingredients: []models.RecipeIngredient{
				{IngredientID: byName["Flour"], BaseQuantity: 250, Unit: "g"},
				{IngredientID: byName["Milk"], BaseQuantity: 0.5, Unit: "l"},
				{IngredientID: byName["Eggs"], BaseQuantity: 2, Unit: "pcs", ChildMultiplier: planning.Float(1), TeenMultiplier: planning.Float(1)},
			},
		},
		{
			Name:         "Chicken with rice",
			BaseServings: 1,
			Ingredients: []models.RecipeIngredient{
				{IngredientID: byName["Chicken"], BaseQuantity: 150, Unit: "g"},
				{IngredientID: byName["Rice"], BaseQuantity: 90, Unit: "g"},
				{IngredientID: byName["Salt"], BaseQuantity: 2, Unit: "g", ChildMultiplier: planning.Float(1), TeenMultiplier: planning.Float(1)},
			},
		},
		{
			Name:         "Fruit snack",
			BaseServings: 1,
			Ingredients: []models.RecipeIngredient{
				{IngredientID: byName["Apples"], BaseQuantity: 1, Unit: "pcs", ChildMultiplier: planning.Float(1), TeenMultiplier: planning.Float(1)},
			},
		},
	}
	for _, recipe := range recipes {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
	}

	camp := models.Camp{
		Name:            "Summer Camp 2025",
		StartDate:       date(1),
		EndDate:         date(7),
		DefaultChildren: 24,
		DefaultTeens:    8,
		DefaultAdults:   6,
		Notes:           "Lakeside site, kitchen tent.",
	}
	if err := tx.Create(&camp).Error; err != nil {
		return err
	}

	dayOne := models.MealPlan{CampID: camp.ID, Date: date(1)}
	dayTwo := models.MealPlan{CampID: camp.ID, Date: date(2)}
	if err := tx.Create(&dayOne).Error; err != nil {
		return err
	}
	if err := tx.Create(&dayTwo).Error; err != nil {
		return err
	}

	meals := []struct {
		plan       uint
		recipe     *models.Recipe
		mealType   planning.MealType
		attendance *models.MealAttendance
	}{
		{dayOne.ID, recipes[0], planning.Breakfast, &models.MealAttendance{Children: 20, Teens: 8, Adults: 6}},
		{dayOne.ID, recipes[1], planning.Lunch, nil},
		{dayOne.ID, recipes[2], planning.AfternoonSnack, nil},
		{dayTwo.ID, recipes[0], planning.Breakfast, nil},
	}
	for _, meal := range meals {
		planned := models.PlannedMeal{MealPlanID: meal.plan, RecipeID: meal.recipe.ID, MealType: meal.mealType}
		if err := tx.Omit("MealPlan", "Recipe", "Attendance").Create(&planned).Error; err != nil {
			return err
		}
		if meal.attendance != nil {
			meal.attendance.PlannedMealID = planned.ID
			if err := tx.Create(meal.attendance).Error; err != nil {
				return err
			}
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
