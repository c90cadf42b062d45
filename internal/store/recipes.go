package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campmeals/internal/planning"
	"campmeals/models"
)

// RecipeUpdate carries the fields to change. A non-nil Ingredients replaces every line
// of the recipe.
type RecipeUpdate struct {
	Name         *string
	Instructions *string
	BaseServings *int
	Ingredients  *[]models.RecipeIngredient
}

// ListRecipes returns recipes ordered by name without their lines.
func (s *Store) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.conn(ctx).Order("name ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipeWithIngredients loads a recipe with every line, its ingredient and the
// ingredient's category. A line pointing at a missing ingredient or category is
// reported as ErrNotFound.
func (s *Store) GetRecipeWithIngredients(ctx context.Context, id uint) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.conn(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients.Ingredient").
		Preload("Ingredients.Ingredient.Category").
		First(&recipe, id).Error
	if err != nil {
		return models.Recipe{}, lookupError(err, "recipe", id)
	}
	for _, line := range recipe.Ingredients {
		if line.Ingredient == nil {
			return models.Recipe{}, fmt.Errorf("recipe %d: ingredient %d: %w", id, line.IngredientID, ErrNotFound)
		}
		if line.Ingredient.Category == nil {
			return models.Recipe{}, fmt.Errorf("recipe %d: category %d: %w", id, line.Ingredient.CategoryID, ErrNotFound)
		}
	}
	return recipe, nil
}

func (s *Store) validateRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.Name = strings.TrimSpace(recipe.Name)
	if err := planning.ValidateRecipe(recipe.Name, recipe.BaseServings, models.Lines(recipe.Ingredients)); err != nil {
		return err
	}
	for i := range recipe.Ingredients {
		line := &recipe.Ingredients[i]
		line.Unit = strings.TrimSpace(line.Unit)
		if line.Unit == "" {
			return &planning.ValidationError{Field: "unit", Message: "unit is required"}
		}
	}
	return s.checkIngredientsExist(ctx, recipe.Ingredients)
}

func (s *Store) checkIngredientsExist(ctx context.Context, lines []models.RecipeIngredient) error {
	if len(lines) == 0 {
		return nil
	}
	wanted := make(map[uint]struct{}, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if _, seen := wanted[line.IngredientID]; !seen {
			wanted[line.IngredientID] = struct{}{}
			ids = append(ids, line.IngredientID)
		}
	}
	var found []uint
	if err := s.conn(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("check ingredients: %w", err)
	}
	for _, id := range found {
		delete(wanted, id)
	}
	for _, id := range ids {
		if _, missing := wanted[id]; missing {
			return &planning.ValidationError{Field: "ingredient_id", Message: fmt.Sprintf("ingredient %d does not exist", id)}
		}
	}
	return nil
}

func prepareLines(recipeID uint, lines []models.RecipeIngredient) []models.RecipeIngredient {
	prepared := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		line.ID = 0
		line.RecipeID = recipeID
		line.Ingredient = nil
		prepared[i] = line
	}
	return prepared
}

func insertRecipe(tx *gorm.DB, recipe *models.Recipe) error {
	lines := recipe.Ingredients
	recipe.Ingredients = nil
	if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
		return writeError(err, fmt.Sprintf("create recipe %q", recipe.Name))
	}
	prepared := prepareLines(recipe.ID, lines)
	if len(prepared) > 0 {
		if err := tx.Omit(clause.Associations).Create(&prepared).Error; err != nil {
			return fmt.Errorf("create lines of recipe %q: %w", recipe.Name, err)
		}
	}
	recipe.Ingredients = prepared
	return nil
}

// CreateRecipe validates and stores a recipe with its lines in one transaction.
// Multipliers left nil stay nil and fall back to the band defaults when scaling.
func (s *Store) CreateRecipe(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	recipe.ID = 0
	if err := s.validateRecipe(ctx, &recipe); err != nil {
		return models.Recipe{}, err
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return insertRecipe(tx, &recipe)
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return s.GetRecipeWithIngredients(ctx, recipe.ID)
}

// UpdateRecipe merges update into the stored recipe, validates the result and writes
// it. New lines replace the old ones wholesale.
func (s *Store) UpdateRecipe(ctx context.Context, id uint, update RecipeUpdate) (models.Recipe, error) {
	recipe, err := s.GetRecipeWithIngredients(ctx, id)
	if err != nil {
		return models.Recipe{}, err
	}
	if update.Name != nil {
		recipe.Name = *update.Name
	}
	if update.Instructions != nil {
		recipe.Instructions = *update.Instructions
	}
	if update.BaseServings != nil {
		recipe.BaseServings = *update.BaseServings
	}
	if update.Ingredients != nil {
		recipe.Ingredients = *update.Ingredients
	}
	if err := s.validateRecipe(ctx, &recipe); err != nil {
		return models.Recipe{}, err
	}

	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		lines := recipe.Ingredients
		recipe.Ingredients = nil
		if err := tx.Omit(clause.Associations).Save(&recipe).Error; err != nil {
			return writeError(err, fmt.Sprintf("update recipe %d", id))
		}
		if update.Ingredients == nil {
			return nil
		}
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear lines of recipe %d: %w", id, err)
		}
		prepared := prepareLines(id, lines)
		if len(prepared) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&prepared).Error; err != nil {
			return fmt.Errorf("replace lines of recipe %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return s.GetRecipeWithIngredients(ctx, id)
}

// DeleteRecipe removes a recipe and its lines. Recipes that are still planned are kept
// and ErrRecipeInUse is returned.
func (s *Store) DeleteRecipe(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var planned int64
		if err := tx.Model(&models.PlannedMeal{}).Where("recipe_id = ?", id).Count(&planned).Error; err != nil {
			return fmt.Errorf("count planned meals of recipe %d: %w", id, err)
		}
		if planned > 0 {
			return fmt.Errorf("delete recipe %d (%d planned meals): %w", id, planned, ErrRecipeInUse)
		}
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete lines of recipe %d: %w", id, err)
		}
		result := tx.Unscoped().Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete recipe %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("recipe %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// RecipeExists reports whether a recipe with exactly this name is stored.
func (s *Store) RecipeExists(ctx context.Context, name string) (bool, error) {
	var recipe models.Recipe
	err := s.conn(ctx).Select("id").Where("name = ?", name).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find recipe %q: %w", name, err)
	}
	return true, nil
}

// CreateImportedRecipe stores a recipe produced by the importer in its own transaction
// so a failed import never leaves half a recipe behind.
func (s *Store) CreateImportedRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.BaseServings <= 0 {
		recipe.BaseServings = 1
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return insertRecipe(tx, recipe)
	})
}
