package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"campmeals/internal/planning"
	"campmeals/models"
)

type IngredientUpdate struct {
	Name          *string
	CategoryID    *uint
	PrimaryUnit   *string
	SecondaryUnit **string
}

// ListIngredients returns ingredients ordered by name with their category, optionally
// limited to one category.
func (s *Store) ListIngredients(ctx context.Context, categoryID *uint) ([]models.Ingredient, error) {
	query := s.conn(ctx).Preload("Category").Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *Store) GetIngredient(ctx context.Context, id uint) (models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.conn(ctx).Preload("Category").First(&ingredient, id).Error; err != nil {
		return models.Ingredient{}, lookupError(err, "ingredient", id)
	}
	return ingredient, nil
}

func (s *Store) validateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	ingredient.Name = strings.TrimSpace(ingredient.Name)
	ingredient.PrimaryUnit = strings.TrimSpace(ingredient.PrimaryUnit)
	if ingredient.Name == "" {
		return &planning.ValidationError{Field: "name", Message: "ingredient name is required"}
	}
	if ingredient.PrimaryUnit == "" {
		return &planning.ValidationError{Field: "primary_unit", Message: "primary unit is required"}
	}
	if _, err := s.GetCategory(ctx, ingredient.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &planning.ValidationError{Field: "category_id", Message: fmt.Sprintf("category %d does not exist", ingredient.CategoryID)}
		}
		return err
	}
	return nil
}

func (s *Store) CreateIngredient(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error) {
	ingredient.ID = 0
	ingredient.Category = nil
	if err := s.validateIngredient(ctx, &ingredient); err != nil {
		return models.Ingredient{}, err
	}
	if err := s.conn(ctx).Create(&ingredient).Error; err != nil {
		return models.Ingredient{}, writeError(err, "create ingredient")
	}
	return s.GetIngredient(ctx, ingredient.ID)
}

func (s *Store) UpdateIngredient(ctx context.Context, id uint, update IngredientUpdate) (models.Ingredient, error) {
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return models.Ingredient{}, err
	}
	if update.Name != nil {
		ingredient.Name = *update.Name
	}
	if update.CategoryID != nil {
		ingredient.CategoryID = *update.CategoryID
	}
	if update.PrimaryUnit != nil {
		ingredient.PrimaryUnit = *update.PrimaryUnit
	}
	if update.SecondaryUnit != nil {
		ingredient.SecondaryUnit = *update.SecondaryUnit
	}
	ingredient.Category = nil
	if err := s.validateIngredient(ctx, &ingredient); err != nil {
		return models.Ingredient{}, err
	}
	if err := s.conn(ctx).Save(&ingredient).Error; err != nil {
		return models.Ingredient{}, writeError(err, "update ingredient")
	}
	return s.GetIngredient(ctx, id)
}

func (s *Store) DeleteIngredient(ctx context.Context, id uint) error {
	result := s.conn(ctx).Unscoped().Delete(&models.Ingredient{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete ingredient %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
	}
	return nil
}

// FindOrCreateIngredient returns the ingredient called name, creating it in the given
// category with the given unit when it does not exist yet.
func (s *Store) FindOrCreateIngredient(ctx context.Context, name string, categoryID uint, unit string) (models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.conn(ctx).Where("name = ?", name).First(&ingredient).Error
	if err == nil {
		return ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Ingredient{}, fmt.Errorf("find ingredient %q: %w", name, err)
	}
	ingredient = models.Ingredient{Name: name, CategoryID: categoryID, PrimaryUnit: unit}
	if err := s.conn(ctx).Create(&ingredient).Error; err != nil {
		return models.Ingredient{}, writeError(err, fmt.Sprintf("create ingredient %q", name))
	}
	return ingredient, nil
}
