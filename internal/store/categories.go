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

// customCategorySortOrder places categories unknown to the defaults just before Other.
const customCategorySortOrder = 90

// CategoryUpdate carries the fields to change; nil fields stay as they are.
type CategoryUpdate struct {
	Name      *string
	SortOrder *int
}

// ListCategories returns categories in shopping list order.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.conn(ctx).Order("sort_order ASC").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	if err := s.conn(ctx).First(&category, id).Error; err != nil {
		return models.Category{}, lookupError(err, "category", id)
	}
	return category, nil
}

func (s *Store) CreateCategory(ctx context.Context, name string, sortOrder int) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, &planning.ValidationError{Field: "name", Message: "category name is required"}
	}
	category := models.Category{Name: name, SortOrder: sortOrder}
	if err := s.conn(ctx).Create(&category).Error; err != nil {
		return models.Category{}, writeError(err, "create category")
	}
	return category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id uint, update CategoryUpdate) (models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return models.Category{}, &planning.ValidationError{Field: "name", Message: "category name is required"}
		}
		category.Name = name
	}
	if update.SortOrder != nil {
		category.SortOrder = *update.SortOrder
	}
	if err := s.conn(ctx).Save(&category).Error; err != nil {
		return models.Category{}, writeError(err, "update category")
	}
	return category, nil
}

// DeleteCategory removes a category. It fails with ErrCategoryInUse while any
// ingredient still belongs to it.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&models.Ingredient{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
			return fmt.Errorf("count ingredients of category %d: %w", id, err)
		}
		if used > 0 {
			return fmt.Errorf("delete category %d (%d ingredients): %w", id, used, ErrCategoryInUse)
		}
		result := tx.Unscoped().Delete(&models.Category{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete category %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// FindOrCreateCategory returns the category with the given name, creating it when
// missing. Default categories keep their usual sort order.
func (s *Store) FindOrCreateCategory(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	sortOrder := customCategorySortOrder
	for _, def := range models.DefaultCategories() {
		if def.Name == name {
			sortOrder = def.SortOrder
			break
		}
	}

	var category models.Category
	err := s.conn(ctx).Where("name = ?", name).First(&category).Error
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, fmt.Errorf("find category %q: %w", name, err)
	}
	return s.CreateCategory(ctx, name, sortOrder)
}
