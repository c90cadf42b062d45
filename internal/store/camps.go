package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campmeals/internal/planning"
	"campmeals/models"
)

type CampUpdate struct {
	Name            *string
	StartDate       *time.Time
	EndDate         *time.Time
	DefaultChildren *int
	DefaultTeens    *int
	DefaultAdults   *int
	Notes           *string
}

// ListCamps returns camps, most recent start first.
func (s *Store) ListCamps(ctx context.Context) ([]models.Camp, error) {
	var camps []models.Camp
	if err := s.conn(ctx).Order("start_date DESC").Order("id DESC").Find(&camps).Error; err != nil {
		return nil, fmt.Errorf("list camps: %w", err)
	}
	return camps, nil
}

func (s *Store) GetCamp(ctx context.Context, id uint) (models.Camp, error) {
	var camp models.Camp
	if err := s.conn(ctx).First(&camp, id).Error; err != nil {
		return models.Camp{}, lookupError(err, "camp", id)
	}
	return camp, nil
}

func normalizeCamp(camp *models.Camp) {
	camp.Name = strings.TrimSpace(camp.Name)
	if !camp.StartDate.IsZero() {
		camp.StartDate = Day(camp.StartDate)
	}
	if !camp.EndDate.IsZero() {
		camp.EndDate = Day(camp.EndDate)
	}
}

func (s *Store) CreateCamp(ctx context.Context, camp models.Camp) (models.Camp, error) {
	camp.ID = 0
	normalizeCamp(&camp)
	if err := planning.ValidateCamp(camp.Input()); err != nil {
		return models.Camp{}, err
	}
	if err := s.conn(ctx).Create(&camp).Error; err != nil {
		return models.Camp{}, writeError(err, "create camp")
	}
	return camp, nil
}

// UpdateCamp applies update and re-validates the merged camp, so moving only the end
// date before the stored start date is rejected.
func (s *Store) UpdateCamp(ctx context.Context, id uint, update CampUpdate) (models.Camp, error) {
	camp, err := s.GetCamp(ctx, id)
	if err != nil {
		return models.Camp{}, err
	}
	if update.Name != nil {
		camp.Name = *update.Name
	}
	if update.StartDate != nil {
		camp.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		camp.EndDate = *update.EndDate
	}
	if update.DefaultChildren != nil {
		camp.DefaultChildren = *update.DefaultChildren
	}
	if update.DefaultTeens != nil {
		camp.DefaultTeens = *update.DefaultTeens
	}
	if update.DefaultAdults != nil {
		camp.DefaultAdults = *update.DefaultAdults
	}
	if update.Notes != nil {
		camp.Notes = *update.Notes
	}
	normalizeCamp(&camp)
	if err := planning.ValidateCamp(camp.Input()); err != nil {
		return models.Camp{}, err
	}
	if err := s.conn(ctx).Save(&camp).Error; err != nil {
		return models.Camp{}, writeError(err, "update camp")
	}
	return camp, nil
}

// DeleteCamp removes the camp row only. Its meal plans are left in place.
func (s *Store) DeleteCamp(ctx context.Context, id uint) error {
	result := s.conn(ctx).Unscoped().Delete(&models.Camp{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete camp %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("camp %d: %w", id, ErrNotFound)
	}
	return nil
}
