package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/models"
)

func (r *GormRepo) ListSweets(ctx context.Context) ([]models.Sweet, error) {
	var sweets []models.Sweet
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *GormRepo) CreateSweet(ctx context.Context, s *models.Sweet) error {
	var existing models.Sweet
	err := r.DB.WithContext(ctx).Where("name = ?", s.Name).First(&existing).Error
	if err == nil {
		return ErrSweetNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.DB.WithContext(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSweetNameTaken
		}
		return err
	}
	return nil
}
