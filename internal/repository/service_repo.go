package repository

import (
	"context"

	"asesoria/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// GetAll returns the full catalog in insertion order. The catalog store keeps
// this order when filtering.
func (r *ServiceRepository) GetAll(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.WithContext(ctx).Order("id").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
