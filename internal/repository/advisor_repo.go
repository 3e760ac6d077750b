package repository

import (
	"context"
	"encoding/json"
	"time"

	"asesoria/internal/domain"

	"gorm.io/gorm"
)

type AdvisorRepository struct {
	db *gorm.DB
}

func NewAdvisorRepository(db *gorm.DB) *AdvisorRepository {
	return &AdvisorRepository{db: db}
}

type advisorProfileModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	UserID          int64     `gorm:"column:user_id"`
	MaxClients      int       `gorm:"column:max_clients"`
	Specializations []byte    `gorm:"column:specializations"`
	IsActive        bool      `gorm:"column:is_active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (advisorProfileModel) TableName() string { return "advisor_profiles" }

// ActiveAdvisor is the assignment view of an advisor: profile plus the user's
// display name.
type ActiveAdvisor struct {
	UserID          int64
	Name            string
	MaxClients      int
	Specializations []string
}

func (r *AdvisorRepository) Create(ctx context.Context, p *domain.AdvisorProfile) error {
	specs, err := json.Marshal(p.Specializations)
	if err != nil {
		return err
	}
	m := advisorProfileModel{
		UserID:          p.UserID,
		MaxClients:      p.MaxClients,
		Specializations: specs,
		IsActive:        p.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.ID = m.ID
	p.CreatedAt = m.CreatedAt
	return nil
}

// GetActive returns the profiles of all advisors whose account status is
// active, joined with the user's name, in profile id order.
func (r *AdvisorRepository) GetActive(ctx context.Context) ([]ActiveAdvisor, error) {
	var rows []struct {
		UserID          int64  `gorm:"column:user_id"`
		Name            string `gorm:"column:name"`
		MaxClients      int    `gorm:"column:max_clients"`
		Specializations []byte `gorm:"column:specializations"`
	}

	err := r.db.WithContext(ctx).
		Table("advisor_profiles").
		Select("advisor_profiles.user_id, users.name, advisor_profiles.max_clients, advisor_profiles.specializations").
		Joins("JOIN users ON users.id = advisor_profiles.user_id").
		Where("advisor_profiles.is_active = ?", true).
		Order("advisor_profiles.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]ActiveAdvisor, 0, len(rows))
	for _, it := range rows {
		var specs []string
		if len(it.Specializations) > 0 {
			_ = json.Unmarshal(it.Specializations, &specs)
		}
		out = append(out, ActiveAdvisor{
			UserID:          it.UserID,
			Name:            it.Name,
			MaxClients:      it.MaxClients,
			Specializations: specs,
		})
	}
	return out, nil
}

func (r *AdvisorRepository) GetByUserID(ctx context.Context, userID int64) (*domain.AdvisorProfile, error) {
	var m advisorProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, err
	}
	var specs []string
	if len(m.Specializations) > 0 {
		_ = json.Unmarshal(m.Specializations, &specs)
	}
	return &domain.AdvisorProfile{
		ID:              m.ID,
		UserID:          m.UserID,
		MaxClients:      m.MaxClients,
		Specializations: specs,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
	}, nil
}
