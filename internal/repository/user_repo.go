package repository

import (
	"context"
	"strings"
	"time"

	"asesoria/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB {
	return r.db
}

type userModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	Email             string    `gorm:"column:email"`
	PasswordHash      string    `gorm:"column:password_hash"`
	Role              string    `gorm:"column:role"`
	Name              string    `gorm:"column:name"`
	Phone             *string   `gorm:"column:phone"`
	AvatarURL         *string   `gorm:"column:avatar_url"`
	AssignedAdvisorID *int64    `gorm:"column:assigned_advisor_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone, avatar string
	if m.Phone != nil {
		phone = *m.Phone
	}
	if m.AvatarURL != nil {
		avatar = *m.AvatarURL
	}

	return &domain.User{
		ID:                m.ID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              domain.UserRole(m.Role),
		Name:              m.Name,
		Phone:             phone,
		AvatarURL:         avatar,
		AssignedAdvisorID: m.AssignedAdvisorID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var phone, avatar *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	if u.AvatarURL != "" {
		v := u.AvatarURL
		avatar = &v
	}

	return userModel{
		ID:                u.ID,
		Email:             email,
		PasswordHash:      u.PasswordHash,
		Role:              string(u.Role),
		Name:              u.Name,
		Phone:             phone,
		AvatarURL:         avatar,
		AssignedAdvisorID: u.AssignedAdvisorID,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SetAssignedAdvisor records the client's weak reference to the chosen
// advisor.
func (r *UserRepository) SetAssignedAdvisor(ctx context.Context, clientID, advisorID int64) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", clientID).
		Update("assigned_advisor_id", advisorID).Error
}
