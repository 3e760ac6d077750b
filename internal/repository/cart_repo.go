package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"asesoria/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository persists cart snapshots keyed by the owner (user id or
// anonymous session id). One row per owner holding the full item list.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

type cartModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OwnerKey  string    `gorm:"column:owner_key;uniqueIndex"`
	Items     []byte    `gorm:"column:items"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartModel) TableName() string { return "carts" }

func (r *CartRepository) Load(ctx context.Context, ownerKey string) ([]domain.CartItem, error) {
	var m cartModel
	tx := r.db.WithContext(ctx).Where("owner_key = ?", ownerKey).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return []domain.CartItem{}, nil
		}
		return nil, tx.Error
	}

	var items []domain.CartItem
	if len(m.Items) > 0 {
		if err := json.Unmarshal(m.Items, &items); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

func (r *CartRepository) Save(ctx context.Context, ownerKey string, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	m := cartModel{OwnerKey: ownerKey, Items: raw}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(&m).Error
}

func (r *CartRepository) Delete(ctx context.Context, ownerKey string) error {
	return r.db.WithContext(ctx).Where("owner_key = ?", ownerKey).Delete(&cartModel{}).Error
}
