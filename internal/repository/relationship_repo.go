package repository

import (
	"context"
	"time"

	"asesoria/internal/domain"

	"gorm.io/gorm"
)

type RelationshipRepository struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

type relationshipModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ClientID  int64     `gorm:"column:client_id"`
	AdvisorID int64     `gorm:"column:advisor_id"`
	Type      string    `gorm:"column:type"`
	Status    string    `gorm:"column:status"`
	Notes     *string   `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (relationshipModel) TableName() string { return "client_advisor_relationships" }

func toDomainRelationship(m relationshipModel) *domain.ClientAdvisorRelationship {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}
	return &domain.ClientAdvisorRelationship{
		ID:        m.ID,
		ClientID:  m.ClientID,
		AdvisorID: m.AdvisorID,
		Type:      m.Type,
		Status:    domain.RelationshipStatus(m.Status),
		Notes:     notes,
		CreatedAt: m.CreatedAt,
	}
}

func (r *RelationshipRepository) Create(ctx context.Context, rel *domain.ClientAdvisorRelationship) error {
	var notes *string
	if rel.Notes != "" {
		v := rel.Notes
		notes = &v
	}
	m := relationshipModel{
		ClientID:  rel.ClientID,
		AdvisorID: rel.AdvisorID,
		Type:      rel.Type,
		Status:    string(rel.Status),
		Notes:     notes,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rel = *toDomainRelationship(m)
	return nil
}

// CountActiveByAdvisor returns the active-client count per advisor, computed
// from relationship rows with a grouped count.
func (r *RelationshipRepository) CountActiveByAdvisor(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		AdvisorID int64 `gorm:"column:advisor_id"`
		Count     int   `gorm:"column:count"`
	}

	err := r.db.WithContext(ctx).
		Table("client_advisor_relationships").
		Select("advisor_id, COUNT(*) as count").
		Where("status = ?", string(domain.RelationshipActive)).
		Group("advisor_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(rows))
	for _, it := range rows {
		counts[it.AdvisorID] = it.Count
	}
	return counts, nil
}

func (r *RelationshipRepository) GetActiveByClient(ctx context.Context, clientID int64) (*domain.ClientAdvisorRelationship, error) {
	var m relationshipModel
	tx := r.db.WithContext(ctx).
		Where("client_id = ? AND status = ?", clientID, string(domain.RelationshipActive)).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRelationship(m), nil
}

func (r *RelationshipRepository) GetByAdvisor(ctx context.Context, advisorID int64) ([]domain.ClientAdvisorRelationship, error) {
	var ms []relationshipModel
	err := r.db.WithContext(ctx).
		Where("advisor_id = ?", advisorID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.ClientAdvisorRelationship, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainRelationship(m))
	}
	return out, nil
}
