package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type notificationModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	UserID     int64     `gorm:"column:user_id;index"`
	Type       string    `gorm:"column:type"`
	Title      string    `gorm:"column:title"`
	Message    *string   `gorm:"column:message"`
	EntityType *string   `gorm:"column:entity_type"`
	EntityID   *int64    `gorm:"column:entity_id"`
	ActionURL  *string   `gorm:"column:action_url"`
	Priority   string    `gorm:"column:priority"`
	IsRead     bool      `gorm:"column:is_read"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *Notification) error {
	var msg, entityType, actionURL *string
	if n.Message != "" {
		v := n.Message
		msg = &v
	}
	if n.EntityType != "" {
		v := n.EntityType
		entityType = &v
	}
	if n.ActionURL != "" {
		v := n.ActionURL
		actionURL = &v
	}

	m := &notificationModel{
		UserID:     n.UserID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    msg,
		EntityType: entityType,
		EntityID:   n.EntityID,
		ActionURL:  actionURL,
		Priority:   string(n.Priority),
		IsRead:     n.IsRead,
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	var rows []notificationModel

	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Notification, 0, len(rows))
	for _, it := range rows {
		n := Notification{
			ID:        it.ID,
			UserID:    it.UserID,
			Type:      NotificationType(it.Type),
			Title:     it.Title,
			EntityID:  it.EntityID,
			Priority:  Priority(it.Priority),
			IsRead:    it.IsRead,
			CreatedAt: it.CreatedAt,
		}
		if it.Message != nil {
			n.Message = *it.Message
		}
		if it.EntityType != nil {
			n.EntityType = *it.EntityType
		}
		if it.ActionURL != nil {
			n.ActionURL = *it.ActionURL
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
