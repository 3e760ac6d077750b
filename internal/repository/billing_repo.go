package repository

import (
	"context"
	"errors"
	"time"

	"asesoria/internal/domain"

	"gorm.io/gorm"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

type billingCustomerModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ExternalID         string     `gorm:"column:external_id;uniqueIndex"`
	UserID             int64      `gorm:"column:user_id"`
	Email              *string    `gorm:"column:email"`
	SubscriptionID     *string    `gorm:"column:subscription_id"`
	SubscriptionStatus *string    `gorm:"column:subscription_status"`
	PlanID             *string    `gorm:"column:plan_id"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (billingCustomerModel) TableName() string { return "billing_customers" }

type billingInvoiceModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ExternalID         string     `gorm:"column:external_id;uniqueIndex"`
	CustomerExternalID string     `gorm:"column:customer_external_id"`
	UserID             int64      `gorm:"column:user_id"`
	AmountDue          float64    `gorm:"column:amount_due"`
	AmountPaid         float64    `gorm:"column:amount_paid"`
	Currency           *string    `gorm:"column:currency"`
	Status             string     `gorm:"column:status"`
	PaidAt             *time.Time `gorm:"column:paid_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (billingInvoiceModel) TableName() string { return "billing_invoices" }

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// UpsertCustomer inserts or updates the provider mirror row keyed by the
// external customer id. Safe to call repeatedly for the same event.
func (r *BillingRepository) UpsertCustomer(ctx context.Context, c *domain.BillingCustomer) error {
	var existing billingCustomerModel
	tx := r.db.WithContext(ctx).Where("external_id = ?", c.ExternalID).First(&existing)
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return tx.Error
	}

	m := billingCustomerModel{
		ID:                 existing.ID,
		ExternalID:         c.ExternalID,
		UserID:             c.UserID,
		Email:              nullable(c.Email),
		SubscriptionID:     nullable(c.SubscriptionID),
		SubscriptionStatus: nullable(c.SubscriptionStatus),
		PlanID:             nullable(c.PlanID),
		CurrentPeriodEnd:   c.CurrentPeriodEnd,
		CreatedAt:          existing.CreatedAt,
	}

	// Keep fields the event did not carry.
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
	} else {
		if c.UserID == 0 {
			m.UserID = existing.UserID
		}
		if m.Email == nil {
			m.Email = existing.Email
		}
		if m.SubscriptionID == nil {
			m.SubscriptionID = existing.SubscriptionID
		}
		if m.SubscriptionStatus == nil {
			m.SubscriptionStatus = existing.SubscriptionStatus
		}
		if m.PlanID == nil {
			m.PlanID = existing.PlanID
		}
		if m.CurrentPeriodEnd == nil {
			m.CurrentPeriodEnd = existing.CurrentPeriodEnd
		}
		if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
			return err
		}
	}

	c.ID = m.ID
	c.UserID = m.UserID
	c.Email = deref(m.Email)
	c.SubscriptionID = deref(m.SubscriptionID)
	c.SubscriptionStatus = deref(m.SubscriptionStatus)
	c.PlanID = deref(m.PlanID)
	return nil
}

// UpsertInvoice inserts or updates the invoice mirror row keyed by the
// external invoice id.
func (r *BillingRepository) UpsertInvoice(ctx context.Context, inv *domain.BillingInvoice) error {
	var existing billingInvoiceModel
	tx := r.db.WithContext(ctx).Where("external_id = ?", inv.ExternalID).First(&existing)
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return tx.Error
	}

	m := billingInvoiceModel{
		ID:                 existing.ID,
		ExternalID:         inv.ExternalID,
		CustomerExternalID: inv.CustomerExternalID,
		UserID:             inv.UserID,
		AmountDue:          inv.AmountDue,
		AmountPaid:         inv.AmountPaid,
		Currency:           nullable(inv.Currency),
		Status:             inv.Status,
		PaidAt:             inv.PaidAt,
		CreatedAt:          existing.CreatedAt,
	}

	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
	} else {
		if inv.UserID == 0 {
			m.UserID = existing.UserID
		}
		if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
			return err
		}
	}

	inv.ID = m.ID
	inv.UserID = m.UserID
	return nil
}

func (r *BillingRepository) GetCustomerByExternalID(ctx context.Context, externalID string) (*domain.BillingCustomer, error) {
	var m billingCustomerModel
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&m).Error; err != nil {
		return nil, err
	}
	return &domain.BillingCustomer{
		ID:                 m.ID,
		ExternalID:         m.ExternalID,
		UserID:             m.UserID,
		Email:              deref(m.Email),
		SubscriptionID:     deref(m.SubscriptionID),
		SubscriptionStatus: deref(m.SubscriptionStatus),
		PlanID:             deref(m.PlanID),
		CurrentPeriodEnd:   m.CurrentPeriodEnd,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}
