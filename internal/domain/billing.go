package domain

import "time"

// BillingCustomer mirrors payment-provider subscription state, keyed by the
// provider's customer id. Rows are upserted idempotently by the webhook
// handler.
type BillingCustomer struct {
	ID                 int64      `json:"id"`
	ExternalID         string     `json:"external_id" gorm:"uniqueIndex"`
	UserID             int64      `json:"user_id"`
	Email              string     `json:"email,omitempty"`
	SubscriptionID     string     `json:"subscription_id,omitempty"`
	SubscriptionStatus string     `json:"subscription_status,omitempty"`
	PlanID             string     `json:"plan_id,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (BillingCustomer) TableName() string { return "billing_customers" }

// BillingInvoice mirrors a provider invoice, keyed by the provider's invoice
// id.
type BillingInvoice struct {
	ID                 int64      `json:"id"`
	ExternalID         string     `json:"external_id" gorm:"uniqueIndex"`
	CustomerExternalID string     `json:"customer_external_id"`
	UserID             int64      `json:"user_id"`
	AmountDue          float64    `json:"amount_due"`
	AmountPaid         float64    `json:"amount_paid"`
	Currency           string     `json:"currency,omitempty"`
	Status             string     `json:"status"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (BillingInvoice) TableName() string { return "billing_invoices" }
