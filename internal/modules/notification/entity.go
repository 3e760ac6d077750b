package notification

import "time"

// NotificationType classifies notifications for the UI.
type NotificationType string

const (
	TypeAdvisorAssigned NotificationType = "advisor_assigned" // Client: advisor picked for you
	TypeNewClient       NotificationType = "new_client"       // Advisor: client assigned to you

	// Billing
	TypeSubscriptionCreated NotificationType = "subscription_created"
	TypeSubscriptionUpdated NotificationType = "subscription_updated"
	TypeSubscriptionEnded   NotificationType = "subscription_ended"
	TypePaymentSucceeded    NotificationType = "payment_succeeded"
	TypePaymentFailed       NotificationType = "payment_failed"
	TypeBillingWelcome      NotificationType = "billing_welcome"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification is write-once: created by the assignment function and webhook
// handler, read and dismissed by the UI.
type Notification struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	EntityType string           `json:"entity_type,omitempty"`
	EntityID   *int64           `json:"entity_id,omitempty"`
	ActionURL  string           `json:"action_url,omitempty"`
	Priority   Priority         `json:"priority"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
