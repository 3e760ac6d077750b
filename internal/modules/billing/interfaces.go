package billing

import (
	"context"

	"asesoria/internal/domain"
	"asesoria/internal/modules/notification"
)

type BillingRepositoryInterface interface {
	UpsertCustomer(ctx context.Context, c *domain.BillingCustomer) error
	UpsertInvoice(ctx context.Context, inv *domain.BillingInvoice) error
	GetCustomerByExternalID(ctx context.Context, externalID string) (*domain.BillingCustomer, error)
}

type NotificationSender interface {
	Send(ctx context.Context, n *notification.Notification) error
}
