package billing

import (
	"context"
	"encoding/json"
	"time"

	"asesoria/internal/domain"
	"asesoria/internal/modules/notification"

	"github.com/spf13/cast"
)

// notificationEntry is one row of the fixed event-type → message table.
type notificationEntry struct {
	ntype   notification.NotificationType
	title   string
	message string
}

var notificationTable = map[string]notificationEntry{
	EventSubscriptionCreated: {notification.TypeSubscriptionCreated, "Suscripción activada", "Tu suscripción se ha activado correctamente."},
	EventSubscriptionUpdated: {notification.TypeSubscriptionUpdated, "Suscripción actualizada", "Los datos de tu suscripción han cambiado."},
	EventSubscriptionDeleted: {notification.TypeSubscriptionEnded, "Suscripción cancelada", "Tu suscripción ha finalizado."},
	EventInvoicePaid:         {notification.TypePaymentSucceeded, "Pago recibido", "Hemos recibido tu pago. ¡Gracias!"},
	EventInvoiceFailed:       {notification.TypePaymentFailed, "Pago rechazado", "No hemos podido procesar tu pago. Revisa tu método de pago."},
	EventCustomerCreated:     {notification.TypeBillingWelcome, "Facturación activada", "Tu cuenta de facturación está lista."},
}

// Service is a stateless dispatcher over payment-provider events. Signature
// verification happens before anything touches storage.
type Service struct {
	repo          BillingRepositoryInterface
	notifications NotificationSender
	secret        string
	loggerf       func(format string, args ...interface{})
}

func NewService(repo BillingRepositoryInterface, notifications NotificationSender, secret string, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		repo:          repo,
		notifications: notifications,
		secret:        secret,
		loggerf:       loggerf,
	}
}

// VerifyAndParse validates the provider signature over the raw body, then
// decodes the event envelope. Nothing is written on failure.
func (s *Service) VerifyAndParse(payload []byte, signatureHeader string, now time.Time) (*Event, error) {
	if err := verifySignature(s.secret, payload, signatureHeader, now); err != nil {
		return nil, err
	}

	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, ErrInvalidPayload
	}
	if evt.Type == "" {
		return nil, ErrInvalidPayload
	}
	return &evt, nil
}

// HandleEvent dispatches by event type. Unknown types are logged and
// ignored; the webhook still answers 200 for them.
func (s *Service) HandleEvent(ctx context.Context, evt *Event) error {
	var object map[string]any
	if len(evt.Data.Object) > 0 {
		if err := json.Unmarshal(evt.Data.Object, &object); err != nil {
			return ErrInvalidPayload
		}
	}

	switch evt.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return s.handleSubscription(ctx, evt.Type, object)
	case EventInvoicePaid, EventInvoiceFailed:
		return s.handleInvoice(ctx, evt.Type, object)
	case EventCustomerCreated:
		return s.handleCustomerCreated(ctx, object)
	default:
		s.loggerf("level=info msg=unhandled billing event event_id=%s type=%s", evt.ID, evt.Type)
		return nil
	}
}

func (s *Service) handleSubscription(ctx context.Context, eventType string, object map[string]any) error {
	customerID := cast.ToString(object["customer"])
	if customerID == "" {
		return ErrInvalidPayload
	}

	cust := &domain.BillingCustomer{
		ExternalID:         customerID,
		SubscriptionID:     cast.ToString(object["id"]),
		SubscriptionStatus: cast.ToString(object["status"]),
		PlanID:             planID(object),
	}
	if eventType == EventSubscriptionDeleted {
		cust.SubscriptionStatus = "canceled"
	}
	if end := cast.ToInt64(object["current_period_end"]); end > 0 {
		t := time.Unix(end, 0).UTC()
		cust.CurrentPeriodEnd = &t
	}

	if err := s.repo.UpsertCustomer(ctx, cust); err != nil {
		return err
	}

	entityID := cust.ID
	s.notify(ctx, eventType, cust.UserID, "billing_customer", &entityID)
	return nil
}

func (s *Service) handleInvoice(ctx context.Context, eventType string, object map[string]any) error {
	invoiceID := cast.ToString(object["id"])
	customerID := cast.ToString(object["customer"])
	if invoiceID == "" || customerID == "" {
		return ErrInvalidPayload
	}

	inv := &domain.BillingInvoice{
		ExternalID:         invoiceID,
		CustomerExternalID: customerID,
		AmountDue:          cast.ToFloat64(object["amount_due"]) / 100,
		AmountPaid:         cast.ToFloat64(object["amount_paid"]) / 100,
		Currency:           cast.ToString(object["currency"]),
		Status:             cast.ToString(object["status"]),
	}
	if eventType == EventInvoicePaid {
		now := time.Now().UTC()
		inv.PaidAt = &now
	}

	// The invoice event only carries the provider customer id; the local
	// user comes from the mirror row.
	if cust, err := s.repo.GetCustomerByExternalID(ctx, customerID); err == nil {
		inv.UserID = cust.UserID
	}

	if err := s.repo.UpsertInvoice(ctx, inv); err != nil {
		return err
	}

	entityID := inv.ID
	s.notify(ctx, eventType, inv.UserID, "billing_invoice", &entityID)
	return nil
}

func (s *Service) handleCustomerCreated(ctx context.Context, object map[string]any) error {
	customerID := cast.ToString(object["id"])
	if customerID == "" {
		return ErrInvalidPayload
	}

	cust := &domain.BillingCustomer{
		ExternalID: customerID,
		Email:      cast.ToString(object["email"]),
	}
	if meta, ok := object["metadata"].(map[string]any); ok {
		cust.UserID = cast.ToInt64(meta["user_id"])
	}

	if err := s.repo.UpsertCustomer(ctx, cust); err != nil {
		return err
	}

	entityID := cust.ID
	s.notify(ctx, EventCustomerCreated, cust.UserID, "billing_customer", &entityID)
	return nil
}

// notify sends the fixed notification for the event type. Best-effort: a
// missing user or a send failure is logged, never propagated.
func (s *Service) notify(ctx context.Context, eventType string, userID int64, entityType string, entityID *int64) {
	entry, ok := notificationTable[eventType]
	if !ok {
		return
	}
	if userID == 0 {
		s.loggerf("level=warn msg=billing notification skipped, no local user type=%s", eventType)
		return
	}

	err := s.notifications.Send(ctx, &notification.Notification{
		UserID:     userID,
		Type:       entry.ntype,
		Title:      entry.title,
		Message:    entry.message,
		EntityType: entityType,
		EntityID:   entityID,
		ActionURL:  "/dashboard/billing",
	})
	if err != nil {
		s.loggerf("level=warn msg=billing notification failed user_id=%d type=%s err=%v", userID, eventType, err)
	}
}

func planID(object map[string]any) string {
	if plan, ok := object["plan"].(map[string]any); ok {
		return cast.ToString(plan["id"])
	}
	return ""
}
