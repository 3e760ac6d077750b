package billing

import "encoding/json"

// Event types dispatched by the webhook handler. Anything else is logged and
// ignored.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventInvoiceFailed       = "invoice.payment_failed"
	EventCustomerCreated     = "customer.created"
)

// Event is the provider's webhook envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}
