package billing

import (
	"context"
	"testing"
	"time"

	"asesoria/internal/domain"
	"asesoria/internal/modules/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "whsec_test"

type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) UpsertCustomer(ctx context.Context, c *domain.BillingCustomer) error {
	args := m.Called(ctx, c)
	if c != nil {
		c.ID = 501 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBillingRepository) UpsertInvoice(ctx context.Context, inv *domain.BillingInvoice) error {
	args := m.Called(ctx, inv)
	if inv != nil {
		inv.ID = 601
	}
	return args.Error(0)
}

func (m *MockBillingRepository) GetCustomerByExternalID(ctx context.Context, externalID string) (*domain.BillingCustomer, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingCustomer), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) Send(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func signedEvent(t *testing.T, body string) (*Event, *MockBillingRepository, *MockNotificationSender, *Service) {
	t.Helper()
	mockRepo := new(MockBillingRepository)
	mockNotifs := new(MockNotificationSender)
	service := NewService(mockRepo, mockNotifs, testSecret, nil)

	now := time.Now()
	evt, err := service.VerifyAndParse([]byte(body), SignPayload(testSecret, []byte(body), now), now)
	require.NoError(t, err)
	return evt, mockRepo, mockNotifs, service
}

func TestService_VerifyAndParse_BadSignature(t *testing.T) {
	mockRepo := new(MockBillingRepository)
	mockNotifs := new(MockNotificationSender)
	service := NewService(mockRepo, mockNotifs, testSecret, nil)

	body := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	now := time.Now()

	_, err := service.VerifyAndParse(body, SignPayload("wrong-secret", body, now), now)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = service.VerifyAndParse(body, "garbage", now)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	mockRepo.AssertNotCalled(t, "UpsertCustomer", mock.Anything, mock.Anything)
}

func TestService_VerifyAndParse_StaleTimestamp(t *testing.T) {
	service := NewService(new(MockBillingRepository), new(MockNotificationSender), testSecret, nil)

	body := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	signed := time.Now().Add(-10 * time.Minute)

	_, err := service.VerifyAndParse(body, SignPayload(testSecret, body, signed), time.Now())
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestService_VerifyAndParse_TamperedBody(t *testing.T) {
	service := NewService(new(MockBillingRepository), new(MockNotificationSender), testSecret, nil)

	body := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	now := time.Now()
	header := SignPayload(testSecret, body, now)

	tampered := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{"id":"cus_999"}}}`)
	_, err := service.VerifyAndParse(tampered, header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestService_HandleEvent_SubscriptionCreated(t *testing.T) {
	body := `{"id":"evt_1","type":"customer.subscription.created","data":{"object":{
		"id":"sub_1","customer":"cus_1","status":"active",
		"plan":{"id":"plan_pro"},"current_period_end":1766000000}}}`
	evt, mockRepo, mockNotifs, service := signedEvent(t, body)

	mockRepo.On("UpsertCustomer", mock.Anything, mock.MatchedBy(func(c *domain.BillingCustomer) bool {
		return c.ExternalID == "cus_1" && c.SubscriptionID == "sub_1" &&
			c.SubscriptionStatus == "active" && c.PlanID == "plan_pro" &&
			c.CurrentPeriodEnd != nil
	})).Return(nil)
	// no local user resolved from this payload, so no notification is sent

	err := service.HandleEvent(context.Background(), evt)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockNotifs.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestService_HandleEvent_SubscriptionDeletedForcesCanceled(t *testing.T) {
	body := `{"id":"evt_2","type":"customer.subscription.deleted","data":{"object":{
		"id":"sub_1","customer":"cus_1","status":"active"}}}`
	evt, mockRepo, _, service := signedEvent(t, body)

	mockRepo.On("UpsertCustomer", mock.Anything, mock.MatchedBy(func(c *domain.BillingCustomer) bool {
		return c.SubscriptionStatus == "canceled"
	})).Return(nil)

	err := service.HandleEvent(context.Background(), evt)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEvent_InvoicePaidNotifiesLocalUser(t *testing.T) {
	body := `{"id":"evt_3","type":"invoice.payment_succeeded","data":{"object":{
		"id":"in_1","customer":"cus_1","amount_due":4500,"amount_paid":4500,
		"currency":"eur","status":"paid"}}}`
	evt, mockRepo, mockNotifs, service := signedEvent(t, body)

	mockRepo.On("GetCustomerByExternalID", mock.Anything, "cus_1").
		Return(&domain.BillingCustomer{ID: 501, ExternalID: "cus_1", UserID: 42}, nil)
	mockRepo.On("UpsertInvoice", mock.Anything, mock.MatchedBy(func(inv *domain.BillingInvoice) bool {
		return inv.ExternalID == "in_1" && inv.UserID == 42 &&
			inv.AmountDue == 45.0 && inv.AmountPaid == 45.0 && inv.PaidAt != nil
	})).Return(nil)
	mockNotifs.On("Send", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.UserID == 42 && n.Type == notification.TypePaymentSucceeded && n.Title == "Pago recibido"
	})).Return(nil)

	err := service.HandleEvent(context.Background(), evt)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockNotifs.AssertExpectations(t)
}

func TestService_HandleEvent_InvoiceForUnknownCustomerStillStored(t *testing.T) {
	body := `{"id":"evt_4","type":"invoice.payment_failed","data":{"object":{
		"id":"in_2","customer":"cus_ghost","amount_due":9900,"currency":"eur","status":"open"}}}`
	evt, mockRepo, mockNotifs, service := signedEvent(t, body)

	mockRepo.On("GetCustomerByExternalID", mock.Anything, "cus_ghost").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("UpsertInvoice", mock.Anything, mock.MatchedBy(func(inv *domain.BillingInvoice) bool {
		return inv.UserID == 0 && inv.PaidAt == nil
	})).Return(nil)

	err := service.HandleEvent(context.Background(), evt)

	assert.NoError(t, err)
	mockNotifs.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestService_HandleEvent_CustomerCreatedLinksMetadataUser(t *testing.T) {
	body := `{"id":"evt_5","type":"customer.created","data":{"object":{
		"id":"cus_1","email":"cliente@asesoria.local","metadata":{"user_id":"42"}}}}`
	evt, mockRepo, mockNotifs, service := signedEvent(t, body)

	mockRepo.On("UpsertCustomer", mock.Anything, mock.MatchedBy(func(c *domain.BillingCustomer) bool {
		return c.ExternalID == "cus_1" && c.UserID == 42 && c.Email == "cliente@asesoria.local"
	})).Return(nil)
	mockNotifs.On("Send", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Type == notification.TypeBillingWelcome && n.UserID == 42
	})).Return(nil)

	err := service.HandleEvent(context.Background(), evt)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockNotifs.AssertExpectations(t)
}

func TestService_HandleEvent_UnknownTypeIgnored(t *testing.T) {
	body := `{"id":"evt_6","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`
	evt, mockRepo, mockNotifs, service := signedEvent(t, body)

	err := service.HandleEvent(context.Background(), evt)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpsertCustomer", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpsertInvoice", mock.Anything, mock.Anything)
	mockNotifs.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestService_HandleEvent_MissingCustomerIsInvalid(t *testing.T) {
	body := `{"id":"evt_7","type":"customer.subscription.created","data":{"object":{"id":"sub_1"}}}`
	evt, _, _, service := signedEvent(t, body)

	err := service.HandleEvent(context.Background(), evt)

	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestService_HandleEvent_NotificationFailureIsSwallowed(t *testing.T) {
	body := `{"id":"evt_8","type":"customer.created","data":{"object":{
		"id":"cus_1","metadata":{"user_id":7}}}}`
	evt, mockRepo, mockNotifs, service := signedEvent(t, body)

	mockRepo.On("UpsertCustomer", mock.Anything, mock.Anything).Return(nil)
	mockNotifs.On("Send", mock.Anything, mock.Anything).Return(assert.AnError)

	err := service.HandleEvent(context.Background(), evt)

	assert.NoError(t, err)
}
