package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/gateway"
	"github.com/kliqtmedia/ms-go-billing/app/repository"
	"github.com/kliqtmedia/ms-go-billing/config"
)

type fakeGateway struct {
	createOutput *gateway.CreateSessionOutput
	createErr    error
	createInput  *gateway.CreateSessionInput

	event     *gateway.Event
	verifyErr error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, input *gateway.CreateSessionInput) (*gateway.CreateSessionOutput, error) {
	g.createInput = input
	if g.createErr != nil {
		return nil, g.createErr
	}
	if g.createOutput != nil {
		return g.createOutput, nil
	}
	return &gateway.CreateSessionOutput{
		SessionID:   "cs_test_123",
		RedirectURL: "https://checkout.stripe.example/cs_test_123",
	}, nil
}

func (g *fakeGateway) VerifyEvent([]byte, string) (*gateway.Event, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.event, nil
}

type fakeSessionRepo struct {
	created   []*entity.CheckoutSession
	completed []*entity.CheckoutSession
	createErr error
	upsertErr error
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.CheckoutSession) error {
	if r.createErr != nil {
		return r.createErr
	}
	copyItem := *session
	r.created = append(r.created, &copyItem)
	return nil
}

func (r *fakeSessionRepo) UpsertCompleted(_ context.Context, session *entity.CheckoutSession) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	copyItem := *session
	r.completed = append(r.completed, &copyItem)
	return nil
}

type fakeOrderRepo struct {
	orders    map[string]*entity.Order
	nextID    uint64
	createErr error
	findErr   error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entity.Order{}, nextID: 1}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.orders[order.StripeSessionID]; ok {
		return repository.ErrOrderAlreadyExists
	}
	copyItem := *order
	copyItem.ID = r.nextID
	r.nextID++
	r.orders[order.StripeSessionID] = &copyItem
	order.ID = copyItem.ID
	return nil
}

func (r *fakeOrderRepo) FindByPaymentIntentID(_ context.Context, paymentIntentID string) (*entity.Order, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, order := range r.orders {
		if order.StripePaymentIntentID != nil && *order.StripePaymentIntentID == paymentIntentID {
			copyItem := *order
			return &copyItem, nil
		}
	}
	return nil, nil
}

type fakePaymentRepo struct {
	payments  map[string]*entity.Payment
	upsertErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*entity.Payment{}}
}

func (r *fakePaymentRepo) Upsert(_ context.Context, payment *entity.Payment) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	copyItem := *payment
	if existing, ok := r.payments[payment.StripePaymentIntentID]; ok {
		copyItem.ID = existing.ID
		if copyItem.OrderID == nil {
			copyItem.OrderID = existing.OrderID
		}
	} else {
		copyItem.ID = uint64(len(r.payments) + 1)
	}
	r.payments[payment.StripePaymentIntentID] = &copyItem
	return nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
	upsertErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*entity.Customer{}}
}

func (r *fakeCustomerRepo) Upsert(_ context.Context, customer *entity.Customer) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	copyItem := *customer
	r.customers[customer.StripeCustomerID] = &copyItem
	return nil
}

type fakeEventRepo struct {
	events    []*entity.WebhookEvent
	createErr error
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.WebhookEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	copyItem := *event
	r.events = append(r.events, &copyItem)
	return nil
}

func newTestLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type webhookFixture struct {
	gateway      *fakeGateway
	sessionRepo  *fakeSessionRepo
	orderRepo    *fakeOrderRepo
	paymentRepo  *fakePaymentRepo
	customerRepo *fakeCustomerRepo
	eventRepo    *fakeEventRepo
}

func newWebhookServiceForTest(fx *webhookFixture, cfg config.WebhookConfig) *WebhookService {
	return NewWebhookService(
		fx.gateway,
		fx.sessionRepo,
		fx.orderRepo,
		fx.paymentRepo,
		fx.customerRepo,
		fx.eventRepo,
		cfg,
		newTestLogger(),
	)
}

func newWebhookFixture(event *gateway.Event) *webhookFixture {
	return &webhookFixture{
		gateway:      &fakeGateway{event: event},
		sessionRepo:  &fakeSessionRepo{},
		orderRepo:    newFakeOrderRepo(),
		paymentRepo:  newFakePaymentRepo(),
		customerRepo: newFakeCustomerRepo(),
		eventRepo:    &fakeEventRepo{},
	}
}

func sessionCompletedEvent(sessionID, intentID string) *gateway.Event {
	return &gateway.Event{
		ID:   "evt_" + sessionID,
		Type: "checkout.session.completed",
		Data: &gateway.CheckoutSessionCompleted{Session: gateway.SessionObject{
			ID:            sessionID,
			CustomerID:    "cus_123",
			CustomerEmail: "buyer@example.com",
			PaymentIntent: intentID,
			AmountTotal:   4999,
			Currency:      "gbp",
			PaymentStatus: "paid",
			Metadata:      map[string]string{"price_id": "price_123"},
		}},
	}
}

func TestHandleEventRejectsInvalidSignatureWithoutStateChange(t *testing.T) {
	fx := newWebhookFixture(nil)
	fx.gateway.verifyErr = gateway.ErrInvalidSignature
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: true})

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "t=1,v1=bad")
	if !errors.Is(err, ErrEventRejected) {
		t.Fatalf("expected ErrEventRejected, got %v", err)
	}
	if len(fx.orderRepo.orders) != 0 || len(fx.sessionRepo.completed) != 0 || len(fx.eventRepo.events) != 0 {
		t.Fatal("rejected event must not touch any table")
	}
}

func TestHandleSessionCompletedCreatesOrderAndCompletesSession(t *testing.T) {
	fx := newWebhookFixture(sessionCompletedEvent("cs_1", "pi_1"))
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: true})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("handle event failed: %v", err)
	}

	order, ok := fx.orderRepo.orders["cs_1"]
	if !ok {
		t.Fatal("expected order for session cs_1")
	}
	if order.Status != entity.OrderStatusPending {
		t.Fatalf("new orders start pending, got %s", order.Status)
	}
	if order.StripePaymentIntentID == nil || *order.StripePaymentIntentID != "pi_1" {
		t.Fatal("expected payment intent id carried onto the order")
	}
	if order.AmountTotal != 4999 || order.Currency != "gbp" {
		t.Fatalf("unexpected order amount: %d %s", order.AmountTotal, order.Currency)
	}

	if len(fx.sessionRepo.completed) != 1 {
		t.Fatalf("expected one session upsert, got %d", len(fx.sessionRepo.completed))
	}
	if fx.sessionRepo.completed[0].Status != entity.CheckoutSessionStatusCompleted {
		t.Fatalf("unexpected session status: %s", fx.sessionRepo.completed[0].Status)
	}
	if len(fx.eventRepo.events) != 1 {
		t.Fatalf("expected one audit row, got %d", len(fx.eventRepo.events))
	}
}

func TestHandleSessionCompletedIsIdempotent(t *testing.T) {
	fx := newWebhookFixture(sessionCompletedEvent("cs_1", "pi_1"))
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	for i := 0; i < 3; i++ {
		if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
			t.Fatalf("delivery %d failed: %v", i+1, err)
		}
	}

	if len(fx.orderRepo.orders) != 1 {
		t.Fatalf("expected exactly one order after redeliveries, got %d", len(fx.orderRepo.orders))
	}
}

func TestHandlePaymentSucceededResolvesOrder(t *testing.T) {
	fx := newWebhookFixture(sessionCompletedEvent("cs_1", "pi_1"))
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})
	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("session event failed: %v", err)
	}

	fx.gateway.event = &gateway.Event{
		ID:   "evt_pi_1",
		Type: "payment_intent.succeeded",
		Data: &gateway.PaymentSucceeded{Intent: gateway.PaymentIntentObject{
			ID:           "pi_1",
			Amount:       4999,
			Currency:     "gbp",
			ReceiptEmail: "buyer@example.com",
		}},
	}
	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("payment event failed: %v", err)
	}

	payment, ok := fx.paymentRepo.payments["pi_1"]
	if !ok {
		t.Fatal("expected payment pi_1")
	}
	if payment.Status != entity.PaymentStatusSucceeded {
		t.Fatalf("unexpected payment status: %s", payment.Status)
	}
	if payment.OrderID == nil {
		t.Fatal("expected payment linked to its order")
	}
}

func TestHandlePaymentSucceededBeforeSessionLeavesOrderUnlinked(t *testing.T) {
	fx := newWebhookFixture(&gateway.Event{
		ID:   "evt_pi_9",
		Type: "payment_intent.succeeded",
		Data: &gateway.PaymentSucceeded{Intent: gateway.PaymentIntentObject{
			ID:       "pi_9",
			Amount:   1500,
			Currency: "gbp",
		}},
	})
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("payment event failed: %v", err)
	}

	payment := fx.paymentRepo.payments["pi_9"]
	if payment == nil {
		t.Fatal("expected payment pi_9")
	}
	if payment.OrderID != nil {
		t.Fatal("payment with no matching order must stay unlinked")
	}
}

func TestHandlePaymentFailedRecordsReasonThenSucceededOverwrites(t *testing.T) {
	fx := newWebhookFixture(&gateway.Event{
		ID:   "evt_fail",
		Type: "payment_intent.payment_failed",
		Data: &gateway.PaymentFailed{Intent: gateway.PaymentIntentObject{
			ID:            "pi_2",
			Amount:        2000,
			Currency:      "gbp",
			FailureReason: "card_declined",
		}},
	})
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("failed event errored: %v", err)
	}

	payment := fx.paymentRepo.payments["pi_2"]
	if payment.Status != entity.PaymentStatusFailed {
		t.Fatalf("unexpected status: %s", payment.Status)
	}
	if payment.FailureReason == nil || *payment.FailureReason != "card_declined" {
		t.Fatal("expected failure reason recorded")
	}

	fx.gateway.event = &gateway.Event{
		ID:   "evt_retry",
		Type: "payment_intent.succeeded",
		Data: &gateway.PaymentSucceeded{Intent: gateway.PaymentIntentObject{
			ID:       "pi_2",
			Amount:   2000,
			Currency: "gbp",
		}},
	}
	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("retry event errored: %v", err)
	}

	payment = fx.paymentRepo.payments["pi_2"]
	if payment.Status != entity.PaymentStatusSucceeded {
		t.Fatalf("later delivery wins, got %s", payment.Status)
	}
	if payment.FailureReason != nil {
		t.Fatal("successful payment must not keep a failure reason")
	}
}

func TestHandleCustomerCreatedUpserts(t *testing.T) {
	fx := newWebhookFixture(&gateway.Event{
		ID:   "evt_cus",
		Type: "customer.created",
		Data: &gateway.CustomerCreated{Customer: gateway.CustomerObject{
			ID:    "cus_9",
			Email: "new@example.com",
			Name:  "New Customer",
		}},
	})
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("customer event failed: %v", err)
	}
	if _, ok := fx.customerRepo.customers["cus_9"]; !ok {
		t.Fatal("expected customer cus_9 upserted")
	}
}

func TestHandleUnknownEventIsAcknowledged(t *testing.T) {
	fx := newWebhookFixture(&gateway.Event{
		ID:   "evt_sub",
		Type: "invoice.paid",
		Data: &gateway.UnknownEvent{},
	})
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("unknown event must be acknowledged, got %v", err)
	}
	if len(fx.orderRepo.orders) != 0 || len(fx.paymentRepo.payments) != 0 {
		t.Fatal("unknown event must not write domain state")
	}
	if len(fx.eventRepo.events) != 1 {
		t.Fatal("unknown event is still audited")
	}
}

func TestHandleEventReconcileFailureIsSwallowedWhenAckPolicyOn(t *testing.T) {
	fx := newWebhookFixture(sessionCompletedEvent("cs_1", "pi_1"))
	fx.orderRepo.createErr = errors.New("connection reset")
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: true})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("ack policy must swallow reconcile failures, got %v", err)
	}
}

func TestHandleEventReconcileFailureSurfacesWhenAckPolicyOff(t *testing.T) {
	fx := newWebhookFixture(sessionCompletedEvent("cs_1", "pi_1"))
	fx.orderRepo.createErr = errors.New("connection reset")
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	if !errors.Is(err, ErrReconcileFailed) {
		t.Fatalf("expected ErrReconcileFailed, got %v", err)
	}
}

func TestHandleEventAuditFailureDoesNotBlockReconcile(t *testing.T) {
	fx := newWebhookFixture(sessionCompletedEvent("cs_1", "pi_1"))
	fx.eventRepo.createErr = errors.New("table full")
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("audit failure must not block reconcile, got %v", err)
	}
	if len(fx.orderRepo.orders) != 1 {
		t.Fatal("expected order despite audit failure")
	}
}

func TestHandleEventSetsCustomerEmailFallback(t *testing.T) {
	event := sessionCompletedEvent("cs_2", "pi_2")
	data := event.Data.(*gateway.CheckoutSessionCompleted)
	data.Session.CustomerEmail = ""
	fx := newWebhookFixture(event)
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	if err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if fx.orderRepo.orders["cs_2"].CustomerEmail != nil {
		t.Fatal("missing email must map to NULL, not empty string")
	}
}

func TestRecordEventStampsPayloadAndType(t *testing.T) {
	fx := newWebhookFixture(sessionCompletedEvent("cs_1", "pi_1"))
	svc := newWebhookServiceForTest(fx, config.WebhookConfig{AckOnReconcileError: false})

	payload := []byte(`{"id":"evt_cs_1"}`)
	if err := svc.HandleEvent(context.Background(), payload, "sig"); err != nil {
		t.Fatalf("handle event failed: %v", err)
	}

	row := fx.eventRepo.events[0]
	if row.EventType != "checkout.session.completed" {
		t.Fatalf("unexpected audit type: %s", row.EventType)
	}
	if row.PayloadJSON != string(payload) {
		t.Fatal("audit row must keep the raw payload")
	}
	if row.ProviderEventID == nil || *row.ProviderEventID != "evt_cs_1" {
		t.Fatal("audit row must keep the provider event id")
	}
	if row.CreatedAt.IsZero() || time.Since(row.CreatedAt) > time.Minute {
		t.Fatal("audit row must be stamped with the current time")
	}
}
