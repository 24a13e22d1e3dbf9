package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/gateway"
	"github.com/kliqtmedia/ms-go-billing/app/repository"
	"github.com/kliqtmedia/ms-go-billing/config"
)

type sessionUpsertRepository interface {
	UpsertCompleted(ctx context.Context, session *entity.CheckoutSession) error
}

type orderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Order, error)
}

type paymentUpsertRepository interface {
	Upsert(ctx context.Context, payment *entity.Payment) error
}

type customerUpsertRepository interface {
	Upsert(ctx context.Context, customer *entity.Customer) error
}

type webhookEventRepository interface {
	Create(ctx context.Context, event *entity.WebhookEvent) error
}

type WebhookService struct {
	gateway      gateway.Gateway
	sessionRepo  sessionUpsertRepository
	orderRepo    orderRepository
	paymentRepo  paymentUpsertRepository
	customerRepo customerUpsertRepository
	eventRepo    webhookEventRepository
	webhookCfg   config.WebhookConfig
	logger       logrus.FieldLogger
}

func NewWebhookService(
	gw gateway.Gateway,
	sessionRepo sessionUpsertRepository,
	orderRepo orderRepository,
	paymentRepo paymentUpsertRepository,
	customerRepo customerUpsertRepository,
	eventRepo webhookEventRepository,
	webhookCfg config.WebhookConfig,
	logger logrus.FieldLogger,
) *WebhookService {
	return &WebhookService{
		gateway:      gw,
		sessionRepo:  sessionRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
		webhookCfg:   webhookCfg,
		logger:       logger,
	}
}

// HandleEvent verifies a raw provider notification and reconciles local
// state from it. Verification failures reject the event outright; nothing
// is written. Reconcile failures are either swallowed (acknowledged, so
// the provider does not retry) or surfaced, depending on configuration.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyEvent(payload, signatureHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEventRejected, err)
	}

	s.recordEvent(ctx, event, payload)

	logger := s.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	var reconcileErr error
	switch data := event.Data.(type) {
	case *gateway.CheckoutSessionCompleted:
		reconcileErr = s.applySessionCompleted(ctx, &data.Session)
	case *gateway.PaymentSucceeded:
		reconcileErr = s.applyPaymentUpdate(ctx, &data.Intent, entity.PaymentStatusSucceeded)
	case *gateway.PaymentFailed:
		reconcileErr = s.applyPaymentUpdate(ctx, &data.Intent, entity.PaymentStatusFailed)
	case *gateway.CustomerCreated:
		reconcileErr = s.applyCustomerCreated(ctx, &data.Customer)
	case *gateway.UnknownEvent:
		logger.Debug("ignoring unhandled event type")
		return nil
	default:
		logger.Debug("ignoring unhandled event type")
		return nil
	}

	if reconcileErr != nil {
		if s.webhookCfg.AckOnReconcileError {
			logger.WithError(reconcileErr).Error("event acknowledged but reconciliation failed")
			return nil
		}
		return fmt.Errorf("%w: %v", ErrReconcileFailed, reconcileErr)
	}

	return nil
}

func (s *WebhookService) applySessionCompleted(ctx context.Context, session *gateway.SessionObject) error {
	now := time.Now().UTC()

	record := &entity.CheckoutSession{
		SessionID:        session.ID,
		Status:           entity.CheckoutSessionStatusCompleted,
		AmountTotal:      &session.AmountTotal,
		CustomerEmail:    optionalString(session.CustomerEmail),
		Currency:         optionalString(session.Currency),
		PaymentStatus:    optionalString(session.PaymentStatus),
		StripeCustomerID: optionalString(session.CustomerID),
		Metadata:         cloneMetadata(session.Metadata),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessionRepo.UpsertCompleted(ctx, record); err != nil {
		return fmt.Errorf("upsert checkout session %s: %w", session.ID, err)
	}

	order := &entity.Order{
		StripeSessionID:       session.ID,
		StripePaymentIntentID: optionalString(session.PaymentIntent),
		StripeCustomerID:      optionalString(session.CustomerID),
		CustomerEmail:         optionalString(session.CustomerEmail),
		AmountTotal:           session.AmountTotal,
		Currency:              session.Currency,
		Status:                entity.OrderStatusPending,
		Metadata:              cloneMetadata(session.Metadata),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create order for session %s: %w", session.ID, err)
	}

	return nil
}

func (s *WebhookService) applyPaymentUpdate(ctx context.Context, intent *gateway.PaymentIntentObject, status string) error {
	now := time.Now().UTC()

	payment := &entity.Payment{
		StripePaymentIntentID: intent.ID,
		Amount:                intent.Amount,
		Currency:              intent.Currency,
		Status:                status,
		ReceiptEmail:          optionalString(intent.ReceiptEmail),
		Metadata:              cloneMetadata(intent.Metadata),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if status == entity.PaymentStatusFailed {
		payment.FailureReason = optionalString(intent.FailureReason)
	}

	order, err := s.orderRepo.FindByPaymentIntentID(ctx, intent.ID)
	if err != nil {
		return fmt.Errorf("resolve order for intent %s: %w", intent.ID, err)
	}
	if order != nil {
		orderID := order.ID
		payment.OrderID = &orderID
	}

	if err := s.paymentRepo.Upsert(ctx, payment); err != nil {
		return fmt.Errorf("upsert payment %s: %w", intent.ID, err)
	}

	return nil
}

func (s *WebhookService) applyCustomerCreated(ctx context.Context, customer *gateway.CustomerObject) error {
	now := time.Now().UTC()

	record := &entity.Customer{
		StripeCustomerID: customer.ID,
		Email:            optionalString(customer.Email),
		Name:             optionalString(customer.Name),
		Metadata:         cloneMetadata(customer.Metadata),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.customerRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert customer %s: %w", customer.ID, err)
	}

	return nil
}

// recordEvent appends the verified payload to the audit log. Failures are
// logged and never block reconciliation.
func (s *WebhookService) recordEvent(ctx context.Context, event *gateway.Event, payload []byte) {
	record := &entity.WebhookEvent{
		ProviderEventID: optionalString(event.ID),
		EventType:       event.Type,
		PayloadJSON:     string(payload),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.eventRepo.Create(ctx, record); err != nil {
		s.logger.WithError(err).WithField("event_id", event.ID).
			Warn("failed to record webhook event")
	}
}
