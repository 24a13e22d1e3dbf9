package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/gateway"
	"github.com/kliqtmedia/ms-go-billing/app/types"
	"github.com/kliqtmedia/ms-go-billing/config"
)

const defaultCheckoutTimeout = 15 * time.Second

type checkoutSessionRepository interface {
	Create(ctx context.Context, session *entity.CheckoutSession) error
}

type CheckoutService struct {
	gateway     gateway.Gateway
	sessionRepo checkoutSessionRepository
	checkoutCfg config.CheckoutConfig
	logger      logrus.FieldLogger
}

func NewCheckoutService(
	gw gateway.Gateway,
	sessionRepo checkoutSessionRepository,
	checkoutCfg config.CheckoutConfig,
	logger logrus.FieldLogger,
) *CheckoutService {
	return &CheckoutService{
		gateway:     gw,
		sessionRepo: sessionRepo,
		checkoutCfg: checkoutCfg,
		logger:      logger,
	}
}

func (s *CheckoutService) CreateSession(ctx context.Context, req *types.CreateCheckoutSessionRequest) (*gateway.CreateSessionOutput, error) {
	if req == nil || req.PriceID == "" {
		return nil, ErrMissingPriceReference
	}

	timeout := s.checkoutCfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultCheckoutTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	metadata := cloneMetadata(req.Metadata)
	metadata["price_id"] = req.PriceID
	if s.checkoutCfg.MetadataSource != "" {
		metadata["source"] = s.checkoutCfg.MetadataSource
	}

	output, err := s.gateway.CreateCheckoutSession(ctx, &gateway.CreateSessionInput{
		PriceID:       req.PriceID,
		SuccessURL:    s.checkoutCfg.SuccessURL,
		CancelURL:     s.checkoutCfg.CancelURL,
		CustomerEmail: req.CustomerEmail,
		Metadata:      metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrInvalidPriceReference):
			return nil, ErrInvalidPriceReference
		case errors.Is(err, gateway.ErrGatewayUnavailable):
			return nil, ErrGatewayUnavailable
		default:
			return nil, err
		}
	}

	now := time.Now().UTC()
	session := &entity.CheckoutSession{
		SessionID: output.SessionID,
		PriceID:   req.PriceID,
		Status:    entity.CheckoutSessionStatusPending,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.CustomerEmail != "" {
		email := req.CustomerEmail
		session.CustomerEmail = &email
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if s.checkoutCfg.AuditWriteFatal {
			return nil, err
		}
		s.logger.WithError(err).WithField("session_id", output.SessionID).
			Error("failed to record pending checkout session")
	}

	return output, nil
}

func cloneMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	s := v
	return &s
}
