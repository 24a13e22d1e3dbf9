package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

const apiKeyPrefix = "kliqt_"

type apiKeyRepository interface {
	Create(ctx context.Context, key *entity.APIKey) error
	FindActiveByKey(ctx context.Context, rawKey string) (*entity.APIKey, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.APIKey, error)
	TouchLastUsed(ctx context.Context, id uint64, now time.Time) error
}

type APIKeyService struct {
	keyRepo apiKeyRepository
	logger  logrus.FieldLogger
}

func NewAPIKeyService(keyRepo apiKeyRepository, logger logrus.FieldLogger) *APIKeyService {
	return &APIKeyService{keyRepo: keyRepo, logger: logger}
}

func (s *APIKeyService) Generate(ctx context.Context, userID string, req *types.GenerateAPIKeyRequest) (*entity.APIKey, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}

	now := time.Now().UTC()
	key := &entity.APIKey{
		UserID:    userID,
		Key:       apiKeyPrefix + uuid.NewString(),
		Name:      req.Name,
		Scopes:    req.Scopes,
		IsActive:  true,
		ExpiresAt: req.ExpiryTime(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.keyRepo.Create(ctx, key); err != nil {
		return nil, err
	}

	return key, nil
}

func (s *APIKeyService) ListForUser(ctx context.Context, userID string) ([]*entity.APIKey, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	return s.keyRepo.ListByUser(ctx, userID)
}

// Authenticate resolves a raw key and checks it carries the required scope.
// A successful lookup stamps last_used_at, best effort.
func (s *APIKeyService) Authenticate(ctx context.Context, rawKey, requiredScope string) (*entity.APIKey, error) {
	if rawKey == "" {
		return nil, ErrAPIKeyNotFound
	}

	key, err := s.keyRepo.FindActiveByKey(ctx, rawKey)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrAPIKeyNotFound
	}

	now := time.Now().UTC()
	if key.ExpiresAt != nil && key.ExpiresAt.Before(now) {
		return nil, ErrAPIKeyExpired
	}
	if !key.HasScope(requiredScope) {
		return nil, ErrInsufficientScope
	}

	if err := s.keyRepo.TouchLastUsed(ctx, key.ID, now); err != nil {
		s.logger.WithError(err).WithField("api_key_id", key.ID).
			Warn("failed to stamp api key last_used_at")
	}

	return key, nil
}
