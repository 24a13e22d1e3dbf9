package types

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

type GenerateAPIKeyRequest struct {
	Name      string   `json:"name"`
	Scopes    []string `json:"scopes"`
	ExpiresAt string   `json:"expires_at"`

	expiresAt *time.Time
}

func NewGenerateAPIKeyRequestFromContext(ctx echo.Context) (*GenerateAPIKeyRequest, error) {
	var body GenerateAPIKeyRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Name = strings.TrimSpace(body.Name)
	body.ExpiresAt = strings.TrimSpace(body.ExpiresAt)
	for i, scope := range body.Scopes {
		body.Scopes[i] = strings.ToLower(strings.TrimSpace(scope))
	}

	return &body, nil
}

func (r *GenerateAPIKeyRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Scopes) == 0 {
		return errors.New("at least one scope is required")
	}
	for _, scope := range r.Scopes {
		switch scope {
		case entity.APIKeyScopeReadJobs, entity.APIKeyScopePostJobs, entity.APIKeyScopeManageJobs:
		default:
			return errors.New("invalid scope: " + scope)
		}
	}
	if r.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, r.ExpiresAt)
		if err != nil {
			return errors.New("expires_at must be RFC3339")
		}
		if expiresAt.Before(time.Now()) {
			return errors.New("expires_at must be in the future")
		}
		r.expiresAt = &expiresAt
	}
	return nil
}

// ExpiryTime returns the parsed expires_at, set during Validate.
func (r *GenerateAPIKeyRequest) ExpiryTime() *time.Time {
	return r.expiresAt
}

type APIKeyResponse struct {
	ID         uint64   `json:"id"`
	Key        string   `json:"key,omitempty"`
	Name       string   `json:"name"`
	Scopes     []string `json:"scopes"`
	IsActive   bool     `json:"is_active"`
	ExpiresAt  *string  `json:"expires_at,omitempty"`
	LastUsedAt *string  `json:"last_used_at,omitempty"`
	CreatedAt  string   `json:"created_at"`
}

type ListAPIKeysResponse struct {
	Keys []*APIKeyResponse `json:"keys"`
}
