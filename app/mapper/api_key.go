package mapper

import (
	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

// APIKeyToResponse hides the raw key. Use NewAPIKeyToResponse for the
// one response that is allowed to reveal it.
func APIKeyToResponse(key *entity.APIKey) *types.APIKeyResponse {
	return &types.APIKeyResponse{
		ID:         key.ID,
		Name:       key.Name,
		Scopes:     key.Scopes,
		IsActive:   key.IsActive,
		ExpiresAt:  formatTimePtr(key.ExpiresAt),
		LastUsedAt: formatTimePtr(key.LastUsedAt),
		CreatedAt:  formatTime(key.CreatedAt),
	}
}

// NewAPIKeyToResponse includes the raw key. It is shown exactly once, at
// generation time.
func NewAPIKeyToResponse(key *entity.APIKey) *types.APIKeyResponse {
	resp := APIKeyToResponse(key)
	resp.Key = key.Key
	return resp
}

func APIKeysToResponse(keys []*entity.APIKey) []*types.APIKeyResponse {
	out := make([]*types.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		out = append(out, APIKeyToResponse(key))
	}
	return out
}
