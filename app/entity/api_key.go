package entity

import "time"

const (
	APIKeyScopeReadJobs   = "read_jobs"
	APIKeyScopePostJobs   = "post_jobs"
	APIKeyScopeManageJobs = "manage_jobs"
)

type APIKey struct {
	ID uint64

	UserID string
	Key    string
	Name   string
	Scopes []string

	IsActive   bool
	ExpiresAt  *time.Time
	LastUsedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (k *APIKey) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
