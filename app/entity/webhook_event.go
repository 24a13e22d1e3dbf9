package entity

import "time"

// WebhookEvent is an append-only audit record of verified provider
// notifications. It is never read back by the reconcilers.
type WebhookEvent struct {
	ID uint64

	ProviderEventID *string
	EventType       string
	PayloadJSON     string

	CreatedAt time.Time
}
