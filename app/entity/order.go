package entity

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID uint64

	StripeSessionID       string
	StripePaymentIntentID *string
	StripeCustomerID      *string

	CustomerEmail *string

	AmountTotal int64
	Currency    string
	Status      string

	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}
