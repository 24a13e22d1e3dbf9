package entity

import "time"

const (
	CheckoutSessionStatusPending   = "pending"
	CheckoutSessionStatusCompleted = "completed"
)

type CheckoutSession struct {
	ID uint64

	SessionID string

	PriceID       string
	CustomerEmail *string

	Status        string
	AmountTotal   *int64
	Currency      *string
	PaymentStatus *string

	StripeCustomerID *string

	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}
