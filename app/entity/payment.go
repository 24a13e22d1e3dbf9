package entity

import "time"

const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	ID uint64

	StripePaymentIntentID string
	OrderID               *uint64

	Amount   int64
	Currency string
	Status   string

	ReceiptEmail  *string
	FailureReason *string

	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}
