package entity

import "time"

type Customer struct {
	ID uint64

	StripeCustomerID string

	Email *string
	Name  *string

	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}
